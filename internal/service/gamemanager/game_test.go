package gamemanager

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/jeopardy-api/internal/domain/entity"
	apperrors "github.com/yourusername/jeopardy-api/internal/pkg/errors"
)

// ============================================================================
// Вспомогательные функции
// ============================================================================

// testConfig возвращает конфигурацию без случайных Daily Double и с командами A, B, C
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.JeopardyDailyDoubles = 0
	cfg.DoubleJeopardyDailyDoubles = 0
	cfg.DefaultTeams = []entity.Team{{Name: "A"}, {Name: "B"}, {Name: "C"}}
	return cfg
}

func clue(text, answer string) *entity.ClueData {
	return &entity.ClueData{Text: text, Answer: answer}
}

// testBoardData строит небольшую полную доску: по две категории в обычных раундах и финал
func testBoardData() *entity.BoardData {
	return &entity.BoardData{
		Rounds: entity.BoardRounds{
			Jeopardy: entity.RoundData{
				Categories: []string{"Science", "History"},
				Questions: map[string]map[int]*entity.ClueData{
					"Science": {
						200: clue("H2O", "Water"),
						400: clue("Closest star", "The Sun"),
						600: clue("Red planet", "Mars"),
					},
					"History": {
						200: clue("First US president", "Washington"),
						400: clue("Year WWII ended", "1945"),
					},
				},
			},
			DoubleJeopardy: entity.RoundData{
				Categories: []string{"Art"},
				Questions: map[string]map[int]*entity.ClueData{
					"Art": {
						400: clue("Painted Mona Lisa", "Da Vinci"),
						800: clue("Starry Night", "Van Gogh"),
					},
				},
			},
			Final: entity.FinalData{Category: "Geography", Question: "Largest ocean", Answer: "Pacific"},
		},
	}
}

func newLoadedGame(t *testing.T, data *entity.BoardData) *Game {
	t.Helper()
	g := NewGame(testConfig(), rand.New(rand.NewSource(1)))
	_, err := g.LoadBoard(data)
	require.NoError(t, err)
	return g
}

// playRound отыгрывает все оставшиеся вопросы текущего раунда неправильными ответами
func playRound(t *testing.T, g *Game) {
	t.Helper()
	round, _ := g.Round(g.CurrentRoundName())
	for _, slot := range round.Slots() {
		q, _ := round.GetQuestion(slot.Category, slot.Value)
		if q.Played {
			continue
		}
		res, err := g.SelectQuestion(slot.Category, slot.Value)
		require.NoError(t, err)
		if res.DailyDouble {
			require.NoError(t, g.SubmitWager(5))
		}
		_, err = g.RecordOutcome(g.CurrentTeamIndex(), false)
		require.NoError(t, err)
	}
}

// ============================================================================
// Создание и загрузка
// ============================================================================

func TestNewGame_AwaitingBoard(t *testing.T) {
	g := NewGame(DefaultConfig(), nil)

	assert.Equal(t, StateAwaitingBoard, g.State())
	assert.Equal(t, entity.RoundJeopardy, g.CurrentRoundName())
	assert.Len(t, g.Teams(), 3, "По умолчанию создаются три команды")
	assert.Equal(t, "#3498db", g.Teams()[0].Color)
	assert.Equal(t, PendingNone, g.Pending())

	_, err := g.SelectQuestion("Science", 200)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition, "До загрузки доски выбор вопроса невозможен")
}

func TestNewGame_ConfigIsCopied(t *testing.T) {
	cfg := testConfig()
	g := NewGame(cfg, nil)

	cfg.JeopardyValues[0] = 9999
	cfg.DefaultTeams[0].Name = "Changed"

	assert.Equal(t, 200, g.Config().JeopardyValues[0], "Изменение исходной конфигурации не должно влиять на игру")
	assert.Equal(t, "A", g.Teams()[0].Name)
}

func TestGame_LoadBoard_StartsFirstRound(t *testing.T) {
	g := NewGame(testConfig(), rand.New(rand.NewSource(1)))

	report, err := g.LoadBoard(testBoardData())

	require.NoError(t, err)
	assert.Equal(t, StateRoundInProgress, g.State())
	assert.Equal(t, entity.RoundJeopardy, g.CurrentRoundName())
	assert.Equal(t, 0, g.CurrentTeamIndex())
	assert.Equal(t, 5, report.QuestionsLoaded[entity.RoundJeopardy])
	assert.Equal(t, 2, report.QuestionsLoaded[entity.RoundDoubleJeopardy])
	assert.True(t, report.FinalLoaded)
	assert.Empty(t, report.Skipped)

	final, _ := g.Round(entity.RoundFinal)
	q, ok := final.FinalQuestion()
	require.True(t, ok)
	assert.Equal(t, "Geography", q.Category)
	assert.Equal(t, "Pacific", q.Answer)
}

func TestGame_LoadBoard_EmptyRoundFailsAndKeepsState(t *testing.T) {
	g := newLoadedGame(t, testBoardData())
	_, err := g.SelectQuestion("Science", 200)
	require.NoError(t, err)

	data := testBoardData()
	data.Rounds.DoubleJeopardy = entity.RoundData{}

	_, err = g.LoadBoard(data)

	assert.ErrorIs(t, err, apperrors.ErrDataLoad)
	assert.Equal(t, PendingOutcome, g.Pending(), "Неудачная загрузка не должна менять состояние игры")
	round, _ := g.Round(entity.RoundJeopardy)
	assert.Equal(t, 5, round.QuestionCount())
}

func TestGame_LoadBoard_NilData(t *testing.T) {
	g := NewGame(testConfig(), nil)

	_, err := g.LoadBoard(nil)

	assert.ErrorIs(t, err, apperrors.ErrDataLoad)
	assert.Equal(t, StateAwaitingBoard, g.State())
}

func TestGame_LoadBoard_RandomDailyDoublesWhenNoneExplicit(t *testing.T) {
	cfg := testConfig()
	cfg.JeopardyDailyDoubles = 1
	cfg.DoubleJeopardyDailyDoubles = 2
	g := NewGame(cfg, rand.New(rand.NewSource(42)))

	report, err := g.LoadBoard(testBoardData())

	require.NoError(t, err)
	assert.True(t, report.RandomDailyDoubles[entity.RoundJeopardy])
	assert.True(t, report.RandomDailyDoubles[entity.RoundDoubleJeopardy])
	assert.Len(t, report.DailyDoubles, 3)

	dj, _ := g.Round(entity.RoundDoubleJeopardy)
	for _, slot := range dj.Slots() {
		q, _ := dj.GetQuestion(slot.Category, slot.Value)
		assert.True(t, q.IsDailyDouble, "В раунде из двух клеток обе должны стать Daily Double")
	}
}

func TestGame_LoadBoard_ExplicitDailyDoublesWin(t *testing.T) {
	cfg := testConfig()
	cfg.JeopardyDailyDoubles = 1
	g := NewGame(cfg, rand.New(rand.NewSource(7)))

	data := testBoardData()
	data.DailyDoubles = []entity.DailyDoubleRef{{Round: entity.RoundJeopardy, Category: "History", Value: 400}}

	report, err := g.LoadBoard(data)

	require.NoError(t, err)
	assert.False(t, report.RandomDailyDoubles[entity.RoundJeopardy])
	assert.Equal(t, []entity.DailyDoubleRef{{Round: entity.RoundJeopardy, Category: "History", Value: 400}}, g.DailyDoubles())

	round, _ := g.Round(entity.RoundJeopardy)
	count := 0
	for _, slot := range round.Slots() {
		q, _ := round.GetQuestion(slot.Category, slot.Value)
		if q.IsDailyDouble {
			count++
		}
	}
	assert.Equal(t, 1, count, "Случайный выбор не должен добавлять Daily Double к явно заданным")
}

// ============================================================================
// Выбор вопроса и подсчёт очков
// ============================================================================

func TestGame_SelectQuestion_Errors(t *testing.T) {
	g := newLoadedGame(t, testBoardData())

	_, err := g.SelectQuestion("Music", 200)
	assert.ErrorIs(t, err, apperrors.ErrValidation, "Несуществующая клетка")

	_, err = g.SelectQuestion("Science", 200)
	require.NoError(t, err)

	_, err = g.SelectQuestion("Science", 400)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition, "Нельзя выбрать вопрос, пока не записан результат")

	_, err = g.RecordOutcome(0, true)
	require.NoError(t, err)

	_, err = g.SelectQuestion("Science", 200)
	assert.ErrorIs(t, err, apperrors.ErrValidation, "Сыгранный вопрос нельзя выбрать повторно")
}

func TestGame_Scoring_IncorrectThenCorrect(t *testing.T) {
	g := newLoadedGame(t, testBoardData())

	_, err := g.SelectQuestion("Science", 600)
	require.NoError(t, err)
	res, err := g.RecordOutcome(0, false)
	require.NoError(t, err)
	assert.Equal(t, -600, res.Team.Score)
	assert.Equal(t, -600, res.Delta)

	g.currentTeam = 0
	_, err = g.SelectQuestion("Science", 200)
	require.NoError(t, err)
	res, err = g.RecordOutcome(0, true)
	require.NoError(t, err)

	assert.Equal(t, -400, g.Teams()[0].Score, "Отрицательный счёт допустим")
	assert.Equal(t, 200, res.Delta)
}

func TestGame_TurnRotation(t *testing.T) {
	g := newLoadedGame(t, testBoardData())

	// Неправильный ответ текущей команды передаёт ход следующей
	_, err := g.SelectQuestion("Science", 200)
	require.NoError(t, err)
	res, err := g.RecordOutcome(0, false)
	require.NoError(t, err)
	assert.Equal(t, 1, res.CurrentTeamIndex)

	// Правильный ответ другой команды делает её текущей
	_, err = g.SelectQuestion("Science", 400)
	require.NoError(t, err)
	res, err = g.RecordOutcome(2, true)
	require.NoError(t, err)
	assert.Equal(t, 2, res.CurrentTeamIndex)

	// Переход по кругу с последней команды на первую
	_, err = g.SelectQuestion("History", 200)
	require.NoError(t, err)
	res, err = g.RecordOutcome(2, false)
	require.NoError(t, err)
	assert.Equal(t, 0, res.CurrentTeamIndex)
}

func TestGame_RecordOutcome_Errors(t *testing.T) {
	g := newLoadedGame(t, testBoardData())

	_, err := g.RecordOutcome(0, true)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition, "Нет открытого вопроса")

	_, err = g.SelectQuestion("Science", 200)
	require.NoError(t, err)

	_, err = g.RecordOutcome(5, true)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = g.RecordOutcomeByName("Nobody", true)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	res, err := g.RecordOutcomeByName("B", true)
	require.NoError(t, err)
	assert.Equal(t, 1, res.TeamIndex)
	assert.Equal(t, 200, res.Team.Score)
}

func TestGame_TeamIndex_DuplicateNamesRequireIndex(t *testing.T) {
	cfg := testConfig()
	cfg.DefaultTeams = []entity.Team{{Name: "Red"}, {Name: "Red"}, {Name: "Blue"}}
	g := NewGame(cfg, nil)
	_, err := g.LoadBoard(testBoardData())
	require.NoError(t, err)

	idx, err := g.TeamIndex(" Blue ")
	require.NoError(t, err)
	assert.Equal(t, 2, idx)
	_, err = g.TeamIndex("Red")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = g.SelectQuestion("Science", 200)
	require.NoError(t, err)

	_, err = g.RecordOutcomeByName("Red", true)
	assert.ErrorIs(t, err, apperrors.ErrValidation, "Одноимённые команды адресуются только по индексу")
	assert.Equal(t, PendingOutcome, g.Pending())
	for _, team := range g.Teams() {
		assert.Zero(t, team.Score)
	}

	res, err := g.RecordOutcome(1, true)
	require.NoError(t, err)
	assert.Equal(t, 1, res.TeamIndex)
	assert.Equal(t, 200, res.Team.Score)

	advanceToFinal(t, g)
	for i := range g.Teams() {
		require.NoError(t, g.SubmitFinalWager(i, 0))
	}
	_, err = g.RevealFinal()
	require.NoError(t, err)

	_, err = g.RecordFinalOutcomesByName(map[string]bool{"Red": true, "Blue": false})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.False(t, g.IsGameOver())
}

func TestGame_RoundComplete(t *testing.T) {
	g := newLoadedGame(t, testBoardData())
	round, _ := g.Round(entity.RoundJeopardy)
	assert.False(t, round.IsComplete())

	playRound(t, g)

	assert.True(t, round.IsComplete())
	assert.Equal(t, StateRoundInProgress, g.State(), "Раунд завершён, но переход выполняет только AdvanceRound")
}

func TestGame_RecordOutcome_ReportsRoundCompleteOnLastClue(t *testing.T) {
	g := newLoadedGame(t, testBoardData())
	round, _ := g.Round(entity.RoundJeopardy)
	slots := round.Slots()
	require.Len(t, slots, 5)

	for i, slot := range slots {
		_, err := g.SelectQuestion(slot.Category, slot.Value)
		require.NoError(t, err)

		res, err := g.RecordOutcome(g.CurrentTeamIndex(), i%2 == 0)
		require.NoError(t, err)
		if i < len(slots)-1 {
			assert.False(t, res.RoundComplete, "Раунд не завершён после клетки %s/%d", slot.Category, slot.Value)
		} else {
			assert.True(t, res.RoundComplete, "Последняя клетка завершает раунд")
		}
	}
}

// ============================================================================
// Daily Double
// ============================================================================

func dailyDoubleBoard() *entity.BoardData {
	data := testBoardData()
	data.DailyDoubles = []entity.DailyDoubleRef{
		{Round: entity.RoundJeopardy, Category: "Science", Value: 400},
		{Round: entity.RoundDoubleJeopardy, Category: "Art", Value: 800},
	}
	return data
}

func TestGame_DailyDouble_MaxWagerAndRejection(t *testing.T) {
	g := newLoadedGame(t, dailyDoubleBoard())

	res, err := g.SelectQuestion("Science", 400)
	require.NoError(t, err)
	assert.True(t, res.DailyDouble)
	assert.Equal(t, 1000, res.MaxWager, "При нулевом счёте максимум равен нижней границе раунда")

	err = g.SubmitWager(1500)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, PendingDailyDoubleWager, g.Pending(), "После отклонённой ставки вопрос по-прежнему ждёт ставку")
	assert.Equal(t, 0, g.Teams()[0].Score)

	err = g.SubmitWager(0)
	assert.ErrorIs(t, err, apperrors.ErrValidation, "Ставка должна быть положительной")

	err = g.SubmitWagerString("abc")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	require.NoError(t, g.SubmitWagerString(" 1000 "))
	assert.Equal(t, PendingOutcome, g.Pending())

	out, err := g.RecordOutcome(0, true)
	require.NoError(t, err)
	assert.Equal(t, 1000, out.Team.Score)
	assert.True(t, out.DailyDouble)
}

func TestGame_DailyDouble_DoubleJeopardyFloor(t *testing.T) {
	g := newLoadedGame(t, dailyDoubleBoard())
	_, ok, err := g.AdvanceRound()
	require.NoError(t, err)
	require.True(t, ok)

	res, err := g.SelectQuestion("Art", 800)
	require.NoError(t, err)
	require.True(t, res.DailyDouble)
	assert.Equal(t, 2000, res.MaxWager, "Во втором раунде нижняя граница максимума 2000")

	err = g.SubmitWager(2001)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, PendingDailyDoubleWager, g.Pending())

	require.NoError(t, g.SubmitWager(2000))
	out, err := g.RecordOutcome(g.CurrentTeamIndex(), false)
	require.NoError(t, err)
	assert.Equal(t, -2000, out.Team.Score)
}

func TestGame_DailyDouble_MaxWagerUsesScoreWhenHigher(t *testing.T) {
	g := newLoadedGame(t, dailyDoubleBoard())
	g.teams[0].Score = 3200

	res, err := g.SelectQuestion("Science", 400)
	require.NoError(t, err)
	assert.Equal(t, 3200, res.MaxWager)

	maxWager, err := g.DailyDoubleMaxWager()
	require.NoError(t, err)
	assert.Equal(t, 3200, maxWager)
	assert.NoError(t, g.SubmitWager(3200))
}

func TestGame_DailyDouble_OnlySelectingTeamAnswersAndTurnKept(t *testing.T) {
	g := newLoadedGame(t, dailyDoubleBoard())
	g.currentTeam = 1

	_, err := g.SelectQuestion("Science", 400)
	require.NoError(t, err)
	assert.ErrorIs(t, g.SubmitWager(-5), apperrors.ErrValidation)
	require.NoError(t, g.SubmitWager(500))

	_, err = g.RecordOutcome(2, true)
	assert.ErrorIs(t, err, apperrors.ErrValidation, "Отвечать на Daily Double может только выбравшая команда")

	res, err := g.RecordOutcome(1, false)
	require.NoError(t, err)
	assert.Equal(t, -500, res.Team.Score)
	assert.Equal(t, 1, res.CurrentTeamIndex, "Ход после Daily Double не меняется")
}

func TestGame_SubmitWager_WithoutDailyDouble(t *testing.T) {
	g := newLoadedGame(t, testBoardData())

	err := g.SubmitWager(100)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	_, err = g.SelectQuestion("Science", 200)
	require.NoError(t, err)
	err = g.SubmitWager(100)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition, "Обычный вопрос ставку не принимает")
}

func TestGame_AssignDailyDoubles_Idempotent(t *testing.T) {
	g := newLoadedGame(t, testBoardData())

	first, err := g.AssignDailyDoubles(entity.RoundJeopardy, 2)
	require.NoError(t, err)
	assert.Len(t, first, 2)

	second, err := g.AssignDailyDoubles(entity.RoundJeopardy, 2)
	require.NoError(t, err)
	assert.Len(t, second, 2)
	assert.Len(t, g.DailyDoubles(), 2, "Повторное назначение заменяет прежние Daily Double раунда")

	_, err = g.AssignDailyDoubles(entity.RoundFinal, 1)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

// ============================================================================
// Переходы между раундами и финал
// ============================================================================

func TestGame_AdvanceRound_Sequence(t *testing.T) {
	g := newLoadedGame(t, testBoardData())

	next, ok, err := g.AdvanceRound()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, entity.RoundDoubleJeopardy, next)

	next, ok, err = g.AdvanceRound()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, entity.RoundFinal, next)
	assert.Equal(t, PendingFinalWagers, g.Pending())

	next, ok, err = g.AdvanceRound()
	require.NoError(t, err)
	assert.False(t, ok, "После финала раундов нет")
	assert.Empty(t, next)
	assert.True(t, g.IsGameOver())
	assert.Equal(t, StateGameOver, g.State())

	_, _, err = g.AdvanceRound()
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	_, err = g.SelectQuestion("Science", 200)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestGame_AdvanceRound_BlockedByOpenQuestion(t *testing.T) {
	g := newLoadedGame(t, testBoardData())
	_, err := g.SelectQuestion("Science", 200)
	require.NoError(t, err)

	_, _, err = g.AdvanceRound()

	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	assert.Equal(t, entity.RoundJeopardy, g.CurrentRoundName())
}

func TestGame_AdvanceRound_BeforeLoad(t *testing.T) {
	g := NewGame(testConfig(), nil)

	_, _, err := g.AdvanceRound()

	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func advanceToFinal(t *testing.T, g *Game) {
	t.Helper()
	for g.CurrentRoundName() != entity.RoundFinal {
		_, _, err := g.AdvanceRound()
		require.NoError(t, err)
	}
}

func TestGame_FinalJeopardy_FullFlow(t *testing.T) {
	g := newLoadedGame(t, testBoardData())
	g.teams[0].Score = 1000
	g.teams[1].Score = 500
	g.teams[2].Score = -200
	advanceToFinal(t, g)

	_, err := g.SelectQuestion("Geography", 0)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition, "В финале клетки не выбираются")

	require.NoError(t, g.SubmitFinalWager(0, 1000))
	assert.ErrorIs(t, g.SubmitFinalWager(0, 10), apperrors.ErrInvalidTransition, "Повторная ставка")
	assert.ErrorIs(t, g.SubmitFinalWager(1, 600), apperrors.ErrValidation, "Ставка больше счёта")
	assert.ErrorIs(t, g.SubmitFinalWager(2, 1), apperrors.ErrValidation, "При отрицательном счёте можно поставить только 0")
	assert.ErrorIs(t, g.SubmitFinalWager(9, 0), apperrors.ErrValidation)

	_, err = g.RevealFinal()
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition, "Не все команды сделали ставки")
	assert.Equal(t, []int{1, 2}, g.MissingFinalWagers())

	require.NoError(t, g.SubmitFinalWagerString(1, "300"))
	require.NoError(t, g.SubmitFinalWager(2, 0))

	q, err := g.RevealFinal()
	require.NoError(t, err)
	assert.Equal(t, "Largest ocean", q.Text)
	assert.Equal(t, PendingFinalOutcomes, g.Pending())

	_, err = g.RecordFinalOutcomes(map[int]bool{0: true, 1: false})
	assert.ErrorIs(t, err, apperrors.ErrValidation, "Нужен результат для каждой команды")
	assert.Equal(t, 1000, g.Teams()[0].Score, "Неполный набор результатов не меняет счёт")

	results, err := g.RecordFinalOutcomesByName(map[string]bool{"A": false, "B": true, "C": true})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, 0, results[0].Team.Score)
	assert.Equal(t, 800, results[1].Team.Score)
	assert.Equal(t, -200, results[2].Team.Score)

	assert.True(t, g.IsGameOver())
	winners := g.Winners()
	require.Len(t, winners, 1)
	assert.Equal(t, "B", winners[0].Name)

	final, _ := g.Round(entity.RoundFinal)
	assert.True(t, final.IsComplete())
}

func TestGame_FinalJeopardy_OutcomesWithoutReveal(t *testing.T) {
	g := newLoadedGame(t, testBoardData())
	advanceToFinal(t, g)
	for i := range g.Teams() {
		require.NoError(t, g.SubmitFinalWager(i, 0))
	}

	_, err := g.RecordFinalOutcomes(map[int]bool{0: true, 1: true, 2: true})

	require.NoError(t, err)
	assert.True(t, g.IsGameOver())
}

func TestGame_FinalJeopardy_NoFinalQuestion(t *testing.T) {
	data := testBoardData()
	data.Rounds.Final = entity.FinalData{Category: "Geography"}
	g := newLoadedGame(t, data)
	advanceToFinal(t, g)

	err := g.SubmitFinalWager(0, 0)

	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

// ============================================================================
// Победители, сброс и состав команд
// ============================================================================

func TestGame_Winners_Tie(t *testing.T) {
	g := newLoadedGame(t, testBoardData())
	g.teams[0].Score = 400
	g.teams[1].Score = 400
	g.teams[2].Score = 300

	winners := g.Winners()

	require.Len(t, winners, 2)
	assert.Equal(t, "A", winners[0].Name)
	assert.Equal(t, "B", winners[1].Name)
}

func TestGame_Winners_NoTeams(t *testing.T) {
	cfg := testConfig()
	cfg.DefaultTeams = nil
	g := NewGame(cfg, nil)

	assert.Empty(t, g.Winners())

	_, err := g.LoadBoard(testBoardData())
	require.NoError(t, err)
	_, err = g.SelectQuestion("Science", 200)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestGame_LoadThenReset_RoundTrip(t *testing.T) {
	g := newLoadedGame(t, dailyDoubleBoard())
	_, err := g.SelectQuestion("Science", 200)
	require.NoError(t, err)
	_, err = g.RecordOutcome(0, true)
	require.NoError(t, err)

	g.Reset()

	assert.Equal(t, StateAwaitingBoard, g.State())
	assert.Empty(t, g.DailyDoubles())
	for _, name := range entity.RoundOrder() {
		round, _ := g.Round(name)
		assert.Equal(t, 0, round.QuestionCount(), "Раунд %s должен быть пуст", name)
	}
	for _, team := range g.Teams() {
		assert.Equal(t, 0, team.Score)
	}
	assert.Equal(t, "A", g.Teams()[0].Name, "Сброс сохраняет имена команд")

	_, err = g.LoadBoard(dailyDoubleBoard())
	require.NoError(t, err)
	q, ok := mustRound(t, g, entity.RoundJeopardy).GetQuestion("Science", 200)
	require.True(t, ok)
	assert.False(t, q.Played)
}

func mustRound(t *testing.T, g *Game, name entity.RoundName) *entity.Round {
	t.Helper()
	round, ok := g.Round(name)
	require.True(t, ok)
	return round
}

func TestGame_RedefineTeams(t *testing.T) {
	g := newLoadedGame(t, testBoardData())
	g.teams[0].Score = 800
	_, err := g.SelectQuestion("Science", 200)
	require.NoError(t, err)

	err = g.RedefineTeams(nil)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	err = g.RedefineTeams([]entity.Team{{Name: " "}})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	err = g.RedefineTeams([]entity.Team{{Name: "Red", Color: "#f00", Score: 999}, {Name: "Blue"}})
	require.NoError(t, err)

	teams := g.Teams()
	require.Len(t, teams, 2)
	assert.Equal(t, "Red", teams[0].Name)
	assert.Equal(t, 0, teams[0].Score, "Новые команды начинают с нуля")
	assert.Equal(t, 0, g.CurrentTeamIndex())
	assert.Equal(t, PendingNone, g.Pending(), "Открытый вопрос возвращается на доску")

	q, _ := mustRound(t, g, entity.RoundJeopardy).GetQuestion("Science", 200)
	assert.False(t, q.Played)
}

func TestGame_AddTeam(t *testing.T) {
	g := newLoadedGame(t, testBoardData())

	require.NoError(t, g.AddTeam("D", "#fff"))
	assert.Len(t, g.Teams(), 4)
	assert.ErrorIs(t, g.AddTeam("", ""), apperrors.ErrValidation)

	_, err := g.SelectQuestion("Science", 200)
	require.NoError(t, err)
	assert.ErrorIs(t, g.AddTeam("E", ""), apperrors.ErrInvalidTransition)
}
