package gamemanager

import (
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"strings"

	"github.com/yourusername/jeopardy-api/internal/domain/entity"
	apperrors "github.com/yourusername/jeopardy-api/internal/pkg/errors"
)

// Game — конечный автомат одной партии: раунды, очередь команд, ставки и подсчёт очков.
// Game не потокобезопасен: изменяющие команды должен сериализовать вызывающий код.
type Game struct {
	config   Config
	assigner *DailyDoubleAssigner

	teams        []entity.Team
	currentTeam  int
	rounds       map[entity.RoundName]*entity.Round
	currentRound entity.RoundName
	dailyDoubles []entity.DailyDoubleRef
	boardLoaded  bool
	gameOver     bool
	pending      pendingAction
}

// NewGame создает игру в состоянии ожидания доски с составом команд из конфигурации.
// rng используется для случайных Daily Double; nil означает недетерминированный источник.
func NewGame(cfg Config, rng *rand.Rand) *Game {
	g := &Game{
		config:   cfg.clone(),
		assigner: NewDailyDoubleAssigner(rng),
	}
	g.teams = make([]entity.Team, len(g.config.DefaultTeams))
	for i, t := range g.config.DefaultTeams {
		g.teams[i] = entity.Team{Name: t.Name, Color: t.Color}
	}
	g.resetBoard()
	return g
}

func invalidTransition(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", apperrors.ErrInvalidTransition, fmt.Sprintf(format, args...))
}

func validationFailure(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", apperrors.ErrValidation, fmt.Sprintf(format, args...))
}

// resetBoard возвращает игру к пустым раундам, не трогая состав команд
func (g *Game) resetBoard() {
	g.rounds = map[entity.RoundName]*entity.Round{
		entity.RoundJeopardy:       entity.NewRound(entity.RoundJeopardy),
		entity.RoundDoubleJeopardy: entity.NewRound(entity.RoundDoubleJeopardy),
		entity.RoundFinal:          entity.NewFinalRound(),
	}
	g.currentRound = entity.RoundOrder()[0]
	g.currentTeam = 0
	g.dailyDoubles = nil
	g.boardLoaded = false
	g.gameOver = false
	g.pending = noPending{}
}

// Config возвращает настройки игры
func (g *Game) Config() Config {
	return g.config.clone()
}

// State возвращает укрупнённое состояние автомата
func (g *Game) State() GameState {
	switch {
	case g.gameOver:
		return StateGameOver
	case !g.boardLoaded:
		return StateAwaitingBoard
	default:
		return StateRoundInProgress
	}
}

// IsGameOver проверяет, завершена ли игра
func (g *Game) IsGameOver() bool {
	return g.gameOver
}

// Pending возвращает вид ожидаемого шага
func (g *Game) Pending() PendingKind {
	return g.pending.kind()
}

// CurrentRoundName возвращает имя текущего раунда
func (g *Game) CurrentRoundName() entity.RoundName {
	return g.currentRound
}

// Round возвращает раунд по имени. Возвращённый раунд нельзя изменять напрямую.
func (g *Game) Round(name entity.RoundName) (*entity.Round, bool) {
	r, ok := g.rounds[name]
	return r, ok
}

// CurrentTeamIndex возвращает индекс команды, которая выбирает следующий вопрос
func (g *Game) CurrentTeamIndex() int {
	return g.currentTeam
}

// CurrentTeam возвращает копию текущей команды
func (g *Game) CurrentTeam() (entity.Team, bool) {
	if len(g.teams) == 0 {
		return entity.Team{}, false
	}
	return g.teams[g.currentTeam], true
}

// Teams возвращает копию состава команд
func (g *Game) Teams() []entity.Team {
	return append([]entity.Team(nil), g.teams...)
}

// TeamIndex ищет команду по имени. Имена не обязаны быть уникальными,
// поэтому неоднозначное имя считается ошибкой: такую команду адресуют по индексу.
func (g *Game) TeamIndex(name string) (int, error) {
	name = strings.TrimSpace(name)
	found := -1
	for i, t := range g.teams {
		if t.Name != name {
			continue
		}
		if found >= 0 {
			return -1, validationFailure("team name %q is ambiguous, use team index", name)
		}
		found = i
	}
	if found < 0 {
		return -1, validationFailure("unknown team %q", name)
	}
	return found, nil
}

// DailyDoubles возвращает копию индекса Daily Double
func (g *Game) DailyDoubles() []entity.DailyDoubleRef {
	return append([]entity.DailyDoubleRef(nil), g.dailyDoubles...)
}

// LoadBoard заполняет все три раунда, расставляет Daily Double и начинает игру с первого раунда.
// Допустим из любого состояния. При ошибке игра остаётся в прежнем состоянии.
func (g *Game) LoadBoard(data *entity.BoardData) (*LoadReport, error) {
	report := &LoadReport{
		QuestionsLoaded:    make(map[entity.RoundName]int, 3),
		RandomDailyDoubles: make(map[entity.RoundName]bool, 2),
	}

	board, err := buildBoard(g.config, data, report)
	if err != nil {
		return report, err
	}

	g.rounds = board.rounds
	g.dailyDoubles = board.dailyDoubles

	for _, name := range entity.RoundOrder() {
		if name.IsFinal() {
			continue
		}
		// Явные Daily Double из банка вопросов всегда важнее случайных
		if board.explicitDD[name] > 0 {
			continue
		}
		slots := g.assignDailyDoubles(name, g.config.DailyDoubleCount(name))
		report.RandomDailyDoubles[name] = len(slots) > 0
	}
	report.DailyDoubles = g.DailyDoubles()

	for i := range g.teams {
		g.teams[i].Score = 0
	}
	g.currentRound = entity.RoundOrder()[0]
	g.currentTeam = 0
	g.boardLoaded = true
	g.gameOver = false
	g.pending = noPending{}

	return report, nil
}

// AssignDailyDoubles заново случайно расставляет n Daily Double в обычном раунде.
// Прежние записи раунда удаляются из индекса, а флаги несыгранных клеток снимаются,
// поэтому повторный вызов не накапливает Daily Double.
func (g *Game) AssignDailyDoubles(name entity.RoundName, n int) ([]entity.Slot, error) {
	name = entity.NormalizeRoundName(string(name))
	if !name.Valid() || name.IsFinal() {
		return nil, validationFailure("round %q does not allow daily doubles", name)
	}
	if _, idle := g.pending.(noPending); !idle {
		return nil, invalidTransition("cannot reassign daily doubles while %s is pending", g.pending.kind())
	}
	if n < 0 {
		return nil, validationFailure("daily double count must not be negative")
	}
	return g.assignDailyDoubles(name, n), nil
}

func (g *Game) assignDailyDoubles(name entity.RoundName, n int) []entity.Slot {
	round := g.rounds[name]

	kept := g.dailyDoubles[:0]
	for _, ref := range g.dailyDoubles {
		if ref.Round != name {
			kept = append(kept, ref)
		}
	}
	g.dailyDoubles = kept

	for _, byValue := range round.Questions {
		for _, q := range byValue {
			if !q.Played {
				q.IsDailyDouble = false
			}
		}
	}

	slots := g.assigner.Assign(round, n)
	for _, slot := range slots {
		g.dailyDoubles = append(g.dailyDoubles, entity.DailyDoubleRef{Round: name, Category: slot.Category, Value: slot.Value})
	}
	return slots
}

// requireRoundInProgress проверяет общее условие для команд игрового раунда
func (g *Game) requireRoundInProgress() error {
	if g.gameOver {
		return invalidTransition("game is over")
	}
	if !g.boardLoaded {
		return invalidTransition("board is not loaded")
	}
	return nil
}

// SelectQuestion выбирает клетку текущего обычного раунда.
// Обычный вопрос сразу ждёт результата, Daily Double сначала ждёт ставку.
func (g *Game) SelectQuestion(category string, value int) (*SelectResult, error) {
	if err := g.requireRoundInProgress(); err != nil {
		return nil, err
	}
	if g.currentRound.IsFinal() {
		return nil, invalidTransition("questions cannot be selected in %s", g.currentRound)
	}
	if len(g.teams) == 0 {
		return nil, invalidTransition("no teams in the game")
	}
	if _, idle := g.pending.(noPending); !idle {
		return nil, invalidTransition("%s is pending", g.pending.kind())
	}

	q, ok := g.rounds[g.currentRound].GetQuestion(category, value)
	if !ok {
		return nil, validationFailure("question %q/%d does not exist in %s", category, value, g.currentRound)
	}
	if q.Played {
		return nil, validationFailure("question %q/%d has already been played", category, value)
	}

	result := &SelectResult{Question: *q, TeamIndex: g.currentTeam}
	if q.IsDailyDouble {
		g.pending = awaitingDailyDoubleWager{question: q, teamIndex: g.currentTeam}
		result.DailyDouble = true
		result.MaxWager = g.dailyDoubleMaxWager(g.currentTeam)
		return result, nil
	}

	g.pending = awaitingOutcome{question: q, wager: q.Value, teamIndex: g.currentTeam}
	return result, nil
}

// dailyDoubleMaxWager возвращает max(счёт команды, нижняя граница раунда)
func (g *Game) dailyDoubleMaxWager(teamIndex int) int {
	floor := g.config.WagerFloor(g.currentRound)
	if score := g.teams[teamIndex].Score; score > floor {
		return score
	}
	return floor
}

// DailyDoubleMaxWager возвращает максимальную ставку для ожидающего Daily Double
func (g *Game) DailyDoubleMaxWager() (int, error) {
	p, ok := g.pending.(awaitingDailyDoubleWager)
	if !ok {
		return 0, invalidTransition("no daily double is awaiting a wager")
	}
	return g.dailyDoubleMaxWager(p.teamIndex), nil
}

// SubmitWager принимает ставку на выбранный Daily Double.
// При ошибке состояние не меняется: вопрос остаётся выбранным, но не открытым.
func (g *Game) SubmitWager(amount int) error {
	p, ok := g.pending.(awaitingDailyDoubleWager)
	if !ok {
		return invalidTransition("no daily double is awaiting a wager")
	}
	if amount <= 0 {
		return validationFailure("wager must be positive, got %d", amount)
	}
	if max := g.dailyDoubleMaxWager(p.teamIndex); amount > max {
		return validationFailure("wager %d exceeds maximum of %d", amount, max)
	}

	g.pending = awaitingOutcome{
		question:    p.question,
		wager:       amount,
		dailyDouble: true,
		teamIndex:   p.teamIndex,
	}
	return nil
}

// SubmitWagerString разбирает ставку, введённую оператором, и передаёт её в SubmitWager
func (g *Game) SubmitWagerString(raw string) error {
	amount, err := parseWager(raw)
	if err != nil {
		return err
	}
	return g.SubmitWager(amount)
}

func parseWager(raw string) (int, error) {
	amount, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, validationFailure("wager %q is not a whole number", raw)
	}
	return amount, nil
}

// RecordOutcome применяет результат ответа команды на открытый вопрос.
// Обычный вопрос: правильный ответ передаёт ход ответившей команде, неправильный: следующей по кругу.
// Daily Double: отвечать может только выбравшая команда, ход не меняется.
func (g *Game) RecordOutcome(teamIndex int, correct bool) (*OutcomeResult, error) {
	p, ok := g.pending.(awaitingOutcome)
	if !ok {
		return nil, invalidTransition("no question is awaiting an outcome")
	}
	if teamIndex < 0 || teamIndex >= len(g.teams) {
		return nil, validationFailure("unknown team index %d", teamIndex)
	}
	if p.dailyDouble && teamIndex != p.teamIndex {
		return nil, validationFailure("only %q may answer the daily double", g.teams[p.teamIndex].Name)
	}

	team := &g.teams[teamIndex]
	team.ApplyOutcome(p.wager, correct)
	p.question.MarkPlayed()

	if !p.dailyDouble {
		if correct {
			g.currentTeam = teamIndex
		} else {
			g.nextTeam()
		}
	}
	g.pending = noPending{}

	delta := p.wager
	if !correct {
		delta = -delta
	}
	return &OutcomeResult{
		Question:         *p.question,
		TeamIndex:        teamIndex,
		Team:             *team,
		Delta:            delta,
		DailyDouble:      p.dailyDouble,
		RoundComplete:    g.rounds[g.currentRound].IsComplete(),
		CurrentTeamIndex: g.currentTeam,
	}, nil
}

// RecordOutcomeByName — то же, что RecordOutcome, но команда задаётся по имени
func (g *Game) RecordOutcomeByName(teamName string, correct bool) (*OutcomeResult, error) {
	idx, err := g.TeamIndex(teamName)
	if err != nil {
		return nil, err
	}
	return g.RecordOutcome(idx, correct)
}

// nextTeam передаёт ход следующей команде по кругу
func (g *Game) nextTeam() {
	if len(g.teams) == 0 {
		return
	}
	g.currentTeam = (g.currentTeam + 1) % len(g.teams)
}

// AdvanceRound переходит к следующему раунду. После финала игра завершается,
// и второй результат равен false.
func (g *Game) AdvanceRound() (entity.RoundName, bool, error) {
	if err := g.requireRoundInProgress(); err != nil {
		return "", false, err
	}
	switch g.pending.(type) {
	case awaitingDailyDoubleWager, awaitingOutcome:
		return "", false, invalidTransition("finish the open question before advancing")
	}

	next, ok := g.currentRound.Next()
	if !ok {
		g.gameOver = true
		g.pending = noPending{}
		return "", false, nil
	}

	g.currentRound = next
	if next.IsFinal() {
		g.pending = awaitingFinalWagers{wagers: make(map[int]int, len(g.teams))}
	} else {
		g.pending = noPending{}
	}
	return next, true, nil
}

// finalQuestion возвращает вопрос финала или ошибку, если финал не загружен
func (g *Game) finalQuestion() (*entity.Question, error) {
	q, ok := g.rounds[entity.RoundFinal].FinalQuestion()
	if !ok {
		return nil, invalidTransition("final round has no question")
	}
	return q, nil
}

// SubmitFinalWager фиксирует ставку команды в Final Jeopardy. Каждая команда ставит один раз,
// до открытия вопроса; ставка от 0 до текущего счёта (при счёте ≤ 0: только 0).
func (g *Game) SubmitFinalWager(teamIndex int, amount int) error {
	p, ok := g.pending.(awaitingFinalWagers)
	if !ok {
		return invalidTransition("final wagers are not being collected")
	}
	if _, err := g.finalQuestion(); err != nil {
		return err
	}
	if teamIndex < 0 || teamIndex >= len(g.teams) {
		return validationFailure("unknown team index %d", teamIndex)
	}
	if _, dup := p.wagers[teamIndex]; dup {
		return invalidTransition("team %q has already wagered", g.teams[teamIndex].Name)
	}
	if amount < 0 {
		return validationFailure("final wager must not be negative, got %d", amount)
	}
	limit := g.teams[teamIndex].Score
	if limit < 0 {
		limit = 0
	}
	if amount > limit {
		return validationFailure("final wager %d exceeds score of %d", amount, limit)
	}

	p.wagers[teamIndex] = amount
	return nil
}

// SubmitFinalWagerString разбирает ставку, введённую оператором
func (g *Game) SubmitFinalWagerString(teamIndex int, raw string) error {
	amount, err := parseWager(raw)
	if err != nil {
		return err
	}
	return g.SubmitFinalWager(teamIndex, amount)
}

// MissingFinalWagers возвращает индексы команд, которые ещё не сделали ставку в финале
func (g *Game) MissingFinalWagers() []int {
	p, ok := g.pending.(awaitingFinalWagers)
	if !ok {
		return nil
	}
	missing := make([]int, 0)
	for i := range g.teams {
		if _, ok := p.wagers[i]; !ok {
			missing = append(missing, i)
		}
	}
	return missing
}

// RevealFinal открывает финальный вопрос после того, как все команды сделали ставки
func (g *Game) RevealFinal() (*entity.Question, error) {
	p, ok := g.pending.(awaitingFinalWagers)
	if !ok {
		return nil, invalidTransition("final wagers are not being collected")
	}
	q, err := g.finalQuestion()
	if err != nil {
		return nil, err
	}
	if missing := g.MissingFinalWagers(); len(missing) > 0 {
		return nil, invalidTransition("%d team(s) have not wagered yet", len(missing))
	}

	g.pending = awaitingFinalOutcomes{question: q, wagers: p.wagers}
	revealed := *q
	return &revealed, nil
}

// RecordFinalOutcomes применяет ставки всех команд одним шагом и завершает игру.
// Результат нужен для каждой команды; при любой ошибке счёт не меняется.
func (g *Game) RecordFinalOutcomes(outcomes map[int]bool) ([]FinalOutcome, error) {
	var (
		question *entity.Question
		wagers   map[int]int
	)
	switch p := g.pending.(type) {
	case awaitingFinalOutcomes:
		question, wagers = p.question, p.wagers
	case awaitingFinalWagers:
		q, err := g.finalQuestion()
		if err != nil {
			return nil, err
		}
		if missing := g.MissingFinalWagers(); len(missing) > 0 {
			return nil, invalidTransition("%d team(s) have not wagered yet", len(missing))
		}
		question, wagers = q, p.wagers
	default:
		return nil, invalidTransition("final jeopardy is not in progress")
	}

	indexes := make([]int, 0, len(outcomes))
	for idx := range outcomes {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)
	for _, idx := range indexes {
		if idx < 0 || idx >= len(g.teams) {
			return nil, validationFailure("unknown team index %d", idx)
		}
	}
	for i, t := range g.teams {
		if _, ok := outcomes[i]; !ok {
			return nil, validationFailure("missing final outcome for team %q", t.Name)
		}
	}

	results := make([]FinalOutcome, len(g.teams))
	for i := range g.teams {
		correct := outcomes[i]
		wager := wagers[i]
		g.teams[i].ApplyOutcome(wager, correct)

		delta := wager
		if !correct {
			delta = -delta
		}
		results[i] = FinalOutcome{TeamIndex: i, Team: g.teams[i], Wager: wager, Correct: correct, Delta: delta}
	}

	question.MarkPlayed()
	g.gameOver = true
	g.pending = noPending{}
	return results, nil
}

// RecordFinalOutcomesByName — то же, что RecordFinalOutcomes, с командами по имени
func (g *Game) RecordFinalOutcomesByName(outcomes map[string]bool) ([]FinalOutcome, error) {
	byIndex := make(map[int]bool, len(outcomes))
	for name, correct := range outcomes {
		idx, err := g.TeamIndex(name)
		if err != nil {
			return nil, err
		}
		byIndex[idx] = correct
	}
	return g.RecordFinalOutcomes(byIndex)
}

// Winners возвращает все команды с максимальным счётом в исходном порядке
func (g *Game) Winners() []entity.Team {
	if len(g.teams) == 0 {
		return nil
	}
	best := g.teams[0].Score
	for _, t := range g.teams[1:] {
		if t.Score > best {
			best = t.Score
		}
	}
	winners := make([]entity.Team, 0, 1)
	for _, t := range g.teams {
		if t.Score == best {
			winners = append(winners, t)
		}
	}
	return winners
}

// Reset возвращает игру в исходное состояние: раунды пусты, счёт обнулён,
// индекс Daily Double очищен. Имена и цвета команд сохраняются.
func (g *Game) Reset() {
	for i := range g.teams {
		g.teams[i].Score = 0
	}
	g.resetBoard()
}

// RedefineTeams целиком заменяет состав команд. Счёт обнуляется, ход переходит к первой команде.
// Открытый вопрос возвращается на доску, собранные ставки финала сбрасываются.
func (g *Game) RedefineTeams(teams []entity.Team) error {
	if len(teams) == 0 {
		return validationFailure("at least one team is required")
	}
	roster := make([]entity.Team, len(teams))
	for i, t := range teams {
		name := strings.TrimSpace(t.Name)
		if name == "" {
			return validationFailure("team #%d has an empty name", i+1)
		}
		roster[i] = entity.Team{Name: name, Color: t.Color}
	}

	g.teams = roster
	g.currentTeam = 0
	switch g.pending.(type) {
	case awaitingDailyDoubleWager, awaitingOutcome:
		g.pending = noPending{}
	case awaitingFinalWagers, awaitingFinalOutcomes:
		g.pending = awaitingFinalWagers{wagers: make(map[int]int, len(roster))}
	}
	return nil
}

// AddTeam добавляет команду с нулевым счётом в конец очереди
func (g *Game) AddTeam(name, color string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return validationFailure("team name must not be empty")
	}
	if _, ok := g.pending.(noPending); !ok {
		return invalidTransition("cannot add a team while %s is pending", g.pending.kind())
	}
	g.teams = append(g.teams, entity.Team{Name: name, Color: color})
	return nil
}
