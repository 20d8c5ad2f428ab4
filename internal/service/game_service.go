package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/yourusername/jeopardy-api/internal/domain/entity"
	"github.com/yourusername/jeopardy-api/internal/domain/repository"
	"github.com/yourusername/jeopardy-api/internal/metrics"
	apperrors "github.com/yourusername/jeopardy-api/internal/pkg/errors"
	"github.com/yourusername/jeopardy-api/internal/service/gamemanager"
	"github.com/yourusername/jeopardy-api/internal/websocket"
)

const (
	defaultGameTitle   = "Jeopardy"
	maxTitleLength     = 100
	archiveMarkerTTL   = 24 * time.Hour
	defaultSnapshotTTL = 2 * time.Hour
)

// GameBroadcaster рассылает события игры подключенным экранам
type GameBroadcaster interface {
	BroadcastToGame(gameID string, eventType string, data interface{}) error
	BroadcastSplit(gameID string, eventType string, hostData, publicData interface{}) error
	CloseGame(gameID string)
}

// GameServiceDeps — зависимости сервиса игр. Любая из них может быть nil:
// без кеша нет резервного снимка, без репозитория итоги не архивируются.
type GameServiceDeps struct {
	CacheRepo   repository.CacheRepository
	ResultRepo  repository.GameResultRepository
	Broadcaster GameBroadcaster
	Metrics     *metrics.Metrics

	SnapshotTTL time.Duration
	MaxSessions int // 0: без ограничения

	// RandSource возвращает источник случайности для новой игры; nil: недетерминированный
	RandSource func() *rand.Rand
}

// Session — открытая игровая сессия. Все команды сессии сериализуются мьютексом.
type Session struct {
	ID        string
	HostKey   string
	Title     string
	CreatedAt time.Time

	mu        sync.Mutex
	game      *gamemanager.Game
	countdown *gamemanager.Countdown
	archived  bool // Итоги сессии сохраняются один раз
}

// SessionInfo возвращается при создании игры. HostKey открывает режим ведущего.
type SessionInfo struct {
	ID        string               `json:"id"`
	HostKey   string               `json:"host_key"`
	Title     string               `json:"title"`
	CreatedAt time.Time            `json:"created_at"`
	Snapshot  gamemanager.Snapshot `json:"snapshot"`
}

// GameService управляет открытыми играми: реестр сессий, команды ведущего,
// рассылка снимков, таймеры и архивирование итогов
type GameService struct {
	config gamemanager.Config
	deps   GameServiceDeps

	sessions map[string]*Session
	mu       sync.RWMutex

	ctx    context.Context
	cancel context.CancelFunc
}

// NewGameService создает сервис игр с правилами cfg
func NewGameService(cfg gamemanager.Config, deps GameServiceDeps) *GameService {
	if deps.SnapshotTTL <= 0 {
		deps.SnapshotTTL = defaultSnapshotTTL
	}
	ctx, cancel := context.WithCancel(context.Background())
	log.Println("[GameService] Сервис игр инициализирован")
	return &GameService{
		config:   cfg,
		deps:     deps,
		sessions: make(map[string]*Session),
		ctx:      ctx,
		cancel:   cancel,
	}
}

func snapshotKey(gameID string) string {
	return fmt.Sprintf("game:%s:snapshot", gameID)
}

func archiveKey(gameID string) string {
	return fmt.Sprintf("game:%s:archived", gameID)
}

// === Жизненный цикл сессий ===

// CreateGame открывает новую игру. Пустой teams означает состав по умолчанию.
func (s *GameService) CreateGame(title string, teams []entity.Team) (*SessionInfo, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = defaultGameTitle
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return nil, fmt.Errorf("%w: title must be at most %d characters", apperrors.ErrValidation, maxTitleLength)
	}

	var rng *rand.Rand
	if s.deps.RandSource != nil {
		rng = s.deps.RandSource()
	}
	game := gamemanager.NewGame(s.config, rng)
	if len(teams) > 0 {
		if err := game.RedefineTeams(teams); err != nil {
			return nil, err
		}
	}

	sess := &Session{
		ID:        uuid.New().String(),
		HostKey:   uuid.New().String(),
		Title:     title,
		CreatedAt: time.Now(),
		game:      game,
		countdown: gamemanager.NewCountdown(s.config.CountdownTick),
	}

	s.mu.Lock()
	if s.deps.MaxSessions > 0 && len(s.sessions) >= s.deps.MaxSessions {
		s.mu.Unlock()
		return nil, ErrTooManySessions
	}
	s.sessions[sess.ID] = sess
	active := len(s.sessions)
	s.mu.Unlock()

	if s.deps.Metrics != nil {
		s.deps.Metrics.ActiveSessions.Set(float64(active))
	}
	log.Printf("[GameService] Создана игра %s (%q), команд: %d", sess.ID, title, len(game.Teams()))

	sess.mu.Lock()
	defer sess.mu.Unlock()
	s.publishState(sess)
	return &SessionInfo{
		ID:        sess.ID,
		HostKey:   sess.HostKey,
		Title:     sess.Title,
		CreatedAt: sess.CreatedAt,
		Snapshot:  sess.game.Snapshot(true),
	}, nil
}

// CloseGame закрывает сессию. Последний публичный снимок остается в кеше до истечения TTL.
func (s *GameService) CloseGame(gameID string) error {
	s.mu.Lock()
	sess, ok := s.sessions[gameID]
	if ok {
		delete(s.sessions, gameID)
	}
	active := len(s.sessions)
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: game %s", apperrors.ErrNotFound, gameID)
	}

	sess.countdown.Stop()
	if s.deps.Broadcaster != nil {
		s.deps.Broadcaster.CloseGame(gameID)
	}
	if s.deps.Metrics != nil {
		s.deps.Metrics.ActiveSessions.Set(float64(active))
	}
	log.Printf("[GameService] Игра %s закрыта", gameID)
	return nil
}

// ActiveSessions возвращает количество открытых игр
func (s *GameService) ActiveSessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Shutdown останавливает таймеры всех игр
func (s *GameService) Shutdown() {
	s.cancel()
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sess := range s.sessions {
		sess.countdown.Stop()
	}
	log.Printf("[GameService] Остановлен, открытых игр: %d", len(s.sessions))
}

func (s *GameService) getSession(gameID string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[gameID]
	if !ok {
		return nil, fmt.Errorf("%w: game %s", apperrors.ErrNotFound, gameID)
	}
	return sess, nil
}

// IsHost проверяет ключ ведущего игры
func (s *GameService) IsHost(gameID, hostKey string) bool {
	if hostKey == "" {
		return false
	}
	sess, err := s.getSession(gameID)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(sess.HostKey), []byte(hostKey)) == 1
}

// GetSnapshot возвращает снимок игры. Если сессии нет в памяти, отдается
// последний публичный снимок из кеша.
func (s *GameService) GetSnapshot(gameID, hostKey string) (*gamemanager.Snapshot, error) {
	sess, err := s.getSession(gameID)
	if err == nil {
		host := s.IsHost(gameID, hostKey)
		sess.mu.Lock()
		defer sess.mu.Unlock()
		snapshot := sess.game.Snapshot(host)
		return &snapshot, nil
	}

	if s.deps.CacheRepo == nil {
		return nil, err
	}
	var cached gamemanager.Snapshot
	if cacheErr := s.deps.CacheRepo.GetJSON(snapshotKey(gameID), &cached); cacheErr != nil {
		if !errors.Is(cacheErr, apperrors.ErrNotFound) {
			log.Printf("[GameService] Ошибка чтения снимка игры %s из кеша: %v", gameID, cacheErr)
		}
		return nil, err
	}
	return &cached, nil
}

// SnapshotFor возвращает снимок открытой игры для ведущего или зрителя.
// В отличие от GetSnapshot, кеш закрытых игр не используется.
func (s *GameService) SnapshotFor(gameID string, host bool) (*gamemanager.Snapshot, error) {
	sess, err := s.getSession(gameID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	snapshot := sess.game.Snapshot(host)
	return &snapshot, nil
}

// === Команды ===

// execute выполняет команду под мьютексом сессии, учитывает ее в метриках
// и после успешного выполнения рассылает новый снимок
func (s *GameService) execute(gameID, command string, fn func(sess *Session) error) error {
	sess, err := s.getSession(gameID)
	if err != nil {
		s.recordCommand(command, err)
		return err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	err = fn(sess)
	s.recordCommand(command, err)
	if err != nil {
		log.Printf("[GameService] Команда %s для игры %s отклонена: %v", command, gameID, err)
		return err
	}
	s.publishState(sess)
	return nil
}

func (s *GameService) recordCommand(command string, err error) {
	if s.deps.Metrics == nil {
		return
	}
	s.deps.Metrics.GameCommands.WithLabelValues(command, commandResult(err)).Inc()
}

// commandResult переводит ошибку в метку метрики
func commandResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, apperrors.ErrNotFound):
		return "not_found"
	case errors.Is(err, apperrors.ErrValidation):
		return "validation"
	case errors.Is(err, apperrors.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, apperrors.ErrDataLoad):
		return "data_load"
	default:
		return "error"
	}
}

// publishState сохраняет публичный снимок в кеш и рассылает снимки экранам.
// Вызывается под мьютексом сессии, чтобы снимки уходили в порядке команд.
func (s *GameService) publishState(sess *Session) {
	public := sess.game.Snapshot(false)
	if s.deps.CacheRepo != nil {
		if err := s.deps.CacheRepo.SetJSON(snapshotKey(sess.ID), public, s.deps.SnapshotTTL); err != nil {
			log.Printf("[GameService] Не удалось сохранить снимок игры %s в кеш: %v", sess.ID, err)
		}
	}
	if s.deps.Broadcaster != nil {
		host := sess.game.Snapshot(true)
		if err := s.deps.Broadcaster.BroadcastSplit(sess.ID, websocket.GAME_STATE, host, public); err != nil {
			log.Printf("[GameService] Ошибка рассылки снимка игры %s: %v", sess.ID, err)
		}
	}
}

func (s *GameService) broadcast(gameID, eventType string, data interface{}) {
	if s.deps.Broadcaster == nil {
		return
	}
	if err := s.deps.Broadcaster.BroadcastToGame(gameID, eventType, data); err != nil {
		log.Printf("[GameService] Ошибка рассылки %s для игры %s: %v", eventType, gameID, err)
	}
}

func (s *GameService) broadcastSplit(gameID, eventType string, hostData, publicData interface{}) {
	if s.deps.Broadcaster == nil {
		return
	}
	if err := s.deps.Broadcaster.BroadcastSplit(gameID, eventType, hostData, publicData); err != nil {
		log.Printf("[GameService] Ошибка рассылки %s для игры %s: %v", eventType, gameID, err)
	}
}

// startTimer запускает рекомендательный таймер текущего раунда
func (s *GameService) startTimer(sess *Session) {
	duration := sess.game.Config().TimerFor(sess.game.CurrentRoundName())
	if duration <= 0 {
		return
	}
	sess.countdown.Start(s.ctx, duration, timerRelay{gameID: sess.ID, service: s})
}

// LoadBoard загружает доску вопросов. source: метка метрики (xlsx, json).
func (s *GameService) LoadBoard(gameID string, data *entity.BoardData, source string) (*gamemanager.LoadReport, error) {
	var report *gamemanager.LoadReport
	err := s.execute(gameID, "load_board", func(sess *Session) error {
		r, err := sess.game.LoadBoard(data)
		if err != nil {
			return err
		}
		sess.countdown.Stop()
		report = r

		public := *r
		public.DailyDoubles = nil
		s.broadcastSplit(gameID, websocket.BOARD_LOADED, r, public)
		return nil
	})

	if s.deps.Metrics != nil {
		s.deps.Metrics.BoardLoads.WithLabelValues(source, commandResult(err)).Inc()
	}
	if err != nil {
		return nil, err
	}
	log.Printf("[GameService] Игра %s: доска загружена (%s), пропущено записей: %d", gameID, source, len(report.Skipped))
	return report, nil
}

// AssignDailyDoubles заново расставляет n случайных Daily Double в раунде
func (s *GameService) AssignDailyDoubles(gameID string, round entity.RoundName, n int) ([]entity.Slot, error) {
	var slots []entity.Slot
	err := s.execute(gameID, "assign_daily_doubles", func(sess *Session) error {
		var err error
		slots, err = sess.game.AssignDailyDoubles(round, n)
		return err
	})
	return slots, err
}

// clueEvent — данные события QUESTION_SELECTED
type clueEvent struct {
	Category    string `json:"category"`
	Value       int    `json:"value"`
	Text        string `json:"text,omitempty"`
	Answer      string `json:"answer,omitempty"`
	DailyDouble bool   `json:"daily_double"`
	MaxWager    int    `json:"max_wager,omitempty"`
	TeamIndex   int    `json:"team_index"`
}

// SelectQuestion открывает клетку. Обычный вопрос запускает таймер сразу,
// Daily Double: после ставки.
func (s *GameService) SelectQuestion(gameID, category string, value int) (*gamemanager.SelectResult, error) {
	var result *gamemanager.SelectResult
	err := s.execute(gameID, "select", func(sess *Session) error {
		res, err := sess.game.SelectQuestion(category, value)
		if err != nil {
			return err
		}
		result = res

		host := clueEvent{
			Category:    res.Question.Category,
			Value:       res.Question.Value,
			Text:        res.Question.Text,
			Answer:      res.Question.Answer,
			DailyDouble: res.DailyDouble,
			MaxWager:    res.MaxWager,
			TeamIndex:   res.TeamIndex,
		}
		public := host
		public.Answer = ""
		if res.DailyDouble {
			public.Text = ""
		} else {
			s.startTimer(sess)
		}
		s.broadcastSplit(gameID, websocket.QUESTION_SELECTED, host, public)
		return nil
	})
	return result, err
}

// SubmitWager принимает ставку Daily Double в виде строки
func (s *GameService) SubmitWager(gameID, raw string) (int, error) {
	var wager int
	err := s.execute(gameID, "wager", func(sess *Session) error {
		if err := sess.game.SubmitWagerString(raw); err != nil {
			return err
		}
		if clue := sess.game.Snapshot(false).ActiveClue; clue != nil {
			wager = clue.Wager
		}
		s.startTimer(sess)
		s.broadcast(gameID, websocket.WAGER_ACCEPTED, map[string]int{"wager": wager})
		return nil
	})
	return wager, err
}

// OutcomeCommand — результат ответа: команда задается индексом или именем
type OutcomeCommand struct {
	TeamIndex *int
	TeamName  string
	Correct   bool
}

// RecordOutcome применяет результат ответа на открытый вопрос
func (s *GameService) RecordOutcome(gameID string, cmd OutcomeCommand) (*gamemanager.OutcomeResult, error) {
	var result *gamemanager.OutcomeResult
	err := s.execute(gameID, "outcome", func(sess *Session) error {
		var (
			res *gamemanager.OutcomeResult
			err error
		)
		switch {
		case cmd.TeamIndex != nil:
			res, err = sess.game.RecordOutcome(*cmd.TeamIndex, cmd.Correct)
		case strings.TrimSpace(cmd.TeamName) != "":
			res, err = sess.game.RecordOutcomeByName(cmd.TeamName, cmd.Correct)
		default:
			err = fmt.Errorf("%w: team_index or team_name is required", apperrors.ErrValidation)
		}
		if err != nil {
			return err
		}
		sess.countdown.Stop()
		result = res
		s.broadcast(gameID, websocket.OUTCOME_RECORDED, res)
		return nil
	})
	return result, err
}

// AdvanceRound переходит к следующему раунду. Переход дальше финала завершает
// и архивирует игру без применения финальных ставок.
func (s *GameService) AdvanceRound(gameID string) (entity.RoundName, bool, error) {
	var (
		next     entity.RoundName
		gameOver bool
	)
	err := s.execute(gameID, "advance", func(sess *Session) error {
		round, ok, err := sess.game.AdvanceRound()
		if err != nil {
			return err
		}
		sess.countdown.Stop()
		if !ok {
			gameOver = true
			s.finishGame(sess)
			return nil
		}
		next = round
		s.broadcast(gameID, websocket.ROUND_ADVANCED, map[string]entity.RoundName{"round": round})
		return nil
	})
	return next, gameOver, err
}

// SubmitFinalWager принимает финальную ставку команды
func (s *GameService) SubmitFinalWager(gameID string, teamIndex int, raw string) ([]int, error) {
	var missing []int
	err := s.execute(gameID, "final_wager", func(sess *Session) error {
		if err := sess.game.SubmitFinalWagerString(teamIndex, raw); err != nil {
			return err
		}
		missing = sess.game.MissingFinalWagers()

		public := map[string]interface{}{"team_index": teamIndex, "missing": missing}
		host := map[string]interface{}{"team_index": teamIndex, "missing": missing}
		if wagers := sess.game.Snapshot(true).Pending.FinalWagers; wagers != nil {
			host["wager"] = wagers[teamIndex]
		}
		s.broadcastSplit(gameID, websocket.FINAL_WAGER_ACCEPTED, host, public)
		return nil
	})
	return missing, err
}

// RevealFinal открывает финальный вопрос и запускает финальный таймер
func (s *GameService) RevealFinal(gameID string) (*entity.Question, error) {
	var question entity.Question
	err := s.execute(gameID, "final_reveal", func(sess *Session) error {
		q, err := sess.game.RevealFinal()
		if err != nil {
			return err
		}
		question = *q
		s.startTimer(sess)

		public := map[string]string{"category": q.Category, "text": q.Text}
		host := map[string]string{"category": q.Category, "text": q.Text, "answer": q.Answer}
		s.broadcastSplit(gameID, websocket.FINAL_REVEALED, host, public)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &question, nil
}

// RecordFinalOutcomes применяет результаты финала и завершает игру.
// Ключи задаются индексами либо именами команд.
func (s *GameService) RecordFinalOutcomes(gameID string, byIndex map[int]bool, byName map[string]bool) ([]gamemanager.FinalOutcome, error) {
	var outcomes []gamemanager.FinalOutcome
	err := s.execute(gameID, "final_outcomes", func(sess *Session) error {
		var err error
		switch {
		case len(byIndex) > 0 && len(byName) > 0:
			err = fmt.Errorf("%w: use either team indexes or team names", apperrors.ErrValidation)
		case len(byName) > 0:
			outcomes, err = sess.game.RecordFinalOutcomesByName(byName)
		default:
			outcomes, err = sess.game.RecordFinalOutcomes(byIndex)
		}
		if err != nil {
			return err
		}
		sess.countdown.Stop()
		s.broadcast(gameID, websocket.FINAL_RESOLVED, outcomes)
		if sess.game.IsGameOver() {
			s.finishGame(sess)
		}
		return nil
	})
	return outcomes, err
}

// ResetGame начинает игру заново с тем же составом команд
func (s *GameService) ResetGame(gameID string) error {
	return s.execute(gameID, "reset", func(sess *Session) error {
		sess.countdown.Stop()
		sess.game.Reset()
		s.broadcast(gameID, websocket.GAME_RESET, nil)
		return nil
	})
}

// RedefineTeams заменяет состав команд
func (s *GameService) RedefineTeams(gameID string, teams []entity.Team) ([]entity.Team, error) {
	var roster []entity.Team
	err := s.execute(gameID, "redefine_teams", func(sess *Session) error {
		if err := sess.game.RedefineTeams(teams); err != nil {
			return err
		}
		sess.countdown.Stop()
		roster = sess.game.Teams()
		s.broadcast(gameID, websocket.TEAMS_UPDATED, roster)
		return nil
	})
	return roster, err
}

// AddTeam добавляет команду в конец очереди
func (s *GameService) AddTeam(gameID, name, color string) ([]entity.Team, error) {
	var roster []entity.Team
	err := s.execute(gameID, "add_team", func(sess *Session) error {
		if err := sess.game.AddTeam(name, color); err != nil {
			return err
		}
		roster = sess.game.Teams()
		s.broadcast(gameID, websocket.TEAMS_UPDATED, roster)
		return nil
	})
	return roster, err
}

// Winners возвращает команды с максимальным счетом
func (s *GameService) Winners(gameID string) ([]entity.Team, error) {
	sess, err := s.getSession(gameID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.game.Winners(), nil
}

// === Завершение игры ===

// finishGame рассылает итоги и сохраняет их в архив. Вызывается под мьютексом сессии.
func (s *GameService) finishGame(sess *Session) {
	teams := sess.game.Teams()
	standings := entity.NewStandings(teams)
	winners := sess.game.Winners()

	s.broadcast(sess.ID, websocket.GAME_OVER, map[string]interface{}{
		"winners":   winners,
		"standings": standings,
	})
	if s.deps.Metrics != nil {
		s.deps.Metrics.GamesFinished.Inc()
	}
	log.Printf("[GameService] Игра %s завершена, победителей: %d", sess.ID, len(winners))

	if err := s.archive(sess, standings, winners); err != nil {
		log.Printf("[GameService] Не удалось сохранить итоги игры %s: %v", sess.ID, err)
	}
}

// archive сохраняет итоги один раз на сессию. Метка в кеше защищает от повторной
// записи с других экземпляров сервиса, уникальный индекс: от гонки меток.
func (s *GameService) archive(sess *Session, standings entity.Standings, winners []entity.Team) error {
	if s.deps.ResultRepo == nil || sess.archived {
		return nil
	}

	if s.deps.CacheRepo != nil {
		acquired, err := s.deps.CacheRepo.SetNX(archiveKey(sess.ID), time.Now().Unix(), archiveMarkerTTL)
		if err != nil {
			log.Printf("[GameService] Метка архивации игры %s недоступна: %v", sess.ID, err)
		} else if !acquired {
			sess.archived = true
			return nil
		}
	}

	names := make(entity.StringArray, len(winners))
	for i, w := range winners {
		names[i] = w.Name
	}
	topScore := 0
	if len(standings) > 0 {
		topScore = standings[0].Score
	}

	result := &entity.GameResult{
		SessionID:   sess.ID,
		Title:       sess.Title,
		TeamCount:   len(standings),
		TopScore:    topScore,
		WinnerNames: names,
		Standings:   standings,
		FinishedAt:  time.Now(),
	}
	if err := s.deps.ResultRepo.Create(result); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			sess.archived = true
			return nil
		}
		return err
	}
	sess.archived = true
	log.Printf("[GameService] Итоги игры %s сохранены (id=%d)", sess.ID, result.ID)
	return nil
}

// timerRelay пересылает тики таймера экранам игры. Не берет мьютекс сессии:
// Countdown.Stop вызывается под ним и ждет завершения горутины таймера.
type timerRelay struct {
	gameID  string
	service *GameService
}

func (r timerRelay) OnTick(remaining time.Duration, deadline time.Time) {
	r.service.broadcast(r.gameID, websocket.TIMER_TICK, map[string]interface{}{
		"remaining_sec": int((remaining + time.Second - 1) / time.Second),
		"deadline":      deadline,
	})
}

func (r timerRelay) OnExpire() {
	r.service.broadcast(r.gameID, websocket.TIMER_EXPIRED, nil)
}
