package gamemanager

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yourusername/jeopardy-api/internal/domain/entity"
	apperrors "github.com/yourusername/jeopardy-api/internal/pkg/errors"
)

// LoadReport описывает результат загрузки доски
type LoadReport struct {
	QuestionsLoaded    map[entity.RoundName]int  `json:"questions_loaded"`
	FinalLoaded        bool                      `json:"final_loaded"`
	DailyDoubles       []entity.DailyDoubleRef   `json:"daily_doubles"`
	RandomDailyDoubles map[entity.RoundName]bool `json:"random_daily_doubles"` // true, если для раунда сработал случайный выбор
	Skipped            []string                  `json:"skipped"`
}

func (r *LoadReport) skip(format string, args ...interface{}) {
	r.Skipped = append(r.Skipped, fmt.Sprintf(format, args...))
}

// loadedBoard — результат построения раундов до фиксации в игре
type loadedBoard struct {
	rounds       map[entity.RoundName]*entity.Round
	dailyDoubles []entity.DailyDoubleRef
	explicitDD   map[entity.RoundName]int
}

// buildBoard строит все три раунда из данных загрузчика.
// Битые записи пропускаются и попадают в отчёт; ошибка возвращается только если
// в обычном раунде не осталось ни одного вопроса.
func buildBoard(cfg Config, data *entity.BoardData, report *LoadReport) (*loadedBoard, error) {
	if data == nil {
		return nil, fmt.Errorf("%w: board data is empty", apperrors.ErrDataLoad)
	}

	board := &loadedBoard{
		rounds:     make(map[entity.RoundName]*entity.Round, 3),
		explicitDD: make(map[entity.RoundName]int),
	}

	for _, name := range entity.RoundOrder() {
		if name.IsFinal() {
			continue
		}
		rd, _ := data.RegularRound(name)
		round := buildRegularRound(name, cfg.Ladder(name), rd, report)
		if round.QuestionCount() == 0 {
			return nil, fmt.Errorf("%w: round %q has no playable questions", apperrors.ErrDataLoad, name)
		}
		board.rounds[name] = round
		report.QuestionsLoaded[name] = round.QuestionCount()

		// Флаги из самих клеток считаются явно заданными Daily Double
		for _, slot := range round.Slots() {
			q, _ := round.GetQuestion(slot.Category, slot.Value)
			if q.IsDailyDouble {
				board.addDailyDouble(name, q)
			}
		}
	}

	final := entity.NewFinalRound()
	fd := data.Rounds.Final
	category := strings.TrimSpace(fd.Category)
	question := strings.TrimSpace(fd.Question)
	answer := strings.TrimSpace(fd.Answer)
	if category != "" && question != "" && answer != "" {
		final.SetFinalQuestion(category, question, answer)
		report.FinalLoaded = true
		report.QuestionsLoaded[entity.RoundFinal] = 1
	} else {
		report.skip("final: category, question and answer are all required")
	}
	board.rounds[entity.RoundFinal] = final

	for _, ref := range data.DailyDoubles {
		name := entity.NormalizeRoundName(string(ref.Round))
		if !name.Valid() {
			report.skip("daily double %q/%q/%d: unknown round", ref.Round, ref.Category, ref.Value)
			continue
		}
		if name.IsFinal() {
			report.skip("daily double %q/%q/%d: final round does not allow daily doubles", ref.Round, ref.Category, ref.Value)
			continue
		}
		q, ok := board.rounds[name].GetQuestion(strings.TrimSpace(ref.Category), ref.Value)
		if !ok {
			report.skip("daily double %q/%q/%d: no such question", name, ref.Category, ref.Value)
			continue
		}
		q.IsDailyDouble = true
		board.addDailyDouble(name, q)
	}

	return board, nil
}

// addDailyDouble добавляет запись в индекс без дубликатов
func (b *loadedBoard) addDailyDouble(round entity.RoundName, q *entity.Question) {
	for _, ref := range b.dailyDoubles {
		if ref.Round == round && ref.Category == q.Category && ref.Value == q.Value {
			return
		}
	}
	b.dailyDoubles = append(b.dailyDoubles, entity.DailyDoubleRef{Round: round, Category: q.Category, Value: q.Value})
	b.explicitDD[round]++
}

func buildRegularRound(name entity.RoundName, ladder []int, rd *entity.RoundData, report *LoadReport) *entity.Round {
	round := entity.NewRound(name)
	if rd == nil {
		return round
	}

	allowed := make(map[int]bool, len(ladder))
	for _, v := range ladder {
		allowed[v] = true
	}

	for _, category := range rd.Categories {
		category = strings.TrimSpace(category)
		if category == "" {
			report.skip("%s: empty category name", name)
			continue
		}
		round.AddCategory(category)
	}

	// Категории, которых нет в списке, пропускаются; перебор в отсортированном порядке ради стабильного отчёта
	unknown := make([]string, 0)
	for category := range rd.Questions {
		if _, ok := round.Questions[strings.TrimSpace(category)]; !ok {
			unknown = append(unknown, category)
		}
	}
	sort.Strings(unknown)
	for _, category := range unknown {
		report.skip("%s: category %q is not listed in categories", name, category)
	}

	for rawCategory, byValue := range rd.Questions {
		category := strings.TrimSpace(rawCategory)
		if _, ok := round.Questions[category]; !ok {
			continue
		}
		values := make([]int, 0, len(byValue))
		for v := range byValue {
			values = append(values, v)
		}
		sort.Ints(values)

		for _, value := range values {
			clue := byValue[value]
			switch {
			case clue == nil:
				report.skip("%s: %q/%d has no data", name, category, value)
			case value <= 0:
				report.skip("%s: %q/%d has a non-positive value", name, category, value)
			case len(allowed) > 0 && !allowed[value]:
				report.skip("%s: %q/%d is not on the round ladder", name, category, value)
			case strings.TrimSpace(clue.Text) == "" || strings.TrimSpace(clue.Answer) == "":
				report.skip("%s: %q/%d is missing question or answer text", name, category, value)
			default:
				round.AddQuestion(entity.NewQuestion(
					category,
					value,
					strings.TrimSpace(clue.Text),
					strings.TrimSpace(clue.Answer),
					clue.IsDailyDouble,
				))
			}
		}
	}

	return round
}
