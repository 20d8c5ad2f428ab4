package questionbank

import (
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"github.com/yourusername/jeopardy-api/internal/domain/entity"
	apperrors "github.com/yourusername/jeopardy-api/internal/pkg/errors"
)

// Имена листов книги с вопросами
const (
	SheetJeopardy       = "Jeopardy Round"
	SheetDoubleJeopardy = "Double Jeopardy Round"
	SheetFinal          = "Final Jeopardy"
	SheetDailyDoubles   = "Daily Doubles"
	SheetHelp           = "Help"
)

// NoAnswerProvided подставляется, когда в клетке нет разделителя вопроса и ответа
const NoAnswerProvided = "No answer provided"

// RequiredSheets — листы, без которых книга не загружается
var RequiredSheets = []string{SheetJeopardy, SheetDoubleJeopardy, SheetFinal}

// Ladders задаёт стоимости колонок "Question 1..N" для обычных раундов
type Ladders struct {
	Jeopardy       []int
	DoubleJeopardy []int
}

// Parse читает книгу xlsx и собирает из неё данные доски.
// Отсутствие обязательного листа или нечитаемый файл дают ErrDataLoad.
func Parse(r io.Reader, ladders Ladders) (*entity.BoardData, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot open workbook: %v", apperrors.ErrDataLoad, err)
	}
	defer f.Close()

	return parseWorkbook(f, ladders)
}

// ParseFile читает книгу xlsx с диска
func ParseFile(path string, ladders Ladders) (*entity.BoardData, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot open workbook %s: %v", apperrors.ErrDataLoad, path, err)
	}
	defer f.Close()

	return parseWorkbook(f, ladders)
}

func parseWorkbook(f *excelize.File, ladders Ladders) (*entity.BoardData, error) {
	sheets := make(map[string]bool)
	for _, name := range f.GetSheetList() {
		sheets[name] = true
	}
	for _, name := range RequiredSheets {
		if !sheets[name] {
			return nil, fmt.Errorf("%w: sheet %q not found", apperrors.ErrDataLoad, name)
		}
	}

	data := &entity.BoardData{}

	jeopardy, err := parseRegularSheet(f, SheetJeopardy, ladders.Jeopardy)
	if err != nil {
		return nil, err
	}
	data.Rounds.Jeopardy = *jeopardy

	double, err := parseRegularSheet(f, SheetDoubleJeopardy, ladders.DoubleJeopardy)
	if err != nil {
		return nil, err
	}
	data.Rounds.DoubleJeopardy = *double

	final, err := parseFinalSheet(f)
	if err != nil {
		return nil, err
	}
	data.Rounds.Final = *final

	if sheets[SheetDailyDoubles] {
		refs, err := parseDailyDoublesSheet(f)
		if err != nil {
			return nil, err
		}
		data.DailyDoubles = refs
	}

	log.Printf("[QuestionBank] Книга разобрана: %d + %d категорий, Daily Double: %d",
		len(data.Rounds.Jeopardy.Categories), len(data.Rounds.DoubleJeopardy.Categories), len(data.DailyDoubles))
	return data, nil
}

// readSheet возвращает строку заголовков (в нижнем регистре) и строки данных
func readSheet(f *excelize.File, sheet string) (map[string]int, [][]string, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: cannot read sheet %q: %v", apperrors.ErrDataLoad, sheet, err)
	}
	if len(rows) == 0 {
		return map[string]int{}, nil, nil
	}
	header := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, dup := header[key]; !dup && key != "" {
			header[key] = i
		}
	}
	return header, rows[1:], nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRegularSheet разбирает лист обычного раунда: колонка Category и колонки Question 1..N
func parseRegularSheet(f *excelize.File, sheet string, ladder []int) (*entity.RoundData, error) {
	header, rows, err := readSheet(f, sheet)
	if err != nil {
		return nil, err
	}
	categoryCol, ok := header["category"]
	if !ok {
		return nil, fmt.Errorf("%w: sheet %q has no Category column", apperrors.ErrDataLoad, sheet)
	}

	round := &entity.RoundData{Questions: make(map[string]map[int]*entity.ClueData)}
	for _, row := range rows {
		category := cell(row, categoryCol)
		if category == "" {
			continue
		}
		if _, seen := round.Questions[category]; !seen {
			round.Categories = append(round.Categories, category)
			round.Questions[category] = make(map[int]*entity.ClueData)
		}

		for i, value := range ladder {
			col, ok := header[fmt.Sprintf("question %d", i+1)]
			if !ok {
				continue
			}
			text := cell(row, col)
			if text == "" {
				continue
			}
			question, answer := ParseQA(text)
			if question == "" || answer == "" {
				continue
			}
			round.Questions[category][value] = &entity.ClueData{Text: question, Answer: answer}
		}
	}
	return round, nil
}

// parseFinalSheet разбирает лист финала: строки Item = Category/Question/Answer, значение в колонке Value
func parseFinalSheet(f *excelize.File) (*entity.FinalData, error) {
	header, rows, err := readSheet(f, SheetFinal)
	if err != nil {
		return nil, err
	}
	itemCol, okItem := header["item"]
	valueCol, okValue := header["value"]
	if !okItem || !okValue {
		return nil, fmt.Errorf("%w: sheet %q needs Item and Value columns", apperrors.ErrDataLoad, SheetFinal)
	}

	final := &entity.FinalData{}
	for _, row := range rows {
		value := cell(row, valueCol)
		switch strings.ToLower(cell(row, itemCol)) {
		case "category":
			if final.Category == "" {
				final.Category = value
			}
		case "question":
			if final.Question == "" {
				final.Question = value
			}
		case "answer":
			if final.Answer == "" {
				final.Answer = value
			}
		}
	}
	return final, nil
}

// parseDailyDoublesSheet разбирает необязательный лист с явными Daily Double.
// Строки с неизвестным раундом или нечисловой стоимостью пропускаются.
func parseDailyDoublesSheet(f *excelize.File) ([]entity.DailyDoubleRef, error) {
	header, rows, err := readSheet(f, SheetDailyDoubles)
	if err != nil {
		return nil, err
	}
	roundCol, ok1 := header["round"]
	categoryCol, ok2 := header["category"]
	valueCol, ok3 := header["value"]
	if !ok1 || !ok2 || !ok3 {
		log.Printf("[QuestionBank] Лист %q без колонок Round/Category/Value, пропускаю", SheetDailyDoubles)
		return nil, nil
	}

	refs := make([]entity.DailyDoubleRef, 0)
	for _, row := range rows {
		round, ok := entity.ParseRoundName(cell(row, roundCol))
		if !ok {
			continue
		}
		category := cell(row, categoryCol)
		value, ok := parseValue(cell(row, valueCol))
		if category == "" || !ok {
			continue
		}
		refs = append(refs, entity.DailyDoubleRef{Round: round, Category: category, Value: value})
	}
	return refs, nil
}

// parseValue принимает "400", "$400" и "400.0"
func parseValue(s string) (int, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	if s == "" {
		return 0, false
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v, true
	}
	fv, err := strconv.ParseFloat(s, 64)
	if err != nil || fv != float64(int(fv)) {
		return 0, false
	}
	return int(fv), true
}

// ParseQA разбирает клетку формата "Question: X | Answer: Y".
// Если разделителя "|" нет, пробует перевод строки; если нет и его, весь текст считается вопросом.
func ParseQA(text string) (question, answer string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ""
	}

	parts := strings.Split(text, "|")
	if len(parts) < 2 {
		parts = strings.Split(text, "\n")
	}
	if len(parts) < 2 {
		return text, NoAnswerProvided
	}

	question = stripPrefix(strings.TrimSpace(parts[0]), "question:")
	answer = stripPrefix(strings.TrimSpace(parts[1]), "answer:")
	return question, answer
}

func stripPrefix(s, prefix string) string {
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return strings.TrimSpace(s[len(prefix):])
	}
	return s
}
