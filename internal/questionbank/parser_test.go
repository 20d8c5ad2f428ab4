package questionbank

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"github.com/yourusername/jeopardy-api/internal/domain/entity"
	apperrors "github.com/yourusername/jeopardy-api/internal/pkg/errors"
)

var testLadders = Ladders{
	Jeopardy:       []int{200, 400, 600, 800, 1000},
	DoubleJeopardy: []int{400, 800, 1200, 1600, 2000},
}

// buildWorkbook создает книгу в памяти из набора листов
func buildWorkbook(t *testing.T, sheets map[string][][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	first := true
	for name, rows := range sheets {
		if first {
			require.NoError(t, f.SetSheetName("Sheet1", name))
			first = false
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		require.NoError(t, setRows(f, name, rows))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func fullSheets() map[string][][]interface{} {
	return map[string][][]interface{}{
		SheetJeopardy: {
			{"Category", "Question 1", "Question 2", "Question 3"},
			{"Science", "Question: H2O | Answer: Water", "Closest star\nThe Sun", "Only a question"},
			{"History", "question: First president | ANSWER: Washington"},
			{"", "Question: orphan | Answer: row"},
		},
		SheetDoubleJeopardy: {
			{"Category", "Question 1", "Question 2"},
			{"Art", "Question: Mona Lisa | Answer: Da Vinci", "Question: Starry Night | Answer: Van Gogh"},
		},
		SheetFinal: {
			{"Item", "Value"},
			{"Category", "Geography"},
			{"Question", "Largest ocean"},
			{"Answer", "Pacific"},
		},
	}
}

func TestParse_FullWorkbook(t *testing.T) {
	buf := buildWorkbook(t, fullSheets())

	data, err := Parse(buf, testLadders)

	require.NoError(t, err)
	j := data.Rounds.Jeopardy
	assert.Equal(t, []string{"Science", "History"}, j.Categories, "Строки без категории пропускаются")
	assert.Equal(t, &entity.ClueData{Text: "H2O", Answer: "Water"}, j.Questions["Science"][200])
	assert.Equal(t, &entity.ClueData{Text: "Closest star", Answer: "The Sun"}, j.Questions["Science"][400])
	assert.Equal(t, NoAnswerProvided, j.Questions["Science"][600].Answer)
	assert.Equal(t, "Washington", j.Questions["History"][200].Answer)

	dj := data.Rounds.DoubleJeopardy
	assert.Equal(t, "Van Gogh", dj.Questions["Art"][800].Answer, "Колонка Question 2 получает вторую стоимость лестницы")

	assert.Equal(t, entity.FinalData{Category: "Geography", Question: "Largest ocean", Answer: "Pacific"}, data.Rounds.Final)
	assert.Empty(t, data.DailyDoubles)
}

func TestParse_DailyDoublesSheet(t *testing.T) {
	sheets := fullSheets()
	sheets[SheetDailyDoubles] = [][]interface{}{
		{"Round", "Category", "Value"},
		{"Jeopardy", "Science", "400"},
		{"Double Jeopardy", "Art", 800},
		{"Bonus", "Art", 400},
		{"Jeopardy", "", 200},
		{"Jeopardy", "Science", "abc"},
	}
	buf := buildWorkbook(t, sheets)

	data, err := Parse(buf, testLadders)

	require.NoError(t, err)
	assert.Equal(t, []entity.DailyDoubleRef{
		{Round: entity.RoundJeopardy, Category: "Science", Value: 400},
		{Round: entity.RoundDoubleJeopardy, Category: "Art", Value: 800},
	}, data.DailyDoubles)
}

func TestParse_MissingSheet(t *testing.T) {
	sheets := fullSheets()
	delete(sheets, SheetFinal)
	buf := buildWorkbook(t, sheets)

	_, err := Parse(buf, testLadders)

	assert.ErrorIs(t, err, apperrors.ErrDataLoad)
	assert.Contains(t, err.Error(), SheetFinal)
}

func TestParse_MissingCategoryColumn(t *testing.T) {
	sheets := fullSheets()
	sheets[SheetJeopardy] = [][]interface{}{{"Topic", "Question 1"}, {"Science", "Q | A"}}
	buf := buildWorkbook(t, sheets)

	_, err := Parse(buf, testLadders)

	assert.ErrorIs(t, err, apperrors.ErrDataLoad)
}

func TestParse_NotAWorkbook(t *testing.T) {
	_, err := Parse(bytes.NewBufferString("definitely not xlsx"), testLadders)

	assert.ErrorIs(t, err, apperrors.ErrDataLoad)
}

func TestParseQA(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		question string
		answer   string
	}{
		{"Стандартный формат", "Question: What is 2+2? | Answer: 4", "What is 2+2?", "4"},
		{"Регистр префиксов", "QUESTION: q | answer: a", "q", "a"},
		{"Без префиксов", "q | a", "q", "a"},
		{"Перевод строки", "q\na", "q", "a"},
		{"Без разделителя", "  only text  ", "only text", NoAnswerProvided},
		{"Пустая строка", "   ", "", ""},
		{"Лишние части", "q | a | extra", "q", "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, a := ParseQA(tt.input)
			assert.Equal(t, tt.question, q)
			assert.Equal(t, tt.answer, a)
		})
	}
}

func TestParseValue(t *testing.T) {
	v, ok := parseValue("$400")
	assert.True(t, ok)
	assert.Equal(t, 400, v)

	v, ok = parseValue("800.0")
	assert.True(t, ok)
	assert.Equal(t, 800, v)

	_, ok = parseValue("12.5")
	assert.False(t, ok)
	_, ok = parseValue("")
	assert.False(t, ok)
}

func TestWriteTemplate_ParsesBack(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTemplate(&buf, testLadders))

	data, err := Parse(&buf, testLadders)

	require.NoError(t, err)
	assert.Equal(t, []string{"Category Name"}, data.Rounds.Jeopardy.Categories)
	assert.Len(t, data.Rounds.Jeopardy.Questions["Category Name"], 5)
	assert.Equal(t, "Sample question for $2000", data.Rounds.DoubleJeopardy.Questions["Category Name"][2000].Text)
	assert.Equal(t, entity.FinalData{}, data.Rounds.Final, "Финал в шаблоне пустой")
	assert.Empty(t, data.DailyDoubles, "Строки Daily Double без категории пропускаются")
}

func TestWriteTemplate_HasHelpSheet(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTemplate(&buf, testLadders))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetJeopardy, SheetDoubleJeopardy, SheetFinal, SheetDailyDoubles, SheetHelp}, f.GetSheetList())
	rows, err := f.GetRows(SheetHelp)
	require.NoError(t, err)
	assert.Equal(t, "Instructions", rows[0][0])
	assert.Len(t, rows, len(helpLines)+1)
}
