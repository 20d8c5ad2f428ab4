package questionbank

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// helpLines — инструкция на листе Help
var helpLines = []string{
	"How to use this template:",
	"1. For Jeopardy and Double Jeopardy rounds, add categories in the Category column.",
	`2. Add questions and answers in the format "Question: [text] | Answer: [text]"`,
	"3. For Final Jeopardy, fill in the Category, Question, and Answer in the Value column.",
	"4. For Daily Doubles, specify the Round, Category, and Value of each Daily Double.",
	"5. You can add as many categories as needed by adding more rows.",
	"6. Save the file and upload it to the game.",
}

// WriteTemplate записывает в w пустую книгу с вопросами: по строке-образцу в обычных раундах,
// пустой финал, три строки Daily Double и лист Help
func WriteTemplate(w io.Writer, ladders Ladders) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetJeopardy); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetDoubleJeopardy, SheetFinal, SheetDailyDoubles, SheetHelp} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %q: %w", name, err)
		}
	}

	if err := writeRegularTemplate(f, SheetJeopardy, ladders.Jeopardy); err != nil {
		return err
	}
	if err := writeRegularTemplate(f, SheetDoubleJeopardy, ladders.DoubleJeopardy); err != nil {
		return err
	}

	rows := map[string][][]interface{}{
		SheetFinal: {
			{"Item", "Value"},
			{"Category", ""},
			{"Question", ""},
			{"Answer", ""},
		},
		SheetDailyDoubles: {
			{"Round", "Category", "Value"},
			{"Jeopardy", "", ""},
			{"Double Jeopardy", "", ""},
			{"Double Jeopardy", "", ""},
		},
	}
	help := [][]interface{}{{"Instructions"}}
	for _, line := range helpLines {
		help = append(help, []interface{}{line})
	}
	rows[SheetHelp] = help

	for _, sheet := range []string{SheetFinal, SheetDailyDoubles, SheetHelp} {
		if err := setRows(f, sheet, rows[sheet]); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRegularTemplate(f *excelize.File, sheet string, ladder []int) error {
	header := []interface{}{"Category"}
	sample := []interface{}{"Category Name"}
	for i, value := range ladder {
		header = append(header, fmt.Sprintf("Question %d", i+1))
		sample = append(sample, fmt.Sprintf("Question: Sample question for $%d | Answer: Sample answer", value))
	}
	return setRows(f, sheet, [][]interface{}{header, sample})
}

func setRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}
