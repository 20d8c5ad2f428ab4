package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/yourusername/jeopardy-api/internal/domain/entity"
	"github.com/yourusername/jeopardy-api/internal/questionbank"
	"github.com/yourusername/jeopardy-api/internal/service/gamemanager"
)

// Утилита для книг с вопросами:
//
//	bank-template -out questions.xlsx   создать пустой шаблон
//	bank-template -check questions.xlsx проверить книгу и вывести сводку
func main() {
	out := flag.String("out", "", "куда записать шаблон")
	check := flag.String("check", "", "книга для проверки")
	flag.Parse()

	cfg := gamemanager.DefaultConfig()
	ladders := questionbank.Ladders{Jeopardy: cfg.JeopardyValues, DoubleJeopardy: cfg.DoubleJeopardyValues}

	switch {
	case *out != "":
		if err := writeTemplate(*out, ladders); err != nil {
			log.Fatalf("Failed to write template: %v", err)
		}
		fmt.Printf("Template written to %s\n", *out)
	case *check != "":
		if err := checkWorkbook(*check, ladders); err != nil {
			log.Fatalf("Workbook %s is invalid: %v", *check, err)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func writeTemplate(path string, ladders questionbank.Ladders) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := questionbank.WriteTemplate(f, ladders); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func checkWorkbook(path string, ladders questionbank.Ladders) error {
	data, err := questionbank.ParseFile(path, ladders)
	if err != nil {
		return err
	}

	// Пробная загрузка в игру выявляет пропущенные записи
	game := gamemanager.NewGame(gamemanager.DefaultConfig(), nil)
	report, err := game.LoadBoard(data)
	if err != nil {
		return err
	}

	for _, round := range []entity.RoundName{entity.RoundJeopardy, entity.RoundDoubleJeopardy} {
		fmt.Printf("%-16s %d questions\n", string(round)+":", report.QuestionsLoaded[round])
	}
	fmt.Printf("Final loaded:    %t\n", report.FinalLoaded)
	fmt.Printf("Daily Doubles:   %d\n", len(report.DailyDoubles))
	for _, s := range report.Skipped {
		fmt.Printf("  skipped: %s\n", s)
	}
	return nil
}
