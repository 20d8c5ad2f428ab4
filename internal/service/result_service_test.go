package service

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/jeopardy-api/internal/domain/entity"
	apperrors "github.com/yourusername/jeopardy-api/internal/pkg/errors"
)

func archivedResult() *entity.GameResult {
	standings := entity.NewStandings([]entity.Team{
		{Name: "=SUM(A1)", Score: 300},
		{Name: "Owls", Score: 300},
		{Name: "Cats", Score: -200},
	})
	return &entity.GameResult{
		ID:          7,
		SessionID:   "session-7",
		Title:       "Friday quiz",
		TeamCount:   3,
		TopScore:    300,
		WinnerNames: entity.StringArray{"=SUM(A1)", "Owls"},
		Standings:   standings,
		FinishedAt:  time.Date(2024, 5, 1, 20, 30, 0, 0, time.UTC),
	}
}

func TestResultService_ListClampsPaging(t *testing.T) {
	tests := []struct {
		name                  string
		limit, offset         int
		wantLimit, wantOffset int
	}{
		{"По умолчанию", 0, 0, defaultResultsLimit, 0},
		{"Слишком большой лимит", 1000, 5, maxResultsLimit, 5},
		{"Отрицательное смещение", 10, -3, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockGameResultRepo)
			repo.On("List", tt.wantLimit, tt.wantOffset).Return([]entity.GameResult{}, int64(0), nil).Once()
			svc := NewResultService(repo)

			_, _, err := svc.List(tt.limit, tt.offset)

			require.NoError(t, err)
			repo.AssertExpectations(t)
		})
	}
}

func TestResultService_ExportStandings(t *testing.T) {
	// Arrange
	repo := new(MockGameResultRepo)
	repo.On("GetByID", uint(7)).Return(archivedResult(), nil)
	svc := NewResultService(repo)
	var buf bytes.Buffer

	// Act
	result, err := svc.ExportStandings(7, &buf)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "session-7", result.SessionID)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(standingsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, []string{"Friday quiz", "2024-05-01 20:30"}, rows[0])
	assert.Equal(t, []string{"Rank", "Team", "Score", "Winner"}, rows[2])
	assert.Equal(t, []string{"1", "'=SUM(A1)", "300", "Yes"}, rows[3], "Формулы в именах экранируются")
	assert.Equal(t, []string{"1", "Owls", "300", "Yes"}, rows[4], "Равный счёт делит место")
	assert.Equal(t, []string{"3", "Cats", "-200", "No"}, rows[5])
}

func TestResultService_ExportStandingsNotFound(t *testing.T) {
	repo := new(MockGameResultRepo)
	repo.On("GetByID", uint(1)).Return(nil, apperrors.ErrNotFound)
	svc := NewResultService(repo)
	var buf bytes.Buffer

	_, err := svc.ExportStandings(1, &buf)

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Zero(t, buf.Len(), "При ошибке файл не пишется")
}

func TestSanitizeForExcel(t *testing.T) {
	assert.Equal(t, "'=1+1", sanitizeForExcel("=1+1"))
	assert.Equal(t, "'@cmd", sanitizeForExcel("@cmd"))
	assert.Equal(t, "'-5", sanitizeForExcel("-5"))
	assert.Equal(t, "Team 1", sanitizeForExcel("Team 1"))
	assert.Equal(t, "", sanitizeForExcel(""))
}
