package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/SAP-F-2025/training-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReportService_GenerateDailyReport(t *testing.T) {
	mockRepo := newMockRepository()
	mockRepo.batchRepo.On("GetAll", mock.Anything).Return([]*models.Batch{
		{ID: 1, Name: "Spring Cohort", CurrentEnrollment: 24, CompletionRate: 75, AverageScore: 81.5},
		{ID: 2, Name: "Summer Cohort", CurrentEnrollment: 18, CompletionRate: 50, AverageScore: 62},
	}, nil)

	dir := t.TempDir()
	service := NewReportService(mockRepo, testLogger(), dir)

	now := time.Date(2025, 3, 15, 8, 0, 0, 0, time.UTC)
	path, err := service.GenerateDailyReport(context.Background(), now)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "batch-report-2025-03-15.xlsx"), path)

	file, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer file.Close()

	name, err := file.GetCellValue("Batch Statistics", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Spring Cohort", name)

	enrollment, err := file.GetCellValue("Batch Statistics", "C3")
	require.NoError(t, err)
	assert.Equal(t, "18", enrollment)
}
