package services

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/SAP-F-2025/training-service/internal/repositories"
	"github.com/xuri/excelize/v2"
)

// ReportService exports the daily batch statistics workbook consumed by
// training coordinators. Driven by the daily tick job.
type ReportService interface {
	GenerateDailyReport(ctx context.Context, now time.Time) (string, error)
}

type reportService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	outputDir string
}

func NewReportService(repo repositories.Repository, logger *slog.Logger, outputDir string) ReportService {
	return &reportService{
		repo:      repo,
		logger:    logger,
		outputDir: outputDir,
	}
}

func (s *reportService) GenerateDailyReport(ctx context.Context, now time.Time) (string, error) {
	batches, err := s.repo.Batch().GetAll(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load batches: %w", err)
	}

	file := excelize.NewFile()
	defer file.Close()

	const sheet = "Batch Statistics"
	index, err := file.NewSheet(sheet)
	if err != nil {
		return "", fmt.Errorf("failed to create report sheet: %w", err)
	}
	file.SetActiveSheet(index)
	file.DeleteSheet("Sheet1")

	headers := []string{"Batch ID", "Name", "Enrollment", "Completion Rate (%)", "Average Score (%)"}
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := file.SetCellValue(sheet, cell, header); err != nil {
			return "", fmt.Errorf("failed to write report header: %w", err)
		}
	}

	for row, batch := range batches {
		values := []interface{}{
			batch.ID,
			batch.Name,
			batch.CurrentEnrollment,
			batch.CompletionRate,
			batch.AverageScore,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				return "", fmt.Errorf("failed to write report row: %w", err)
			}
		}
	}

	path := filepath.Join(s.outputDir, fmt.Sprintf("batch-report-%s.xlsx", now.Format("2006-01-02")))
	if err := file.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save report: %w", err)
	}

	s.logger.Info("Daily batch report generated",
		"path", path,
		"batches", len(batches))

	return path, nil
}
