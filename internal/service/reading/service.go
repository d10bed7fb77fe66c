package reading

import (
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/chikere/bptracker-api/internal/model"
	"github.com/chikere/bptracker-api/internal/repository"
	apperrors "github.com/chikere/bptracker-api/pkg/errors"
)

// MinReadingsForAssessment is the history floor for the AI risk path.
// Fewer readings than this is not enough to diagnose high blood pressure.
const MinReadingsForAssessment = 3

type ReadingService interface {
	CreateReading(ctx context.Context, req *model.CreateReadingRequest) (*model.Reading, error)
	GetReading(ctx context.Context, id uuid.UUID) (*model.Reading, error)
	DeleteReading(ctx context.Context, id uuid.UUID) error
	ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Reading, error)
	LatestForPatient(ctx context.Context, patientID uuid.UUID) (*model.Reading, error)
	RecentForPatient(ctx context.Context, patientID uuid.UUID, n int) ([]*model.Reading, error)
	HasMinimumReadings(ctx context.Context, patientID uuid.UUID) (bool, error)
	ExportCSV(ctx context.Context, patientID uuid.UUID) (string, error)
}

type Service struct {
	repo     repository.ReadingRepository
	patients repository.PatientRepository
}

func NewService(repo repository.ReadingRepository, patients repository.PatientRepository) *Service {
	return &Service{repo: repo, patients: patients}
}

func (s *Service) CreateReading(ctx context.Context, req *model.CreateReadingRequest) (*model.Reading, error) {
	if _, err := s.patients.Get(ctx, req.PatientID); err != nil {
		return nil, err
	}

	reading := &model.Reading{
		ID:           uuid.New(),
		PatientID:    req.PatientID,
		Timestamp:    time.Now(),
		Systolic:     req.Systolic,
		Diastolic:    req.Diastolic,
		HeartRate:    req.HeartRate,
		BodyPosition: req.BodyPosition,
		Arm:          req.Arm,
		Notes:        req.Notes,
		DeviceID:     req.DeviceID,
	}

	if err := s.repo.Create(ctx, reading); err != nil {
		return nil, fmt.Errorf("failed to create reading: %w", err)
	}
	return reading, nil
}

func (s *Service) GetReading(ctx context.Context, id uuid.UUID) (*model.Reading, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) DeleteReading(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Reading, error) {
	if _, err := s.patients.Get(ctx, patientID); err != nil {
		return nil, err
	}
	return s.repo.ListByPatient(ctx, patientID)
}

func (s *Service) LatestForPatient(ctx context.Context, patientID uuid.UUID) (*model.Reading, error) {
	if _, err := s.patients.Get(ctx, patientID); err != nil {
		return nil, err
	}
	return s.repo.Latest(ctx, patientID)
}

// RecentForPatient returns up to n readings, most recent first. A patient
// with a shorter history gets fewer readings back, never padding.
func (s *Service) RecentForPatient(ctx context.Context, patientID uuid.UUID, n int) ([]*model.Reading, error) {
	if _, err := s.patients.Get(ctx, patientID); err != nil {
		return nil, err
	}
	return s.repo.Recent(ctx, patientID, n)
}

func (s *Service) HasMinimumReadings(ctx context.Context, patientID uuid.UUID) (bool, error) {
	if _, err := s.patients.Get(ctx, patientID); err != nil {
		return false, err
	}
	count, err := s.repo.Count(ctx, patientID)
	if err != nil {
		return false, fmt.Errorf("failed to count readings: %w", err)
	}
	return count >= MinReadingsForAssessment, nil
}

// ExportCSV renders all of a patient's readings, most recent first.
func (s *Service) ExportCSV(ctx context.Context, patientID uuid.UUID) (string, error) {
	readings, err := s.ListForPatient(ctx, patientID)
	if err != nil {
		return "", err
	}
	if len(readings) == 0 {
		return "", apperrors.NotFound("readings", nil)
	}

	var sb strings.Builder
	w := csv.NewWriter(&sb)

	header := []string{"Date", "Time", "Systolic", "Diastolic", "Heart Rate", "Body Position", "Arm", "Notes", "Device ID"}
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range readings {
		record := []string{
			r.Timestamp.Format("2006-01-02"),
			r.Timestamp.Format("15:04:05"),
			strconv.Itoa(r.Systolic),
			strconv.Itoa(r.Diastolic),
			strconv.Itoa(r.HeartRate),
			string(r.BodyPosition),
			string(r.Arm),
			r.Notes,
			r.DeviceID,
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return sb.String(), nil
}
