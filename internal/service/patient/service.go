package patient

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/chikere/bptracker-api/internal/model"
	"github.com/chikere/bptracker-api/internal/repository"
)

type PatientService interface {
	CreatePatient(ctx context.Context, patient *model.Patient) error
	GetPatient(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	UpdatePatient(ctx context.Context, patient *model.Patient) error
	DeletePatient(ctx context.Context, id uuid.UUID) error
	ListPatients(ctx context.Context, search string) ([]*model.Patient, error)
}

type Service struct {
	repo repository.PatientRepository
}

func NewService(repo repository.PatientRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreatePatient(ctx context.Context, patient *model.Patient) error {
	if err := s.validatePatient(patient); err != nil {
		return fmt.Errorf("invalid patient data: %w", err)
	}

	patient.ID = uuid.New()
	patient.RegisteredAt = time.Now()

	if err := s.repo.Create(ctx, patient); err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) UpdatePatient(ctx context.Context, patient *model.Patient) error {
	if err := s.validatePatient(patient); err != nil {
		return fmt.Errorf("invalid patient data: %w", err)
	}
	return s.repo.Update(ctx, patient)
}

func (s *Service) DeletePatient(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// ListPatients returns all patients, or a case-insensitive substring match
// on full name when search is non-empty.
func (s *Service) ListPatients(ctx context.Context, search string) ([]*model.Patient, error) {
	if search != "" {
		return s.repo.SearchByName(ctx, search)
	}
	return s.repo.List(ctx)
}

func (s *Service) validatePatient(patient *model.Patient) error {
	if patient.FullName == "" {
		return fmt.Errorf("full name is required")
	}
	if patient.Gender == "" {
		return fmt.Errorf("gender is required")
	}
	if patient.BirthDate.IsZero() {
		return fmt.Errorf("birth date is required")
	}
	return nil
}
