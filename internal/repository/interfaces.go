package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/chikere/bptracker-api/internal/model"
)

// All repository interfaces in one file
type (
	// PatientRepository handles patient persistence
	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context) ([]*model.Patient, error)
		SearchByName(ctx context.Context, name string) ([]*model.Patient, error)
		// AppendNotes concatenates a note block onto the patient's notes in
		// a single statement, so concurrent appends never lose an entry.
		AppendNotes(ctx context.Context, id uuid.UUID, note string) error
	}

	// ReadingRepository handles blood-pressure reading persistence
	ReadingRepository interface {
		Create(ctx context.Context, reading *model.Reading) error
		Get(ctx context.Context, id uuid.UUID) (*model.Reading, error)
		Delete(ctx context.Context, id uuid.UUID) error
		ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Reading, error)
		Latest(ctx context.Context, patientID uuid.UUID) (*model.Reading, error)
		// Recent returns up to n readings, most recent first. May return
		// fewer than n; never pads.
		Recent(ctx context.Context, patientID uuid.UUID, n int) ([]*model.Reading, error)
		Count(ctx context.Context, patientID uuid.UUID) (int, error)
	}

	// OutboxRepository handles the transactional outbox
	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error
	}
)
