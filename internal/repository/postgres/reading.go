package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/chikere/bptracker-api/internal/model"
	"github.com/chikere/bptracker-api/internal/repository"
	apperrors "github.com/chikere/bptracker-api/pkg/errors"
)

type readingRepository struct {
	db *sqlx.DB
}

func NewReadingRepository(db *sqlx.DB) repository.ReadingRepository {
	return &readingRepository{db: db}
}

func (r *readingRepository) Create(ctx context.Context, reading *model.Reading) error {
	query := `
		INSERT INTO readings (
			id, patient_id, timestamp, systolic, diastolic, heart_rate,
			body_position, arm, notes, device_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		reading.ID,
		reading.PatientID,
		reading.Timestamp,
		reading.Systolic,
		reading.Diastolic,
		reading.HeartRate,
		reading.BodyPosition,
		reading.Arm,
		reading.Notes,
		reading.DeviceID,
	)
	if err != nil {
		return fmt.Errorf("failed to create reading: %w", err)
	}
	return nil
}

func (r *readingRepository) Get(ctx context.Context, id uuid.UUID) (*model.Reading, error) {
	query := `SELECT * FROM readings WHERE id = $1`
	var reading model.Reading
	err := r.db.GetContext(ctx, &reading, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("reading", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reading: %w", err)
	}
	return &reading, nil
}

func (r *readingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM readings WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete reading: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return apperrors.NotFound("reading", sql.ErrNoRows)
	}
	return nil
}

func (r *readingRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Reading, error) {
	query := `SELECT * FROM readings WHERE patient_id = $1 ORDER BY timestamp DESC`
	var readings []*model.Reading
	err := r.db.SelectContext(ctx, &readings, query, patientID)
	return readings, err
}

func (r *readingRepository) Latest(ctx context.Context, patientID uuid.UUID) (*model.Reading, error) {
	query := `
		SELECT * FROM readings
		WHERE patient_id = $1
		ORDER BY timestamp DESC
		LIMIT 1
	`
	var reading model.Reading
	err := r.db.GetContext(ctx, &reading, query, patientID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("reading", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest reading: %w", err)
	}
	return &reading, nil
}

func (r *readingRepository) Recent(ctx context.Context, patientID uuid.UUID, n int) ([]*model.Reading, error) {
	query := `
		SELECT * FROM readings
		WHERE patient_id = $1
		ORDER BY timestamp DESC
		LIMIT $2
	`
	var readings []*model.Reading
	err := r.db.SelectContext(ctx, &readings, query, patientID, n)
	return readings, err
}

func (r *readingRepository) Count(ctx context.Context, patientID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM readings WHERE patient_id = $1`
	var count int
	err := r.db.GetContext(ctx, &count, query, patientID)
	return count, err
}
