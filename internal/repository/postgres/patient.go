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

type patientRepository struct {
	db *sqlx.DB
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patients (
			id, full_name, gender, birth_date, address, phone,
			kin_name, kin_phone, known_conditions, notes, registered_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.ExecContext(ctx, query,
		patient.ID,
		patient.FullName,
		patient.Gender,
		patient.BirthDate,
		patient.Address,
		patient.Phone,
		patient.KinName,
		patient.KinPhone,
		patient.KnownConditions,
		patient.Notes,
		patient.RegisteredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	query := `SELECT * FROM patients WHERE id = $1`
	var patient model.Patient
	err := r.db.GetContext(ctx, &patient, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("patient", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	query := `
		UPDATE patients SET
			full_name = $1, gender = $2, birth_date = $3, address = $4,
			phone = $5, kin_name = $6, kin_phone = $7, known_conditions = $8
		WHERE id = $9
	`
	result, err := r.db.ExecContext(ctx, query,
		patient.FullName,
		patient.Gender,
		patient.BirthDate,
		patient.Address,
		patient.Phone,
		patient.KinName,
		patient.KinPhone,
		patient.KnownConditions,
		patient.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return apperrors.NotFound("patient", sql.ErrNoRows)
	}
	return nil
}

func (r *patientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM patients WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return apperrors.NotFound("patient", sql.ErrNoRows)
	}
	return nil
}

func (r *patientRepository) List(ctx context.Context) ([]*model.Patient, error) {
	query := `SELECT * FROM patients ORDER BY registered_at DESC`
	var patients []*model.Patient
	err := r.db.SelectContext(ctx, &patients, query)
	return patients, err
}

func (r *patientRepository) SearchByName(ctx context.Context, name string) ([]*model.Patient, error) {
	query := `SELECT * FROM patients WHERE full_name ILIKE $1 ORDER BY registered_at DESC`
	var patients []*model.Patient
	err := r.db.SelectContext(ctx, &patients, query, "%"+name+"%")
	return patients, err
}

// AppendNotes concatenates server-side so two concurrent appends both land.
// An empty notes column gets the bare note; otherwise a blank line separates
// the new block from the existing text.
func (r *patientRepository) AppendNotes(ctx context.Context, id uuid.UUID, note string) error {
	query := `
		UPDATE patients
		SET notes = CASE
			WHEN notes IS NULL OR notes = '' THEN $1
			ELSE notes || E'\n\n' || $1
		END
		WHERE id = $2
	`
	result, err := r.db.ExecContext(ctx, query, note, id)
	if err != nil {
		return fmt.Errorf("failed to append patient notes: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return apperrors.NotFound("patient", sql.ErrNoRows)
	}
	return nil
}
