package model

import (
	"time"

	"github.com/google/uuid"
)

type BodyPosition string

const (
	PositionSitting  BodyPosition = "SITTING"
	PositionStanding BodyPosition = "STANDING"
	PositionLying    BodyPosition = "LYING"
)

type Arm string

const (
	ArmLeft  Arm = "LEFT"
	ArmRight Arm = "RIGHT"
)

// Reading is one blood-pressure measurement. Immutable once created; the
// capture timestamp is server-assigned and is not guaranteed monotonic per
// patient, readings may be backdated.
type Reading struct {
	ID           uuid.UUID    `db:"id" json:"id"`
	PatientID    uuid.UUID    `db:"patient_id" json:"patient_id"`
	Timestamp    time.Time    `db:"timestamp" json:"timestamp"`
	Systolic     int          `db:"systolic" json:"systolic"`
	Diastolic    int          `db:"diastolic" json:"diastolic"`
	HeartRate    int          `db:"heart_rate" json:"heart_rate"`
	BodyPosition BodyPosition `db:"body_position" json:"body_position"`
	Arm          Arm          `db:"arm" json:"arm"`
	Notes        string       `db:"notes" json:"notes"`
	DeviceID     string       `db:"device_id" json:"device_id"`
}

type CreateReadingRequest struct {
	PatientID    uuid.UUID    `json:"patient_id" binding:"required"`
	Systolic     int          `json:"systolic" binding:"required,min=30,max=300"`
	Diastolic    int          `json:"diastolic" binding:"required,min=20,max=200"`
	HeartRate    int          `json:"heart_rate" binding:"required,min=20,max=250"`
	BodyPosition BodyPosition `json:"body_position" binding:"required,bodyposition"`
	Arm          Arm          `json:"arm" binding:"required,arm"`
	Notes        string       `json:"notes"`
	DeviceID     string       `json:"device_id"`
}
