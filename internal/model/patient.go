package model

import (
	"time"

	"github.com/google/uuid"
)

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

type Patient struct {
	ID              uuid.UUID `db:"id" json:"id"`
	FullName        string    `db:"full_name" json:"full_name"`
	Gender          Gender    `db:"gender" json:"gender"`
	BirthDate       time.Time `db:"birth_date" json:"birth_date"`
	Address         string    `db:"address" json:"address"`
	Phone           string    `db:"phone" json:"phone"`
	KinName         string    `db:"kin_name" json:"kin_name"`
	KinPhone        string    `db:"kin_phone" json:"kin_phone"`
	KnownConditions string    `db:"known_conditions" json:"known_conditions"`
	// Notes accumulate; the risk subsystem only ever appends, never
	// rewrites.
	Notes        string    `db:"notes" json:"notes"`
	RegisteredAt time.Time `db:"registered_at" json:"registered_at"`
}

type CreatePatientRequest struct {
	FullName        string    `json:"full_name" binding:"required"`
	Gender          Gender    `json:"gender" binding:"required,oneof=MALE FEMALE OTHER"`
	BirthDate       time.Time `json:"birth_date" binding:"required"`
	Address         string    `json:"address"`
	Phone           string    `json:"phone"`
	KinName         string    `json:"kin_name"`
	KinPhone        string    `json:"kin_phone"`
	KnownConditions string    `json:"known_conditions"`
	Notes           string    `json:"notes"`
}

type UpdatePatientRequest struct {
	FullName        *string    `json:"full_name"`
	Gender          *Gender    `json:"gender" binding:"omitempty,oneof=MALE FEMALE OTHER"`
	BirthDate       *time.Time `json:"birth_date"`
	Address         *string    `json:"address"`
	Phone           *string    `json:"phone"`
	KinName         *string    `json:"kin_name"`
	KinPhone        *string    `json:"kin_phone"`
	KnownConditions *string    `json:"known_conditions"`
}
