package models

// Domain models matching the database schema in db/migrations/0001_init.sql

// Standard is the regulatory code framework an authorization is issued under.
type Standard string

const (
	StandardASMEIX Standard = "ASME IX"
	StandardCR9    Standard = "CR9"
	StandardCR7    Standard = "CR7"
)

// Valid reports whether s is one of the supported standards.
func (s Standard) Valid() bool {
	switch s {
	case StandardASMEIX, StandardCR9, StandardCR7:
		return true
	}
	return false
}

type Welder struct {
	ID                int64   `json:"id" db:"id"`
	FirstName         string  `json:"first_name" db:"first_name" validate:"required"`
	LastName          string  `json:"last_name" db:"last_name" validate:"required"`
	Identifier        string  `json:"identifier" db:"identifier" validate:"required"`
	Phone             *string `json:"phone,omitempty" db:"phone"`
	Email             *string `json:"email,omitempty" db:"email" validate:"omitempty,email"`
	CertificationDate *Date   `json:"certification_date,omitempty" db:"certification_date"`
	Status            string  `json:"status" db:"status"`
	Created           int64   `json:"created_at" db:"created"`
	Updated           int64   `json:"updated_at" db:"updated"`

	// Authorizations is always present in responses, possibly empty.
	Authorizations []Authorization `json:"authorizations"`
}

type Authorization struct {
	ID              int64    `json:"id" db:"id"`
	WelderID        int64    `json:"welder_id" db:"welder_id"`
	Standard        Standard `json:"standard" db:"standard" validate:"required,oneof='ASME IX' 'CR9' 'CR7'"`
	Process         string   `json:"process" db:"process" validate:"required"`
	BaseMaterials   *string  `json:"base_materials,omitempty" db:"base_materials"`
	FillerMaterials *string  `json:"filler_materials,omitempty" db:"filler_materials"`
	ThicknessRange  *string  `json:"thickness_range,omitempty" db:"thickness_range"`
	Position        *string  `json:"position,omitempty" db:"position"`
	JointType       *string  `json:"joint_type,omitempty" db:"joint_type"`
	Notes           *string  `json:"notes,omitempty" db:"notes"`
	IssueDate       Date     `json:"issue_date" db:"issue_date"`
	ExpirationDate  Date     `json:"expiration_date" db:"expiration_date"`
	Created         int64    `json:"created_at" db:"created"`
	Updated         int64    `json:"updated_at" db:"updated"`
}

// ExpiringAuthorization pairs an authorization with the whole-day count
// until its expiration relative to a reference date.
type ExpiringAuthorization struct {
	Authorization       Authorization `json:"authorization"`
	DaysUntilExpiration int           `json:"days_until_expiration"`
}
