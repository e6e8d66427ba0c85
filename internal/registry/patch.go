package registry

import (
	"fmt"

	"github.com/garnizeh/weldtrack/internal/patch"
	"github.com/garnizeh/weldtrack/pkg/models"
)

// WelderPatch is a sparse update: absent fields keep their prior value and
// an explicit null clears an optional field. Required fields cannot be
// cleared.
type WelderPatch struct {
	FirstName         patch.Field[string]      `json:"first_name"`
	LastName          patch.Field[string]      `json:"last_name"`
	Identifier        patch.Field[string]      `json:"identifier"`
	Phone             patch.Field[string]      `json:"phone"`
	Email             patch.Field[string]      `json:"email"`
	CertificationDate patch.Field[models.Date] `json:"certification_date"`
	Status            patch.Field[string]      `json:"status"`
}

func (p WelderPatch) apply(w *models.Welder) error {
	if err := applyRequired(p.FirstName, &w.FirstName, "first_name"); err != nil {
		return err
	}
	if err := applyRequired(p.LastName, &w.LastName, "last_name"); err != nil {
		return err
	}
	if err := applyRequired(p.Identifier, &w.Identifier, "identifier"); err != nil {
		return err
	}
	if err := applyRequired(p.Status, &w.Status, "status"); err != nil {
		return err
	}
	applyOptional(p.Phone, &w.Phone)
	applyOptional(p.Email, &w.Email)
	applyOptional(p.CertificationDate, &w.CertificationDate)
	return nil
}

type AuthorizationPatch struct {
	Standard        patch.Field[models.Standard] `json:"standard"`
	Process         patch.Field[string]          `json:"process"`
	BaseMaterials   patch.Field[string]          `json:"base_materials"`
	FillerMaterials patch.Field[string]          `json:"filler_materials"`
	ThicknessRange  patch.Field[string]          `json:"thickness_range"`
	Position        patch.Field[string]          `json:"position"`
	JointType       patch.Field[string]          `json:"joint_type"`
	Notes           patch.Field[string]          `json:"notes"`
	IssueDate       patch.Field[models.Date]     `json:"issue_date"`
	ExpirationDate  patch.Field[models.Date]     `json:"expiration_date"`
}

func (p AuthorizationPatch) apply(a *models.Authorization) error {
	if err := applyRequired(p.Standard, &a.Standard, "standard"); err != nil {
		return err
	}
	if p.Standard.Present() && !a.Standard.Valid() {
		return fmt.Errorf("%w: unknown standard %q", ErrInvalidRequest, a.Standard)
	}
	if err := applyRequired(p.Process, &a.Process, "process"); err != nil {
		return err
	}
	if err := applyRequired(p.IssueDate, &a.IssueDate, "issue_date"); err != nil {
		return err
	}
	if err := applyRequired(p.ExpirationDate, &a.ExpirationDate, "expiration_date"); err != nil {
		return err
	}
	applyOptional(p.BaseMaterials, &a.BaseMaterials)
	applyOptional(p.FillerMaterials, &a.FillerMaterials)
	applyOptional(p.ThicknessRange, &a.ThicknessRange)
	applyOptional(p.Position, &a.Position)
	applyOptional(p.JointType, &a.JointType)
	applyOptional(p.Notes, &a.Notes)
	return nil
}

func applyRequired[T any](f patch.Field[T], dst *T, name string) error {
	if !f.Present() {
		return nil
	}
	v, ok := f.Value()
	if !ok {
		return fmt.Errorf("%w: %s cannot be null", ErrInvalidRequest, name)
	}
	*dst = v
	return nil
}

func applyOptional[T any](f patch.Field[T], dst **T) {
	if !f.Present() {
		return
	}
	*dst = f.Ptr()
}
