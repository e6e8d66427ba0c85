package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garnizeh/weldtrack/pkg/models"
)

const authorizationColumns = `id, welder_id, standard, process, base_materials, filler_materials, thickness_range, position, joint_type, notes, issue_date, expiration_date, created, updated`

func (r *SQLiteRepo) CreateAuthorization(ctx context.Context, a *models.Authorization) (int64, error) {
	if a == nil {
		return 0, fmt.Errorf("authorization is nil")
	}

	ts := now()
	res, err := r.conn.Exec(ctx,
		`INSERT INTO authorizations (welder_id, standard, process, base_materials, filler_materials, thickness_range, position, joint_type, notes, issue_date, expiration_date, created, updated) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.WelderID, string(a.Standard), a.Process, a.BaseMaterials, a.FillerMaterials, a.ThicknessRange, a.Position, a.JointType, a.Notes, a.IssueDate, a.ExpirationDate, ts, ts)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) GetAuthorizationByID(ctx context.Context, id int64) (*models.Authorization, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+authorizationColumns+` FROM authorizations WHERE id = ?`, id)
	a, err := scanAuthorization(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}

	return a, err
}

func (r *SQLiteRepo) ListByWelder(ctx context.Context, welderID int64) ([]models.Authorization, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+authorizationColumns+` FROM authorizations WHERE welder_id = ? ORDER BY id`, welderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAuthorizations(rows)
}

func (r *SQLiteRepo) UpdateAuthorization(ctx context.Context, a *models.Authorization) error {
	if a == nil {
		return fmt.Errorf("authorization is nil")
	}

	_, err := r.conn.Exec(ctx,
		`UPDATE authorizations SET standard = ?, process = ?, base_materials = ?, filler_materials = ?, thickness_range = ?, position = ?, joint_type = ?, notes = ?, issue_date = ?, expiration_date = ?, updated = ? WHERE id = ?`,
		string(a.Standard), a.Process, a.BaseMaterials, a.FillerMaterials, a.ThicknessRange, a.Position, a.JointType, a.Notes, a.IssueDate, a.ExpirationDate, now(), a.ID)
	return err
}

func (r *SQLiteRepo) DeleteAuthorization(ctx context.Context, id int64) error {
	_, err := r.conn.Exec(ctx, `DELETE FROM authorizations WHERE id = ?`, id)
	return err
}

func (r *SQLiteRepo) ListExpiring(ctx context.Context, deadline models.Date) ([]models.Authorization, error) {
	// ISO dates compare lexically in chronological order
	rows, err := r.conn.QueryRows(ctx, `SELECT `+authorizationColumns+` FROM authorizations WHERE expiration_date <= ?`, deadline)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAuthorizations(rows)
}

func collectAuthorizations(rows *sql.Rows) ([]models.Authorization, error) {
	var out []models.Authorization
	for rows.Next() {
		a, err := scanAuthorization(rows)
		if err != nil {
			return nil, err
		}

		out = append(out, *a)
	}

	return out, rows.Err()
}

func scanAuthorization(row rowScanner) (*models.Authorization, error) {
	var a models.Authorization
	var std string
	var base, filler, thickness, position, joint, notes sql.NullString
	if err := row.Scan(&a.ID, &a.WelderID, &std, &a.Process, &base, &filler, &thickness, &position, &joint, &notes, &a.IssueDate, &a.ExpirationDate, &a.Created, &a.Updated); err != nil {
		return nil, err
	}

	a.Standard = models.Standard(std)
	if base.Valid {
		a.BaseMaterials = &base.String
	}
	if filler.Valid {
		a.FillerMaterials = &filler.String
	}
	if thickness.Valid {
		a.ThicknessRange = &thickness.String
	}
	if position.Valid {
		a.Position = &position.String
	}
	if joint.Valid {
		a.JointType = &joint.String
	}
	if notes.Valid {
		a.Notes = &notes.String
	}

	return &a, nil
}
