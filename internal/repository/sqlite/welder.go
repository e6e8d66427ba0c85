package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"log/slog"

	"github.com/garnizeh/weldtrack/pkg/models"
	"github.com/garnizeh/weldtrack/pkg/repository"
)

const welderColumns = `id, first_name, last_name, identifier, phone, email, certification_date, status, created, updated`

func (r *SQLiteRepo) CreateWelder(ctx context.Context, w *models.Welder) (int64, error) {
	if w == nil {
		return 0, fmt.Errorf("welder is nil")
	}

	ts := now()
	var welderID int64
	err := r.conn.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO welders (first_name, last_name, identifier, phone, email, certification_date, status, created, updated) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			w.FirstName, w.LastName, w.Identifier, w.Phone, w.Email, certDateValue(w.CertificationDate), w.Status, ts, ts)
		if err != nil {
			if isUniqueViolation(err) {
				r.logger.Warn("duplicate identifier on insert", slog.String("identifier", w.Identifier))
				return fmt.Errorf("insert welder: %w", repository.ErrDuplicateIdentifier)
			}
			return fmt.Errorf("insert welder: %w", err)
		}

		welderID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("welder insert id: %w", err)
		}

		for i := range w.Authorizations {
			a := &w.Authorizations[i]
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO authorizations (welder_id, standard, process, base_materials, filler_materials, thickness_range, position, joint_type, notes, issue_date, expiration_date, created, updated) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				welderID, string(a.Standard), a.Process, a.BaseMaterials, a.FillerMaterials, a.ThicknessRange, a.Position, a.JointType, a.Notes, a.IssueDate, a.ExpirationDate, ts, ts); err != nil {
				return fmt.Errorf("insert authorization: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return welderID, nil
}

func (r *SQLiteRepo) GetWelderByID(ctx context.Context, id int64) (*models.Welder, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+welderColumns+` FROM welders WHERE id = ?`, id)
	return scanWelder(row)
}

func (r *SQLiteRepo) GetWelderByIdentifier(ctx context.Context, identifier string) (*models.Welder, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+welderColumns+` FROM welders WHERE identifier = ?`, identifier)
	return scanWelder(row)
}

func (r *SQLiteRepo) ListWelders(ctx context.Context, limit, offset int) ([]models.Welder, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.conn.QueryRows(ctx, `SELECT `+welderColumns+` FROM welders ORDER BY id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Welder
	for rows.Next() {
		w, err := scanWelderRow(rows)
		if err != nil {
			return nil, err
		}

		out = append(out, *w)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) UpdateWelder(ctx context.Context, w *models.Welder) error {
	if w == nil {
		return fmt.Errorf("welder is nil")
	}

	_, err := r.conn.Exec(ctx,
		`UPDATE welders SET first_name = ?, last_name = ?, identifier = ?, phone = ?, email = ?, certification_date = ?, status = ?, updated = ? WHERE id = ?`,
		w.FirstName, w.LastName, w.Identifier, w.Phone, w.Email, certDateValue(w.CertificationDate), w.Status, now(), w.ID)
	if isUniqueViolation(err) {
		r.logger.Warn("duplicate identifier on update", slog.Int64("id", w.ID), slog.String("identifier", w.Identifier))
		return fmt.Errorf("update welder: %w", repository.ErrDuplicateIdentifier)
	}

	return err
}

func (r *SQLiteRepo) DeleteWelder(ctx context.Context, id int64) error {
	// authorizations cascade via the foreign key
	_, err := r.conn.Exec(ctx, `DELETE FROM welders WHERE id = ?`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWelder(row *sql.Row) (*models.Welder, error) {
	w, err := scanWelderRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return w, err
}

func scanWelderRow(row rowScanner) (*models.Welder, error) {
	var w models.Welder
	var phone, email, certDate sql.NullString
	if err := row.Scan(&w.ID, &w.FirstName, &w.LastName, &w.Identifier, &phone, &email, &certDate, &w.Status, &w.Created, &w.Updated); err != nil {
		return nil, err
	}

	if phone.Valid {
		w.Phone = &phone.String
	}
	if email.Valid {
		w.Email = &email.String
	}
	if certDate.Valid {
		d, err := models.ParseDate(certDate.String)
		if err != nil {
			return nil, fmt.Errorf("certification_date: %w", err)
		}
		w.CertificationDate = &d
	}

	return &w, nil
}

// certDateValue keeps NULL out of the Date valuer path for absent dates.
func certDateValue(d *models.Date) any {
	if d == nil {
		return nil
	}
	return *d
}
