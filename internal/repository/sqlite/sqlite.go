package sqlite

import (
	"io"
	"strings"
	"time"

	"log/slog"

	"github.com/garnizeh/weldtrack/internal/db"
	"github.com/garnizeh/weldtrack/pkg/repository"
)

// SQLiteRepo implements repository interfaces using the internal DB wrapper.
type SQLiteRepo struct {
	conn   *db.DB
	logger *slog.Logger
}

// Ensure SQLiteRepo implements the public interfaces.
var _ repository.WelderRepo = (*SQLiteRepo)(nil)
var _ repository.AuthorizationRepo = (*SQLiteRepo)(nil)

func New(conn *db.DB, logger *slog.Logger) *SQLiteRepo {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &SQLiteRepo{conn: conn, logger: logger}
}

func now() int64 {
	return time.Now().UTC().UnixMilli()
}

// isUniqueViolation reports whether err came from the UNIQUE index on
// welders.identifier. The driver surfaces constraint failures as plain
// errors, so the message is the only discriminator available.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
