// Package commands contains CLI command implementations for the application.
package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/golang-migrate/migrate/v4"
)

// IOTuple holds reader and writer for commands, allowing for testing.
type IOTuple struct {
	Reader io.Reader
	Writer io.Writer
}

// DefaultIO returns an IOTuple with os.Stdin and os.Stdout.
func DefaultIO() IOTuple {
	return IOTuple{
		Reader: os.Stdin,
		Writer: os.Stdout,
	}
}

// closeMigrate closes the migration instance and logs any errors.
func closeMigrate(migrate *migrate.Migrate, logger *slog.Logger) {
	sourceError, databaseError := migrate.Close()
	if sourceError != nil || databaseError != nil {
		logger.Error(
			"failed to close the migrate",
			slog.Any("source_error", sourceError),
			slog.Any("database_error", databaseError),
		)
	}
}

// parseDate parses "YYYY-MM-DD" or "YYYY-MM-DD HH:MM:SS" into a UTC time.
func parseDate(dateStr string) (time.Time, error) {
	t, err := time.Parse("2006-01-02 15:04:05", dateStr)
	if err == nil {
		return t.UTC(), nil
	}

	t, err = time.Parse("2006-01-02", dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf(
			"invalid date format (expected YYYY-MM-DD or YYYY-MM-DD HH:MM:SS): %s",
			dateStr,
		)
	}

	return t.UTC(), nil
}
