package service

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrValidation reports missing required fields or an invalid value.
var ErrValidation = errors.New("validation failed")

func validationError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrValidation, err)
}

// isoTimestamp matches the millisecond UTC timestamps already present in the data files.
const isoTimestamp = "2006-01-02T15:04:05.000Z07:00"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(isoTimestamp)
}

func trimAll(values ...*string) {
	for _, v := range values {
		*v = strings.TrimSpace(*v)
	}
}
