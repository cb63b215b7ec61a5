package services

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yungbote/pianostudio-backend/internal/platform/apierr"
)

const (
	pgInvalidTextRepresentation = "22P02"
	pgUniqueViolation           = "23505"
	pgStringTooLong             = "22001"
)

// storeError classifies a persistence failure. Bad input the database rejected
// becomes a validation error; everything else is an upstream failure.
func storeError(code string, err error) error {
	if err == nil {
		return nil
	}
	var ae *apierr.Error
	if errors.As(err, &ae) {
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgInvalidTextRepresentation:
			return apierr.New(http.StatusBadRequest, "invalid_input", fmt.Errorf("invalid input: %s", pgErr.Message))
		case pgStringTooLong:
			return apierr.New(http.StatusBadRequest, "invalid_input", fmt.Errorf("value too long: %s", pgErr.Message))
		case pgUniqueViolation:
			return apierr.New(http.StatusConflict, "conflict", errors.New(pgErr.Message))
		}
	}
	return apierr.Upstream(code, err)
}
