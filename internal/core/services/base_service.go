package services

import (
	"errors"

	"github.com/tnvirji/pharmapos/internal/apperrors"
)

func errorsIsNotFound(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound)
}
