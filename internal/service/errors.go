package service

import (
	"errors"

	"wallet-ledger/pkg/apperror"
)

// asAppError passes AppErrors through and wraps anything else as SYS_001.
func asAppError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.InternalError(err)
}
