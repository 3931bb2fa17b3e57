package usecase

import "errors"

var (
	ErrInvalidInput            = errors.New("invalid input")
	ErrStore                   = errors.New("score store failure")
	ErrRecalculationInProgress = errors.New("recalculation already in progress")
)
