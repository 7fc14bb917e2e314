package models

import "errors"

// Validation errors returned before any calculation runs
var (
	ErrInvalidPrincipal    = errors.New("principal must be zero or positive")
	ErrInvalidContribution = errors.New("monthly contribution must be zero or positive")
	ErrInvalidRate         = errors.New("annual rate must be positive")
	ErrInvalidYears        = errors.New("years must be positive and at most 100")
	ErrInvalidInitialValue = errors.New("initial value must be positive")
	ErrInvalidFinalValue   = errors.New("final value must be positive")
	ErrInvalidInflation    = errors.New("inflation rate must be a finite number above -100")
	ErrInvalidShares       = errors.New("shares must be positive")
)

// ErrResultOutOfRange is returned when valid inputs still produce a result
// that is not a finite number
var ErrResultOutOfRange = errors.New("result is out of the representable range")

// Lookup and consistency errors
var (
	ErrUnknownInstrument = errors.New("unknown instrument")
	ErrDuplicatePosition = errors.New("instrument already in portfolio")
	ErrPositionNotFound  = errors.New("position not found")
	ErrUnknownQuiz       = errors.New("unknown quiz")
)
