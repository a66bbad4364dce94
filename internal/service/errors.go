package service

import (
	"errors"
	"fmt"

	"github.com/jask/finadvisor/internal/advisor"
	"github.com/jask/finadvisor/internal/domain"
)

var (
	ErrInsufficientData   = errors.New("insufficient data")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmailTaken         = domain.ErrEmailTaken
)

// InsufficientDataError reports that a user has fewer transactions than an
// advisory kind needs.
type InsufficientDataError struct {
	Kind advisor.Kind
	Have int
	Need int
}

func (e *InsufficientDataError) Error() string {
	switch e.Kind {
	case advisor.KindAnalysis:
		return "Necesitas tener transacciones para generar un análisis"
	case advisor.KindPrediction:
		return fmt.Sprintf("Necesitas al menos %d transacciones históricas para generar una predicción", e.Need)
	default:
		return fmt.Sprintf("Necesitas al menos %d transacciones (tienes %d)", e.Need, e.Have)
	}
}

func (e *InsufficientDataError) Is(target error) bool {
	return target == ErrInsufficientData
}

// ValidationError carries a user facing message and matches ErrInvalidInput.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

func invalidInput(msg string) error {
	return &ValidationError{Msg: msg}
}
