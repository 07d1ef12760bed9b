package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrDuplicateScenario  = errors.New("duplicate scenario")
	ErrNotFound           = errors.New("scenario not found")
	ErrIncompatibleShapes = errors.New("incompatible shapes")
	ErrInvalidInput       = errors.New("invalid input")
)

type DuplicateScenarioError struct {
	Name string
}

func (e *DuplicateScenarioError) Error() string {
	return fmt.Sprintf("Scenario '%s' already exists.", e.Name)
}

func (e *DuplicateScenarioError) Unwrap() error { return ErrDuplicateScenario }

type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Scenario '%s' not found.", e.Name)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// IncompatibleShapesError reports the step count of every scenario that took
// part in a chart whose series must be time-aligned.
type IncompatibleShapesError struct {
	Kind    ChartKind
	Lengths map[string]int
}

func (e *IncompatibleShapesError) Error() string {
	names := make([]string, 0, len(e.Lengths))
	for name := range e.Lengths {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%d", name, e.Lengths[name])
	}
	return fmt.Sprintf("All scenarios in '%s' must have the same number of time steps (%s).",
		e.Kind, strings.Join(parts, ", "))
}

func (e *IncompatibleShapesError) Unwrap() error { return ErrIncompatibleShapes }

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }
