package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"inventory-catalog/pkg/validator"

	"go.uber.org/zap"
)

var (
	ErrValidation           = errors.New("validation failed")
	ErrReferentialIntegrity = errors.New("record is still referenced")
	ErrConcurrencyConflict  = errors.New("record was changed by someone else")
	ErrPersistence          = errors.New("unable to save changes, please try again")
	ErrNotFound             = errors.New("not found")
)

// ValidationError carries field-level messages keyed by the submitted field name.
// The empty key holds form-wide messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e.Fields[k])
	}
	return strings.Join(msgs, " ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalidField(field, message string) error {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// validate runs the struct tags on req and folds failures into a ValidationError.
func validate(req interface{}) error {
	errs := validator.ValidateStruct(req)
	if len(errs) == 0 {
		return nil
	}
	fields := make(map[string]string, len(errs))
	for _, e := range errs {
		if _, seen := fields[e.FailedField]; !seen {
			fields[e.FailedField] = e.Message()
		}
	}
	return &ValidationError{Fields: fields}
}

// ReferentialError blocks a delete that would orphan dependent rows.
type ReferentialError struct {
	Entity string
	Name   string
	Count  int64
}

func (e *ReferentialError) Error() string {
	return fmt.Sprintf("Cannot delete %s '%s' because they have %d associated product(s).", e.Entity, e.Name, e.Count)
}

func (e *ReferentialError) Is(target error) bool { return target == ErrReferentialIntegrity }

// ConflictError is returned when an edit was based on a stale version. Current holds the
// server-side state to show instead.
type ConflictError struct {
	Current any
}

func (e *ConflictError) Error() string {
	return "The record you attempted to edit was modified by another user after you loaded it. " +
		"Your edit was canceled and the current values are shown."
}

func (e *ConflictError) Is(target error) bool { return target == ErrConcurrencyConflict }

// persistenceFault logs the underlying error and hands the caller only the generic message.
func persistenceFault(log *zap.Logger, op string, err error) error {
	log.Error("persistence fault", zap.String("op", op), zap.Error(err))
	return fmt.Errorf("%s: %w", op, ErrPersistence)
}
