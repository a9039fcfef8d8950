package dispatch

import "fmt"

// Таксономия ошибок диспетчера. Наружу они не пробрасываются —
// каждая сворачивается в конверт Response со своим статусом.

type ValidationError struct{ Field, Reason string }

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid parameter %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("missing required parameter: %s", e.Field)
}

func missingParam(field string) error { return &ValidationError{Field: field} }

type NotFoundError struct{ What, ID string }

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s not found: %s", e.What, e.ID) }

type UnknownActionError struct{ Name string }

func (e *UnknownActionError) Error() string { return fmt.Sprintf("unknown action_name: %s", e.Name) }

// StoreError оборачивает отказ хранилища; причина уходит в тело 500,
// но никогда не содержит креденшелов (их нет на этом уровне).
type StoreError struct{ Cause error }

func (e *StoreError) Error() string { return "store error: " + e.Cause.Error() }
func (e *StoreError) Unwrap() error { return e.Cause }
