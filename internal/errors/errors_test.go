package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestPreconditionErrorMatchesBothSentinels(t *testing.T) {
	err := NewPreconditionError("strangles", "range", 3.0, "must be a multiple of the strike spacing", ErrInvalidRange)

	if !errors.Is(err, ErrPrecondition) {
		t.Error("expected ErrPrecondition")
	}
	if !errors.Is(err, ErrInvalidRange) {
		t.Error("expected ErrInvalidRange")
	}
	if errors.Is(err, ErrZeroDelta) {
		t.Error("unexpected ErrZeroDelta")
	}
	if !strings.Contains(err.Error(), "strangles: range (3)") {
		t.Errorf("Error() = %q", err.Error())
	}

	bare := NewPreconditionError("new spread", "", nil, "no legs", nil)
	if !errors.Is(bare, ErrPrecondition) || bare.Error() != "new spread: no legs" {
		t.Errorf("bare precondition = %v", bare)
	}

	var pe *PreconditionError
	if !As(Wrap(err, "generate"), &pe) || pe.Op != "strangles" {
		t.Errorf("As() did not find the precondition error")
	}
}

func TestValidationAndDataErrors(t *testing.T) {
	if !Is(NewValidationError("market.volatility", -1, "must not be negative"), ErrConfigInvalid) {
		t.Error("validation error should match ErrConfigInvalid")
	}

	err := NewDataError("quotes", "calls.csv", "no rows", ErrDataNotFound)
	if !Is(err, ErrDataNotFound) {
		t.Error("data error should unwrap to its cause")
	}
	if got := err.Error(); !strings.Contains(got, "[quotes] calls.csv") {
		t.Errorf("Error() = %q", got)
	}

	if Wrap(nil, "x") != nil || Wrapf(nil, "x %d", 1) != nil {
		t.Error("wrapping nil should stay nil")
	}
}
