package main

import (
	"errors"
	"fmt"
	"testing"

	apperrors "spread-analyzer/internal/errors"
)

func TestConfigDirFromArgs(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{nil, ""},
		{[]string{"generate", "straddle"}, ""},
		{[]string{"--config", "/tmp/a", "chain"}, "/tmp/a"},
		{[]string{"chain", "--config=/tmp/b"}, "/tmp/b"},
		{[]string{"--", "--config", "/tmp/c"}, ""},
		{[]string{"--config"}, ""},
	}
	for _, tt := range tests {
		if got := configDirFromArgs(tt.args); got != tt.want {
			t.Errorf("configDirFromArgs(%v) = %q, want %q", tt.args, got, tt.want)
		}
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperrors.NewPreconditionError("strangles", "range", 3.0, "not a multiple", apperrors.ErrInvalidRange), 2},
		{fmt.Errorf("generate: %w", apperrors.NewPreconditionError("new snapshot", "", nil, "bad chain", apperrors.ErrInvalidChain)), 2},
		{apperrors.NewValidationError("strike", "x", "not a number"), 2},
		{apperrors.NewDataError("quotes", "calls.csv", "failed to open", errors.New("no such file")), 1},
	}
	for _, tt := range tests {
		if got := exitCode(tt.err); got != tt.want {
			t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
