package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/minglog/minglog/internal/apperr"
)

func TestIs_MatchesByCode(t *testing.T) {
	err := apperr.Errorf(apperr.NotFound, "page %q not found", "p1")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatal("expected errors.Is to match ErrNotFound")
	}
	if errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatal("NotFound must not match ErrInvalidInput")
	}
}

func TestIs_ThroughFmtWrap(t *testing.T) {
	inner := apperr.New(apperr.InvalidInput, "name is required")
	err := fmt.Errorf("create page: %w", inner)
	if !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatal("expected wrapped error to match ErrInvalidInput")
	}
	if got := apperr.CodeOf(err); got != apperr.InvalidInput {
		t.Errorf("CodeOf = %q, want %q", got, apperr.InvalidInput)
	}
}

func TestWrap(t *testing.T) {
	if apperr.Wrap(apperr.IO, "read file", nil) != nil {
		t.Fatal("Wrap(nil) should return nil")
	}
	cause := errors.New("disk on fire")
	err := apperr.Wrap(apperr.IO, "read file", cause)
	if !errors.Is(err, cause) {
		t.Error("Wrap should keep the cause in the chain")
	}
	if !errors.Is(err, apperr.ErrIO) {
		t.Error("Wrap should classify as IO")
	}
	if err.Error() != "read file: disk on fire" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestCodeOf_Unclassified(t *testing.T) {
	if got := apperr.CodeOf(errors.New("boom")); got != apperr.Internal {
		t.Errorf("CodeOf = %q, want %q", got, apperr.Internal)
	}
}

func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"plain", errors.New("secret driver detail"), "internal error"},
		{"not found", apperr.New(apperr.NotFound, "note not found"), "note not found"},
		{"storage hides cause", apperr.Wrap(apperr.Storage, "query notes", errors.New("SQL logic error")), "query notes"},
		{"io keeps cause", apperr.Wrap(apperr.IO, "open a.md", errors.New("no such file")), "open a.md: no such file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := apperr.Message(tt.err); got != tt.want {
				t.Errorf("Message = %q, want %q", got, tt.want)
			}
		})
	}
}
