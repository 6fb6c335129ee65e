package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestDataAccessError_Error(t *testing.T) {
	tests := []struct {
		name string
		op   string
		err  error
		want string
	}{
		{
			name: "with op and error",
			op:   "query catalog",
			err:  errors.New("connection refused"),
			want: "data access error: query catalog: connection refused",
		},
		{
			name: "with op only",
			op:   "query catalog",
			want: "data access error: query catalog",
		},
		{
			name: "with error only",
			err:  errors.New("access denied"),
			want: "data access error: access denied",
		},
		{
			name: "empty",
			want: "data access error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &DataAccessError{Op: tt.op, Err: tt.err}
			if got := e.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDataAccessError_Unwrap(t *testing.T) {
	underlying := errors.New("underlying error")
	e := NewDataAccessError("op", underlying)

	if got := e.Unwrap(); got != underlying {
		t.Errorf("Unwrap() = %v, want %v", got, underlying)
	}
	if !errors.Is(e, underlying) {
		t.Error("errors.Is(e, underlying) = false, want true")
	}
}

func TestNewDataAccessError_Deadline(t *testing.T) {
	e := NewDataAccessError("query catalog", context.DeadlineExceeded)

	if !errors.Is(e, ErrQueryTimeout) {
		t.Error("deadline error should match ErrQueryTimeout")
	}
	if !errors.Is(e, context.DeadlineExceeded) {
		t.Error("deadline error should still match context.DeadlineExceeded")
	}

	wrapped := NewDataAccessError("query catalog", fmt.Errorf("scan: %w", context.DeadlineExceeded))
	if !errors.Is(wrapped, ErrQueryTimeout) {
		t.Error("wrapped deadline error should match ErrQueryTimeout")
	}
}

func TestIsDataAccessError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "data access error",
			err:  NewDataAccessError("op", errors.New("err")),
			want: true,
		},
		{
			name: "wrapped data access error",
			err:  fmt.Errorf("build report: %w", NewDataAccessError("op", errors.New("err"))),
			want: true,
		},
		{
			name: "plain error",
			err:  errors.New("plain"),
			want: false,
		},
		{
			name: "nil",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDataAccessError(tt.err); got != tt.want {
				t.Errorf("IsDataAccessError() = %v, want %v", got, tt.want)
			}
		})
	}
}
