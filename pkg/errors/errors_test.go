package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeUnknownLocation, "location %q does not exist", "Cave")

	if err.Code != ErrCodeUnknownLocation {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeUnknownLocation)
	}

	if err.Message != `location "Cave" does not exist` {
		t.Errorf("Message = %v, want %v", err.Message, `location "Cave" does not exist`)
	}

	expected := `UNKNOWN_LOCATION: location "Cave" does not exist`
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := Wrap(ErrCodeStorageMalformed, cause, "parse map")

	if err.Code != ErrCodeStorageMalformed {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeStorageMalformed)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeDuplicateLocation, "test"),
			code:     ErrCodeDuplicateLocation,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeDuplicateLocation, "test"),
			code:     ErrCodeUnknownLocation,
			expected: false,
		},
		{
			name:     "wrapped error reports outer code",
			err:      Wrap(ErrCodeStorageMalformed, New(ErrCodeUnknownLocation, "inner"), "outer"),
			code:     ErrCodeStorageMalformed,
			expected: true,
		},
		{
			name:     "wrapped error hides inner code",
			err:      Wrap(ErrCodeStorageMalformed, New(ErrCodeUnknownLocation, "inner"), "outer"),
			code:     ErrCodeUnknownLocation,
			expected: false,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestHas(t *testing.T) {
	err := Wrap(ErrCodeStorageMalformed, New(ErrCodeUnknownLocation, "inner"), "outer")

	if !Has(err, ErrCodeUnknownLocation) {
		t.Error("Has(inner code) = false, want true")
	}
	if !Has(err, ErrCodeStorageMalformed) {
		t.Error("Has(outer code) = false, want true")
	}
	if Has(err, ErrCodeInvalidDirection) {
		t.Error("Has(absent code) = true, want false")
	}
	if Has(nil, ErrCodeInvalidDirection) {
		t.Error("Has(nil) = true, want false")
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidDirection, "test"),
			expected: ErrCodeInvalidDirection,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeUnknownLocation, "location \"Cave\" does not exist"),
			expected: "location \"Cave\" does not exist",
		},
		{
			name:     "nested Error",
			err:      Wrap(ErrCodeStorageMalformed, New(ErrCodeUnknownLocation, "no Cave"), "load map.json"),
			expected: "load map.json: no Cave",
		},
		{
			name:     "wrapped plain error",
			err:      Wrap(ErrCodeStorageUnavailable, errors.New("connection refused"), "redis"),
			expected: "redis: connection refused",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %q, want %q", got, tt.expected)
			}
		})
	}
}
