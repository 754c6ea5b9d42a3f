package validation

import (
	"errors"
	"testing"
	"time"

	gberrors "github.com/vnykmshr/gobridge/pkg/common/errors"
)

func TestValidatePositive(t *testing.T) {
	tests := []struct {
		name    string
		value   int
		wantErr bool
	}{
		{"positive", 10, false},
		{"one", 1, false},
		{"zero", 0, true},
		{"negative", -5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePositive("loop", "queue_size", tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePositive(%d) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, gberrors.ErrInvalidConfiguration) {
				t.Error("validation error should match ErrInvalidConfiguration")
			}
		})
	}
}

func TestValidatePositiveDuration(t *testing.T) {
	if err := ValidatePositiveDuration("bridge", "poll_interval", 100*time.Millisecond); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidatePositiveDuration("bridge", "poll_interval", 0); err == nil {
		t.Error("expected error for zero duration")
	}
	if err := ValidatePositiveDuration("bridge", "poll_interval", -time.Second); err == nil {
		t.Error("expected error for negative duration")
	}
}

func TestValidateNotNil(t *testing.T) {
	if err := ValidateNotNil("bridge", "unit", struct{}{}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateNotNil("bridge", "unit", nil); err == nil {
		t.Error("expected error for nil value")
	}
}

func TestValidateNotEmpty(t *testing.T) {
	if err := ValidateNotEmpty("loop", "name", "default"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateNotEmpty("loop", "name", ""); err == nil {
		t.Error("expected error for empty string")
	}
}
