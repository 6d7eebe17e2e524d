package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("parse time %q: %v", s, err)
	}
	return ts
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "error without wrapped error",
			appErr:   ErrAnalysisNotFound,
			expected: "Analysis not found",
		},
		{
			name: "error with wrapped error",
			appErr: &AppError{
				Code:       "TEST_ERROR",
				Message:    "Test message",
				StatusCode: 500,
				Err:        errors.New("underlying error"),
			},
			expected: "Test message: underlying error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.appErr.Error(); got != tt.expected {
				t.Errorf("Error() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAppError_WithError(t *testing.T) {
	underlying := errors.New("boom")
	wrapped := ErrNoFaceDetected.WithError(underlying)

	if wrapped == ErrNoFaceDetected {
		t.Fatal("WithError() must return a copy, not mutate the sentinel")
	}
	if wrapped.Code != ErrNoFaceDetected.Code || wrapped.StatusCode != ErrNoFaceDetected.StatusCode {
		t.Errorf("WithError() lost code/status: %+v", wrapped)
	}
	if !errors.Is(wrapped, underlying) {
		t.Error("errors.Is should match the wrapped error")
	}
	if !errors.Is(wrapped, ErrNoFaceDetected) {
		t.Error("errors.Is should match the sentinel the copy was made from")
	}
}

func TestAppError_Is(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"same sentinel", ErrInvalidImage, ErrInvalidImage, true},
		{"wrapped copy", ErrInvalidImage.WithError(errors.New("truncated jpeg")), ErrInvalidImage, true},
		{"different code", ErrInvalidImage, ErrNoFaceDetected, false},
		{"non-AppError target", ErrInvalidImage, errors.New("invalid image"), false},
		{"fmt-wrapped sentinel", fmt.Errorf("detect faces: %w", ErrInvalidImage), ErrInvalidImage, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.target); got != tt.want {
				t.Errorf("errors.Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUser_Premium(t *testing.T) {
	now := mustTime(t, "2025-06-01T00:00:00Z")
	future := mustTime(t, "2025-07-01T00:00:00Z")
	past := mustTime(t, "2025-05-01T00:00:00Z")

	tests := []struct {
		name string
		user User
		want bool
	}{
		{"free tier", User{Tier: TierFree}, false},
		{"premium without expiry", User{Tier: TierPremium}, true},
		{"premium not expired", User{Tier: TierPremium, PremiumUntil: &future}, true},
		{"premium expired", User{Tier: TierPremium, PremiumUntil: &past}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.Premium(now); got != tt.want {
				t.Errorf("Premium() = %v, want %v", got, tt.want)
			}
		})
	}
}
