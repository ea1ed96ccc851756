package app_test

import (
	"errors"
	"fmt"
	"testing"

	"trivia-client/internal/api"
	"trivia-client/internal/app"
	"trivia-client/internal/domain"
)

func TestAlertText(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{&api.NetworkError{Op: "login", Err: errors.New("dial")}, "Network error. Please check your connection and try again."},
		{domain.ErrForbidden, "Access denied: admin only."},
		{fmt.Errorf("start quiz: %w", domain.ErrNoQuestions), "No questions available for this category."},
		{domain.ErrInvalidOption, "Invalid option."},
		{domain.ErrQuizComplete, "Quiz already complete."},
		{domain.ErrQuizNotReady, "Quiz not finished yet."},
		{domain.ErrUnknownCategory, "Unknown category or sub-domain."},
		{&api.APIError{Op: "x", Status: 500, Message: "Server says no"}, "Server says no"},
		{errors.New("boom"), "boom"},
	}
	for _, tc := range cases {
		if got := app.AlertText(tc.err); got != tc.want {
			t.Fatalf("AlertText(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
	if got := app.AlertText(domain.ErrUnauthenticated); got != "Session expired or missing. Please log in again." {
		t.Fatalf("unexpected unauthenticated alert %q", got)
	}
}
