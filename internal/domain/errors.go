package domain

import "errors"

var (
	// ErrUnauthenticated is returned when no usable session token is stored.
	ErrUnauthenticated = errors.New("not logged in")
	// ErrForbidden is returned when a non-admin session opens an admin view.
	ErrForbidden = errors.New("admin role required")
	// ErrMissingFields indicates required credentials were left empty.
	ErrMissingFields = errors.New("all fields are required")
	// ErrUnknownCategory indicates a category or subDomain outside the catalog.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrNoPreferences indicates a random quiz was requested without categories.
	ErrNoPreferences = errors.New("no preferences found")
	// ErrNoQuestions indicates the backend returned an empty question set.
	ErrNoQuestions = errors.New("no questions available")
	// ErrQuizNotReady is returned when answering before questions are loaded.
	ErrQuizNotReady = errors.New("quiz not ready")
	// ErrQuizComplete is returned when answering after the last question.
	ErrQuizComplete = errors.New("quiz already complete")
	// ErrInvalidOption indicates the answer is not one of the question's options.
	ErrInvalidOption = errors.New("option not found")
	// ErrInvalidPair indicates similar-pair indices outside the answer list.
	ErrInvalidPair = errors.New("invalid similar pair indices")
	// ErrAlreadySubmitted indicates the pair score of an attempt was already posted.
	ErrAlreadySubmitted = errors.New("pair score already submitted")
	// ErrUserNotFound indicates the backend has no user for the lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrExplainerDisabled is returned when no AI credential is configured.
	ErrExplainerDisabled = errors.New("explanations disabled")
)
