package app

import (
	"errors"

	"trivia-client/internal/api"
	"trivia-client/internal/domain"
)

// AlertText turns an error into the one-line message shown to the user by
// every front end.
func AlertText(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrUnauthenticated):
		return "Session expired or missing. Please log in again."
	case errors.Is(err, domain.ErrForbidden):
		return "Access denied: admin only."
	case errors.Is(err, domain.ErrMissingFields):
		return "Please fill in all fields."
	case errors.Is(err, domain.ErrUnknownCategory):
		return "Unknown category or sub-domain."
	case errors.Is(err, domain.ErrNoPreferences):
		return "No preferences found. Save some preferred categories first."
	case errors.Is(err, domain.ErrNoQuestions):
		return "No questions available for this category."
	case errors.Is(err, domain.ErrQuizNotReady):
		return "Quiz not finished yet."
	case errors.Is(err, domain.ErrQuizComplete):
		return "Quiz already complete."
	case errors.Is(err, domain.ErrInvalidOption):
		return "Invalid option."
	case errors.Is(err, domain.ErrInvalidPair):
		return "Invalid similar pair: give two question numbers from this quiz."
	case errors.Is(err, domain.ErrUserNotFound):
		return "User not found."
	case errors.Is(err, domain.ErrExplainerDisabled):
		return "AI features need OPENAI_API_KEY."
	case api.IsNetwork(err):
		return "Network error. Please check your connection and try again."
	}
	if msg := api.Message(err); msg != "" {
		return msg
	}
	return err.Error()
}
