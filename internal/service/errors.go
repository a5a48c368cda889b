package service

import (
	"errors"
	"fmt"
)

var (
	// ErrRecognition means the message could not be turned into a reminder.
	ErrRecognition = errors.New("could not recognize a reminder")
	// ErrPersistence means the store rejected a write; nothing was saved.
	ErrPersistence = errors.New("failed to save reminder")
	// ErrNoTarget means no reminder is known for the chat yet, so a done or
	// cancel action has nothing to act on.
	ErrNoTarget = errors.New("no reminder to act on")
)

// ValidationError reports an extracted reminder that parses but cannot be
// scheduled, such as a time that stays in the past after the retry.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid reminder: %s", e.Reason)
}
