package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/erikgeiser/promptkit/confirmation"
	"golang.org/x/term"
)

// ErrNotConfirmed is returned when the user declines a destructive action.
var ErrNotConfirmed = errors.New("aborted by user")

// stdinIsTerminal is swapped out in tests.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// askConfirmation is swapped out in tests.
var askConfirmation = func(prompt string) (bool, error) {
	return confirmation.New(prompt, confirmation.No).RunPrompt()
}

// Confirm asks before a destructive action. With yes set it never prompts;
// without a terminal to prompt on it refuses instead of guessing.
func Confirm(prompt string, yes bool) error {
	if yes {
		return nil
	}
	if !stdinIsTerminal() {
		return fmt.Errorf("stdin is not a terminal, pass --yes to confirm")
	}

	ok, err := askConfirmation(prompt)
	if err != nil {
		return fmt.Errorf("confirmation prompt: %w", err)
	}
	if !ok {
		return ErrNotConfirmed
	}
	return nil
}
