package cmd

import (
	"errors"
	"testing"
)

func stubPrompt(t *testing.T, terminal bool, answer bool, err error) *int {
	t.Helper()

	prevTerm, prevAsk := stdinIsTerminal, askConfirmation
	t.Cleanup(func() {
		stdinIsTerminal, askConfirmation = prevTerm, prevAsk
	})

	calls := 0
	stdinIsTerminal = func() bool { return terminal }
	askConfirmation = func(string) (bool, error) {
		calls++
		return answer, err
	}
	return &calls
}

func TestConfirmYesSkipsPrompt(t *testing.T) {
	calls := stubPrompt(t, false, false, nil)
	if err := Confirm("Delete?", true); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if *calls != 0 {
		t.Fatalf("prompted %d times, want 0", *calls)
	}
}

func TestConfirmWithoutTerminalNeedsYes(t *testing.T) {
	calls := stubPrompt(t, false, true, nil)
	if err := Confirm("Delete?", false); err == nil {
		t.Fatal("expected an error without a terminal")
	}
	if *calls != 0 {
		t.Fatalf("prompted %d times, want 0", *calls)
	}
}

func TestConfirmAnswers(t *testing.T) {
	stubPrompt(t, true, true, nil)
	if err := Confirm("Delete?", false); err != nil {
		t.Fatalf("accepted prompt returned %v", err)
	}

	stubPrompt(t, true, false, nil)
	if err := Confirm("Delete?", false); !errors.Is(err, ErrNotConfirmed) {
		t.Fatalf("declined prompt returned %v, want ErrNotConfirmed", err)
	}

	boom := errors.New("tty gone")
	stubPrompt(t, true, false, boom)
	if err := Confirm("Delete?", false); !errors.Is(err, boom) {
		t.Fatalf("failed prompt returned %v, want wrapped error", err)
	}
}
