package config

import "fmt"

// ConfigInitError reports a workspace that exists but cannot be scanned yet.
// Hint names the command that fixes it.
type ConfigInitError struct {
	Workspace string
	Reason    string
	Hint      string
}

func (e *ConfigInitError) Error() string {
	msg := e.Reason
	if e.Workspace != "" {
		msg = fmt.Sprintf("workspace %q: %s", e.Workspace, e.Reason)
	}
	if e.Hint != "" {
		msg += "; run `" + e.Hint + "`"
	}
	return msg
}
