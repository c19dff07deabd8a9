package risk

import "fmt"

// ValidationError describes why a move is illegal. The message is stable and
// safe to surface verbatim to players.
type ValidationError struct {
	Move    Move
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid move %s: %s", e.Move.Describe(), e.Message)
}

// ConfigurationError reports a structurally invalid board. It is fatal:
// a process must not serve games over a malformed graph.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return "board configuration: " + e.Message
}

// InvariantError reports a move that reached Apply despite being invalid.
// Callers are required to validate first, so this signals a programming
// error upstream; the state is left untouched when it is returned.
type InvariantError struct {
	Move  Move
	Cause error
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("move %s applied without validation: %v", e.Move.Describe(), e.Cause)
}

func (e *InvariantError) Unwrap() error { return e.Cause }
