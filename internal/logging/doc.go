// Package logging wraps log/slog with the repository's output conventions.
//
// New builds a logger from Options; NewFromConfig mirrors output to the
// configured log directory. Two handlers exist: a one-line console format that
// hoists the component attribute into the message prefix, and lowercase-keyed
// JSON. When no format is configured, console output is chosen on a TTY and
// JSON otherwise.
package logging
