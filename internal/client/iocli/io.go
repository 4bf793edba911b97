// Package iocli abstracts the terminal for the command-line client.
package iocli

//go:generate moq -out io_mock.go . IO

// IO is the terminal the client talks to. Write lets colored printers
// target it directly.
type IO interface {
	Println(a ...any)
	Printf(format string, a ...any)
	ReadInput(prompt string) (string, error)
	ReadPassword(prompt string) (string, error)
	Write(p []byte) (n int, err error)
}
