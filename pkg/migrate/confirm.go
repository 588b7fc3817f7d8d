package migrate

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Confirmer is the capability the engine uses to ask the operator
// before a risky pair proceeds. Injectable so tests never touch a
// terminal.
type Confirmer interface {
	// Confirm presents a message and reports whether the operator
	// explicitly approved
	Confirm(message string) bool
}

// TerminalConfirmer reads line-oriented confirmations. Only the literal
// token "yes" (case-insensitive, trimmed) approves; anything else,
// including EOF, declines.
type TerminalConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminalConfirmer wraps a prompt/response channel
func NewTerminalConfirmer(in io.Reader, out io.Writer) *TerminalConfirmer {
	return &TerminalConfirmer{in: bufio.NewReader(in), out: out}
}

func (c *TerminalConfirmer) Confirm(message string) bool {
	fmt.Fprintf(c.out, "%s\nType 'yes' to continue: ", message)
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(line), "yes")
}

// AutoConfirmer approves every gate. Used for --yes and scripted runs.
type AutoConfirmer struct{}

func (AutoConfirmer) Confirm(string) bool { return true }
