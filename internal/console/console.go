package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"pwned/internal/checker"
)

const prompt = "password or SHA1> "

// Line formats a settled state for a terminal.
func Line(st checker.State) string {
	if st.Phase != checker.PhaseResult {
		return ""
	}
	return fmt.Sprintf("[%s] %s", st.Severity, st.Message)
}

// SecretReader reads one submission without echoing it.
type SecretReader func() (string, error)

// TerminalSecret reads from f with terminal echo disabled. It returns nil when
// f is not a terminal, e.g. piped input.
func TerminalSecret(f *os.File) SecretReader {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return nil
	}
	return func() (string, error) {
		b, err := term.ReadPassword(fd)
		return string(b), err
	}
}

// Run reads submissions from in until EOF, ":quit" or ctx ends. ":show" and
// ":hide" switch whether submitted values are echoed. While the field is
// hidden and readSecret is set, submissions are read through it instead of in.
func Run(ctx context.Context, c *checker.Checker, in io.Reader, out io.Writer, readSecret SecretReader) error {
	c.Store().Subscribe(func(st checker.State) {
		if st.Phase == checker.PhaseLoading {
			fmt.Fprintln(out, "checking…")
		}
	})

	scanner := bufio.NewScanner(in)
	next := func() (string, bool, error) {
		if readSecret != nil && !c.Field().Visible() {
			line, err := readSecret()
			// The terminal swallowed the newline along with the echo.
			fmt.Fprintln(out)
			if errors.Is(err, io.EOF) {
				return "", false, nil
			}
			return line, err == nil, err
		}
		if scanner.Scan() {
			return scanner.Text(), true, nil
		}
		return "", false, scanner.Err()
	}

	for {
		fmt.Fprint(out, prompt)
		line, ok, err := next()
		if !ok {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		switch strings.TrimSpace(line) {
		case ":quit", ":q":
			return nil
		case ":show":
			if !c.Field().Visible() {
				c.ToggleVisibility()
			}
			fmt.Fprintln(out, "input will be shown")
		case ":hide":
			if c.Field().Visible() {
				c.ToggleVisibility()
			}
			fmt.Fprintln(out, "input will be hidden")
		default:
			st := c.Check(ctx, line)
			fmt.Fprintf(out, "%s: %s\n", checker.Mask(strings.TrimSpace(line), c.Field().Visible()), Line(st))
		}
	}
}
