// Package prompt implements the console input layer: typed prompt
// functions that loop until the user supplies a value satisfying the
// declared bounds. Invalid input never escapes a prompt; the only
// non-value outcome is ErrCancelled when input ends (Ctrl-D or a piped
// script running dry).
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/term"
)

// ErrCancelled is returned when the input stream ends before a valid
// value was read. Callers treat it as "leave the current menu".
var ErrCancelled = errors.New("input cancelled")

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

var validate = validator.New()

// Prompter reads values from in and writes prompts and validation
// errors to out. When in is an interactive terminal, password prompts
// disable echo; otherwise they fall back to plain line reads so piped
// input and tests still work.
type Prompter struct {
	in     *bufio.Reader
	out    io.Writer
	isTerm bool
	termFd int
}

// New returns a Prompter over the given streams.
func New(in io.Reader, out io.Writer) *Prompter {
	p := &Prompter{in: bufio.NewReader(in), out: out}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.isTerm = true
		p.termFd = int(f.Fd())
	}
	return p
}

// Line prints label and reads one trimmed line. EOF before any input
// returns ErrCancelled; a final unterminated line is still returned.
func (p *Prompter) Line(label string) (string, error) {
	fmt.Fprint(p.out, label)
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrCancelled
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// String loops until the input length lands in [min, max]. max <= 0
// means unbounded.
func (p *Prompter) String(label string, min, max int) (string, error) {
	for {
		s, err := p.Line(label)
		if err != nil {
			return "", err
		}
		if s == "" {
			fmt.Fprintln(p.out, "Error: Input cannot be empty. Please try again.")
			continue
		}
		if len(s) < min {
			fmt.Fprintf(p.out, "Error: Input must be at least %d character(s). Please try again.\n", min)
			continue
		}
		if max > 0 && len(s) > max {
			fmt.Fprintf(p.out, "Error: Input must be at most %d character(s). Please try again.\n", max)
			continue
		}
		return s, nil
	}
}

// OptionalString reads a line that may be empty. A non-empty value is
// still bounded by max when max > 0.
func (p *Prompter) OptionalString(label string, max int) (string, error) {
	for {
		s, err := p.Line(label)
		if err != nil {
			return "", err
		}
		if s == "" {
			return "", nil
		}
		if max > 0 && len(s) > max {
			fmt.Fprintf(p.out, "Error: Input must be at most %d character(s). Please try again.\n", max)
			continue
		}
		return s, nil
	}
}

// Float loops until the input parses as a number within [min, max].
func (p *Prompter) Float(label string, min, max float64) (float64, error) {
	for {
		s, err := p.Line(label)
		if err != nil {
			return 0, err
		}
		if s == "" {
			fmt.Fprintln(p.out, "Error: Input cannot be empty. Please enter a number.")
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			fmt.Fprintf(p.out, "Error: '%s' is not a valid number. Please try again.\n", s)
			continue
		}
		if v < min {
			fmt.Fprintf(p.out, "Error: Value must be at least %v. Please try again.\n", min)
			continue
		}
		if v > max {
			fmt.Fprintf(p.out, "Error: Value must be at most %v. Please try again.\n", max)
			continue
		}
		return v, nil
	}
}

// Email loops until the input is a syntactically valid email address.
func (p *Prompter) Email(label string) (string, error) {
	for {
		s, err := p.Line(label)
		if err != nil {
			return "", err
		}
		if s == "" {
			fmt.Fprintln(p.out, "Error: Email cannot be empty. Please try again.")
			continue
		}
		if err := validate.Var(s, "email"); err != nil {
			fmt.Fprintln(p.out, "Error: Invalid email format. Please enter a valid email address.")
			continue
		}
		return s, nil
	}
}

// Password reads a password. On a terminal the input is not echoed;
// elsewhere it degrades to a plain line read.
func (p *Prompter) Password(label string) (string, error) {
	if !p.isTerm {
		return p.Line(label)
	}
	fmt.Fprint(p.out, label)
	pw, err := readPassword(p.termFd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}
