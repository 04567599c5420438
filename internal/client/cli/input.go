package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
// In tests you can replace it with a stub to avoid touching the terminal.
var readPassword = term.ReadPassword

// DateLayout is the input and display format for card dates.
const DateLayout = "02.01.2006"

// GetSimpleText prints a prompt to w and reads a single line of input from reader.
// The trailing newline is trimmed. If EOF occurs after some input was read,
// the partial line is returned.
//
// Example prompt format:
//
//	Prompt text
//	> _
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetPassword prints a password prompt to w and reads a password
// from the user's terminal without echo. A newline is printed after
// the read to keep the UI tidy.
//
// The returned byte slice should be wiped by the caller when no longer needed.
func GetPassword(w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, "Passwort: "); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// GetDate reads a date in DateLayout. An empty line keeps def.
func GetDate(reader *bufio.Reader, prompt string, def time.Time, w io.Writer) (time.Time, error) {
	s, err := GetSimpleText(reader, fmt.Sprintf("%s [%s]", prompt, def.Format(DateLayout)), w)
	if err != nil {
		return time.Time{}, err
	}
	if s == "" {
		return def, nil
	}
	d, err := time.ParseInLocation(DateLayout, s, def.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("ungültiges Datum %q, erwartet TT.MM.JJJJ", s)
	}
	return d, nil
}
