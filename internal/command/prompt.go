package command

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"os"

	"golang.org/x/term"
)

// prompt reads one line from in. When in is a terminal the prompt is shown
// on out and the input is not echoed.
func prompt(in io.Reader, out io.Writer, msg string) ([]byte, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if _, err := io.WriteString(out, msg); err != nil {
			return nil, err
		}
		line, err := term.ReadPassword(int(f.Fd()))
		_, _ = io.WriteString(out, "\n")
		return line, err
	}
	line, err := bufio.NewReader(in).ReadBytes('\n')
	if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
		return nil, err
	}
	return bytes.TrimRight(line, "\r\n"), nil
}
