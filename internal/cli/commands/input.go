package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// In: источник ввода для интерактивных запросов. В тестах переназначается.
var In io.Reader = os.Stdin

// readPassword reads a password without echo when stdin is a terminal,
// otherwise it falls back to a plain line from In.
var readPassword = func() (string, error) {
	if f, ok := In.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(Out)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return readLine()
}

// readLine читает одну строку из In побайтно, чтобы не забирать лишнее из потока.
func readLine() (string, error) {
	var sb strings.Builder
	buf := make([]byte, 1)
	for {
		n, err := In.Read(buf)
		if n > 0 {
			if buf[0] == '\n' {
				break
			}
			sb.WriteByte(buf[0])
		}
		if err != nil {
			if errors.Is(err, io.EOF) && sb.Len() > 0 {
				break
			}
			return "", err
		}
	}
	return strings.TrimRight(sb.String(), "\r"), nil
}

func prompt(label string) (string, error) {
	fmt.Fprint(Out, label)
	return readLine()
}
