package cli

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"golang.org/x/term"
)

// readPassword reads from the terminal without echo. Tests replace it.
var readPassword = term.ReadPassword

// maxPromptAttempts is how many answers a prompt accepts before giving up.
const maxPromptAttempts = 3

var (
	errNoAnswer         = errors.New("no valid answer given")
	errPasswordMismatch = errors.New("passwords do not match")
)

// readLine prints "label: " and returns the next line of input, trimmed. A
// last line without a trailing newline is still returned.
func readLine(reader *bufio.Reader, label string, w io.Writer) (string, error) {
	if _, err := fmt.Fprintf(w, "%s: ", label); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// AskText prompts for a non-empty answer, asking again on an empty line.
func AskText(reader *bufio.Reader, label string, w io.Writer) (string, error) {
	for i := 0; i < maxPromptAttempts; i++ {
		s, err := readLine(reader, label, w)
		if err != nil {
			return "", err
		}
		if s != "" {
			return s, nil
		}
		fmt.Fprintf(w, "%s is required\n", label)
	}
	return "", errNoAnswer
}

// AskEmail prompts for an email address and returns it lower-cased. Answers
// without a local part and a domain around '@' are asked again.
func AskEmail(reader *bufio.Reader, w io.Writer) (string, error) {
	for i := 0; i < maxPromptAttempts; i++ {
		s, err := readLine(reader, "Email", w)
		if err != nil {
			return "", err
		}
		s = strings.ToLower(s)
		if at := strings.IndexByte(s, '@'); at > 0 && at < len(s)-1 && !strings.ContainsAny(s, " \t") {
			return s, nil
		}
		fmt.Fprintln(w, "Not an email address, try again")
	}
	return "", errNoAnswer
}

// AskPassword prompts for a password without echo. The caller wipes the
// returned slice.
func AskPassword(w io.Writer, label string) ([]byte, error) {
	if _, err := fmt.Fprintf(w, "%s: ", label); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	if len(pw) == 0 {
		return nil, errNoAnswer
	}
	return pw, nil
}

// AskNewPassword asks for a password twice and returns it when both entries
// match. The confirmation is always wiped; the result is the caller's to wipe.
func AskNewPassword(w io.Writer) ([]byte, error) {
	pw, err := AskPassword(w, "Password")
	if err != nil {
		return nil, err
	}

	confirm, err := AskPassword(w, "Repeat password")
	if err != nil {
		common.WipeByteArray(pw)
		return nil, err
	}
	defer common.WipeByteArray(confirm)

	if !bytes.Equal(pw, confirm) {
		common.WipeByteArray(pw)
		return nil, errPasswordMismatch
	}
	return pw, nil
}
