package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/recipekeeper/internal/accounts"
	"github.com/dmitrijs2005/recipekeeper/internal/common"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// noTerminal marks a reader that is not attached to a terminal.
const noTerminal = -1

// readLine reads one line without its line ending. A final line without a
// newline is returned as is; io.EOF is only reported when nothing was read.
func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// GetSimpleText prints prompt to w and reads a single trimmed line.
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt); err != nil {
		return "", err
	}
	line, err := readLine(reader)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetPassword prints prompt and reads a password. When fd refers to a
// terminal the password is read without echo, otherwise a plain line is
// read from reader.
//
// The returned byte slice should be wiped by the caller when no longer needed.
func GetPassword(reader *bufio.Reader, prompt string, w io.Writer, fd int) ([]byte, error) {
	if _, err := fmt.Fprint(w, prompt); err != nil {
		return nil, err
	}
	if fd == noTerminal {
		line, err := readLine(reader)
		if err != nil {
			return nil, err
		}
		return []byte(line), nil
	}
	pw, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// GetMultiline prints prompt and reads lines until an empty one. Lines are
// joined with '\n'. io.EOF is returned only when input ends before any line.
func GetMultiline(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprintln(w, prompt); err != nil {
		return "", err
	}

	var lines []string
	for {
		line, err := readLine(reader)
		if err != nil {
			if errors.Is(err, io.EOF) && len(lines) > 0 {
				break
			}
			return "", err
		}
		if line == "" {
			break
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n"), nil
}

// GetNonBlank repeats prompt until a non-blank answer is given.
func GetNonBlank(reader *bufio.Reader, prompt, errMsg string, w io.Writer) (string, error) {
	for {
		text, err := GetSimpleText(reader, prompt, w)
		if err != nil {
			return "", err
		}
		if text != "" {
			return text, nil
		}
		fmt.Fprintln(w, errMsg)
	}
}

// GetNonBlankMultiline is GetNonBlank for multi-line answers.
func GetNonBlankMultiline(reader *bufio.Reader, prompt, errMsg string, w io.Writer) (string, error) {
	for {
		text, err := GetMultiline(reader, prompt, w)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(text) != "" {
			return text, nil
		}
		fmt.Fprintln(w, errMsg)
	}
}

// GetYesNo repeats prompt until the answer is yes or no, case-insensitive.
func GetYesNo(reader *bufio.Reader, prompt string, w io.Writer) (bool, error) {
	for {
		text, err := GetSimpleText(reader, prompt, w)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(text) {
		case "yes":
			return true, nil
		case "no":
			return false, nil
		}
		fmt.Fprintln(w, "Please enter 'yes' or 'no'.")
	}
}

// GetChoice reads a menu choice in [1, limit], re-prompting on anything else.
func GetChoice(reader *bufio.Reader, limit int, w io.Writer) (int, error) {
	for {
		text, err := GetSimpleText(reader, "Enter your choice: ", w)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(text)
		if err != nil {
			fmt.Fprintln(w, "Invalid input. Please enter a number.")
			continue
		}
		if n < 1 || n > limit {
			fmt.Fprintf(w, "Invalid choice. Please enter a number between 1 and %d.\n", limit)
			continue
		}
		return n, nil
	}
}

// errBadNumber is returned by GetInt for input that is not an integer.
var errBadNumber = errors.New("not a number")

// GetInt reads a single integer. It does not re-prompt.
func GetInt(reader *bufio.Reader, prompt string, w io.Writer) (int, error) {
	text, err := GetSimpleText(reader, prompt, w)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, errBadNumber
	}
	return n, nil
}

// GetEmail repeats the email prompt until the address is well formed.
func GetEmail(reader *bufio.Reader, w io.Writer) (string, error) {
	for {
		email, err := GetSimpleText(reader, "Please enter your email address: ", w)
		if err != nil {
			return "", err
		}
		if accounts.IsValidEmail(email) {
			return email, nil
		}
		fmt.Fprintln(w, "Please ensure you enter a valid email address.")
	}
}

// GetNewPassword asks for a password and its confirmation until both match
// and the password is strong enough.
func GetNewPassword(reader *bufio.Reader, w io.Writer, fd int) (password, confirm []byte, err error) {
	for {
		password, err = GetPassword(reader, "Please enter your password: ", w, fd)
		if err != nil {
			return nil, nil, err
		}
		confirm, err = GetPassword(reader, "Confirm your password: ", w, fd)
		if err != nil {
			return nil, nil, err
		}

		switch {
		case string(password) != string(confirm):
			fmt.Fprintln(w, "Passwords do not match. Try again.")
		case !accounts.IsStrongPassword(string(password)):
			fmt.Fprintf(w, "Password must contain at least one uppercase letter, one lowercase letter, one digit, and be at least %d characters long.\n", accounts.MinPasswordLength)
		default:
			fmt.Fprintln(w, "Password created successfully")
			return password, confirm, nil
		}
		common.WipeByteArray(password)
		common.WipeByteArray(confirm)
	}
}
