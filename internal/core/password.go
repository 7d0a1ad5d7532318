package core

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"os"
	"syscall"

	"golang.org/x/term"
)

// PasswordEnv names the environment variable that supplies the credential non-interactively
const PasswordEnv = "VAULTPAD_PASSWORD"

// ErrNoTerminal is returned when a password prompt is needed but stdin is not a terminal
var ErrNoTerminal = errors.New("cannot prompt for password: stdin is not a terminal")

// ReadPassword reads a password from the terminal without echoing
func ReadPassword(prompt string) ([]byte, error) {
	if !term.IsTerminal(int(syscall.Stdin)) {
		return nil, ErrNoTerminal
	}
	fmt.Fprint(os.Stderr, prompt)

	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)

	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}

	return password, nil
}

// ReadPasswordConfirm reads a new password twice. Both entries are returned
// so that ChangePassword reports a mismatch the same way for every caller.
func ReadPasswordConfirm() ([]byte, []byte, error) {
	password1, err := ReadPassword("New password: ")
	if err != nil {
		return nil, nil, err
	}

	password2, err := ReadPassword("Confirm new password: ")
	if err != nil {
		ClearBytes(password1)
		return nil, nil, err
	}

	return password1, password2, nil
}

// GetPasswordFromEnv reads the credential from VAULTPAD_PASSWORD
func GetPasswordFromEnv() []byte {
	password := os.Getenv(PasswordEnv)
	if password == "" {
		return nil
	}
	// Return a copy to avoid issues when clearing the bytes
	result := make([]byte, len(password))
	copy(result, password)
	return result
}

// ClearBytes zeroes a byte slice holding a secret
func ClearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// secretEqual compares two credentials in constant time
func secretEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
