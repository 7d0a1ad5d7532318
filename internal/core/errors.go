package core

import (
	"errors"
	"fmt"
)

// Parent errors. Every error returned by the gate and the vaults matches
// exactly one of these with errors.Is.
var (
	ErrValidation          = errors.New("invalid input")
	ErrIncorrectCredential = errors.New("incorrect password")
	ErrNotUnlocked         = errors.New("vault is locked")
	ErrNotFound            = errors.New("item not found")
)

// Validation failures
var (
	ErrCredentialLength = fmt.Errorf("%w: password must be %d-%d characters", ErrValidation, MinCredentialLength, MaxCredentialLength)
	ErrPasswordMismatch = fmt.Errorf("%w: passwords do not match", ErrValidation)
	ErrEmptyContent     = fmt.Errorf("%w: add a title or note", ErrValidation)
	ErrEmptySelection   = fmt.Errorf("%w: select photo(s) first", ErrValidation)
)

// Lock failures. ErrLocked asks for the primary prompt, ErrSectionLocked for reauth.
var (
	ErrLocked        = fmt.Errorf("%w: unlock required", ErrNotUnlocked)
	ErrSectionLocked = fmt.Errorf("%w: re-authentication required", ErrNotUnlocked)
)

// ErrUploadInProgress is returned when Upload is called while another upload runs
var ErrUploadInProgress = errors.New("upload already in progress")

// FileError reports a queued file that could not be stored
type FileError struct {
	Name string
	Err  error
}

func (e FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

func (e FileError) Unwrap() error {
	return e.Err
}
