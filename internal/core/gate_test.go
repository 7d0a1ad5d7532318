package core

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/illarion/vaultpad/internal/storage"
)

func TestSessionStartsLocked(t *testing.T) {
	store := newMemStore()
	store.credential = "persisted"
	store.text = []storage.TextRecord{{ID: "txt_1"}}

	gate := NewGate(store, NewSession(), nil)
	s := gate.Session()
	assert.False(t, s.Unlocked())
	assert.False(t, s.SectionUnlocked(SectionMedia))
	assert.False(t, s.SectionUnlocked(SectionText))
	assert.ErrorIs(t, gate.RequireUnlocked(), ErrLocked)
}

func TestUnlockScenarios(t *testing.T) {
	gate := NewGate(newMemStore(), NewSession(), nil)

	err := gate.Unlock("venus")
	require.ErrorIs(t, err, ErrIncorrectCredential)
	assert.False(t, gate.Unlocked())

	require.NoError(t, gate.Unlock("Venus!420"))
	assert.True(t, gate.Unlocked())
}

func TestUnlockTrimsWhitespace(t *testing.T) {
	gate := NewGate(newMemStore(), NewSession(), nil)
	require.NoError(t, gate.Unlock("  Venus!420\n"))
	assert.True(t, gate.Unlocked())
}

func TestUnlockWithFallbackPIN(t *testing.T) {
	gate := NewGate(newMemStore(), NewSession(), nil)
	require.NoError(t, gate.Unlock("2338346420"))
	assert.True(t, gate.Unlocked())
}

func TestUnlockLengthBounds(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
	}{
		{name: "empty", candidate: ""},
		{name: "blank", candidate: "      "},
		{name: "too_short", candidate: "abc"},
		{name: "too_long", candidate: strings.Repeat("x", 17)},
		{name: "short_after_trim", candidate: "  ab  "},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gate := NewGate(newMemStore(), NewSession(), nil)
			err := gate.Unlock(tc.candidate)
			require.ErrorIs(t, err, ErrCredentialLength)
			assert.ErrorIs(t, err, ErrValidation)
			assert.False(t, gate.Unlocked())
		})
	}
}

func TestIsValidCredentialProperty(t *testing.T) {
	candidates := []string{"abcd", "1234", "sixteen-chars-xx", "ünïcödé", "Venus!420"}

	for _, c := range candidates {
		store := newMemStore()
		require.NoError(t, store.SetCredential(c))
		gate := NewGate(store, NewSession(), nil)

		ok, err := gate.IsValidCredential(c)
		require.NoError(t, err)
		assert.True(t, ok, "stored credential %q must be valid", c)

		ok, err = gate.IsValidCredential(FallbackPIN)
		require.NoError(t, err)
		assert.True(t, ok, "fallback must stay valid with credential %q", c)

		for _, other := range []string{c + "x", strings.ToUpper(c) + "!", "0000"} {
			if other == c || other == FallbackPIN {
				continue
			}
			ok, err := gate.IsValidCredential(other)
			require.NoError(t, err)
			assert.False(t, ok, "%q must not match credential %q", other, c)
		}
	}
}

func TestUnlockDoesNotTouchSections(t *testing.T) {
	gate := NewGate(newMemStore(), NewSession(), nil)
	require.NoError(t, gate.Unlock(storage.DefaultCredential))

	s := gate.Session()
	assert.False(t, s.SectionUnlocked(SectionMedia))
	assert.False(t, s.SectionUnlocked(SectionText))

	require.NoError(t, gate.Reauth(storage.DefaultCredential, SectionText))
	require.NoError(t, gate.Unlock(storage.DefaultCredential))
	assert.True(t, s.SectionUnlocked(SectionText))
	assert.False(t, s.SectionUnlocked(SectionMedia))
}

func TestReauth(t *testing.T) {
	gate := NewGate(newMemStore(), NewSession(), nil)
	require.NoError(t, gate.Unlock(storage.DefaultCredential))

	err := gate.Reauth("wrong-one", SectionMedia)
	require.ErrorIs(t, err, ErrIncorrectCredential)
	assert.False(t, gate.Session().SectionUnlocked(SectionMedia))

	require.NoError(t, gate.Reauth(FallbackPIN, SectionMedia))
	assert.True(t, gate.Session().SectionUnlocked(SectionMedia))
	assert.False(t, gate.Session().SectionUnlocked(SectionText))

	assert.Error(t, gate.Reauth(storage.DefaultCredential, Section("photos")))
}

func TestRequireSection(t *testing.T) {
	gate := NewGate(newMemStore(), NewSession(), nil)

	assert.ErrorIs(t, gate.RequireSection(SectionMedia), ErrLocked)

	require.NoError(t, gate.Unlock(storage.DefaultCredential))
	err := gate.RequireSection(SectionMedia)
	assert.ErrorIs(t, err, ErrSectionLocked)
	assert.ErrorIs(t, err, ErrNotUnlocked)

	require.NoError(t, gate.Reauth(storage.DefaultCredential, SectionMedia))
	assert.NoError(t, gate.RequireSection(SectionMedia))

	gate.Hide(SectionMedia)
	assert.ErrorIs(t, gate.RequireSection(SectionMedia), ErrSectionLocked)
}

func TestDismissPrompt(t *testing.T) {
	gate := NewGate(newMemStore(), NewSession(), nil)
	assert.ErrorIs(t, gate.DismissPrompt(), ErrLocked)

	require.NoError(t, gate.Unlock(storage.DefaultCredential))
	assert.NoError(t, gate.DismissPrompt())
}

func TestVerifyStoredRejectsFallback(t *testing.T) {
	store := newMemStore()
	gate := NewGate(store, NewSession(), nil)

	assert.NoError(t, gate.VerifyStored(" Venus!420 "))
	assert.ErrorIs(t, gate.VerifyStored(FallbackPIN), ErrIncorrectCredential)
	assert.ErrorIs(t, gate.VerifyStored("venus!420"), ErrIncorrectCredential)
	assert.ErrorIs(t, gate.VerifyStored("abc"), ErrCredentialLength)

	// Verification never unlocks
	assert.False(t, gate.Unlocked())

	require.NoError(t, store.SetCredential("newpass1"))
	assert.NoError(t, gate.VerifyStored("newpass1"))
	assert.ErrorIs(t, gate.VerifyStored("Venus!420"), ErrIncorrectCredential)
}

func TestChangePasswordScenario(t *testing.T) {
	store := newMemStore()
	gate := NewGate(store, NewSession(), nil)

	err := gate.ChangePassword("Venus!420", "ab", "ab")
	require.ErrorIs(t, err, ErrCredentialLength)
	cred, _ := store.GetCredential()
	assert.Equal(t, "Venus!420", cred)

	require.NoError(t, gate.ChangePassword("Venus!420", "newpass1", "newpass1"))
	cred, _ = store.GetCredential()
	assert.Equal(t, "newpass1", cred)

	fresh := NewGate(store, NewSession(), nil)
	require.ErrorIs(t, fresh.Unlock("Venus!420"), ErrIncorrectCredential)
	require.NoError(t, fresh.Unlock(FallbackPIN))
	require.NoError(t, NewGate(store, NewSession(), nil).Unlock("newpass1"))
}

func TestChangePasswordFailures(t *testing.T) {
	tests := []struct {
		name    string
		current string
		next1   string
		next2   string
		want    error
	}{
		{name: "mismatch", current: "Venus!420", next1: "abcdef", next2: "abcdeg", want: ErrPasswordMismatch},
		{name: "too_long", current: "Venus!420", next1: strings.Repeat("a", 17), next2: strings.Repeat("a", 17), want: ErrCredentialLength},
		{name: "wrong_current", current: "venus!420", next1: "abcdef", next2: "abcdef", want: ErrIncorrectCredential},
		{name: "fallback_is_not_enough", current: FallbackPIN, next1: "abcdef", next2: "abcdef", want: ErrIncorrectCredential},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := newMemStore()
			gate := NewGate(store, NewSession(), nil)

			err := gate.ChangePassword(tc.current, tc.next1, tc.next2)
			require.True(t, errors.Is(err, tc.want), "got %v, want %v", err, tc.want)

			cred, _ := store.GetCredential()
			assert.Equal(t, storage.DefaultCredential, cred)
		})
	}
}

func TestResetLocksAndWipes(t *testing.T) {
	store := newMemStore()
	store.credential = "custom1"
	store.media = []storage.MediaRecord{{ID: "media_1"}}
	store.text = []storage.TextRecord{{ID: "txt_1"}}

	gate := NewGate(store, NewSession(), nil)
	require.NoError(t, gate.Unlock("custom1"))
	require.NoError(t, gate.Reauth("custom1", SectionMedia))
	require.NoError(t, gate.Reauth("custom1", SectionText))

	require.NoError(t, gate.Reset())

	s := gate.Session()
	assert.False(t, s.Unlocked())
	assert.False(t, s.SectionUnlocked(SectionMedia))
	assert.False(t, s.SectionUnlocked(SectionText))

	cred, _ := store.GetCredential()
	assert.Equal(t, storage.DefaultCredential, cred)
	media, _ := store.ReadMedia()
	text, _ := store.ReadText()
	assert.Empty(t, media)
	assert.Empty(t, text)
}
