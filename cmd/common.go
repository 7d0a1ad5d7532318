package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/illarion/vaultpad/internal/clipboard"
	"github.com/illarion/vaultpad/internal/core"
	"github.com/illarion/vaultpad/internal/keyring"
	"github.com/illarion/vaultpad/internal/security"
)

// credentialSource tells where an accepted credential came from
type credentialSource int

const (
	sourcePrompt credentialSource = iota
	sourceEnv
	sourceKeyring
)

func (s credentialSource) String() string {
	switch s {
	case sourceEnv:
		return core.PasswordEnv
	case sourceKeyring:
		return "keyring"
	}
	return "prompt"
}

// useKeyring reports whether the keyring may be consulted for this vault
func (e *env) useKeyring() bool {
	return e.cfg.Keyring && e.vaultID != ""
}

// acquire hands credentials to accept from VAULTPAD_PASSWORD, then the
// keyring, then an interactive prompt, stopping at the first source
// available. A keyring entry that is rejected falls through to the prompt.
func (e *env) acquire(prompt string, accept func(string) error) (credentialSource, error) {
	if password := core.GetPasswordFromEnv(); password != nil {
		defer core.ClearBytes(password)
		return sourceEnv, accept(string(password))
	}

	if e.useKeyring() {
		if cached, err := keyring.GetCredential(e.vaultID); err == nil {
			err := accept(cached)
			if err == nil {
				return sourceKeyring, nil
			}
			if !errors.Is(err, core.ErrIncorrectCredential) && !errors.Is(err, core.ErrValidation) {
				return sourceKeyring, err
			}
			e.log.Warn("keyring credential rejected", zap.String("vault_id", e.vaultID))
			fmt.Fprintln(e.errOut, "warning: password in keyring is out of date, enter it manually")
		}
	}

	password, err := e.readPassword(prompt)
	if err != nil {
		return sourcePrompt, err
	}
	defer core.ClearBytes(password)
	return sourcePrompt, accept(string(password))
}

// ensureUnlocked presents the primary prompt unless this session is unlocked
func (e *env) ensureUnlocked() error {
	if e.app.Session().Unlocked() {
		return nil
	}
	source, err := e.acquire("Enter password: ", e.app.Unlock)
	if err != nil {
		return err
	}
	e.log.Debug("unlocked", zap.Stringer("source", source))
	return nil
}

// ensureSection unlocks the session and re-authenticates for the section
// unless it is already open
func (e *env) ensureSection(section core.Section) error {
	if err := e.ensureUnlocked(); err != nil {
		return err
	}
	if e.app.Session().SectionUnlocked(section) {
		return nil
	}
	prompt := fmt.Sprintf("Password for hidden %s: ", section)
	_, err := e.acquire(prompt, func(candidate string) error {
		return e.app.Reauth(candidate, section)
	})
	return err
}

// printer presents notifications on stderr, away from command output
type printer struct {
	w io.Writer
}

func newPrinter(w io.Writer) *printer {
	return &printer{w: w}
}

func (p *printer) Notify(message string, severity core.Severity) {
	switch severity {
	case core.SeveritySuccess:
		fmt.Fprintf(p.w, "ok: %s\n", message)
	case core.SeverityError:
		fmt.Fprintf(p.w, "error: %s\n", message)
	default:
		fmt.Fprintln(p.w, message)
	}
}

// describeError maps an error to a user message and an optional hint
func describeError(err error) (string, string) {
	switch {
	case errors.Is(err, core.ErrIncorrectCredential):
		return "incorrect password", ""
	case errors.Is(err, core.ErrCredentialLength):
		return fmt.Sprintf("password must be %d-%d characters", core.MinCredentialLength, core.MaxCredentialLength), ""
	case errors.Is(err, core.ErrPasswordMismatch):
		return "passwords do not match", ""
	case errors.Is(err, core.ErrEmptyContent):
		return "add a title or note", "Use --title and --body, or pipe the note on stdin"
	case errors.Is(err, core.ErrEmptySelection):
		return "select photo(s) first", "Usage: vaultpad media add <file> [file...]"
	case errors.Is(err, core.ErrSectionLocked):
		return "re-authentication required", ""
	case errors.Is(err, core.ErrLocked):
		return "vault is locked", "Run 'vaultpad unlock' or 'vaultpad shell'"
	case errors.Is(err, core.ErrNotFound):
		return err.Error(), "Use 'vaultpad media ls' or 'vaultpad text ls' to see ids"
	case errors.Is(err, core.ErrUploadInProgress):
		return "an upload is already running", ""
	case errors.Is(err, core.ErrNoClipboard), errors.Is(err, clipboard.ErrUnsupported):
		return "clipboard unavailable", "Use 'vaultpad text copy --stdout <id>' instead"
	case errors.Is(err, core.ErrNoTerminal):
		return err.Error(), fmt.Sprintf("Set %s or run 'vaultpad keyring save'", core.PasswordEnv)
	case errors.Is(err, security.ErrFileExists):
		return err.Error(), "Use --force to overwrite"
	}
	return err.Error(), ""
}

// readPiped returns stdin contents when input is redirected. An interactive
// terminal yields ok=false.
func readPiped(r io.Reader) (string, bool, error) {
	if f, ok := r.(*os.File); ok {
		if term.IsTerminal(int(f.Fd())) {
			return "", false, nil
		}
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", false, fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), true, nil
}

// confirm asks a yes/no question on the terminal
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	var answer string
	if _, err := fmt.Fscanln(in, &answer); err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func formatSize(size int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case size >= GB:
		return fmt.Sprintf("%.1f GB", float64(size)/GB)
	case size >= MB:
		return fmt.Sprintf("%.1f MB", float64(size)/MB)
	case size >= KB:
		return fmt.Sprintf("%.1f KB", float64(size)/KB)
	default:
		return fmt.Sprintf("%d bytes", size)
	}
}

// preview shortens s to its first line, at most n runes
func preview(s string, n int) string {
	line, _, cut := strings.Cut(s, "\n")
	r := []rune(line)
	if len(r) > n {
		return string(r[:n-1]) + "…"
	}
	if cut {
		return line + "…"
	}
	return line
}
