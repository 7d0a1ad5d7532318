package git

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// VaultStatus describes the vault file from git's point of view
type VaultStatus struct {
	IsRepo  bool
	Path    string // vault path relative to the work dir
	Tracked bool   // committed or staged (bad)
	Ignored bool   // matched by .gitignore (good)
}

// IsGitRepo checks if the working directory is inside a git repository
func IsGitRepo(ctx context.Context, workDir string) bool {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--is-inside-work-tree")
	cmd.Dir = workDir
	return cmd.Run() == nil
}

// IsTracked checks if a file is tracked by git
func IsTracked(ctx context.Context, workDir, path string) bool {
	cmd := exec.CommandContext(ctx, "git", "ls-files", "--", path)
	cmd.Dir = workDir
	output, err := cmd.Output()
	if err != nil {
		return false
	}
	return len(strings.TrimSpace(string(output))) > 0
}

// IsIgnored checks if a file is ignored by git (handles all .gitignore files)
func IsIgnored(ctx context.Context, workDir, path string) bool {
	cmd := exec.CommandContext(ctx, "git", "check-ignore", "-q", "--", path)
	cmd.Dir = workDir
	// exit code 0 means ignored
	return cmd.Run() == nil
}

// CheckVault inspects the vault file at vaultPath. Outside a git work tree
// only IsRepo=false is reported.
func CheckVault(ctx context.Context, workDir, vaultPath string) (*VaultStatus, error) {
	status := &VaultStatus{Path: vaultPath}

	if !IsGitRepo(ctx, workDir) {
		return status, nil
	}
	status.IsRepo = true

	if filepath.IsAbs(vaultPath) {
		rel, err := filepath.Rel(workDir, vaultPath)
		if err != nil {
			return nil, fmt.Errorf("failed to relate vault path: %w", err)
		}
		status.Path = rel
	}

	status.Tracked = IsTracked(ctx, workDir, status.Path)
	status.Ignored = IsIgnored(ctx, workDir, status.Path)
	return status, nil
}

// FormatVaultStatus formats the status for display. It returns an empty string
// outside a git repository.
func FormatVaultStatus(status *VaultStatus) string {
	if status == nil || !status.IsRepo {
		return ""
	}

	var result strings.Builder
	result.WriteString("\nGit Integration:\n")

	if status.Tracked {
		result.WriteString(fmt.Sprintf("   error: %s is tracked by git (run: git rm --cached %s)\n", status.Path, status.Path))
	} else {
		result.WriteString(fmt.Sprintf("   ok: %s is not tracked\n", status.Path))
	}

	if status.Ignored {
		result.WriteString(fmt.Sprintf("   ok: %s is in .gitignore\n", status.Path))
	} else {
		result.WriteString(fmt.Sprintf("   warning: %s not in .gitignore (add to .gitignore)\n", status.Path))
	}

	return result.String()
}
