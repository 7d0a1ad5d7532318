// Package git checks how the vault file relates to a surrounding git work tree.
//
// The vault stores photos and notes unencrypted, so it should never be
// committed:
//   - the vault file should not be tracked
//   - the vault file should be listed in .gitignore
package git
