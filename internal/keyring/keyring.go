package keyring

import (
	"errors"

	"github.com/zalando/go-keyring"
)

const serviceName = "vaultpad"

// ErrNotFound means no credential is cached for the vault
var ErrNotFound = keyring.ErrNotFound

// SaveCredential caches the vault credential in the OS keyring
func SaveCredential(vaultID string, credential string) error {
	return keyring.Set(serviceName, vaultID, credential)
}

// GetCredential retrieves the cached credential for a vault
func GetCredential(vaultID string) (string, error) {
	return keyring.Get(serviceName, vaultID)
}

// DeleteCredential removes the cached credential. Deleting a missing entry is not an error.
func DeleteCredential(vaultID string) error {
	err := keyring.Delete(serviceName, vaultID)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// HasCredential checks if a credential is cached for the vault
func HasCredential(vaultID string) bool {
	_, err := keyring.Get(serviceName, vaultID)
	return err == nil
}
