// Package keyring stores retrieved credentials in the operating system
// keychain (Secret Service on Linux, Keychain on macOS, Credential Manager
// on Windows) so scripts can hand a password off without writing it to disk.
package keyring

import (
	"errors"
	"fmt"

	zkeyring "github.com/zalando/go-keyring"
)

// ErrNotFound is returned by Lookup when no entry exists for the
// service/account pair.
var ErrNotFound = errors.New("keyring: entry not found")

// Store writes secret under service/account, replacing any existing entry.
func Store(service, account, secret string) error {
	if service == "" || account == "" {
		return errors.New("keyring: service and account must not be empty")
	}
	if err := zkeyring.Set(service, account, secret); err != nil {
		return fmt.Errorf("keyring: storing entry for %s/%s: %w", service, account, err)
	}
	return nil
}

// Lookup reads the secret stored under service/account.
func Lookup(service, account string) (string, error) {
	secret, err := zkeyring.Get(service, account)
	if err != nil {
		if errors.Is(err, zkeyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("keyring: reading entry for %s/%s: %w", service, account, err)
	}
	return secret, nil
}

// Delete removes the entry for service/account. Deleting a missing entry
// returns ErrNotFound.
func Delete(service, account string) error {
	if err := zkeyring.Delete(service, account); err != nil {
		if errors.Is(err, zkeyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("keyring: deleting entry for %s/%s: %w", service, account, err)
	}
	return nil
}
