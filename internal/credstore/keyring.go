// Package credstore persists the rotator's own GitLab credential in the OS
// keyring (macOS Keychain, Windows Credential Manager, Secret Service).
//
// Secrets are stored under a human readable service label with the instance
// URL as the account name, so one machine can hold credentials for several
// GitLab instances.
package credstore

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// DefaultService is the keyring service label.
const DefaultService = "GitLab Token Rotator"

// Keyring stores secrets in the OS keyring under Service.
type Keyring struct {
	Service string
}

// New returns a Keyring for service, falling back to DefaultService.
func New(service string) *Keyring {
	if service == "" {
		service = DefaultService
	}
	return &Keyring{Service: service}
}

// Get returns the secret stored for instance. ok is false when nothing is
// stored.
func (k *Keyring) Get(instance string) (secret string, ok bool, err error) {
	secret, err = keyring.Get(k.Service, instance)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read keyring entry for %s: %w", instance, err)
	}
	return secret, true, nil
}

// Set stores secret for instance, replacing any previous value.
func (k *Keyring) Set(instance, secret string) error {
	if err := keyring.Set(k.Service, instance, secret); err != nil {
		return fmt.Errorf("write keyring entry for %s: %w", instance, err)
	}
	return nil
}

// Delete removes the secret for instance. Deleting a missing entry is not an
// error.
func (k *Keyring) Delete(instance string) error {
	err := keyring.Delete(k.Service, instance)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("delete keyring entry for %s: %w", instance, err)
	}
	return nil
}
