// Package auth stores the Taskdeck API token in the OS keyring, with a
// file-based fallback for headless systems where no keyring is available.
package auth

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "taskdeck"
	keyringUser    = "api-token"
)

var (
	// fallbackMode indicates if we're using file-based fallback (headless systems)
	fallbackMode    bool
	fallbackModeMu  sync.RWMutex
	fallbackChecked bool
)

// checkKeyringAvailable tests if the system keyring is usable
func checkKeyringAvailable() bool {
	fallbackModeMu.Lock()
	defer fallbackModeMu.Unlock()

	if fallbackChecked {
		return !fallbackMode
	}

	testKey := "taskdeck-keyring-test"
	err := keyring.Set(keyringService, testKey, "test")
	if err != nil {
		fallbackMode = true
		fallbackChecked = true
		return false
	}

	_ = keyring.Delete(keyringService, testKey)
	fallbackChecked = true
	return true
}

func isFallbackMode() bool {
	fallbackModeMu.RLock()
	defer fallbackModeMu.RUnlock()
	return fallbackMode
}

func isFallbackChecked() bool {
	fallbackModeMu.RLock()
	defer fallbackModeMu.RUnlock()
	return fallbackChecked
}

// fallbackPath returns the path of the token fallback file
func fallbackPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".taskdeck", ".token"), nil
}

// StoreToken saves the API token in the system keyring or the fallback file.
func StoreToken(token string) error {
	if checkKeyringAvailable() {
		if err := keyring.Set(keyringService, keyringUser, token); err != nil {
			return fmt.Errorf("failed to store token in keyring: %w", err)
		}
		return nil
	}

	path, err := fallbackPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(token), 0600); err != nil {
		return fmt.Errorf("failed to write fallback token: %w", err)
	}
	return nil
}

// RetrieveToken loads the API token from the keyring or the fallback file.
// Returns the empty string when no token is stored.
func RetrieveToken() string {
	if !isFallbackMode() && checkKeyringAvailable() {
		if token, err := keyring.Get(keyringService, keyringUser); err == nil {
			return token
		}
	}

	path, err := fallbackPath()
	if err != nil {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// DeleteToken removes the token from both the keyring and the fallback file.
func DeleteToken() error {
	var keyringErr, fallbackErr error

	if !isFallbackMode() {
		keyringErr = keyring.Delete(keyringService, keyringUser)
	}

	if path, err := fallbackPath(); err == nil {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			fallbackErr = err
		}
	}

	if keyringErr != nil && fallbackErr != nil {
		return fmt.Errorf("failed to delete token from keyring and fallback")
	}
	return nil
}

// HasStoredToken checks whether a token is available anywhere.
func HasStoredToken() bool {
	return RetrieveToken() != ""
}

// StorageMode returns a string describing current storage mode
func StorageMode() string {
	if !isFallbackChecked() {
		checkKeyringAvailable()
	}
	if isFallbackMode() {
		return "file-based (keyring unavailable)"
	}
	return "system-keyring"
}
