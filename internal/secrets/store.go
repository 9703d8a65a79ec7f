package secrets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/99designs/keyring"
)

const serviceName = "lazysheet"

// ErrPasswordNotFound is returned when no password is stored for a source
var ErrPasswordNotFound = errors.New("password not found in keyring")

// PasswordStore keeps database passwords in the OS keyring, falling back
// to an encrypted file when no native backend is available
type PasswordStore struct {
	ring          keyring.Keyring
	usingFallback bool
}

// NewPasswordStore opens the keyring with platform-appropriate backends
func NewPasswordStore(configDir string) (*PasswordStore, error) {
	backends := backendsForPlatform()
	return open(keyring.Config{
		ServiceName:     serviceName,
		AllowedBackends: backends,
		FileDir:         filepath.Join(configDir, "keyring"),
		FilePasswordFunc: func(_ string) (string, error) {
			return deriveFilePassword()
		},
	})
}

func open(cfg keyring.Config) (*PasswordStore, error) {
	ring, err := keyring.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}
	return &PasswordStore{
		ring:          ring,
		usingFallback: isUsingFallback(cfg.AllowedBackends),
	}, nil
}

func backendsForPlatform() []keyring.BackendType {
	switch runtime.GOOS {
	case "darwin":
		return []keyring.BackendType{keyring.KeychainBackend, keyring.FileBackend}
	case "linux":
		return []keyring.BackendType{keyring.SecretServiceBackend, keyring.KWalletBackend, keyring.FileBackend}
	case "windows":
		return []keyring.BackendType{keyring.WinCredBackend, keyring.FileBackend}
	default:
		return []keyring.BackendType{keyring.FileBackend}
	}
}

func isUsingFallback(requested []keyring.BackendType) bool {
	if len(requested) == 1 && requested[0] == keyring.FileBackend {
		return true
	}
	for _, b := range keyring.AvailableBackends() {
		if b != keyring.FileBackend {
			return false
		}
	}
	return true
}

// IsUsingFallback reports whether the file backend is in use
func (ps *PasswordStore) IsUsingFallback() bool {
	return ps.usingFallback
}

// Save stores the password for a database source
func (ps *PasswordStore) Save(host string, port int, database, user, password string) error {
	if password == "" {
		return nil
	}

	err := ps.ring.Set(keyring.Item{
		Key:         makeKey(host, port, database, user),
		Data:        []byte(password),
		Label:       fmt.Sprintf("lazysheet: %s@%s:%d/%s", user, host, port, database),
		Description: "PostgreSQL data source password for lazysheet",
	})
	if err != nil {
		return fmt.Errorf("failed to save password to keyring: %w", err)
	}
	return nil
}

// Get retrieves the password for a database source
func (ps *PasswordStore) Get(host string, port int, database, user string) (string, error) {
	item, err := ps.ring.Get(makeKey(host, port, database, user))
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", ErrPasswordNotFound
		}
		return "", fmt.Errorf("failed to read password from keyring: %w", err)
	}
	return string(item.Data), nil
}

// Delete removes the password for a database source
func (ps *PasswordStore) Delete(host string, port int, database, user string) error {
	err := ps.ring.Remove(makeKey(host, port, database, user))
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete password from keyring: %w", err)
	}
	return nil
}

func makeKey(host string, port int, database, user string) string {
	return fmt.Sprintf("%s:%d:%s:%s", host, port, database, user)
}
