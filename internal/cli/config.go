package cli

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string
	HostKey   string
	KeyDir    string
	Output    string
	Verbose   bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL: getEnvOrDefault("ROYALE_SERVER", "http://localhost:8080"),
		HostKey:   os.Getenv("ROYALE_HOST_KEY"),
		KeyDir:    getEnvOrDefault("ROYALE_KEY_DIR", defaultKeyDir()),
		Output:    "text",
		Verbose:   false,
	}
}

// LoadHostKey returns the host key for a match.
// An explicit key wins over one saved when the match was created.
func (c *Config) LoadHostKey(matchID string) (string, error) {
	if c.HostKey != "" {
		return c.HostKey, nil
	}

	data, err := os.ReadFile(c.keyPath(matchID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", err
	}

	return strings.TrimSpace(string(data)), nil
}

// SaveHostKey stores the host key returned when a match is created
func (c *Config) SaveHostKey(matchID, key string) error {
	if err := os.MkdirAll(c.KeyDir, 0700); err != nil {
		return err
	}
	return os.WriteFile(c.keyPath(matchID), []byte(key), 0600)
}

// ForgetHostKey removes a saved host key
func (c *Config) ForgetHostKey(matchID string) error {
	err := os.Remove(c.keyPath(matchID))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (c *Config) keyPath(matchID string) string {
	return filepath.Join(c.KeyDir, filepath.Base(matchID))
}

func defaultKeyDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".royale/keys"
	}
	return filepath.Join(home, ".royale", "keys")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
