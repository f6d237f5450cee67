package hostkey

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/battle-royale/internal/dependencies/random"
	"github.com/mcoot/battle-royale/internal/model"
)

const (
	keyLength   = 24
	keyAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// Config holds configuration for the host key service
type Config struct {
	// Cost is the bcrypt cost used when hashing issued keys
	Cost int
}

// DefaultConfig returns default host key configuration
func DefaultConfig() Config {
	return Config{
		Cost: bcrypt.DefaultCost,
	}
}

// Service issues and verifies the keys that allow controlling a match
type Service struct {
	random random.Random
	cost   int
}

// New creates a new host key service
func New(random random.Random, cfg Config) *Service {
	if cfg.Cost == 0 {
		cfg.Cost = DefaultConfig().Cost
	}
	return &Service{
		random: random,
		cost:   cfg.Cost,
	}
}

// Issue generates a new key and its bcrypt hash. Only the hash should be persisted.
func (s *Service) Issue() (key string, hash string, err error) {
	key = s.random.String(keyLength, keyAlphabet)
	h, err := bcrypt.GenerateFromPassword([]byte(key), s.cost)
	if err != nil {
		return "", "", err
	}
	return key, string(h), nil
}

// Verify checks a presented key against a stored hash
func (s *Service) Verify(hash, key string) error {
	if hash == "" || key == "" {
		return model.ErrInvalidHostKey
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)); err != nil {
		return model.ErrInvalidHostKey
	}
	return nil
}
