// Package file persists the agent configuration as a JSON file. The file
// format is part of the external contract (the setup flow writes it, the
// agent reads it at every start), so the store is typed rather than a
// generic key-value bag.
package file

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/quickbasket/smartsync-agent/internal/core/domain"
	"github.com/quickbasket/smartsync-agent/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore is a file-based implementation of driven.ConfigStore.
type ConfigStore struct {
	mu       sync.Mutex
	filePath string
}

// NewConfigStore creates a config store rooted at configDir.
// If configDir is empty, defaults to ~/.smartsync/config.json.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".smartsync")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	return &ConfigStore{
		filePath: filepath.Join(configDir, "config.json"),
	}, nil
}

// Load reads the persisted configuration.
// Returns domain.ErrSetupRequired if no configuration exists yet.
func (s *ConfigStore) Load() (*domain.AgentConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if os.IsNotExist(err) {
		return nil, domain.ErrSetupRequired
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg domain.AgentConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", s.filePath, err)
	}
	return &cfg, nil
}

// Save writes the configuration atomically: marshal to a temp file in the
// same directory, then rename over the target. The config holds the agent
// key, so the file is private to the user.
func (s *ConfigStore) Save(cfg *domain.AgentConfig) error {
	if cfg == nil {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	tmp := s.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmp, s.filePath); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Path returns the configuration file location.
func (s *ConfigStore) Path() string {
	return s.filePath
}
