package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrConfigNotFound signals that a stored configuration does not exist.
var ErrConfigNotFound = errors.New("stored configuration not found")

// ErrInvalidConfigName signals a name that cannot be used as a file name
// inside the storage directory.
var ErrInvalidConfigName = errors.New("invalid configuration name")

// Store persists user configuration documents as JSON files under the
// workspace. File names get the .json extension when none is given.
type Store struct {
	dir string
}

// NewStore creates a store rooted in the workspace of the given directory.
func NewStore(workspaceRoot string) *Store {
	return &Store{dir: filepath.Join(workspaceRoot, WorkspaceDirName, "stored_configs")}
}

// Dir returns the storage directory.
func (s *Store) Dir() string {
	return s.dir
}

// fileName validates a configuration name and maps it to the file it is
// stored under. Names must be plain file names; anything carrying a path
// separator or dot segment would resolve outside the storage directory.
func fileName(name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidConfigName, name)
	}
	if !strings.HasSuffix(strings.ToLower(name), ".json") {
		name += ".json"
	}
	return name, nil
}

// Save writes a configuration document. Returns the path it was written to.
func (s *Store) Save(name string, doc map[string]interface{}) (string, error) {
	file, err := fileName(name)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create storage directory %s: %w", s.dir, err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize configuration: %w", err)
	}

	path := filepath.Join(s.dir, file)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write configuration to %s: %w", path, err)
	}
	return path, nil
}

// Load reads a stored configuration document by name.
func (s *Store) Load(name string) (map[string]interface{}, error) {
	file, err := fileName(name)
	if err != nil {
		return nil, err
	}
	path := filepath.Join(s.dir, file)

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration from %s: %w", path, err)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON in %s: %w", path, err)
	}
	return doc, nil
}

// List returns the sorted names of all stored configurations, without the
// .json extension. A missing storage directory yields an empty list.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read storage directory %s: %w", s.dir, err)
	}

	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes a stored configuration.
func (s *Store) Delete(name string) error {
	file, err := fileName(name)
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(s.dir, file))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrConfigNotFound, name)
	}
	return err
}
