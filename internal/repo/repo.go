// Package repo manages the local checkout of the framework repository that
// provides the documentation corpus.
package repo

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"golang.org/x/sync/singleflight"

	"sfcwizard/pkg/logging"
)

// Manager clones and refreshes the framework repository checkout.
type Manager struct {
	url string
	dir string

	// deduplicates concurrent update calls into one git invocation
	group singleflight.Group
}

// NewManager creates a manager for the repository at url, checked out at dir.
func NewManager(url, dir string) *Manager {
	return &Manager{url: url, dir: dir}
}

// Dir returns the checkout directory.
func (m *Manager) Dir() string {
	return m.dir
}

// DocsDir returns the documentation root inside the checkout.
func (m *Manager) DocsDir() string {
	return filepath.Join(m.dir, "docs")
}

// Exists reports whether a checkout is already present.
func (m *Manager) Exists() bool {
	_, err := os.Stat(filepath.Join(m.dir, ".git"))
	return err == nil
}

// Update refreshes the checkout: a fresh clone when none exists, a pull
// otherwise. Concurrent calls share a single git invocation. Returns a short
// description of what happened.
func (m *Manager) Update(ctx context.Context) (string, error) {
	msg, err, _ := m.group.Do("update", func() (interface{}, error) {
		return m.update(ctx)
	})
	if err != nil {
		return "", err
	}
	return msg.(string), nil
}

func (m *Manager) update(ctx context.Context) (string, error) {
	if !m.Exists() {
		logging.Info("repo", "Cloning %s into %s", m.url, m.dir)
		if err := m.run(ctx, "", "clone", "--depth", "1", m.url, m.dir); err != nil {
			return "", fmt.Errorf("failed to clone %s: %w", m.url, err)
		}
		return fmt.Sprintf("cloned %s into %s", m.url, m.dir), nil
	}

	logging.Info("repo", "Pulling latest changes in %s", m.dir)
	if err := m.run(ctx, m.dir, "pull", "--ff-only"); err != nil {
		return "", fmt.Errorf("failed to update checkout at %s: %w", m.dir, err)
	}
	return fmt.Sprintf("updated checkout at %s", m.dir), nil
}

func (m *Manager) run(ctx context.Context, workDir string, args ...string) error {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = workDir

	output, err := cmd.CombinedOutput()
	if err != nil {
		trimmed := strings.TrimSpace(string(output))
		if trimmed != "" {
			return fmt.Errorf("git %s: %w: %s", args[0], err, trimmed)
		}
		return fmt.Errorf("git %s: %w", args[0], err)
	}
	return nil
}
