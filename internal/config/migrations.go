package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/j-veylop/ttml-stats-dashboard-tui/internal/models"
)

//go:embed account-migrations.yaml
var defaultMigrations []byte

type migrationsFile struct {
	Migrations []models.AccountMigration `yaml:"migrations"`
}

// LoadMigrations reads the account rename registry from path. When the file
// does not exist the built-in registry is returned.
func LoadMigrations(path string) ([]models.AccountMigration, error) {
	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) || path == "" {
		return DefaultMigrations(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations file: %w", err)
	}
	migrations, err := parseMigrations(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return migrations, nil
}

// DefaultMigrations returns the built-in registry.
func DefaultMigrations() []models.AccountMigration {
	migrations, err := parseMigrations(defaultMigrations)
	if err != nil {
		panic(fmt.Sprintf("embedded migrations are invalid: %v", err))
	}
	return migrations
}

func parseMigrations(content []byte) ([]models.AccountMigration, error) {
	var file migrationsFile
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, err
	}
	for i, m := range file.Migrations {
		if strings.TrimSpace(m.From) == "" || strings.TrimSpace(m.To) == "" {
			return nil, fmt.Errorf("migration %d: from and to are required", i+1)
		}
	}
	return file.Migrations, nil
}
