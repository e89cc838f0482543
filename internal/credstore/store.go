// Package credstore holds the console's client-local durable state: the
// bearer token at rest in the OS keyring, and a small SQLite database with
// the cached principal, navigation history and server selection.
package credstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/dirportal-dev/dirportal/internal/models"
)

// Store is the local state database scoped to one portal server.
type Store struct {
	db        *gorm.DB
	serverURL string
	log       zerolog.Logger
}

// DefaultPath returns the state database location under the user config dir.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user config directory: %w", err)
	}

	dir := filepath.Join(configDir, "dirportal")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create state directory: %w", err)
	}

	return filepath.Join(dir, "state.db"), nil
}

// Open opens (creating if needed) the state database. Credential and
// history operations require a server scope, set via SetServer once the
// target deployment is resolved.
func Open(path string, log zerolog.Logger) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=1",
	}
	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			log.Warn().Str("pragma", pragma).Err(err).Msg("Failed to apply pragma")
		}
	}

	if err := models.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate state database: %w", err)
	}

	return &Store{db: db, log: log}, nil
}

// SetServer scopes credential and history operations to one portal server.
func (s *Store) SetServer(serverURL string) {
	s.serverURL = serverURL
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Token implements the pipeline's bearer token source.
func (s *Store) Token() (string, error) {
	return LoadToken(s.serverURL)
}

// Save persists a credential: the token goes to the keyring, the principal
// to the local cache. Both must be present for Resume to report a session.
func (s *Store) Save(token string, p *models.Principal) error {
	if token != "" {
		if err := SaveToken(s.serverURL, token); err != nil {
			return err
		}
	}

	var row models.CachedPrincipal
	err := s.db.Where("server_url = ?", s.serverURL).First(&row).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to load cached principal: %w", err)
	}

	row.ServerURL = s.serverURL
	row.PrincipalID = p.ID
	row.Username = p.Username
	row.AccountType = string(p.AccountType)
	row.TenantID = p.TenantID

	if err := s.db.Save(&row).Error; err != nil {
		return fmt.Errorf("failed to cache principal: %w", err)
	}
	return nil
}

// Resume returns the locally held identity, if a complete credential (token
// plus cached principal) is present.
func (s *Store) Resume() (*models.Principal, bool, error) {
	token, err := s.Token()
	if err != nil {
		return nil, false, err
	}
	if token == "" {
		return nil, false, nil
	}

	var row models.CachedPrincipal
	if err := s.db.Where("server_url = ?", s.serverURL).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to load cached principal: %w", err)
	}

	return row.Principal(), true, nil
}

// Clear drops both halves of the persisted credential.
func (s *Store) Clear() error {
	if err := DeleteToken(s.serverURL); err != nil {
		return err
	}
	if err := s.db.Where("server_url = ?", s.serverURL).Delete(&models.CachedPrincipal{}).Error; err != nil {
		return fmt.Errorf("failed to clear cached principal: %w", err)
	}
	return nil
}

// RecordVisit appends an allowed navigation to the history.
func (s *Store) RecordVisit(path, username string) error {
	visit := models.Visit{
		ServerURL: s.serverURL,
		Path:      path,
		Username:  username,
	}
	if err := s.db.Create(&visit).Error; err != nil {
		return fmt.Errorf("failed to record visit: %w", err)
	}
	return nil
}

// RecentVisits returns the most recent navigations, newest first.
func (s *Store) RecentVisits(limit int) ([]models.Visit, error) {
	var visits []models.Visit
	err := s.db.
		Where("server_url = ?", s.serverURL).
		Order("created_at DESC").
		Limit(limit).
		Find(&visits).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load visits: %w", err)
	}
	return visits, nil
}

// SelectedServer returns the sticky server alias, or "" when none is set.
func (s *Store) SelectedServer() (string, error) {
	var sel models.Selection
	if err := s.db.First(&sel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to load selection: %w", err)
	}
	return sel.ServerAlias, nil
}

// SetSelectedServer replaces the sticky server alias.
func (s *Store) SetSelectedServer(alias string) error {
	if err := s.db.Where("1 = 1").Delete(&models.Selection{}).Error; err != nil {
		return fmt.Errorf("failed to clear selection: %w", err)
	}
	if err := s.db.Create(&models.Selection{ServerAlias: alias}).Error; err != nil {
		return fmt.Errorf("failed to save selection: %w", err)
	}
	return nil
}
