package models

import (
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

// AccountType is the role of a portal account.
type AccountType string

const (
	AccountAdmin      AccountType = "ADMIN"
	AccountSuperadmin AccountType = "SUPERADMIN"
)

// Principal is the authenticated identity asserted by the portal server.
// It is owned by the session store: created on login or session restoration,
// destroyed on logout or when a credential is rejected.
type Principal struct {
	ID          int64       `json:"id"`
	Username    string      `json:"username"`
	AccountType AccountType `json:"accountType"`
	TenantID    string      `json:"tenantId,omitempty"`
}

// IsSuperadmin reports whether the principal holds the superadmin role.
func (p *Principal) IsSuperadmin() bool {
	return p != nil && p.AccountType == AccountSuperadmin
}

// BaseModel provides common fields and an auto-generated ULID for local
// console state rows.
type BaseModel struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(26)"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// BeforeCreate generates a ULID for the ID field if it's empty
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = ulid.Make().String()
	}
	return nil
}

// CachedPrincipal is the locally persisted copy of the principal, kept per
// server in the bearer-token credential model. Absence means "no session".
type CachedPrincipal struct {
	BaseModel
	ServerURL   string    `json:"server_url" gorm:"unique;not null"`
	PrincipalID int64     `json:"principal_id" gorm:"not null"`
	Username    string    `json:"username" gorm:"not null"`
	AccountType string    `json:"account_type" gorm:"not null"`
	TenantID    string    `json:"tenant_id"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Principal converts the cached row back into the in-memory identity.
func (c *CachedPrincipal) Principal() *Principal {
	return &Principal{
		ID:          c.PrincipalID,
		Username:    c.Username,
		AccountType: AccountType(c.AccountType),
		TenantID:    c.TenantID,
	}
}

// Visit records an allowed navigation, newest first in queries.
type Visit struct {
	BaseModel
	ServerURL string `json:"server_url" gorm:"not null;index"`
	Path      string `json:"path" gorm:"not null"`
	Username  string `json:"username"`
}

// Selection is the user's sticky choice of server.
type Selection struct {
	BaseModel
	ServerAlias string `json:"server_alias" gorm:"unique;not null"`
}

// AutoMigrate runs database migrations for all local state models
func AutoMigrate(db *gorm.DB) error {
	models := []interface{}{
		&CachedPrincipal{}, &Visit{}, &Selection{},
	}

	return db.AutoMigrate(models...)
}
