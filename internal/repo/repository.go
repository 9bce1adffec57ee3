// Package repo defines the storage ports of the reference backend.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/hamed0406/upmonitor/internal/domain"
)

var (
	ErrNotFound = errors.New("repo: not found")
	ErrConflict = errors.New("repo: already exists")
)

type UserID string

type User struct {
	ID           UserID
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Website is the server-side record; ticks live in the TickStore.
type Website struct {
	ID        domain.WebsiteID
	Owner     UserID
	URL       string
	CreatedAt time.Time
}

// Storage ports; repo/memory implements all three.
type UserStore interface {
	// CreateUser returns ErrConflict when the username is taken.
	CreateUser(ctx context.Context, u *User) error
	UserByName(ctx context.Context, username string) (*User, error)
	UserByID(ctx context.Context, id UserID) (*User, error)
	// DeleteUser removes the user with every website and tick it owns.
	DeleteUser(ctx context.Context, id UserID) error
}

type WebsiteStore interface {
	AddWebsite(ctx context.Context, w *Website) error
	// ListWebsites returns every website of every owner.
	ListWebsites(ctx context.Context) ([]Website, error)
	WebsitesByOwner(ctx context.Context, owner UserID) ([]Website, error)
	// WebsiteByID returns ErrNotFound for websites of other owners too.
	WebsiteByID(ctx context.Context, owner UserID, id domain.WebsiteID) (*Website, error)
	DeleteWebsite(ctx context.Context, owner UserID, id domain.WebsiteID) error
}

type TickStore interface {
	AppendTick(ctx context.Context, id domain.WebsiteID, t domain.Tick) error
	// Ticks returns newest first; limit <= 0 means all.
	Ticks(ctx context.Context, id domain.WebsiteID, limit int) ([]domain.Tick, error)
}
