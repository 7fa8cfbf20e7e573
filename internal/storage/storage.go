// Package storage provides the relational store for profiles, quotes,
// experiences, hexagon models, and analyses. All data lives in a local
// SQLite database under the application data directory.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Profile represents one person being tracked.
type Profile struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Title      string    `json:"title,omitempty"`
	Bio        string    `json:"bio,omitempty"`
	AvatarPath string    `json:"avatarPath,omitempty"`
	Tags       []string  `json:"tags,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Quote is a saying attributed to a profile.
type Quote struct {
	ID        int64     `json:"id"`
	ProfileID int64     `json:"profileId"`
	Content   string    `json:"content"`
	Source    string    `json:"source,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Experience is one dated life event belonging to a profile. EndDate is nil
// for ongoing experiences.
type Experience struct {
	ID          int64      `json:"id"`
	ProfileID   int64      `json:"profileId"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Location    string     `json:"location,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// HexagonModel holds one six-dimension personality scoring for a profile.
// Scores are in [0, 100].
type HexagonModel struct {
	ID          int64     `json:"id"`
	ProfileID   int64     `json:"profileId"`
	Security    float64   `json:"security"`
	Achievement float64   `json:"achievement"`
	Freedom     float64   `json:"freedom"`
	Belonging   float64   `json:"belonging"`
	Novelty     float64   `json:"novelty"`
	Control     float64   `json:"control"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Analysis is the stored output of one LLM personality analysis run.
type Analysis struct {
	ID        string    `json:"id"` // UUID
	ProfileID int64     `json:"profileId"`
	HexagonID int64     `json:"hexagonId,omitempty"`
	Provider  string    `json:"provider"`
	Model     string    `json:"model"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Storage defines the data operations interface.
type Storage interface {
	// Profile operations
	GetProfiles(ctx context.Context) ([]*Profile, error)
	GetProfileByID(ctx context.Context, id int64) (*Profile, error)
	CreateProfile(ctx context.Context, p *Profile) (*Profile, error)
	UpdateProfile(ctx context.Context, p *Profile) (*Profile, error)
	DeleteProfile(ctx context.Context, id int64) error
	SearchProfiles(ctx context.Context, query string) ([]*Profile, error)
	GetRecentProfiles(ctx context.Context, limit int) ([]*Profile, error)

	// Quote operations
	GetQuotes(ctx context.Context) ([]*Quote, error)
	GetQuoteByID(ctx context.Context, id int64) (*Quote, error)
	GetQuotesByProfile(ctx context.Context, profileID int64) ([]*Quote, error)
	CreateQuote(ctx context.Context, q *Quote) (*Quote, error)
	UpdateQuote(ctx context.Context, q *Quote) (*Quote, error)
	DeleteQuote(ctx context.Context, id int64) error
	SearchQuotes(ctx context.Context, query string) ([]*Quote, error)
	GetRandomQuote(ctx context.Context) (*Quote, error)

	// Experience operations
	GetExperiences(ctx context.Context) ([]*Experience, error)
	GetExperienceByID(ctx context.Context, id int64) (*Experience, error)
	CreateExperience(ctx context.Context, e *Experience) (*Experience, error)
	UpdateExperience(ctx context.Context, e *Experience) (*Experience, error)
	DeleteExperience(ctx context.Context, id int64) error
	GetExperienceTimeline(ctx context.Context, profileID int64) ([]*Experience, error)
	FindExperiencesByTag(ctx context.Context, tag string) ([]*Experience, error)

	// Hexagon operations
	GetHexagons(ctx context.Context) ([]*HexagonModel, error)
	GetHexagonByID(ctx context.Context, id int64) (*HexagonModel, error)
	GetHexagonsByProfile(ctx context.Context, profileID int64) ([]*HexagonModel, error)
	CreateHexagon(ctx context.Context, h *HexagonModel) (*HexagonModel, error)
	UpdateHexagon(ctx context.Context, h *HexagonModel) (*HexagonModel, error)
	DeleteHexagon(ctx context.Context, id int64) error

	// Analysis operations
	CreateAnalysis(ctx context.Context, a *Analysis) (*Analysis, error)
	GetAnalysisByID(ctx context.Context, id string) (*Analysis, error)
	GetAnalysesByProfile(ctx context.Context, profileID int64) ([]*Analysis, error)
	DeleteAnalysis(ctx context.Context, id string) error

	// ExecuteQuery runs a read-only SELECT and returns rows as maps.
	ExecuteQuery(ctx context.Context, query string, args ...any) ([]map[string]any, error)

	// Backup copies the database file into dir, returning the backup path.
	Backup(ctx context.Context, dir string) (string, error)

	// Close closes the storage.
	Close() error
}
