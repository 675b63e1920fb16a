package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// ProjectPhase is one stage of a renovation project. The allocation engine
// only consumes it through the Directory lookup; ownership stays with the
// project planning surfaces.
type ProjectPhase struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	ProjectID snowflake.ID `gorm:"not null;index" json:"project_id"`
	Name      string       `gorm:"type:text;not null" json:"name"`
	Budget    float64      `gorm:"not null;default:0" json:"budget"`
	CreatedAt time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null" json:"updated_at"`
}

// TableName sets the database table name.
func (ProjectPhase) TableName() string { return "project_phases" }

type CreateRequest struct {
	ProjectID string  `json:"project_id"`
	Name      string  `json:"name"`
	Budget    float64 `json:"budget"`
}

type ListRequest struct {
	ProjectID string `form:"project_id"`
}

// Directory resolves phase ids to their current name and budget. A nil
// result with a nil error means the phase is unknown.
type Directory interface {
	Lookup(ctx context.Context, id snowflake.ID) (*ProjectPhase, error)
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, phase *ProjectPhase) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*ProjectPhase, error)
	List(ctx context.Context, db *gorm.DB, filter ListRequest) ([]ProjectPhase, error)
}

func ParseID(raw string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(raw))
}

var (
	ErrInvalidID      = errors.New("invalid_id")
	ErrInvalidName    = errors.New("invalid_name")
	ErrInvalidProject = errors.New("invalid_project")
	ErrNotFound       = errors.New("not_found")
)
