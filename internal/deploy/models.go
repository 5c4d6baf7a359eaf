package deploy

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// AttemptState tracks one publish attempt's lifecycle. Transitions are
// forward-only: queued, building, then ready or error. A failed attempt is
// retried by creating a new attempt, never by rewinding this one.
type AttemptState string

const (
	StateQueued   AttemptState = "queued"
	StateBuilding AttemptState = "building"
	StateReady    AttemptState = "ready"
	StateError    AttemptState = "error"
)

var stateRank = map[AttemptState]int{
	StateQueued:   0,
	StateBuilding: 1,
	StateReady:    2,
	StateError:    2,
}

// CanTransition reports whether moving to next respects forward-only order.
func (s AttemptState) CanTransition(next AttemptState) bool {
	from, ok := stateRank[s]
	if !ok {
		return false
	}
	to, ok := stateRank[next]
	if !ok {
		return false
	}
	return to > from
}

// Strategy names the publish path an attempt used.
type Strategy string

const (
	StrategyArchive Strategy = "archive_build"
	StrategyDirect  Strategy = "direct_upload"
	StrategyManual  Strategy = "manual_archive"
)

// DeploymentRecord is the persisted trace of one publish attempt.
type DeploymentRecord struct {
	bun.BaseModel `bun:"table:deployment_records,alias:dr"`

	ID           uuid.UUID    `bun:"id,pk,type:uuid" json:"id"`
	PageID       uuid.UUID    `bun:"page_id,notnull,type:uuid" json:"page_id"`
	SiteID       string       `bun:"site_id" json:"site_id"`
	State        AttemptState `bun:"state,notnull" json:"state"`
	Strategy     Strategy     `bun:"strategy,notnull" json:"strategy"`
	URL          string       `bun:"url" json:"url,omitempty"`
	ErrorMessage string       `bun:"error_message" json:"error_message,omitempty"`
	CreatedAt    time.Time    `bun:"created_at,notnull" json:"created_at"`
	AttemptedAt  time.Time    `bun:"attempted_at,notnull" json:"attempted_at"`
}

// Result is what a successful publish hands back to the caller.
type Result struct {
	URL      string
	SiteID   string
	RecordID uuid.UUID
	Strategy Strategy
	// ArchivePath is set only on the manual fallback: the local archive the
	// caller must upload by hand.
	ArchivePath string
}
