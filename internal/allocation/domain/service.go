package domain

import (
	"context"

	quotedomain "github.com/halion16/refit-management-sub000/internal/quote/domain"
)

// PhasePercentage is one row of the UI-level allocation map. Order matters:
// equal-share remainders and normalization tie-breaks follow it.
type PhasePercentage struct {
	PhaseID    string `json:"phase_id"`
	Percentage int    `json:"percentage"`
}

// PreviewRequest asks for the session-level allocation operations without
// persisting anything.
type PreviewRequest struct {
	PhaseIDs    []string          `json:"phase_ids,omitempty"`
	Percentages []PhasePercentage `json:"percentages,omitempty"`
	Normalize   bool              `json:"normalize,omitempty"`
}

// PreviewResponse reports the resulting shares and their raw total.
type PreviewResponse struct {
	Percentages []PhasePercentage `json:"percentages"`
	Total       int               `json:"total"`
}

// SaveRequest persists a quote's phase selection and derived breakdown.
type SaveRequest struct {
	QuoteID     string            `json:"-"`
	Percentages []PhasePercentage `json:"percentages"`
}

type Service interface {
	// Preview runs the in-session allocation operations: fresh selections
	// get equal shares, manual edits are clamped, normalization is applied
	// on request.
	Preview(ctx context.Context, req PreviewRequest) (*PreviewResponse, error)
	// Save enforces the save-time gate and persists the breakdown on the
	// quote. A rejected validation writes nothing.
	Save(ctx context.Context, req SaveRequest) (*quotedomain.Quote, error)
}
