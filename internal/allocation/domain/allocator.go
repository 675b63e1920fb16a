package domain

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"

	"github.com/halion16/refit-management-sub000/internal/money"
	quotedomain "github.com/halion16/refit-management-sub000/internal/quote/domain"
)

// UnknownPhaseName labels breakdown entries whose phase id cannot be
// resolved anymore. The subtotal is kept so totals keep reconciling.
const UnknownPhaseName = "Unknown phase"

var ErrUnbalancedAllocation = errors.New("unbalanced_allocation")

// Allocator carries the per-editing-session state of a quote's phase
// percentages. It is a plain value with no storage access; the service layer
// feeds it user input and persists the breakdown it derives.
type Allocator struct {
	phaseIDs    []snowflake.ID
	percentages map[snowflake.ID]int
}

func NewAllocator() *Allocator {
	return &Allocator{percentages: make(map[snowflake.ID]int)}
}

// SetSelection replaces the selected phases. With more than one phase the
// percentages redistribute as equal shares, the division remainder going to
// the first phase in selection order. With zero or one phase the map is
// cleared: a single phase implicitly receives everything and no breakdown
// rows are produced for it.
func (a *Allocator) SetSelection(phaseIDs []snowflake.ID) {
	a.phaseIDs = append([]snowflake.ID(nil), phaseIDs...)
	a.percentages = make(map[snowflake.ID]int)
	if len(phaseIDs) <= 1 {
		return
	}

	base := 100 / len(phaseIDs)
	remainder := 100 - base*len(phaseIDs)
	for i, id := range phaseIDs {
		share := base
		if i == 0 {
			share += remainder
		}
		a.percentages[id] = share
	}
}

// SetPercentage stores a manual edit, clamped to [0, 100]. Other phases are
// not rebalanced; callers normalize explicitly before saving.
func (a *Allocator) SetPercentage(phaseID snowflake.ID, value int) {
	if value < 0 {
		value = 0
	}
	if value > 100 {
		value = 100
	}
	a.percentages[phaseID] = value
}

// Percentage returns the stored share for a phase.
func (a *Allocator) Percentage(phaseID snowflake.ID) int {
	return a.percentages[phaseID]
}

// Selection returns the selected phase ids in order.
func (a *Allocator) Selection() []snowflake.ID {
	return append([]snowflake.ID(nil), a.phaseIDs...)
}

// TotalPercentage sums the current shares without clamping; it can exceed
// or fall short of 100 until the user normalizes.
func (a *Allocator) TotalPercentage() int {
	total := 0
	for _, id := range a.phaseIDs {
		total += a.percentages[id]
	}
	return total
}

// Normalize rescales every share so the total lands on 100. Integer rounding
// can leave the rescaled sum off by a few units; the drift is assigned to the
// largest share, earliest in selection order on ties. A zero total is left
// untouched. This is always an explicit user action: silently rewriting
// entered values on every edit would be surprising.
func (a *Allocator) Normalize() {
	total := a.TotalPercentage()
	if total == 0 {
		return
	}

	sum := 0
	largest := -1
	var largestID snowflake.ID
	for _, id := range a.phaseIDs {
		scaled := int(float64(a.percentages[id])/float64(total)*100 + 0.5)
		a.percentages[id] = scaled
		sum += scaled
		if scaled > largest {
			largest = scaled
			largestID = id
		}
	}
	if drift := 100 - sum; drift != 0 {
		a.percentages[largestID] += drift
	}
}

// Validate is the save-time gate: a multi-phase selection must total exactly
// 100. It is the only blocking validation in the engine and runs before any
// persistence write.
func (a *Allocator) Validate() error {
	if len(a.phaseIDs) <= 1 {
		return nil
	}
	if total := a.TotalPercentage(); total != 100 {
		return fmt.Errorf("%w: percentages total %d%%, normalize to 100%%", ErrUnbalancedAllocation, total)
	}
	return nil
}

// PhaseNameFunc resolves a phase id to its display name. The second return
// reports whether the phase is known.
type PhaseNameFunc func(snowflake.ID) (string, bool)

// BuildBreakdown derives the monetary breakdown for the current selection.
// Each entry carries a single synthetic line item recording the percentage
// used. Unresolved phases keep their subtotal under a sentinel name. Zero
// or one selected phase produces no entries.
func (a *Allocator) BuildBreakdown(quoteTotal float64, phaseName PhaseNameFunc) []quotedomain.PhaseBreakdownEntry {
	if len(a.phaseIDs) <= 1 {
		return nil
	}

	entries := make([]quotedomain.PhaseBreakdownEntry, 0, len(a.phaseIDs))
	for _, id := range a.phaseIDs {
		share := a.percentages[id]
		subtotal := money.PercentOf(quoteTotal, float64(share))

		name, ok := phaseName(id)
		if !ok {
			name = UnknownPhaseName
		}
		entries = append(entries, quotedomain.PhaseBreakdownEntry{
			PhaseID:   id,
			PhaseName: name,
			Subtotal:  subtotal,
			Items: []quotedomain.BreakdownItem{
				{
					Description: fmt.Sprintf("%d%% of total", share),
					Amount:      subtotal,
				},
			},
		})
	}
	return entries
}
