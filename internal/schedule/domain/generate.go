package domain

import (
	"sort"
	"time"

	"github.com/halion16/refit-management-sub000/internal/money"
)

// Generate converts a quote total, its payment terms and a set of milestone
// dates into planned payments. It is pure over its inputs and never fails:
// missing milestone dates fall back to now (marked provisional), terms with
// neither percentage nor fixed amount emit a zero payment. Emission order
// follows the terms' sort order; ties keep their original relative order.
//
// Payment ids are left unset; the service layer assigns them before persisting.
func Generate(quoteTotal float64, terms []PaymentTerm, milestones Milestones, now time.Time) []Payment {
	active := make([]PaymentTerm, 0, len(terms))
	for _, term := range terms {
		if term.IsActive {
			active = append(active, term)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].SortOrder < active[j].SortOrder
	})

	payments := make([]Payment, 0, len(active))
	for _, term := range active {
		base, provisional := resolveBaseDate(term, milestones, now)
		payments = append(payments, Payment{
			QuoteID:         term.QuoteID,
			PaymentTermID:   term.ID,
			PlannedAmount:   plannedAmount(quoteTotal, term),
			PlannedDate:     base.AddDate(0, 0, term.DueAfterDays),
			Status:          PaymentStatusPending,
			DateProvisional: provisional,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
	}
	return payments
}

func plannedAmount(quoteTotal float64, term PaymentTerm) float64 {
	switch {
	case term.Percentage != nil:
		return money.PercentOf(quoteTotal, *term.Percentage)
	case term.FixedAmount != nil:
		return money.RoundCents(*term.FixedAmount)
	default:
		return 0
	}
}

// resolveBaseDate maps a term's trigger event to the matching milestone
// date. The second return reports whether the fallback to now was taken.
func resolveBaseDate(term PaymentTerm, milestones Milestones, now time.Time) (time.Time, bool) {
	var base *time.Time
	switch term.TriggerEvent {
	case TriggerOrderConfirmation:
		base = milestones.OrderDate
	case TriggerDelivery:
		base = milestones.DeliveryDate
	case TriggerInstallationStart:
		base = milestones.InstallationStartDate
	case TriggerInstallationComplete:
		base = milestones.InstallationCompleteDate
	case TriggerApproval:
		base = milestones.ApprovalDate
	case TriggerCustomDate:
		base = term.CustomDueDate
	}
	if base == nil {
		return now, true
	}
	return *base, false
}
