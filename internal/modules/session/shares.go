package session

import (
	"edukaster/internal/domain"

	"github.com/shopspring/decimal"
)

var defaultTutorCut = decimal.RequireFromString("0.8")

// ComputeShares splits a booking amount between tutor and platform.
// Tutors with configured fees get them verbatim, whatever the amount;
// that is their negotiated economics, not an error. Everyone else gets
// the default 80/20 split with the rounding remainder going to the
// platform so the shares always sum to the amount.
func ComputeShares(amount decimal.Decimal, profile *domain.TutorProfile) (tutorShare, adminShare decimal.Decimal) {
	if profile != nil && profile.HasCustomFees() {
		return profile.TutorFee, profile.AdminFee
	}

	tutorShare = amount.Mul(defaultTutorCut).Round(0)
	adminShare = amount.Sub(tutorShare)
	return tutorShare, adminShare
}
