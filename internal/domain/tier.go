package domain

import "slices"

// TrustTier ranks a source's origin. It is derived from the domain alone.
type TrustTier string

const (
	TrustHigh   TrustTier = "high"
	TrustMedium TrustTier = "medium"
	TrustLow    TrustTier = "low"
)

// Rank orders tiers so that a higher tier always compares greater.
func (t TrustTier) Rank() int {
	switch t {
	case TrustHigh:
		return 3
	case TrustMedium:
		return 2
	default:
		return 1
	}
}

// AtLeast reports whether t is ranked at or above other.
func (t TrustTier) AtLeast(other TrustTier) bool {
	return t.Rank() >= other.Rank()
}

func ValidTrustTier(t string) bool {
	return slices.Contains(AllTrustTiers(), TrustTier(t))
}

// AllTrustTiers lists the tiers from highest to lowest.
func AllTrustTiers() []TrustTier {
	return []TrustTier{TrustHigh, TrustMedium, TrustLow}
}

// ConfidenceBand names the evidence band a 0-100 confidence falls in.
type ConfidenceBand string

const (
	BandStrong ConfidenceBand = "strong"
	BandSolid  ConfidenceBand = "solid"
	BandThin   ConfidenceBand = "thin"
	BandWeak   ConfidenceBand = "weak"
)

func ComputeBand(confidence int) ConfidenceBand {
	switch {
	case confidence >= 90:
		return BandStrong
	case confidence >= 70:
		return BandSolid
	case confidence >= 40:
		return BandThin
	default:
		return BandWeak
	}
}

func BandReason(confidence int) string {
	switch ComputeBand(confidence) {
	case BandStrong:
		return "two or more independent high-trust sources agree"
	case BandSolid:
		return "independent high and medium trust sources agree"
	case BandThin:
		return "evidence is thin or conflicting"
	default:
		return "evidence is absent or contradicts the claim"
	}
}

// BandRange returns the inclusive confidence bounds of a band.
func BandRange(b ConfidenceBand) (min, max int) {
	switch b {
	case BandStrong:
		return 90, 100
	case BandSolid:
		return 70, 89
	case BandThin:
		return 40, 69
	default:
		return 0, 39
	}
}
