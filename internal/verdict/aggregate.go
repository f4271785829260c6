// Package verdict decides a claim's status and confidence from its
// classified sources.
package verdict

import (
	"strings"

	"github.com/Harshitk-cp/veritas/internal/domain"
	"github.com/Harshitk-cp/veritas/internal/trust"
)

// Verdict is the outcome for one claim. Corroborating counts the independent
// high/medium supporters; Contradicting counts every contradicting source.
type Verdict struct {
	Status        domain.ClaimStatus
	Confidence    int
	Corroborating int
	Contradicting int
}

// evidence is the tally Aggregate derives from a source list.
type evidence struct {
	highSupport     int // independent, non-commercial, high tier
	mediumSupport   int // independent, non-commercial, medium tier
	contextSupport  int // everything else that supports
	qualifiedContra int
	otherContra     int
	supportWeight   int
	contraWeight    int
}

func (e evidence) qualifiedSupport() int {
	return e.highSupport + e.mediumSupport
}

func (e evidence) anySupport() bool {
	return e.qualifiedSupport()+e.contextSupport > 0
}

// Weight is a source's pull on the false/unconfirmed decision. Commercial
// sources keep their tier order but count for half.
func Weight(s domain.Source) int {
	w := 2 * s.Trust.Rank()
	if s.Commercial {
		w /= 2
	}
	return w
}

// qualifies reports whether a source can count toward the two-source
// threshold on its own.
func qualifies(s domain.Source) bool {
	return !s.Commercial && s.Trust.AtLeast(domain.TrustMedium)
}

func independenceKey(s domain.Source) string {
	if s.Domain != "" {
		return strings.ToLower(s.Domain)
	}
	return trust.RegistrableDomain(s.URL)
}

func weigh(sources []domain.Source) evidence {
	var e evidence
	seenSupport := make(map[string]bool)
	seenContra := make(map[string]bool)

	for _, s := range sources {
		key := independenceKey(s)
		switch s.Stance {
		case domain.StanceSupports:
			e.supportWeight += Weight(s)
			if qualifies(s) && key != "" && !seenSupport[key] {
				seenSupport[key] = true
				if s.Trust == domain.TrustHigh {
					e.highSupport++
				} else {
					e.mediumSupport++
				}
				continue
			}
			e.contextSupport++
		case domain.StanceContradicts:
			e.contraWeight += Weight(s)
			if qualifies(s) && key != "" && !seenContra[key] {
				seenContra[key] = true
				e.qualifiedContra++
				continue
			}
			e.otherContra++
		}
	}
	return e
}

// Aggregate computes the status and 0-100 confidence of a claim.
//
// A blank claim is the only failure (domain.ErrInvalidClaim). With no sources
// the claim is unconfirmed at 0. The opinion hint comes from the extraction
// collaborator and is never inferred here.
func Aggregate(text string, sources []domain.Source, opinion bool) (Verdict, error) {
	if strings.TrimSpace(text) == "" {
		return Verdict{Status: domain.ClaimUnconfirmed}, domain.ErrInvalidClaim
	}
	if len(sources) == 0 {
		return Verdict{Status: domain.ClaimUnconfirmed}, nil
	}

	e := weigh(sources)
	v := Verdict{
		Corroborating: e.qualifiedSupport(),
		Contradicting: e.qualifiedContra + e.otherContra,
	}

	if opinion {
		v.Status = domain.ClaimOpinion
		return v, nil
	}

	v.Status = status(e)
	v.Confidence = confidence(v.Status, e)
	return v, nil
}

func status(e evidence) domain.ClaimStatus {
	switch {
	case e.qualifiedContra > 0 && e.contraWeight >= e.supportWeight:
		return domain.ClaimFalse
	case e.qualifiedContra > 0:
		return domain.ClaimUnconfirmed
	case e.qualifiedSupport() >= 2:
		return domain.ClaimVerified
	default:
		return domain.ClaimUnconfirmed
	}
}

// confidence places the claim inside the band its status and evidence allow.
// Within a band every supporting term has a positive coefficient, and a higher
// tier always has a larger one, so upgrading a corroborating source never
// lowers the score.
func confidence(st domain.ClaimStatus, e evidence) int {
	switch st {
	case domain.ClaimVerified:
		if e.highSupport >= 2 {
			return clamp(90+3*(e.highSupport-2)+2*e.mediumSupport+e.contextSupport-2*e.otherContra, domain.BandStrong)
		}
		return clamp(64+6*e.highSupport+3*e.mediumSupport+e.contextSupport-2*e.otherContra, domain.BandSolid)
	case domain.ClaimFalse:
		return clamp(30+2*e.highSupport+e.mediumSupport-5*e.qualifiedContra-e.otherContra, domain.BandWeak)
	default:
		if !e.anySupport() {
			return clamp(20-5*e.otherContra, domain.BandWeak)
		}
		return clamp(40+8*e.highSupport+5*e.mediumSupport+2*e.contextSupport-6*e.qualifiedContra-2*e.otherContra, domain.BandThin)
	}
}

func clamp(v int, band domain.ConfidenceBand) int {
	min, max := domain.BandRange(band)
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
