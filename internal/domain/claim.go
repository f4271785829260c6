package domain

import "strings"

type ClaimStatus string

const (
	ClaimVerified    ClaimStatus = "verified"
	ClaimFalse       ClaimStatus = "false"
	ClaimUnconfirmed ClaimStatus = "unconfirmed"
	ClaimOpinion     ClaimStatus = "opinion"
)

func ValidClaimStatus(s string) bool {
	switch ClaimStatus(s) {
	case ClaimVerified, ClaimFalse, ClaimUnconfirmed, ClaimOpinion:
		return true
	}
	return false
}

// Stance is how a source relates to the claim it was returned for.
type Stance string

const (
	StanceSupports    Stance = "supports"
	StanceContradicts Stance = "contradicts"
	StanceNeutral     Stance = "neutral"
)

// ParseStance normalizes collaborator output. Anything unrecognized is neutral.
func ParseStance(s string) Stance {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "supports", "support", "supporting", "agrees":
		return StanceSupports
	case "contradicts", "contradict", "contradicting", "refutes", "disagrees":
		return StanceContradicts
	default:
		return StanceNeutral
	}
}

// RawSource is a source as returned by the collaborator, before classification.
type RawSource struct {
	Title      string `json:"title"`
	URL        string `json:"url"`
	Domain     string `json:"domain,omitempty"`
	Snippet    string `json:"snippet,omitempty"`
	Stance     string `json:"stance,omitempty"`
	Commercial bool   `json:"commercial,omitempty"`
}

// Source is the classified form of a RawSource.
type Source struct {
	Title      string    `json:"title"`
	URL        string    `json:"url"`
	Domain     string    `json:"domain"`
	Snippet    string    `json:"snippet"`
	Trust      TrustTier `json:"trust"`
	Stance     Stance    `json:"stance"`
	Commercial bool      `json:"commercial"`
}

// RawClaim is a single assertion extracted by the collaborator.
// Opinion is the collaborator's hint that the statement is not factual.
type RawClaim struct {
	Text        string      `json:"text"`
	Explanation string      `json:"explanation,omitempty"`
	Opinion     bool        `json:"opinion,omitempty"`
	Sources     []RawSource `json:"sources,omitempty"`
}

type ClaimExtraction struct {
	Claims []RawClaim `json:"claims"`
}

type Claim struct {
	Text        string      `json:"text"`
	Status      ClaimStatus `json:"status"`
	Explanation string      `json:"explanation"`
	Sources     []Source    `json:"sources"`
	Confidence  int         `json:"confidence"`
}

type VerificationSummary struct {
	Verified    int `json:"verified"`
	False       int `json:"false"`
	Unconfirmed int `json:"unconfirmed"`
	Opinions    int `json:"opinions"`
	Total       int `json:"total"`
}

// Summarize tallies claims by status. Total is always the sum of the four
// counters; a claim with an unknown status is counted as unconfirmed.
func Summarize(claims []Claim) VerificationSummary {
	var s VerificationSummary
	for _, c := range claims {
		switch c.Status {
		case ClaimVerified:
			s.Verified++
		case ClaimFalse:
			s.False++
		case ClaimOpinion:
			s.Opinions++
		default:
			s.Unconfirmed++
		}
	}
	s.Total = s.Verified + s.False + s.Unconfirmed + s.Opinions
	return s
}

// Tallies converts the summary into rankings counters.
func (s VerificationSummary) Tallies() Tallies {
	return Tallies{
		Verified:    s.Verified,
		False:       s.False,
		Unconfirmed: s.Unconfirmed,
		Opinions:    s.Opinions,
	}
}
