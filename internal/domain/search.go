package domain

// SearchExtraction is the collaborator's answer to a question, with the
// sources it consulted. Source stances are relative to the answer.
type SearchExtraction struct {
	Answer  string      `json:"answer"`
	Sources []RawSource `json:"sources"`
}

type SearchResult struct {
	Answer          string   `json:"answer"`
	TrustScore      int      `json:"trustScore"`
	Sources         []Source `json:"sources"`
	SourceAgreement int      `json:"sourceAgreement"`
	Warnings        []string `json:"warnings"`
}

const (
	WarningConflictingSources = "Sources disagree about this answer; review the contradicting sources."
	WarningLowTrustOnly       = "Only low-trust sources were found for this answer."
	WarningCommercialSources  = "Some sources have a commercial interest and were weighted down."
	WarningNoSources          = "No sources were found to support this answer."
)
