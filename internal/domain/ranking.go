package domain

// Tallies are the per-status counts submitted for one check.
type Tallies struct {
	Verified    int `json:"verified"`
	False       int `json:"false"`
	Unconfirmed int `json:"unconfirmed"`
	Opinions    int `json:"opinions"`
}

func (t Tallies) Total() int {
	return t.Verified + t.False + t.Unconfirmed + t.Opinions
}

func (t Tallies) Negative() bool {
	return t.Verified < 0 || t.False < 0 || t.Unconfirmed < 0 || t.Opinions < 0
}

// RankingTally is the accumulated state a RankingStore keeps per source name.
// Seq is the order in which the name was first recorded.
type RankingTally struct {
	AISource string
	Tallies
	Seq int64
}

// AIRanking is the derived leaderboard row for one content source.
type AIRanking struct {
	AISource     string `json:"aiSource"`
	ChecksCount  int    `json:"checksCount"`
	VerifiedRate int    `json:"verifiedRate"`
	FalseRate    int    `json:"falseRate"`
	AvgScore     int    `json:"avgScore"`
}
