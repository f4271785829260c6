package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Harshitk-cp/veritas/internal/apiclient"
	"github.com/Harshitk-cp/veritas/internal/domain"
)

var statusLabels = map[domain.ClaimStatus]string{
	domain.ClaimVerified:    "VERIFIED",
	domain.ClaimFalse:       "FALSE",
	domain.ClaimUnconfirmed: "UNCONFIRMED",
	domain.ClaimOpinion:     "OPINION",
}

func renderVerification(w io.Writer, v apiclient.VerifyResponse, elapsed time.Duration) {
	if len(v.Claims) == 0 {
		msg := v.Message
		if msg == "" {
			msg = "No factual claims were found."
		}
		fmt.Fprintln(w, msg)
		return
	}

	for i, c := range v.Claims {
		fmt.Fprintf(w, "%d. [%s %d%%] %s\n", i+1, statusLabels[c.Status], c.Confidence, c.Text)
		if c.Explanation != "" {
			fmt.Fprintf(w, "   %s\n", c.Explanation)
		}
		if c.Status != domain.ClaimOpinion {
			fmt.Fprintf(w, "   Confidence: %s\n", domain.BandReason(c.Confidence))
		}
		for _, s := range c.Sources {
			fmt.Fprintf(w, "   - %s\n", sourceLine(s))
		}
	}

	if s := v.Summary; s != nil {
		fmt.Fprintf(w, "\n%d claims: %d verified, %d false, %d unconfirmed, %d opinions",
			s.Total, s.Verified, s.False, s.Unconfirmed, s.Opinions)
		if elapsed > 0 {
			fmt.Fprintf(w, " (%s)", elapsed.Round(100*time.Millisecond))
		}
		fmt.Fprintln(w)
	}
}

func renderSearch(w io.Writer, r domain.SearchResult) {
	fmt.Fprintln(w, r.Answer)
	fmt.Fprintf(w, "\nTrust score: %d/100, %d agreeing sources\n", r.TrustScore, r.SourceAgreement)
	for _, s := range r.Sources {
		fmt.Fprintf(w, "  - %s\n", sourceLine(s))
	}
	for _, warn := range r.Warnings {
		fmt.Fprintf(w, "! %s\n", warn)
	}
}

func renderRankings(w io.Writer, rankings []domain.AIRanking) {
	if len(rankings) == 0 {
		fmt.Fprintln(w, "No rankings yet.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tSOURCE\tCHECKS\tVERIFIED\tFALSE\tSCORE")
	for i, r := range rankings {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d%%\t%d%%\t%d\n",
			i+1, r.AISource, r.ChecksCount, r.VerifiedRate, r.FalseRate, r.AvgScore)
	}
	_ = tw.Flush()
}

func sourceLine(s domain.Source) string {
	var tags []string
	tags = append(tags, string(s.Trust)+" trust")
	if s.Stance != "" && s.Stance != domain.StanceNeutral {
		tags = append(tags, string(s.Stance))
	}
	if s.Commercial {
		tags = append(tags, "commercial")
	}

	title := s.Title
	if title == "" {
		title = s.Domain
	}
	return fmt.Sprintf("%s <%s> (%s)", title, s.URL, strings.Join(tags, ", "))
}
