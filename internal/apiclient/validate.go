package apiclient

import (
	"strings"

	"github.com/Harshitk-cp/veritas/internal/domain"
	"github.com/go-playground/validator/v10"
)

var trustTierList = func() string {
	tiers := make([]string, 0, 3)
	for _, t := range domain.AllTrustTiers() {
		tiers = append(tiers, string(t))
	}
	return strings.Join(tiers, " ")
}()

// newValidator builds the response-shape validator. Domain types carry no
// struct tags, so their rules are registered at the struct level.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(validateClaim, domain.Claim{})
	v.RegisterStructValidation(validateSummary, domain.VerificationSummary{})
	v.RegisterStructValidation(validateRanking, domain.AIRanking{})
	v.RegisterStructValidation(validateSource, domain.Source{})
	return v
}

func validateClaim(sl validator.StructLevel) {
	c := sl.Current().Interface().(domain.Claim)
	if c.Text == "" {
		sl.ReportError(c.Text, "Text", "text", "required", "")
	}
	if !domain.ValidClaimStatus(string(c.Status)) {
		sl.ReportError(c.Status, "Status", "status", "oneof", "verified false unconfirmed opinion")
	}
	if c.Confidence < 0 || c.Confidence > 100 {
		sl.ReportError(c.Confidence, "Confidence", "confidence", "max", "100")
	}
}

func validateSummary(sl validator.StructLevel) {
	s := sl.Current().Interface().(domain.VerificationSummary)
	if s.Total != s.Verified+s.False+s.Unconfirmed+s.Opinions {
		sl.ReportError(s.Total, "Total", "total", "eqsum", "")
	}
}

func validateRanking(sl validator.StructLevel) {
	r := sl.Current().Interface().(domain.AIRanking)
	if r.AISource == "" {
		sl.ReportError(r.AISource, "AISource", "aiSource", "required", "")
	}
}

func validateSource(sl validator.StructLevel) {
	s := sl.Current().Interface().(domain.Source)
	if !domain.ValidTrustTier(string(s.Trust)) {
		sl.ReportError(s.Trust, "Trust", "trust", "oneof", trustTierList)
	}
}
