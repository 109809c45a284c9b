package grade

import "fmt"

// Domain is the closed set of legal grade shapes for an award: either a
// numeric score over a range or a boolean fulfillment. The interface is
// sealed; any other implementation reaching a dispatch site is a
// programming error and is reported as such, never silently defaulted.
type Domain interface {
	isGradeDomain()
}

type ScoreDomain struct {
	Range ScoreRange `json:"range"`
}

func (ScoreDomain) isGradeDomain() {}

type FulfillmentDomain struct{}

func (FulfillmentDomain) isGradeDomain() {}

// Value is a grade of either variant, returned by dispatch sites that
// resolve an award's grade against its domain.
type Value interface {
	isGradeValue()
}

func (ScoreGrade) isGradeValue()       {}
func (FulfillmentGrade) isGradeValue() {}

// ErrUnknownDomain reports a grade domain outside the closed
// {ScoreDomain, FulfillmentDomain} set.
func ErrUnknownDomain(d Domain) error {
	return fmt.Errorf("unexpected grade domain %T", d)
}
