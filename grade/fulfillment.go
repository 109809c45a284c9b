package grade

// FulfillmentGrade is a yes-or-no grade. It has no aggregation rule.
type FulfillmentGrade struct {
	Fulfilled bool `json:"fulfilled"`
}
