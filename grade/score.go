package grade

import "fmt"

// ScoreRange describes the possible values of a score.
type ScoreRange struct {
	Max           float64 `json:"max"`
	DecimalDigits int     `json:"decimal_digits"`
	AllowPartial  bool    `json:"allow_partial"`
}

// ScoreGrade is a score achieved within a range.
//
// The zero value is a zero score over an empty range, which is also the
// identity element of Total.
type ScoreGrade struct {
	Range ScoreRange `json:"range"`
	Score float64    `json:"score"`
}

// NewScoreGrade constructs a score grade, rejecting values outside
// [0, Range.Max]. Out-of-range construction is a caller bug, not a
// recoverable runtime condition, so no clamping is done.
func NewScoreGrade(r ScoreRange, score float64) (ScoreGrade, error) {
	if score < 0 || score > r.Max {
		return ScoreGrade{}, fmt.Errorf("score %v outside range [0, %v]", score, r.Max)
	}
	return ScoreGrade{Range: r, Score: score}, nil
}

// TotalScoreRange sums score ranges of independent awards into the range
// of their combined score. Partial credit is allowed for the total as soon
// as any component allows it. Decimal digits follow the most precise
// component.
func TotalScoreRange(ranges []ScoreRange) ScoreRange {
	total := ScoreRange{}
	for _, r := range ranges {
		total.Max += r.Max
		if r.DecimalDigits > total.DecimalDigits {
			total.DecimalDigits = r.DecimalDigits
		}
		if r.AllowPartial {
			total.AllowPartial = true
		}
	}
	return total
}

// Total adds score grades over disjoint ranges: the resulting range is the
// sum of the component ranges and the resulting score is the sum of the
// component scores. The sum of no grades is a zero score over an empty range.
func Total(grades []ScoreGrade) ScoreGrade {
	total := ScoreGrade{}
	for _, g := range grades {
		total.Range = TotalScoreRange([]ScoreRange{total.Range, g.Range})
		total.Score += g.Score
	}
	return total
}
