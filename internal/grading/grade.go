// Package grading derives display statistics from a student's published
// result: CGPA, per-semester letter grades and referred-subject counts.
// Every function here is pure.
package grading

// Tier classifies a grade for display colouring
type Tier int

const (
	TierFail Tier = iota
	TierPass
	TierGood
	TierVeryGood
	TierExcellent
	TierTop
)

// String returns the tier name used as a CSS modifier in templates
func (t Tier) String() string {
	switch t {
	case TierTop:
		return "top"
	case TierExcellent:
		return "excellent"
	case TierVeryGood:
		return "very-good"
	case TierGood:
		return "good"
	case TierPass:
		return "pass"
	default:
		return "fail"
	}
}

// Grade is a letter grade plus its display tier
type Grade struct {
	Letter string
	Tier   Tier
}

// gradeBands is evaluated top-down; the first band whose lower bound the
// GPA reaches wins. Bounds are inclusive.
var gradeBands = []struct {
	min   float64
	grade Grade
}{
	{4.0, Grade{Letter: "A+", Tier: TierTop}},
	{3.5, Grade{Letter: "A", Tier: TierExcellent}},
	{3.0, Grade{Letter: "A-", Tier: TierVeryGood}},
	{2.5, Grade{Letter: "B+", Tier: TierGood}},
	{2.0, Grade{Letter: "B", Tier: TierPass}},
}

var failGrade = Grade{Letter: "F", Tier: TierFail}

// GradeFromGPA maps a semester GPA to its letter grade. A nil GPA (referred)
// and anything below 2.0 is an F.
func GradeFromGPA(gpa *float64) Grade {
	if gpa == nil {
		return failGrade
	}
	for _, band := range gradeBands {
		if *gpa >= band.min {
			return band.grade
		}
	}
	return failGrade
}
