package grading

import "btebresults/internal/models"

const (
	StatusPassed   = "Passed"
	StatusReferred = "Referred"
	referredValue  = "Ref"
)

// SemesterGrade is one row of the semester results grid
type SemesterGrade struct {
	Key    string
	Label  string // "1st Semester" ordinal part, e.g. "1st"
	GPA    *float64
	Grade  Grade
	Value  string // two-decimal GPA or "Ref"
	Status string
}

// Summary is derived from a StudentResult for display and never stored
type Summary struct {
	CGPA            float64
	Semesters       []SemesterGrade
	SemestersPassed int
	ReferredCount   int
}

// CGPAText is the CGPA with two decimals
func (s Summary) CGPAText() string {
	return FormatGPA(s.CGPA)
}

// PerSemesterGrade returns the letter grade of each semester keyed by
// semester key.
func (s Summary) PerSemesterGrade() map[string]string {
	grades := make(map[string]string, len(s.Semesters))
	for _, sem := range s.Semesters {
		grades[sem.Key] = sem.Grade.Letter
	}
	return grades
}

// Summarize computes the display statistics for one result. Semesters keep
// the order of result.GPAs. Keys that do not follow the "gpa"+N convention
// are labelled with the raw key.
func Summarize(result *models.StudentResult) Summary {
	summary := Summary{
		CGPA:          ComputeCGPA(result.GPAs),
		Semesters:     make([]SemesterGrade, 0, len(result.GPAs)),
		ReferredCount: len(result.ReferredSubjects),
	}

	for _, s := range result.GPAs {
		label, err := SemesterLabel(s.Key)
		if err != nil {
			label = s.Key
		}

		row := SemesterGrade{
			Key:   s.Key,
			Label: label,
			GPA:   s.GPA,
			Grade: GradeFromGPA(s.GPA),
		}
		if s.GPA == nil {
			row.Value = referredValue
			row.Status = StatusReferred
		} else {
			row.Value = FormatGPA(*s.GPA)
			row.Status = StatusPassed
			summary.SemestersPassed++
		}
		summary.Semesters = append(summary.Semesters, row)
	}

	return summary
}
