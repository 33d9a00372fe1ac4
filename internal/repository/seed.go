package repository

import (
	"fmt"
	"log"
	"time"

	"btebresults/internal/models"
)

// DemoResults are served by the demo results API so the front-end can be
// tried without a processed result PDF
var DemoResults = []models.StudentResult{
	{
		RollNumber: "123456",
		GPAs: models.SemesterGPAs{
			{Key: "gpa1", GPA: models.GPA(3.75)},
			{Key: "gpa2", GPA: models.GPA(3.50)},
			{Key: "gpa3", GPA: models.GPA(3.85)},
			{Key: "gpa4", GPA: models.GPA(4.00)},
		},
		ReferredSubjects: []string{},
		CreatedAt:        time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	},
	{
		RollNumber: "234567",
		GPAs: models.SemesterGPAs{
			{Key: "gpa1", GPA: models.GPA(3.20)},
			{Key: "gpa2", GPA: nil},
			{Key: "gpa3", GPA: models.GPA(2.80)},
		},
		ReferredSubjects: []string{"Engineering Mathematics-II (25921)", "Physics-II (25922)"},
		CreatedAt:        time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	},
	{
		RollNumber: "345678",
		GPAs: models.SemesterGPAs{
			{Key: "gpa1", GPA: models.GPA(2.45)},
			{Key: "gpa2", GPA: models.GPA(2.10)},
			{Key: "gpa3", GPA: models.GPA(3.05)},
			{Key: "gpa4", GPA: models.GPA(2.95)},
			{Key: "gpa5", GPA: models.GPA(3.30)},
			{Key: "gpa6", GPA: models.GPA(3.55)},
			{Key: "gpa7", GPA: models.GPA(3.60)},
		},
		ReferredSubjects: []string{},
		CreatedAt:        time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC),
	},
}

// SeedDemoResults stores the demo results that are not present yet
func SeedDemoResults(repo *ResultRepository) (int, error) {
	seeded := 0
	for i := range DemoResults {
		exists, err := repo.Exists(DemoResults[i].RollNumber)
		if err != nil {
			return seeded, err
		}
		if exists {
			continue
		}
		if _, err := repo.Upsert(&DemoResults[i]); err != nil {
			return seeded, fmt.Errorf("failed to seed %s: %w", DemoResults[i].RollNumber, err)
		}
		seeded++
	}
	if seeded > 0 {
		log.Printf("Seeded %d demo results", seeded)
	}
	return seeded, nil
}
