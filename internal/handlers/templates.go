package handlers

import (
	"fmt"
	"html/template"
	"path/filepath"

	"btebresults/internal/grading"
)

// LoadTemplates parses every page template in templatesPath
func LoadTemplates(templatesPath string) (*template.Template, error) {
	files, err := filepath.Glob(filepath.Join(templatesPath, "*.tmpl"))
	if err != nil {
		return nil, fmt.Errorf("failed to glob templates: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no templates found in %s", templatesPath)
	}

	funcMap := template.FuncMap{
		// raw keys that are not "gpa"+N are shown as they are
		"semesterTitle": func(sem grading.SemesterGrade) string {
			if _, err := grading.SemesterNumber(sem.Key); err != nil {
				return sem.Label
			}
			return sem.Label + " Semester"
		},
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFiles(files...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}
