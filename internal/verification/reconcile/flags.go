package reconcile

import (
	"encoding/json"
	"strings"

	"credverify/internal/verification/models"
)

// placeholderMarkers are matched inside text values, never against JSON
// structure.
var placeholderMarkers = []string{
	"lorem ipsum",
	"{{",
	"}}",
	"placeholder",
	"sample data",
	"test student",
	"xxxx",
	"tbd",
	"n/a n/a",
}

// sampleNames only count as template content when they are the whole student
// name and differ from the name the applicant submitted.
var sampleNames = []string{"john doe", "jane doe"}

// contentFlags inspects the response as a whole rather than field by field.
func contentFlags(in Input) []models.Flag {
	var flags []models.Flag

	if in.ResponseTime > 0 && in.ResponseTime < fastResponseThreshold {
		flags = append(flags, models.Flag{
			Code:        models.FlagFastResponse,
			Description: "institution responded in " + in.ResponseTime.String(),
			Severity:    models.SeverityMedium,
		})
	}

	if marker, ok := findPlaceholder(in); ok {
		flags = append(flags, models.Flag{
			Code:        models.FlagPlaceholder,
			Description: "response contains template content (" + marker + ")",
			Severity:    models.SeverityHigh,
		})
	}

	if in.Data.ReportsNoRecord() {
		flags = append(flags, models.Flag{
			Code:        models.FlagNoRecord,
			Description: "institution reported no matching student record",
			Severity:    models.SeverityHigh,
		})
	}

	if in.Data.DateOfBirth != "" && in.Data.GraduationYear > 0 {
		if dob, ok := parseDate(in.Data.DateOfBirth); ok && in.Data.GraduationYear-dob.Year() < 15 {
			flags = append(flags, models.Flag{
				Code:        models.FlagInconsistentData,
				Field:       FieldDateOfBirth,
				Description: "graduation year is implausibly close to date of birth",
				Severity:    models.SeverityMedium,
			})
		}
	}
	return flags
}

func findPlaceholder(in Input) (string, bool) {
	texts := append(stringLeaves(in.Raw),
		in.Data.StudentName,
		in.Data.StudentID,
		in.Data.CourseName,
		in.Data.FieldOfStudy,
	)
	for _, marker := range placeholderMarkers {
		for _, t := range texts {
			if strings.Contains(strings.ToLower(t), marker) {
				return marker, true
			}
		}
	}

	name := foldName(in.Data.StudentName)
	if name == "" || name == foldName(in.Applicant.StudentName) {
		return "", false
	}
	for _, sample := range sampleNames {
		if name == sample {
			return sample, true
		}
	}
	return "", false
}

// stringLeaves returns every string value in a JSON document. A body that is
// not JSON is treated as one text value.
func stringLeaves(raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return []string{string(raw)}
	}
	var out []string
	var walk func(v any)
	walk = func(v any) {
		switch v := v.(type) {
		case string:
			out = append(out, v)
		case []any:
			for _, e := range v {
				walk(e)
			}
		case map[string]any:
			for _, e := range v {
				walk(e)
			}
		}
	}
	walk(doc)
	return out
}
