package models

import "strings"

// ResponseData is the normalized student record returned by an institution,
// an operator, or the document analyzer. Unknown keys go to Extra.
type ResponseData struct {
	// Status is the institution's own verdict, e.g. "verified" or "not_found".
	Status         string            `json:"status,omitempty"`
	StudentName    string            `json:"student_name,omitempty"`
	StudentID      string            `json:"student_id,omitempty"`
	DateOfBirth    string            `json:"date_of_birth,omitempty"`
	CourseName     string            `json:"course_name,omitempty"`
	FieldOfStudy   string            `json:"field_of_study,omitempty"`
	DegreeType     string            `json:"degree_type,omitempty"`
	Classification string            `json:"classification,omitempty"`
	GraduationYear int               `json:"graduation_year,omitempty"`
	Extra          map[string]string `json:"extra,omitempty"`
}

const maxExtraKeys = 32

// ReportsNoRecord reports whether the institution said it holds no record.
func (d ResponseData) ReportsNoRecord() bool {
	status := strings.TrimSpace(d.Status)
	return strings.EqualFold(status, "not_found") || strings.EqualFold(status, "no_record")
}

// BoundExtra drops extension keys beyond the allowed count.
func (d *ResponseData) BoundExtra() {
	if len(d.Extra) <= maxExtraKeys {
		return
	}
	kept := make(map[string]string, maxExtraKeys)
	for k, v := range d.Extra {
		if len(kept) == maxExtraKeys {
			break
		}
		kept[k] = v
	}
	d.Extra = kept
}
