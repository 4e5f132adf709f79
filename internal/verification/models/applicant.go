package models

import "time"

// Applicant holds the biographical and academic fields submitted with a
// verification request.
type Applicant struct {
	StudentName    string    `json:"student_name"`
	MaidenName     string    `json:"maiden_name,omitempty"`
	DateOfBirth    time.Time `json:"date_of_birth"`
	Email          string    `json:"email,omitempty"`
	StudentID      string    `json:"student_id"`
	CourseName     string    `json:"course_name"`
	FieldOfStudy   string    `json:"field_of_study,omitempty"`
	DegreeType     string    `json:"degree_type"`
	Classification string    `json:"classification,omitempty"`
	GraduationYear int       `json:"graduation_year"`
}

const MinGraduationYear = 1950
