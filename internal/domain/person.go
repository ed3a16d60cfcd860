package domain

import (
	"strings"
	"time"
)

// Person is the resolved aggregate for one member of the roster.
// Titles and Certifications are fully resolved down to their courses.
type Person struct {
	ID         string
	FirstName  string
	LastName   string
	Status     PersonStatus
	Department string
	StartDate  *time.Time

	Channels       []Channel
	Titles         []Title
	Certifications []Certification
}

func (p Person) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
}

// Department groups people (Police, CERT, ...).
type Department struct {
	ID   string
	Name string
}

// Channel is a way to reach a person: a phone number, an e-mail address.
type Channel struct {
	Type     string // "Phone", "Email"
	Category string // "Mobile Phone", "E-Mail"
	Content  string
}

// Certification evidences that a person completed a course.
type Certification struct {
	ID        string
	PersonID  string
	Course    Course
	Status    CertStatus
	IssuedOn  *time.Time
	ExpiresOn *time.Time
}

// CountsAsEvidence reports whether this certification satisfies skills.
func (c Certification) CountsAsEvidence() bool {
	return IsValidEvidence(c.Status)
}

// Displayable reports whether the certification is listed on the profile.
// History is kept: expired and revoked records are shown too.
func (c Certification) Displayable() bool {
	return true
}
