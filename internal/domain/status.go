package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidStatus is returned when a status string is not one of the known values.
var ErrInvalidStatus = errors.New("domain: invalid status")

// CertStatus is the lifecycle state of a Certification.
// The zero value means the record carries no status at all.
type CertStatus string

const (
	CertUnspecified CertStatus = ""
	CertActive      CertStatus = "active"
	CertPending     CertStatus = "pending"
	CertExpired     CertStatus = "expired"
	CertRevoked     CertStatus = "revoked"
)

// ParseCertStatus accepts any casing and surrounding spaces ("Expired", " active ").
func ParseCertStatus(s string) (CertStatus, error) {
	switch v := CertStatus(strings.ToLower(strings.TrimSpace(s))); v {
	case CertUnspecified, CertActive, CertPending, CertExpired, CertRevoked:
		return v, nil
	}
	return CertUnspecified, fmt.Errorf("%w: certification status %q", ErrInvalidStatus, s)
}

// IsValidEvidence reports whether a certification in this status counts
// toward satisfying a skill. Only active and unspecified certifications do.
func IsValidEvidence(s CertStatus) bool {
	switch s {
	case CertActive, CertUnspecified:
		return true
	}
	return false
}

// String returns the display label ("Active", "Expired", ...).
func (s CertStatus) String() string {
	if s == CertUnspecified {
		return "Unspecified"
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// PersonStatus is a person's standing in the organization.
type PersonStatus string

const (
	PersonActive         PersonStatus = "Active"
	PersonApplicant      PersonStatus = "Applicant"
	PersonProspect       PersonStatus = "Prospect"
	PersonInactive       PersonStatus = "Inactive"
	PersonLeaveOfAbsence PersonStatus = "Leave of Absence"
	PersonDeclined       PersonStatus = "Declined"
)

var personStatuses = []PersonStatus{
	PersonActive,
	PersonApplicant,
	PersonProspect,
	PersonInactive,
	PersonLeaveOfAbsence,
	PersonDeclined,
}

// ParsePersonStatus matches case-insensitively. An empty string is Active,
// which is what the roster assumes for people created without a status.
func ParsePersonStatus(s string) (PersonStatus, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return PersonActive, nil
	}
	for _, st := range personStatuses {
		if strings.EqualFold(v, string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: person status %q", ErrInvalidStatus, s)
}
