package report

import (
	"fmt"
	"io"
	"strings"
)

const dateFormat = "2006-01-02"

// WriteProfile renders the plain-text profile view of one person.
func WriteProfile(w io.Writer, p Profile) error {
	if p.Person == nil {
		return fmt.Errorf("report: profile has no person")
	}
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", p.Person.FullName())
	fmt.Fprintf(&b, "Status: %s\n", p.Person.Status)
	if p.Person.Department != "" {
		fmt.Fprintf(&b, "Department: %s\n", p.Person.Department)
	}
	if p.Person.StartDate != nil {
		fmt.Fprintf(&b, "Start Date: %s\n", p.Person.StartDate.Format(dateFormat))
	}
	for _, c := range p.Person.Channels {
		fmt.Fprintf(&b, "%s: %s\n", firstNonEmpty(c.Category, c.Type), c.Content)
	}

	if len(p.Results) > 0 {
		b.WriteString("\nTitles\n")
	}
	for _, r := range p.Results {
		fmt.Fprintf(&b, "  %s\n", r.Message())
		if names := r.MissingSkillNames(); len(names) > 0 {
			fmt.Fprintf(&b, "    Missing skills: %s\n", strings.Join(names, ", "))
		}
	}

	if len(p.Certifications) > 0 {
		b.WriteString("\nCertifications\n")
	}
	for _, c := range p.Certifications {
		line := fmt.Sprintf("  %s (%s)", c.Course.Name, c.Status)
		if c.ExpiresOn != nil {
			line += " expires " + c.ExpiresOn.Format(dateFormat)
		}
		b.WriteString(line + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func firstNonEmpty(v ...string) string {
	for _, s := range v {
		if strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}
