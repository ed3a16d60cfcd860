package export

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"cert-roster/internal/report"
)

/*
Shape of the file:

<Roster_Qualification_List report_id="01J..." generated_at="2025-03-01T12:00:00Z">
  <Person>
    <person_id>p-cj</person_id>
    <name>CJ Test</name>
    <department>Police</department>
    <status>Active</status>
    <email_list><email>cj@example.com</email></email_list>
    <title_list>
      <title qualified="false">
        <name>Police Officer</name>
        <missing_skills><skill>Driving</skill></missing_skills>
      </title>
    </title_list>
    <certification_list>
      <certification status="Expired">
        <course>Basket Weaving</course>
        <expires_on>2023-12-31</expires_on>
      </certification>
    </certification_list>
    <custom_info>
      <custom_field>
        <field_name>qualified_titles</field_name>
        <data_type>string</data_type>
        <field_value></field_value>
      </custom_field>
    </custom_info>
  </Person>
</Roster_Qualification_List>
*/

type xmlPersonList struct {
	XMLName     xml.Name    `xml:"Roster_Qualification_List"`
	ReportID    string      `xml:"report_id,attr,omitempty"`
	GeneratedAt string      `xml:"generated_at,attr,omitempty"`
	People      []xmlPerson `xml:"Person"`
}

type xmlPerson struct {
	PersonID   string        `xml:"person_id"`
	Name       string        `xml:"name,omitempty"`
	Department string        `xml:"department,omitempty"`
	Status     string        `xml:"status,omitempty"`
	EmailList  *xmlEmailList `xml:"email_list,omitempty"`

	TitleList *xmlTitleList `xml:"title_list,omitempty"`
	CertList  *xmlCertList  `xml:"certification_list,omitempty"`

	CustomInfo *xmlCustomInfo `xml:"custom_info,omitempty"`
}

type xmlEmailList struct {
	Emails []string `xml:"email"`
}

type xmlTitleList struct {
	Titles []xmlTitle `xml:"title"`
}

type xmlTitle struct {
	Qualified     bool              `xml:"qualified,attr"`
	Name          string            `xml:"name"`
	MissingSkills *xmlMissingSkills `xml:"missing_skills,omitempty"`
}

type xmlMissingSkills struct {
	Skills []string `xml:"skill"`
}

type xmlCertList struct {
	Certs []xmlCert `xml:"certification"`
}

type xmlCert struct {
	Status    string `xml:"status,attr"`
	Course    string `xml:"course"`
	IssuedOn  string `xml:"issued_on,omitempty"`
	ExpiresOn string `xml:"expires_on,omitempty"`
}

type xmlCustomInfo struct {
	Fields []xmlCustomField `xml:"custom_field"`
}

type xmlCustomField struct {
	FieldName  string `xml:"field_name"`
	DataType   string `xml:"data_type"`
	FieldValue string `xml:"field_value"`
}

type XMLConfig struct {
	FieldName string // default: qualified_titles

	// IncludeCertifications adds the certification history to each person.
	IncludeCertifications bool
}

// EncodeQualificationXML writes the XML document, header included, to w.
func EncodeQualificationXML(w io.Writer, rep *report.Report, cfg XMLConfig) error {
	fieldName := strings.TrimSpace(cfg.FieldName)
	if fieldName == "" {
		fieldName = "qualified_titles"
	}

	out := xmlPersonList{
		ReportID:    rep.ID.String(),
		GeneratedAt: rep.GeneratedAt.UTC().Format(time.RFC3339),
		People:      make([]xmlPerson, 0, len(rep.Profiles)),
	}

	for _, p := range rep.Profiles {
		row := xmlPerson{
			PersonID:   strings.TrimSpace(p.Person.ID),
			Name:       cleanString(p.Person.FullName()),
			Department: cleanString(p.Person.Department),
			Status:     string(p.Person.Status),
		}

		var emails []string
		for _, c := range p.Person.Channels {
			if strings.EqualFold(c.Type, "email") && strings.TrimSpace(c.Content) != "" {
				emails = append(emails, strings.TrimSpace(c.Content))
			}
		}
		if len(emails) > 0 {
			row.EmailList = &xmlEmailList{Emails: emails}
		}

		var qualified []string
		if len(p.Results) > 0 {
			row.TitleList = &xmlTitleList{}
		}
		for _, r := range p.Results {
			t := xmlTitle{Qualified: r.Qualified, Name: cleanString(r.Title.Name)}
			if missing := cleanStrings(r.MissingSkillNames()); len(missing) > 0 {
				t.MissingSkills = &xmlMissingSkills{Skills: missing}
			}
			if r.Qualified {
				qualified = append(qualified, t.Name)
			}
			row.TitleList.Titles = append(row.TitleList.Titles, t)
		}

		if cfg.IncludeCertifications && len(p.Certifications) > 0 {
			row.CertList = &xmlCertList{}
			for _, c := range p.Certifications {
				xc := xmlCert{Status: c.Status.String(), Course: cleanString(c.Course.Name)}
				if c.IssuedOn != nil {
					xc.IssuedOn = c.IssuedOn.Format(time.DateOnly)
				}
				if c.ExpiresOn != nil {
					xc.ExpiresOn = c.ExpiresOn.Format(time.DateOnly)
				}
				row.CertList.Certs = append(row.CertList.Certs, xc)
			}
		}

		// always emit the field so downstream imports can clear stale values
		row.CustomInfo = &xmlCustomInfo{Fields: []xmlCustomField{{
			FieldName:  fieldName,
			DataType:   "string",
			FieldValue: strings.Join(qualified, " | "),
		}}}

		out.People = append(out.People, row)
	}

	b, err := xml.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("export: marshal qualification xml: %w", err)
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	_, err = w.Write(append(b, '\n'))
	return err
}

// WriteQualificationXML writes the XML document to outPath.
func WriteQualificationXML(outPath string, rep *report.Report, cfg XMLConfig) error {
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("export: create qualification xml: %w", err)
	}
	if err := EncodeQualificationXML(f, rep, cfg); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("export: write qualification xml: %w", err)
	}
	return nil
}
