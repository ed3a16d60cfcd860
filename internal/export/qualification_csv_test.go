package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cert-roster/internal/domain"
	"cert-roster/internal/qualification"
	"cert-roster/internal/report"
)

func TestWriteQualificationCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteQualificationCSV(&buf, buildReport(t)))

	want := "PERSON_ID,PERSON_NAME,DEPARTMENT,STATUS,TITLE,QUALIFIED,MISSING_SKILLS\r\n" +
		"p-cj,CJ Test,Police,Active,Police Officer,false,Driving\r\n" +
		"p-sierra,Sierra Smith,CERT,Active,Police Officer,true,\r\n" +
		"p-sierra,Sierra Smith,CERT,Active,Volunteer,true,\r\n" +
		"p-adam,Adam Jones,,Applicant,,,\r\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("csv mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteQualificationCSVMissingSkillsJoined(t *testing.T) {
	person := &domain.Person{ID: "p1", FirstName: "Oscar", LastName: "Grouch\n", Status: domain.PersonActive}
	rep := &report.Report{Profiles: []report.Profile{{
		Person: person,
		Results: []qualification.Result{{
			Title:     domain.Title{ID: "t1", Name: "Medic"},
			Qualified: false,
			MissingSkills: []domain.Skill{
				{ID: "s1", Name: "CPR"},
				{ID: "s2", Name: "Triage, Advanced"},
			},
		}},
	}}}

	var buf bytes.Buffer
	require.NoError(t, WriteQualificationCSV(&buf, rep))

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"p1", "Oscar Grouch", "", "Active", "Medic", "false", "CPR | Triage, Advanced"}, records[1])
}

func TestCleanStrings(t *testing.T) {
	got := cleanStrings([]string{" a ", "", "b\r\nc", "   "})
	assert.Equal(t, []string{"a", "b  c"}, got)
}
