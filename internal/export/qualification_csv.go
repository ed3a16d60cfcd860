package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"cert-roster/internal/report"
)

// Keep header order EXACT; downstream spreadsheets key on column position.
var qualificationHeader = []string{
	"PERSON_ID",
	"PERSON_NAME",
	"DEPARTMENT",
	"STATUS",
	"TITLE",
	"QUALIFIED",
	"MISSING_SKILLS",
}

// WriteQualificationCSV writes one row per person and held title.
// People holding no title still get a row with the title columns empty.
func WriteQualificationCSV(w io.Writer, rep *report.Report) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := cw.Write(qualificationHeader); err != nil {
		return err
	}

	for _, p := range rep.Profiles {
		for _, row := range toQualificationRows(p) {
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func toQualificationRows(p report.Profile) [][]string {
	base := []string{
		p.Person.ID,
		cleanString(p.Person.FullName()),
		cleanString(p.Person.Department),
		string(p.Person.Status),
	}

	if len(p.Results) == 0 {
		return [][]string{append(base, "", "", "")}
	}

	rows := make([][]string, 0, len(p.Results))
	for _, r := range p.Results {
		row := append([]string{}, base...)
		row = append(row,
			cleanString(r.Title.Name),
			strconv.FormatBool(r.Qualified),
			strings.Join(cleanStrings(r.MissingSkillNames()), " | "),
		)
		rows = append(rows, row)
	}
	return rows
}

func cleanStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = cleanString(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// cleanString flattens newlines so every record stays on one line.
func cleanString(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}
