package roster

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"cert-roster/internal/domain"
)

var (
	// ErrNotFound is returned when an ID is not in the snapshot.
	ErrNotFound = errors.New("roster: not found")
	// ErrIntegrity is returned when rows reference missing or duplicate IDs.
	ErrIntegrity = errors.New("roster: integrity error")
)

const dateLayout = time.DateOnly

// Index is a validated, read-only view over a Snapshot.
// It is safe for concurrent use once built.
type Index struct {
	departments map[string]DepartmentRow
	people      map[string]PersonRow
	personOrder []string
	titles      map[string]TitleRow
	skills      map[string]SkillRow
	courses     map[string]CourseRow

	personTitles map[string][]string
	titleSkills  map[string][]string
	skillCourses map[string][]string

	channels map[string][]ChannelRow
	certs    map[string][]certRow
}

type certRow struct {
	CertificationRow
	status    domain.CertStatus
	issuedOn  *time.Time
	expiresOn *time.Time
}

// Index validates s and builds lookup tables. Every foreign key must
// resolve, IDs must be unique per table, and statuses and dates must parse.
func (s *Snapshot) Index() (*Index, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil snapshot", ErrIntegrity)
	}

	idx := &Index{
		personTitles: map[string][]string{},
		titleSkills:  map[string][]string{},
		skillCourses: map[string][]string{},
		channels:     map[string][]ChannelRow{},
		certs:        map[string][]certRow{},
	}

	var err error
	if idx.departments, err = byID("department", s.Departments, func(r DepartmentRow) string { return r.ID }); err != nil {
		return nil, err
	}
	if idx.people, err = byID("person", s.People, func(r PersonRow) string { return r.ID }); err != nil {
		return nil, err
	}
	if idx.titles, err = byID("title", s.Titles, func(r TitleRow) string { return r.ID }); err != nil {
		return nil, err
	}
	if idx.skills, err = byID("skill", s.Skills, func(r SkillRow) string { return r.ID }); err != nil {
		return nil, err
	}
	if idx.courses, err = byID("course", s.Courses, func(r CourseRow) string { return r.ID }); err != nil {
		return nil, err
	}

	for _, p := range s.People {
		idx.personOrder = append(idx.personOrder, p.ID)
		if _, err := domain.ParsePersonStatus(p.Status); err != nil {
			return nil, fmt.Errorf("%w: person %s: %v", ErrIntegrity, p.ID, err)
		}
		if id := strings.TrimSpace(p.DepartmentID); id != "" {
			if _, ok := idx.departments[id]; !ok {
				return nil, fmt.Errorf("%w: person %s references unknown department %s", ErrIntegrity, p.ID, id)
			}
		}
		if _, err := parseDate(p.StartDate); err != nil {
			return nil, fmt.Errorf("%w: person %s start_date: %v", ErrIntegrity, p.ID, err)
		}
	}

	for _, c := range s.Channels {
		if _, ok := idx.people[c.PersonID]; !ok {
			return nil, fmt.Errorf("%w: channel %s references unknown person %s", ErrIntegrity, c.ID, c.PersonID)
		}
		idx.channels[c.PersonID] = append(idx.channels[c.PersonID], c)
	}

	for _, c := range s.Certifications {
		row, err := idx.certRow(c)
		if err != nil {
			return nil, err
		}
		idx.certs[c.PersonID] = append(idx.certs[c.PersonID], row)
	}

	pt := slices.Clone(s.PersonTitles)
	slices.SortStableFunc(pt, func(a, b PersonTitle) int { return cmp.Compare(a.Position, b.Position) })
	for _, l := range pt {
		if err := idx.link("person title", idx.personTitles, l.PersonID, l.TitleID, has(idx.people), has(idx.titles)); err != nil {
			return nil, err
		}
	}

	ts := slices.Clone(s.TitleSkills)
	slices.SortStableFunc(ts, func(a, b TitleSkill) int { return cmp.Compare(a.Position, b.Position) })
	for _, l := range ts {
		if err := idx.link("title skill", idx.titleSkills, l.TitleID, l.SkillID, has(idx.titles), has(idx.skills)); err != nil {
			return nil, err
		}
	}

	sc := slices.Clone(s.SkillCourses)
	slices.SortStableFunc(sc, func(a, b SkillCourse) int { return cmp.Compare(a.Position, b.Position) })
	for _, l := range sc {
		if err := idx.link("skill course", idx.skillCourses, l.SkillID, l.CourseID, has(idx.skills), has(idx.courses)); err != nil {
			return nil, err
		}
	}

	return idx, nil
}

// PersonIDs returns every person ID in snapshot order.
func (idx *Index) PersonIDs() []string {
	return slices.Clone(idx.personOrder)
}

// Person resolves the full aggregate for id: department, channels, held
// titles down to courses, and every certification regardless of status.
func (idx *Index) Person(id string) (*domain.Person, error) {
	row, ok := idx.people[id]
	if !ok {
		return nil, fmt.Errorf("%w: person %s", ErrNotFound, id)
	}

	status, _ := domain.ParsePersonStatus(row.Status)
	start, _ := parseDate(row.StartDate)

	p := &domain.Person{
		ID:        row.ID,
		FirstName: row.FirstName,
		LastName:  row.LastName,
		Status:    status,
		StartDate: start,
	}
	if d, ok := idx.departments[strings.TrimSpace(row.DepartmentID)]; ok {
		p.Department = d.Name
	}

	for _, c := range idx.channels[id] {
		p.Channels = append(p.Channels, domain.Channel{Type: c.ChannelType, Category: c.Category, Content: c.Content})
	}

	for _, tid := range idx.personTitles[id] {
		t, err := idx.Title(tid)
		if err != nil {
			return nil, err
		}
		p.Titles = append(p.Titles, *t)
	}

	for _, c := range idx.certs[id] {
		course := idx.courses[c.CourseID]
		p.Certifications = append(p.Certifications, domain.Certification{
			ID:        c.ID,
			PersonID:  c.PersonID,
			Course:    domain.Course{ID: course.ID, Name: course.Name},
			Status:    c.status,
			IssuedOn:  c.issuedOn,
			ExpiresOn: c.expiresOn,
		})
	}

	return p, nil
}

// Title resolves a title with its skills in declared order and each
// skill's courses.
func (idx *Index) Title(id string) (*domain.Title, error) {
	row, ok := idx.titles[id]
	if !ok {
		return nil, fmt.Errorf("%w: title %s", ErrNotFound, id)
	}

	t := &domain.Title{ID: row.ID, Name: row.Name, Skills: []domain.Skill{}}
	for _, sid := range idx.titleSkills[id] {
		s := idx.skills[sid]
		skill := domain.Skill{ID: s.ID, Name: s.Name, Courses: []domain.Course{}}
		for _, cid := range idx.skillCourses[sid] {
			c := idx.courses[cid]
			skill.Courses = append(skill.Courses, domain.Course{ID: c.ID, Name: c.Name})
		}
		t.Skills = append(t.Skills, skill)
	}
	return t, nil
}

func (idx *Index) certRow(c CertificationRow) (certRow, error) {
	if strings.TrimSpace(c.ID) == "" {
		return certRow{}, fmt.Errorf("%w: certification with empty id", ErrIntegrity)
	}
	if _, ok := idx.people[c.PersonID]; !ok {
		return certRow{}, fmt.Errorf("%w: certification %s references unknown person %s", ErrIntegrity, c.ID, c.PersonID)
	}
	if _, ok := idx.courses[c.CourseID]; !ok {
		return certRow{}, fmt.Errorf("%w: certification %s references unknown course %s", ErrIntegrity, c.ID, c.CourseID)
	}
	st, err := domain.ParseCertStatus(c.Status)
	if err != nil {
		return certRow{}, fmt.Errorf("%w: certification %s: %v", ErrIntegrity, c.ID, err)
	}
	issued, err := parseDate(c.IssuedOn)
	if err != nil {
		return certRow{}, fmt.Errorf("%w: certification %s issued_on: %v", ErrIntegrity, c.ID, err)
	}
	expires, err := parseDate(c.ExpiresOn)
	if err != nil {
		return certRow{}, fmt.Errorf("%w: certification %s expires_on: %v", ErrIntegrity, c.ID, err)
	}
	return certRow{CertificationRow: c, status: st, issuedOn: issued, expiresOn: expires}, nil
}

// link appends right to m[left], skipping repeats of the same pair.
func (idx *Index) link(kind string, m map[string][]string, left, right string, leftOK, rightOK func(string) bool) error {
	if !leftOK(left) || !rightOK(right) {
		return fmt.Errorf("%w: %s link %s -> %s references unknown id", ErrIntegrity, kind, left, right)
	}
	if slices.Contains(m[left], right) {
		return nil
	}
	m[left] = append(m[left], right)
	return nil
}

func byID[T any](kind string, rows []T, id func(T) string) (map[string]T, error) {
	out := make(map[string]T, len(rows))
	for _, r := range rows {
		k := id(r)
		if strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("%w: %s with empty id", ErrIntegrity, kind)
		}
		if _, dup := out[k]; dup {
			return nil, fmt.Errorf("%w: duplicate %s id %s", ErrIntegrity, kind, k)
		}
		out[k] = r
	}
	return out, nil
}

func has[T any](m map[string]T) func(string) bool {
	return func(id string) bool {
		_, ok := m[id]
		return ok
	}
}

func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
