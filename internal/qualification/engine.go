// Package qualification decides whether a person is qualified for a title.
//
// A title requires a set of skills. A skill is satisfied when the person holds
// a certification that counts as evidence for any one of the skill's courses.
// The person is qualified when every required skill is satisfied.
//
// Evaluation is a pure function of its inputs, so results are never stored
// and callers may evaluate many people concurrently.
package qualification

import (
	"errors"
	"fmt"
	"strings"

	"cert-roster/internal/domain"
)

// ErrInvalidArgument marks missing or malformed aggregates.
// It is never a qualification outcome.
var ErrInvalidArgument = errors.New("qualification: invalid argument")

// Result is the verdict for one person and one title.
type Result struct {
	Title         domain.Title
	Qualified     bool
	MissingSkills []domain.Skill
}

// Message renders the profile headline for the result.
func (r Result) Message() string {
	if r.Qualified {
		return "Qualified for " + r.Title.Name
	}
	return "NOT qualified for " + r.Title.Name
}

// MissingSkillNames lists the missing skills in the title's declared order.
func (r Result) MissingSkillNames() []string {
	out := make([]string, 0, len(r.MissingSkills))
	for _, s := range r.MissingSkills {
		out = append(out, s.Name)
	}
	return out
}

// Evaluate checks person against title.
// MissingSkills follows title.Skills order and is empty (not nil) when qualified.
func Evaluate(person *domain.Person, title *domain.Title) (Result, error) {
	if person == nil {
		return Result{}, fmt.Errorf("%w: person is nil", ErrInvalidArgument)
	}
	if title == nil {
		return Result{}, fmt.Errorf("%w: title is nil", ErrInvalidArgument)
	}

	evidenced, err := EvidencedCourses(person.Certifications)
	if err != nil {
		return Result{}, err
	}
	return evaluate(evidenced, *title)
}

// EvaluatePerson evaluates every title the person holds, each in isolation,
// in the order the titles appear on the person.
func EvaluatePerson(person *domain.Person) ([]Result, error) {
	if person == nil {
		return nil, fmt.Errorf("%w: person is nil", ErrInvalidArgument)
	}

	evidenced, err := EvidencedCourses(person.Certifications)
	if err != nil {
		return nil, err
	}

	out := make([]Result, 0, len(person.Titles))
	for _, t := range person.Titles {
		r, err := evaluate(evidenced, t)
		if err != nil {
			return nil, fmt.Errorf("title %q: %w", t.Name, err)
		}
		out = append(out, r)
	}
	return out, nil
}

// EvidencedCourses returns the IDs of courses backed by a certification
// that counts as evidence.
func EvidencedCourses(certs []domain.Certification) (map[string]bool, error) {
	out := make(map[string]bool, len(certs))
	for _, c := range certs {
		id := strings.TrimSpace(c.Course.ID)
		if id == "" {
			return nil, fmt.Errorf("%w: certification %q has no course", ErrInvalidArgument, c.ID)
		}
		if c.CountsAsEvidence() {
			out[id] = true
		}
	}
	return out, nil
}

func evaluate(evidenced map[string]bool, title domain.Title) (Result, error) {
	res := Result{
		Title:         title,
		MissingSkills: []domain.Skill{},
	}

	for _, skill := range title.Skills {
		ok, err := satisfied(evidenced, skill)
		if err != nil {
			return Result{}, err
		}
		if !ok {
			res.MissingSkills = append(res.MissingSkills, skill)
		}
	}

	res.Qualified = len(res.MissingSkills) == 0
	return res, nil
}

// satisfied is an OR across the skill's courses; no courses means never satisfied.
func satisfied(evidenced map[string]bool, skill domain.Skill) (bool, error) {
	if strings.TrimSpace(skill.ID) == "" {
		return false, fmt.Errorf("%w: skill %q has no id", ErrInvalidArgument, skill.Name)
	}
	for _, c := range skill.Courses {
		id := strings.TrimSpace(c.ID)
		if id == "" {
			return false, fmt.Errorf("%w: skill %q references a course with no id", ErrInvalidArgument, skill.Name)
		}
		if evidenced[id] {
			return true, nil
		}
	}
	return false, nil
}
