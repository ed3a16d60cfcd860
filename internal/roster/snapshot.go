// Package roster holds a point-in-time copy of the personnel store and
// resolves it into the aggregates the qualification engine consumes.
//
// A Snapshot is the relational store flattened to rows: entity tables plus
// join tables. Rows reference each other by ID; Index validates those
// references once and then builds domain.Person and domain.Title values on demand.
package roster

// Snapshot is the raw roster as exported by the store.
// It is also the schema used for JSON/YAML snapshot files (roster.json).
type Snapshot struct {
	Departments    []DepartmentRow    `json:"departments" yaml:"departments"`
	People         []PersonRow        `json:"people" yaml:"people"`
	Channels       []ChannelRow       `json:"channels" yaml:"channels"`
	Titles         []TitleRow         `json:"titles" yaml:"titles"`
	Skills         []SkillRow         `json:"skills" yaml:"skills"`
	Courses        []CourseRow        `json:"courses" yaml:"courses"`
	Certifications []CertificationRow `json:"certifications" yaml:"certifications"`

	PersonTitles []PersonTitle `json:"person_titles" yaml:"person_titles"`
	TitleSkills  []TitleSkill  `json:"title_skills" yaml:"title_skills"`
	SkillCourses []SkillCourse `json:"skill_courses" yaml:"skill_courses"`
}

type DepartmentRow struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

type PersonRow struct {
	ID           string `json:"id" yaml:"id"`
	FirstName    string `json:"firstname" yaml:"firstname"`
	LastName     string `json:"lastname" yaml:"lastname"`
	Status       string `json:"status" yaml:"status"`
	DepartmentID string `json:"department_id" yaml:"department_id"`
	StartDate    string `json:"start_date" yaml:"start_date"` // YYYY-MM-DD, may be empty
}

type ChannelRow struct {
	ID          string `json:"id" yaml:"id"`
	PersonID    string `json:"person_id" yaml:"person_id"`
	ChannelType string `json:"channel_type" yaml:"channel_type"`
	Category    string `json:"category" yaml:"category"`
	Content     string `json:"content" yaml:"content"`
}

type TitleRow struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

type SkillRow struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

type CourseRow struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

type CertificationRow struct {
	ID        string `json:"id" yaml:"id"`
	PersonID  string `json:"person_id" yaml:"person_id"`
	CourseID  string `json:"course_id" yaml:"course_id"`
	Status    string `json:"status" yaml:"status"`
	IssuedOn  string `json:"issued_on" yaml:"issued_on"`
	ExpiresOn string `json:"expires_on" yaml:"expires_on"`
}

// Join rows. Position orders the right-hand side; rows with equal
// positions keep the order they appear in.

type PersonTitle struct {
	PersonID string `json:"person_id" yaml:"person_id"`
	TitleID  string `json:"title_id" yaml:"title_id"`
	Position int    `json:"position,omitempty" yaml:"position,omitempty"`
}

type TitleSkill struct {
	TitleID  string `json:"title_id" yaml:"title_id"`
	SkillID  string `json:"skill_id" yaml:"skill_id"`
	Position int    `json:"position,omitempty" yaml:"position,omitempty"`
}

type SkillCourse struct {
	SkillID  string `json:"skill_id" yaml:"skill_id"`
	CourseID string `json:"course_id" yaml:"course_id"`
	Position int    `json:"position,omitempty" yaml:"position,omitempty"`
}
