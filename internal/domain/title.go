package domain

// Title is a role such as "Police Officer".
// Skills keeps the order in which they were attached to the title.
type Title struct {
	ID     string
	Name   string
	Skills []Skill
}

// Skill is satisfied by completing any one of its Courses.
type Skill struct {
	ID      string
	Name    string
	Courses []Course
}

type Course struct {
	ID   string
	Name string
}
