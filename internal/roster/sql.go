package roster

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema is the subset of the personnel database read by LoadSQL.
// Join tables carry a position column that fixes the declared order.
const Schema = `
CREATE TABLE IF NOT EXISTS departments (
	id   TEXT PRIMARY KEY,
	name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS people (
	id            TEXT PRIMARY KEY,
	firstname     TEXT,
	lastname      TEXT,
	status        TEXT,
	department_id TEXT REFERENCES departments(id),
	start_date    TEXT
);
CREATE TABLE IF NOT EXISTS channels (
	id           TEXT PRIMARY KEY,
	person_id    TEXT NOT NULL REFERENCES people(id),
	channel_type TEXT,
	category     TEXT,
	content      TEXT
);
CREATE TABLE IF NOT EXISTS titles (
	id   TEXT PRIMARY KEY,
	name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS skills (
	id   TEXT PRIMARY KEY,
	name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS courses (
	id   TEXT PRIMARY KEY,
	name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS certifications (
	id         TEXT PRIMARY KEY,
	person_id  TEXT NOT NULL REFERENCES people(id),
	course_id  TEXT NOT NULL REFERENCES courses(id),
	status     TEXT,
	issued_on  TEXT,
	expires_on TEXT
);
CREATE TABLE IF NOT EXISTS people_titles (
	person_id TEXT NOT NULL REFERENCES people(id),
	title_id  TEXT NOT NULL REFERENCES titles(id),
	position  INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS skills_titles (
	title_id TEXT NOT NULL REFERENCES titles(id),
	skill_id TEXT NOT NULL REFERENCES skills(id),
	position INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS courses_skills (
	skill_id  TEXT NOT NULL REFERENCES skills(id),
	course_id TEXT NOT NULL REFERENCES courses(id),
	position  INTEGER NOT NULL DEFAULT 0
);
`

// LoadSQL reads every roster table into a Snapshot. All reads run inside
// one transaction so the snapshot is consistent; nothing is written.
func LoadSQL(ctx context.Context, db *sql.DB) (*Snapshot, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("roster: begin read: %w", err)
	}
	defer tx.Rollback()

	var s Snapshot

	err = queryRows(ctx, tx, `SELECT id, name FROM departments ORDER BY rowid`, func(rs *sql.Rows) error {
		var r DepartmentRow
		if err := rs.Scan(&r.ID, &r.Name); err != nil {
			return err
		}
		s.Departments = append(s.Departments, r)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("roster: load departments: %w", err)
	}

	err = queryRows(ctx, tx, `SELECT id, COALESCE(firstname, ''), COALESCE(lastname, ''), COALESCE(status, ''),
		COALESCE(department_id, ''), COALESCE(start_date, '') FROM people ORDER BY rowid`, func(rs *sql.Rows) error {
		var r PersonRow
		if err := rs.Scan(&r.ID, &r.FirstName, &r.LastName, &r.Status, &r.DepartmentID, &r.StartDate); err != nil {
			return err
		}
		s.People = append(s.People, r)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("roster: load people: %w", err)
	}

	err = queryRows(ctx, tx, `SELECT id, person_id, COALESCE(channel_type, ''), COALESCE(category, ''),
		COALESCE(content, '') FROM channels ORDER BY rowid`, func(rs *sql.Rows) error {
		var r ChannelRow
		if err := rs.Scan(&r.ID, &r.PersonID, &r.ChannelType, &r.Category, &r.Content); err != nil {
			return err
		}
		s.Channels = append(s.Channels, r)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("roster: load channels: %w", err)
	}

	for _, t := range []struct {
		table string
		add   func(id, name string)
	}{
		{"titles", func(id, name string) { s.Titles = append(s.Titles, TitleRow{ID: id, Name: name}) }},
		{"skills", func(id, name string) { s.Skills = append(s.Skills, SkillRow{ID: id, Name: name}) }},
		{"courses", func(id, name string) { s.Courses = append(s.Courses, CourseRow{ID: id, Name: name}) }},
	} {
		err = queryRows(ctx, tx, `SELECT id, name FROM `+t.table+` ORDER BY rowid`, func(rs *sql.Rows) error {
			var id, name string
			if err := rs.Scan(&id, &name); err != nil {
				return err
			}
			t.add(id, name)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("roster: load %s: %w", t.table, err)
		}
	}

	err = queryRows(ctx, tx, `SELECT id, person_id, course_id, COALESCE(status, ''), COALESCE(issued_on, ''),
		COALESCE(expires_on, '') FROM certifications ORDER BY rowid`, func(rs *sql.Rows) error {
		var r CertificationRow
		if err := rs.Scan(&r.ID, &r.PersonID, &r.CourseID, &r.Status, &r.IssuedOn, &r.ExpiresOn); err != nil {
			return err
		}
		s.Certifications = append(s.Certifications, r)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("roster: load certifications: %w", err)
	}

	err = queryRows(ctx, tx, `SELECT person_id, title_id, position FROM people_titles ORDER BY position, rowid`, func(rs *sql.Rows) error {
		var r PersonTitle
		if err := rs.Scan(&r.PersonID, &r.TitleID, &r.Position); err != nil {
			return err
		}
		s.PersonTitles = append(s.PersonTitles, r)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("roster: load people_titles: %w", err)
	}

	err = queryRows(ctx, tx, `SELECT title_id, skill_id, position FROM skills_titles ORDER BY position, rowid`, func(rs *sql.Rows) error {
		var r TitleSkill
		if err := rs.Scan(&r.TitleID, &r.SkillID, &r.Position); err != nil {
			return err
		}
		s.TitleSkills = append(s.TitleSkills, r)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("roster: load skills_titles: %w", err)
	}

	err = queryRows(ctx, tx, `SELECT skill_id, course_id, position FROM courses_skills ORDER BY position, rowid`, func(rs *sql.Rows) error {
		var r SkillCourse
		if err := rs.Scan(&r.SkillID, &r.CourseID, &r.Position); err != nil {
			return err
		}
		s.SkillCourses = append(s.SkillCourses, r)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("roster: load courses_skills: %w", err)
	}

	return &s, nil
}

func queryRows(ctx context.Context, tx *sql.Tx, query string, scan func(*sql.Rows) error) error {
	rows, err := tx.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}
