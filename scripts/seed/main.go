// Command seed provisions the timetable schema and a small demo dataset
// so the generation endpoint can be exercised against a fresh database.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/edusched/timetable-api/pkg/config"
	"github.com/edusched/timetable-api/pkg/database"
)

const schema = `
CREATE TABLE IF NOT EXISTS teachers (
	id UUID PRIMARY KEY,
	full_name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	phone TEXT,
	expertise TEXT,
	active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS disciplines (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	course_area TEXT NOT NULL DEFAULT '',
	weekly_sessions INT NOT NULL DEFAULT 2,
	active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS teacher_disciplines (
	teacher_id UUID NOT NULL REFERENCES teachers(id) ON DELETE CASCADE,
	discipline_id UUID NOT NULL REFERENCES disciplines(id) ON DELETE CASCADE,
	PRIMARY KEY (teacher_id, discipline_id)
);

CREATE TABLE IF NOT EXISTS rooms (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	type TEXT NOT NULL DEFAULT 'NORMAL',
	capacity INT NOT NULL,
	active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS class_groups (
	id UUID PRIMARY KEY,
	code TEXT NOT NULL UNIQUE,
	grade_level TEXT NOT NULL DEFAULT '',
	student_count INT NOT NULL,
	shift_policy TEXT NOT NULL DEFAULT 'FLEXIBLE',
	active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS class_group_disciplines (
	class_group_id UUID NOT NULL REFERENCES class_groups(id) ON DELETE CASCADE,
	discipline_id UUID NOT NULL REFERENCES disciplines(id) ON DELETE CASCADE,
	PRIMARY KEY (class_group_id, discipline_id)
);

CREATE TABLE IF NOT EXISTS availability_rules (
	id UUID PRIMARY KEY,
	teacher_id UUID NOT NULL REFERENCES teachers(id) ON DELETE CASCADE,
	discipline_id UUID REFERENCES disciplines(id) ON DELETE CASCADE,
	weekday INT,
	shift TEXT,
	available BOOLEAN NOT NULL DEFAULT TRUE,
	preferred BOOLEAN NOT NULL DEFAULT FALSE,
	priority INT NOT NULL DEFAULT 3,
	notes TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS temporary_blocks (
	id UUID PRIMARY KEY,
	teacher_id UUID NOT NULL REFERENCES teachers(id) ON DELETE CASCADE,
	start_date DATE NOT NULL,
	end_date DATE NOT NULL,
	shift TEXT,
	recurring BOOLEAN NOT NULL DEFAULT FALSE,
	reason TEXT NOT NULL DEFAULT '',
	active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS sessions (
	id UUID PRIMARY KEY,
	class_group_id UUID NOT NULL REFERENCES class_groups(id) ON DELETE CASCADE,
	discipline_id UUID NOT NULL REFERENCES disciplines(id) ON DELETE CASCADE,
	teacher_id UUID NOT NULL REFERENCES teachers(id) ON DELETE CASCADE,
	room_id UUID NOT NULL REFERENCES rooms(id) ON DELETE CASCADE,
	weekday INT NOT NULL,
	shift TEXT NOT NULL,
	start_time TEXT NOT NULL,
	end_time TEXT NOT NULL,
	active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (teacher_id, weekday, start_time),
	UNIQUE (class_group_id, weekday, start_time),
	UNIQUE (room_id, weekday, start_time)
);
`

func main() {
	schemaOnly := flag.Bool("schema-only", false, "create tables without inserting demo data")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer db.Close() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		log.Fatalf("failed to create schema: %v", err)
	}
	log.Println("schema ready")

	if *schemaOnly {
		return
	}
	if err := seed(ctx, db); err != nil {
		log.Fatalf("failed to seed demo data: %v", err)
	}
	log.Println("demo data inserted")
}

func seed(ctx context.Context, db *sqlx.DB) error {
	disciplines := map[string]struct {
		name   string
		weekly int
	}{
		uuid.NewString(): {name: "Mathematics", weekly: 4},
		uuid.NewString(): {name: "Portuguese", weekly: 4},
		uuid.NewString(): {name: "History", weekly: 2},
		uuid.NewString(): {name: "Science", weekly: 3},
	}
	for id, d := range disciplines {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO disciplines (id, name, weekly_sessions) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
			id, d.name, d.weekly); err != nil {
			return fmt.Errorf("insert discipline %s: %w", d.name, err)
		}
	}

	teacherNames := []string{"Ana Souza", "Bruno Lima", "Carla Mota", "Diego Reis"}
	teacherIDs := make([]string, 0, len(teacherNames))
	for i, name := range teacherNames {
		id := uuid.NewString()
		teacherIDs = append(teacherIDs, id)
		email := fmt.Sprintf("teacher%d@example.edu", i+1)
		if _, err := db.ExecContext(ctx,
			`INSERT INTO teachers (id, full_name, email) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
			id, name, email); err != nil {
			return fmt.Errorf("insert teacher %s: %w", name, err)
		}
	}

	// Every teacher covers every discipline in the demo set.
	for _, teacherID := range teacherIDs {
		for disciplineID := range disciplines {
			if _, err := db.ExecContext(ctx,
				`INSERT INTO teacher_disciplines (teacher_id, discipline_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
				teacherID, disciplineID); err != nil {
				return fmt.Errorf("link teacher discipline: %w", err)
			}
		}
	}

	rooms := []struct {
		name     string
		capacity int
	}{
		{"Room 101", 30},
		{"Room 102", 35},
		{"Auditorium", 80},
	}
	for _, room := range rooms {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO rooms (id, name, capacity) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
			uuid.NewString(), room.name, room.capacity); err != nil {
			return fmt.Errorf("insert room %s: %w", room.name, err)
		}
	}

	groups := []struct {
		code   string
		count  int
		policy string
	}{
		{"1A", 28, "MORNING"},
		{"1B", 30, "AFTERNOON"},
	}
	for _, group := range groups {
		groupID := uuid.NewString()
		if _, err := db.ExecContext(ctx,
			`INSERT INTO class_groups (id, code, student_count, shift_policy) VALUES ($1, $2, $3, $4) ON CONFLICT DO NOTHING`,
			groupID, group.code, group.count, group.policy); err != nil {
			return fmt.Errorf("insert class group %s: %w", group.code, err)
		}
		for disciplineID := range disciplines {
			if _, err := db.ExecContext(ctx,
				`INSERT INTO class_group_disciplines (class_group_id, discipline_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
				groupID, disciplineID); err != nil {
				return fmt.Errorf("link class group discipline: %w", err)
			}
		}
	}

	// One teacher keeps Friday free to show availability in action.
	if _, err := db.ExecContext(ctx,
		`INSERT INTO availability_rules (id, teacher_id, weekday, available, priority, notes) VALUES ($1, $2, 5, FALSE, 3, 'no classes on Friday')`,
		uuid.NewString(), teacherIDs[0]); err != nil {
		return fmt.Errorf("insert availability rule: %w", err)
	}
	return nil
}
