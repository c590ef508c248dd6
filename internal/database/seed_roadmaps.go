// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tomtom215/skillswap/internal/logging"
	"github.com/tomtom215/skillswap/internal/models"
)

type seedLevel struct {
	title, description, duration string
	topics                       []string
}

type seedResource struct {
	level, kind, title, url string
	free                    bool
}

type seedProject struct {
	name, level, description string
	technologies             []string
	hours                    int
}

type seedPath struct {
	name, icon, description, difficulty, duration string
	keySkills                                     []string
	// levels holds Beginner, Intermediate and Advanced in that order.
	levels    [3]seedLevel
	resources []seedResource
	projects  []seedProject
}

var defaultRoadmaps = []struct {
	category, icon string
	paths          []seedPath
}{
	{"Software Development & Engineering", "code", []seedPath{{
		name: "Backend Development", icon: "dns", difficulty: "Intermediate", duration: "9-12 months",
		description: "Design and run the services behind web and mobile apps.",
		keySkills:   []string{"Go", "SQL", "REST APIs", "Docker"},
		levels: [3]seedLevel{
			{"Foundations", "One language, HTTP and a relational database.", "3 months", []string{"HTTP", "SQL basics", "Git"}},
			{"Building services", "Authentication, testing and deployment.", "4 months", []string{"JWT", "Unit testing", "Containers"}},
			{"Production systems", "Messaging, observability and scaling.", "5 months", []string{"Queues", "Metrics", "Caching"}},
		},
		resources: []seedResource{
			{models.RoadmapBeginner, "course", "A Tour of Go", "https://go.dev/tour/", true},
			{models.RoadmapIntermediate, "book", "Let's Go Further", "https://lets-go-further.alexedwards.net/", false},
			{models.RoadmapAdvanced, "doc", "NATS Concepts", "https://docs.nats.io/nats-concepts/overview", true},
		},
		projects: []seedProject{
			{"URL shortener", models.RoadmapBeginner, "Store and resolve short links.", []string{"Go", "SQLite"}, 10},
			{"Task API", models.RoadmapIntermediate, "CRUD API with auth and tests.", []string{"Go", "PostgreSQL", "JWT"}, 30},
			{"Event-driven notifier", models.RoadmapAdvanced, "Fan out events to websocket clients.", []string{"Go", "NATS", "WebSockets"}, 60},
		},
	}, {
		name: "Mobile Development", icon: "phone_android", difficulty: "Beginner", duration: "6-9 months",
		description: "Build Android and iOS apps from one codebase.",
		keySkills:   []string{"Dart", "Flutter", "State management"},
		levels: [3]seedLevel{
			{"First screens", "Widgets, layout and navigation.", "2 months", []string{"Widgets", "Layouts"}},
			{"Connected apps", "Calling APIs and storing data locally.", "3 months", []string{"HTTP", "Local storage"}},
			{"Shipping", "Testing, performance and store releases.", "3 months", []string{"Integration tests", "Release builds"}},
		},
		resources: []seedResource{
			{models.RoadmapBeginner, "doc", "Flutter documentation", "https://docs.flutter.dev/", true},
		},
		projects: []seedProject{
			{"Habit tracker", models.RoadmapBeginner, "Local-only daily checklist.", []string{"Flutter"}, 12},
			{"Weather app", models.RoadmapIntermediate, "Forecasts from a public API.", []string{"Flutter", "REST"}, 20},
		},
	}}},
	{"Data Science & Artificial Intelligence", "smart_toy", []seedPath{{
		name: "Machine Learning", icon: "psychology", difficulty: "Advanced", duration: "12 months",
		description: "Train, evaluate and deploy predictive models.",
		keySkills:   []string{"Python", "Statistics", "scikit-learn"},
		levels: [3]seedLevel{
			{"Data literacy", "Python, pandas and descriptive statistics.", "3 months", []string{"pandas", "Plotting"}},
			{"Classical models", "Regression, trees and model evaluation.", "4 months", []string{"Cross-validation", "Feature engineering"}},
			{"Deep learning", "Neural networks and serving models.", "5 months", []string{"PyTorch", "Model serving"}},
		},
		resources: []seedResource{
			{models.RoadmapIntermediate, "course", "Machine Learning Crash Course", "https://developers.google.com/machine-learning/crash-course", true},
		},
		projects: []seedProject{
			{"House price model", models.RoadmapIntermediate, "Predict prices from listings.", []string{"Python", "scikit-learn"}, 25},
		},
	}}},
	{"Cybersecurity & Infrastructure", "shield", []seedPath{{
		name: "Cloud & DevOps", icon: "cloud", difficulty: "Intermediate", duration: "9 months",
		description: "Automate builds, deployments and infrastructure.",
		keySkills:   []string{"Linux", "Docker", "CI/CD"},
		levels: [3]seedLevel{
			{"Linux and networking", "Shell, processes and TCP/IP.", "2 months", []string{"Bash", "Networking"}},
			{"Automation", "Containers and pipelines.", "3 months", []string{"Docker", "GitHub Actions"}},
			{"Operating at scale", "Orchestration and monitoring.", "4 months", []string{"Kubernetes", "Prometheus"}},
		},
		projects: []seedProject{
			{"Dockerised blog", models.RoadmapBeginner, "Containerise a small web app.", []string{"Docker"}, 8},
		},
	}}},
	{"Specialized & Emerging Fields", "science", nil},
	{"Research & Leadership", "school", nil},
}

// SeedRoadmaps inserts the default roadmap categories and paths if none
// exist.
func (db *DB) SeedRoadmaps(ctx context.Context) error {
	var count int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM roadmap_categories`).Scan(&count); err != nil {
		return fmt.Errorf("count roadmap categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	paths := 0
	err := db.InTx(ctx, func(tx *sql.Tx) error {
		paths = 0
		for _, cat := range defaultRoadmaps {
			var catID int64
			if err := tx.QueryRowContext(ctx,
				`INSERT INTO roadmap_categories (name, icon) VALUES (?, ?) RETURNING id`,
				cat.category, cat.icon).Scan(&catID); err != nil {
				return fmt.Errorf("insert roadmap category %s: %w", cat.category, err)
			}
			for i := range cat.paths {
				if err := insertSeedPath(ctx, tx, catID, &cat.paths[i]); err != nil {
					return err
				}
				paths++
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logging.Info().Int("paths", paths).Msg("Seeded learning roadmaps")
	return nil
}

func insertSeedPath(ctx context.Context, tx *sql.Tx, categoryID int64, p *seedPath) error {
	skills, err := encodeList(p.keySkills)
	if err != nil {
		return err
	}
	var pathID int64
	if err := tx.QueryRowContext(ctx, `
		INSERT INTO development_paths (category_id, name, icon, description, difficulty, estimated_duration, key_skills)
		VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		categoryID, p.name, p.icon, p.description, p.difficulty, p.duration, skills).Scan(&pathID); err != nil {
		return fmt.Errorf("insert path %s: %w", p.name, err)
	}

	for i, l := range p.levels {
		topics, err := encodeList(l.topics)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO roadmap_levels (path_id, level_order, level, title, description, duration, topics)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			pathID, i+1, models.RoadmapLevels[i], l.title, l.description, l.duration, topics); err != nil {
			return fmt.Errorf("insert level %s/%d: %w", p.name, i+1, err)
		}
	}
	for _, r := range p.resources {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO roadmap_resources (path_id, level, type, title, url, is_free)
			VALUES (?, ?, ?, ?, ?, ?)`,
			pathID, r.level, r.kind, r.title, r.url, r.free); err != nil {
			return fmt.Errorf("insert resource %s: %w", r.title, err)
		}
	}
	for _, pr := range p.projects {
		tech, err := encodeList(pr.technologies)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO roadmap_projects (path_id, name, level, description, technologies, estimated_hours)
			VALUES (?, ?, ?, ?, ?, ?)`,
			pathID, pr.name, pr.level, pr.description, tech, pr.hours); err != nil {
			return fmt.Errorf("insert project %s: %w", pr.name, err)
		}
	}
	return nil
}
