// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/skillswap/internal/models"
)

// levelRank orders roadmap rows Beginner, Intermediate, Advanced, then
// anything else.
const levelRank = `CASE level
		WHEN 'Beginner' THEN 1
		WHEN 'Intermediate' THEN 2
		WHEN 'Advanced' THEN 3
		ELSE 4
	END`

const pathSelect = `
	SELECT p.id, p.category_id, c.name, p.name, p.icon, p.description,
	       COALESCE(p.detailed_description, ''), p.difficulty, p.estimated_duration, p.key_skills
	FROM development_paths p
	JOIN roadmap_categories c ON c.id = p.category_id`

// decodeList parses a JSON array column. Rows written by hand with a bad
// value decode as an empty list rather than failing the whole query.
func decodeList(raw string) []string {
	out := []string{}
	if raw == "" {
		return out
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return []string{}
	}
	return out
}

func encodeList(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("encode list: %w", err)
	}
	return string(b), nil
}

func scanPath(row rowScanner) (*models.DevelopmentPath, error) {
	p := &models.DevelopmentPath{}
	var skills string
	if err := row.Scan(&p.ID, &p.CategoryID, &p.CategoryName, &p.Name, &p.Icon, &p.Description,
		&p.DetailedDescription, &p.Difficulty, &p.EstimatedDuration, &skills); err != nil {
		return nil, err
	}
	p.KeySkills = decodeList(skills)
	return p, nil
}

// ListPaths returns every development path grouped by category.
func (db *DB) ListPaths(ctx context.Context) ([]models.DevelopmentPath, error) {
	rows, err := db.conn.QueryContext(ctx, pathSelect+` ORDER BY c.id, p.id`)
	if err != nil {
		return nil, fmt.Errorf("query paths: %w", err)
	}
	defer rows.Close()

	out := make([]models.DevelopmentPath, 0)
	for rows.Next() {
		p, err := scanPath(rows)
		if err != nil {
			return nil, fmt.Errorf("scan path: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// GetPath returns one development path.
func (db *DB) GetPath(ctx context.Context, pathID int64) (*models.DevelopmentPath, error) {
	p, err := scanPath(db.conn.QueryRowContext(ctx, pathSelect+` WHERE p.id = ?`, pathID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("Development path not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get path: %w", err)
	}
	return p, nil
}

// GetUserRoadmap returns the path the user follows. A user who has not
// picked a path gets ErrNotFound.
func (db *DB) GetUserRoadmap(ctx context.Context, userID int64) (*models.UserRoadmap, error) {
	rm := &models.UserRoadmap{}
	err := db.conn.QueryRowContext(ctx, `
		SELECT ur.user_id, ur.path_id, p.name, p.icon, ur.current_level, ur.progress_percentage,
		       ur.started_at, ur.updated_at
		FROM user_roadmaps ur
		JOIN development_paths p ON p.id = ur.path_id
		WHERE ur.user_id = ?`, userID).
		Scan(&rm.UserID, &rm.PathID, &rm.PathName, &rm.PathIcon, &rm.CurrentLevel,
			&rm.ProgressPercentage, &rm.StartedAt, &rm.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("No roadmap selected")
	}
	if err != nil {
		return nil, fmt.Errorf("get roadmap: %w", err)
	}
	return rm, nil
}

// SelectPath makes pathID the user's roadmap. Switching paths restarts at
// Beginner with no progress.
func (db *DB) SelectPath(ctx context.Context, userID, pathID int64) (*models.UserRoadmap, error) {
	if _, err := db.GetPath(ctx, pathID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, invalidInput("Invalid path_id")
		}
		return nil, err
	}

	err := db.InTx(ctx, func(tx *sql.Tx) error {
		now := time.Now().UTC()
		res, err := tx.ExecContext(ctx, `
			UPDATE user_roadmaps
			SET path_id = ?, current_level = ?, progress_percentage = 0, started_at = ?, updated_at = ?
			WHERE user_id = ?`, pathID, models.RoadmapBeginner, now, now, userID)
		if err != nil {
			return fmt.Errorf("update roadmap: %w", err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			return nil
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO user_roadmaps (user_id, path_id, current_level, progress_percentage, started_at, updated_at)
			VALUES (?, ?, ?, 0, ?, ?)`, userID, pathID, models.RoadmapBeginner, now, now)
		if isUniqueViolation(err) {
			return conflict("Roadmap changed concurrently, retry")
		}
		if err != nil {
			return fmt.Errorf("insert roadmap: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return db.GetUserRoadmap(ctx, userID)
}

// UpdateRoadmapProgress records the user's level and percentage on their
// current path.
func (db *DB) UpdateRoadmapProgress(ctx context.Context, userID int64, level string, progress int) (*models.UserRoadmap, error) {
	if !models.ValidRoadmapLevel(level) {
		return nil, invalidInput("Invalid level. Must be Beginner, Intermediate, or Advanced")
	}
	if progress < 0 || progress > 100 {
		return nil, invalidInput("Progress must be between 0 and 100")
	}

	res, err := db.conn.ExecContext(ctx, `
		UPDATE user_roadmaps SET current_level = ?, progress_percentage = ?, updated_at = ?
		WHERE user_id = ?`, level, progress, time.Now().UTC(), userID)
	if err != nil {
		return nil, fmt.Errorf("update roadmap progress: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, notFound("No roadmap found for this user")
	}
	return db.GetUserRoadmap(ctx, userID)
}

// ListPathLevels returns a path's levels in climbing order.
func (db *DB) ListPathLevels(ctx context.Context, pathID int64) ([]models.RoadmapLevel, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, path_id, level_order, level, title, description, duration, topics
		FROM roadmap_levels WHERE path_id = ? ORDER BY level_order`, pathID)
	if err != nil {
		return nil, fmt.Errorf("query levels: %w", err)
	}
	defer rows.Close()

	out := make([]models.RoadmapLevel, 0)
	for rows.Next() {
		var (
			l      models.RoadmapLevel
			topics string
		)
		if err := rows.Scan(&l.ID, &l.PathID, &l.LevelOrder, &l.Level, &l.Title, &l.Description,
			&l.Duration, &topics); err != nil {
			return nil, fmt.Errorf("scan level: %w", err)
		}
		l.Topics = decodeList(topics)
		out = append(out, l)
	}
	return out, rows.Err()
}

// ListPathResources returns a path's resources. resourceType and level
// filter when non-empty.
func (db *DB) ListPathResources(ctx context.Context, pathID int64, resourceType, level string) ([]models.RoadmapResource, error) {
	query := `
		SELECT id, path_id, level, type, title, url, COALESCE(description, ''), is_free
		FROM roadmap_resources WHERE path_id = ?`
	args := []interface{}{pathID}
	if resourceType != "" {
		query += ` AND type = ?`
		args = append(args, resourceType)
	}
	if level != "" {
		query += ` AND level = ?`
		args = append(args, level)
	}
	query += ` ORDER BY ` + levelRank + `, id`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query resources: %w", err)
	}
	defer rows.Close()

	out := make([]models.RoadmapResource, 0)
	for rows.Next() {
		var res models.RoadmapResource
		if err := rows.Scan(&res.ID, &res.PathID, &res.Level, &res.Type, &res.Title, &res.URL,
			&res.Description, &res.IsFree); err != nil {
			return nil, fmt.Errorf("scan resource: %w", err)
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// ListPathProjects returns a path's projects from Beginner to Advanced.
// level filters when non-empty.
func (db *DB) ListPathProjects(ctx context.Context, pathID int64, level string) ([]models.RoadmapProject, error) {
	query := `
		SELECT id, path_id, name, level, description, technologies, COALESCE(github_url, ''), estimated_hours
		FROM roadmap_projects WHERE path_id = ?`
	args := []interface{}{pathID}
	if level != "" {
		query += ` AND level = ?`
		args = append(args, level)
	}
	query += ` ORDER BY ` + levelRank + `, id`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	out := make([]models.RoadmapProject, 0)
	for rows.Next() {
		var (
			p    models.RoadmapProject
			tech string
		)
		if err := rows.Scan(&p.ID, &p.PathID, &p.Name, &p.Level, &p.Description, &tech,
			&p.GithubURL, &p.EstimatedHours); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		p.Technologies = decodeList(tech)
		out = append(out, p)
	}
	return out, rows.Err()
}

const (
	roadmapLearningTips = "Practice daily and build real projects."
	roadmapNextSteps    = "Join a community on this path and offer a skill you already have."
)

// PathRecommendations suggests what to do next on a path. When the user
// follows the path the suggestion starts from their level: a finished level
// (100%) moves them on to the next one.
func (db *DB) PathRecommendations(ctx context.Context, userID, pathID int64) (*models.RoadmapRecommendation, error) {
	path, err := db.GetPath(ctx, pathID)
	if err != nil {
		return nil, err
	}

	level := models.RoadmapBeginner
	rm, err := db.GetUserRoadmap(ctx, userID)
	switch {
	case err == nil && rm.PathID == pathID:
		level = nextRoadmapLevel(rm.CurrentLevel, rm.ProgressPercentage)
	case err != nil && !errors.Is(err, ErrNotFound):
		return nil, err
	}

	rec := &models.RoadmapRecommendation{
		PathID:            pathID,
		RecommendedSkills: path.KeySkills,
		NextLevel:         level,
		LearningTips:      roadmapLearningTips,
		NextSteps:         roadmapNextSteps,
	}
	projects, err := db.ListPathProjects(ctx, pathID, level)
	if err != nil {
		return nil, err
	}
	if len(projects) > 0 {
		rec.NextProject = &projects[0]
	}
	return rec, nil
}

// nextRoadmapLevel returns the level a learner should work on. Advanced is
// the last level.
func nextRoadmapLevel(current string, progress int) string {
	if progress < 100 {
		return current
	}
	for i, l := range models.RoadmapLevels {
		if l == current && i+1 < len(models.RoadmapLevels) {
			return models.RoadmapLevels[i+1]
		}
	}
	return current
}
