// Skillswap - Skill Exchange Platform with a Coin Ledger
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillswap

package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/tomtom215/skillswap/internal/models"
)

func TestRoadmapFlow(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)
	u := s.createUser(t, "roadmapper")

	w, env := s.do(t, http.MethodGet, "/api/v1/roadmaps/paths", u.token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list paths status = %d, body %s", w.Code, w.Body.String())
	}
	var paths []models.DevelopmentPath
	decodeData(t, env, &paths)
	if len(paths) == 0 || paths[0].Name != "Backend Development" {
		t.Fatalf("paths = %+v", paths)
	}
	backend := paths[0]

	w, env = s.do(t, http.MethodGet, "/api/v1/roadmaps/me", u.token, nil)
	if w.Code != http.StatusOK || len(env.Data) != 0 {
		t.Errorf("roadmap before selection: status %d, data %s", w.Code, env.Data)
	}

	w, _ = s.do(t, http.MethodPut, "/api/v1/roadmaps/me", u.token, SelectPathBody{PathID: 999999})
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown path status = %d, want 400", w.Code)
	}

	w, env = s.do(t, http.MethodPut, "/api/v1/roadmaps/me", u.token, SelectPathBody{PathID: backend.ID})
	if w.Code != http.StatusOK {
		t.Fatalf("select path status = %d, body %s", w.Code, w.Body.String())
	}
	var rm models.UserRoadmap
	decodeData(t, env, &rm)
	if rm.UserID != u.ID || rm.PathID != backend.ID || rm.CurrentLevel != models.RoadmapBeginner {
		t.Errorf("roadmap = %+v", rm)
	}

	w, _ = s.do(t, http.MethodPut, "/api/v1/roadmaps/me/progress", u.token,
		RoadmapProgressBody{CurrentLevel: "Expert", ProgressPercentage: 10})
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad level status = %d, want 400", w.Code)
	}
	w, _ = s.do(t, http.MethodPut, "/api/v1/roadmaps/me/progress", u.token,
		RoadmapProgressBody{CurrentLevel: models.RoadmapBeginner, ProgressPercentage: 101})
	if w.Code != http.StatusBadRequest {
		t.Errorf("progress 101 status = %d, want 400", w.Code)
	}

	w, env = s.do(t, http.MethodPut, "/api/v1/roadmaps/me/progress", u.token,
		RoadmapProgressBody{CurrentLevel: models.RoadmapBeginner, ProgressPercentage: 100})
	if w.Code != http.StatusOK {
		t.Fatalf("progress status = %d, body %s", w.Code, w.Body.String())
	}
	decodeData(t, env, &rm)
	if rm.ProgressPercentage != 100 {
		t.Errorf("roadmap after progress = %+v", rm)
	}

	w, env = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/roadmaps/paths/%d/recommendations", backend.ID), u.token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("recommendations status = %d", w.Code)
	}
	var rec models.RoadmapRecommendation
	decodeData(t, env, &rec)
	if rec.NextLevel != models.RoadmapIntermediate {
		t.Errorf("recommendation = %+v", rec)
	}

	w, env = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/roadmaps/paths/%d/projects", backend.ID), u.token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("projects status = %d", w.Code)
	}
	var projects []models.RoadmapProject
	decodeData(t, env, &projects)
	for i, p := range projects {
		if p.Level != models.RoadmapLevels[i] {
			t.Errorf("project %d level = %s, want %s", i, p.Level, models.RoadmapLevels[i])
		}
	}

	w, _ = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/roadmaps/paths/%d/resources?level=Expert", backend.ID), u.token, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad level filter status = %d, want 400", w.Code)
	}

	w, _ = s.do(t, http.MethodGet, "/api/v1/roadmaps/paths/999999", u.token, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown path status = %d, want 404", w.Code)
	}
}

func TestRoadmapProgress_WithoutPath(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)
	u := s.createUser(t, "drifter")

	w, _ := s.do(t, http.MethodPut, "/api/v1/roadmaps/me/progress", u.token,
		RoadmapProgressBody{CurrentLevel: models.RoadmapBeginner, ProgressPercentage: 10})
	if w.Code != http.StatusNotFound {
		t.Errorf("progress without a path status = %d, want 404", w.Code)
	}
}
