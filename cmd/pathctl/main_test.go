package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"alfredoptarigan/career-pathfinder/internal/models"
)

func fakeServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/generate", func(w http.ResponseWriter, r *http.Request) {
		var req models.GenerationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"bad"}`, http.StatusBadRequest)
			return
		}
		title := "Software Engineering"
		if req.Kind == models.KindNext {
			title = req.CurrentNode.Title + " Path"
		}
		_ = json.NewEncoder(w).Encode(models.GenerationResponse{Node: models.GeneratedNode{
			Title:       title,
			Description: "A next step.",
			Options:     []string{"Backend", "Frontend"},
			Resources:   []models.Resource{},
		}})
	})
	mux.HandleFunc("/api/resources", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(models.DiscoveryResponse{Resources: []models.Resource{
			{ID: "r1", Title: "Go Tour", Type: models.ResourceCourse, URL: "https://go.dev/tour", Source: "llm"},
			{ID: "r2", Title: "Effective Go", Type: models.ResourceWebsite, URL: "https://go.dev/doc/effective_go", Source: "llm"},
		}})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type cli struct {
	t    *testing.T
	args []string
}

func (c cli) run(args ...string) (string, error) {
	c.t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(append([]string{}, c.args...), args...))
	err := cmd.Execute()
	return out.String(), err
}

func (c cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	if err != nil {
		c.t.Fatalf("pathctl %v: %v\n%s", args, err, out)
	}
	return out
}

func TestPathctlSession(t *testing.T) {
	srv := fakeServer(t)
	dir := t.TempDir()
	profile := filepath.Join(dir, "me.yaml")
	if err := os.WriteFile(profile, []byte("currentSituation: Bootcamp graduate\ninterests:\n  - web\n  - go\ngoals: Get a first job\n"), 0o644); err != nil {
		t.Fatalf("write profile: %v", err)
	}
	c := cli{t: t, args: []string{"--api", srv.URL, "--store", "file", "--dsn", filepath.Join(dir, "state"), "--client", "test"}}

	out := c.mustRun("start", "--profile", profile)
	if !strings.Contains(out, "[level 0] Software Engineering") || !strings.Contains(out, "+10 XP") || !strings.Contains(out, "new badge: First Step") {
		t.Fatalf("start output:\n%s", out)
	}

	out = c.mustRun("choose", "1")
	if !strings.Contains(out, "[level 1] Backend Path") {
		t.Fatalf("choose output:\n%s", out)
	}

	out = c.mustRun("show")
	if !strings.Contains(out, "0. Software Engineering") || !strings.Contains(out, "  1. Backend Path") {
		t.Fatalf("show output:\n%s", out)
	}

	out = c.mustRun("resources", "--save", "2")
	if !strings.Contains(out, "1. [course] Go Tour") || !strings.Contains(out, "saved Effective Go (r2)") {
		t.Fatalf("resources output:\n%s", out)
	}

	out = c.mustRun("saved")
	if !strings.Contains(out, "r2\twebsite\tEffective Go") {
		t.Fatalf("saved output:\n%s", out)
	}

	out = c.mustRun("progress")
	if !strings.Contains(out, "level 1 (25 XP)") || !strings.Contains(out, "nodes visited: 2") {
		t.Fatalf("progress output:\n%s", out)
	}

	out = c.mustRun("back", "0")
	if !strings.Contains(out, "[level 0] Software Engineering") {
		t.Fatalf("back output:\n%s", out)
	}

	c.mustRun("unsave", "r2")
	if out := c.mustRun("saved"); !strings.Contains(out, "no saved resources") {
		t.Fatalf("saved after unsave:\n%s", out)
	}

	c.mustRun("reset")
	if out := c.mustRun("show"); !strings.Contains(out, "no path yet") {
		t.Fatalf("show after reset:\n%s", out)
	}
}

func TestPathctlArgumentErrors(t *testing.T) {
	c := cli{t: t, args: []string{"--store", "memory"}}
	if _, err := c.run("start"); err == nil {
		t.Fatalf("start without --profile or --resume should fail")
	}
	if _, err := c.run("choose", "zero"); err == nil {
		t.Fatalf("non-numeric option should fail")
	}
	if _, err := c.run("choose", "1"); err == nil {
		t.Fatalf("choose without a path should fail")
	}
	if _, err := c.run("unsave", "missing"); err == nil {
		t.Fatalf("unsave of unknown id should fail")
	}
}

func TestReadProfileFile(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.yaml")
	_ = os.WriteFile(empty, []byte("goals: nothing else\n"), 0o644)
	if _, err := readProfileFile(empty); err == nil {
		t.Fatalf("profile without situation or interests should fail")
	}

	ok := filepath.Join(dir, "ok.yaml")
	_ = os.WriteFile(ok, []byte("currentSituation: Nurse\n"), 0o644)
	p, err := readProfileFile(ok)
	if err != nil {
		t.Fatalf("readProfileFile: %v", err)
	}
	if p.Interests == nil || p.CurrentSituation != "Nurse" {
		t.Fatalf("profile = %#v", p)
	}
}
