package services

import (
	"errors"
	"testing"

	"alfredoptarigan/career-pathfinder/internal/models"
)

func TestDecodeGenerationRequestInitial(t *testing.T) {
	req, err := DecodeGenerationRequest([]byte(`{"kind":"initial","profile":{"id":"1","currentSituation":"student","interests":["music"]}}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if req.Kind != models.KindInitial || req.Profile == nil {
		t.Fatalf("unexpected request %#v", req)
	}
	if req.Profile.CurrentSituation != "student" || req.Profile.Interests[0] != "music" {
		t.Fatalf("profile = %#v", req.Profile)
	}
	if req.ActiveProfile() != req.Profile {
		t.Fatalf("ActiveProfile should return the initial profile")
	}
}

func TestDecodeGenerationRequestNext(t *testing.T) {
	body := `{
		"kind":"next",
		"userProfile":{"id":"1","currentSituation":"student","interests":[]},
		"pathHistory":[{"id":"n0","title":"Root","description":"d","options":["a"],"resources":[{"id":"r","title":"R","type":"paper","url":"https://arxiv.org/abs/1"}],"level":0}],
		"currentNode":{"id":"n1","title":"a","description":"","options":[],"level":1,"parentId":"n0"}
	}`
	req, err := DecodeGenerationRequest([]byte(body))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if req.Kind != models.KindNext || len(req.PathHistory) != 1 || req.CurrentNode == nil {
		t.Fatalf("unexpected request %#v", req)
	}
	if req.CurrentNode.ParentID == nil || *req.CurrentNode.ParentID != "n0" {
		t.Fatalf("parentId lost: %#v", req.CurrentNode)
	}
	if req.CurrentNode.Resources == nil {
		t.Fatalf("missing resources should decode as empty")
	}
	if req.ActiveProfile() != req.UserProfile {
		t.Fatalf("ActiveProfile should return userProfile for next")
	}
}

func TestDecodeGenerationRequestRejects(t *testing.T) {
	cases := map[string]string{
		"empty":             ``,
		"not json":          `{kind:initial}`,
		"no kind":           `{"profile":{"id":"1","currentSituation":"","interests":[]}}`,
		"unknown kind":      `{"kind":"final"}`,
		"missing profile":   `{"kind":"initial"}`,
		"profile no id":     `{"kind":"initial","profile":{"currentSituation":"x","interests":[]}}`,
		"blank id":          `{"kind":"initial","profile":{"id":" ","currentSituation":"x","interests":[]}}`,
		"no interests":      `{"kind":"initial","profile":{"id":"1","currentSituation":"x"}}`,
		"wrong type":        `{"kind":"initial","profile":{"id":1,"currentSituation":"x","interests":[]}}`,
		"next no history":   `{"kind":"next","userProfile":{"id":"1","currentSituation":"x","interests":[]},"currentNode":{"id":"n","title":"t","description":"d","options":[],"level":0}}`,
		"next no current":   `{"kind":"next","userProfile":{"id":"1","currentSituation":"x","interests":[]},"pathHistory":[]}`,
		"negative level":    `{"kind":"next","userProfile":{"id":"1","currentSituation":"x","interests":[]},"pathHistory":[],"currentNode":{"id":"n","title":"t","description":"d","options":[],"level":-1}}`,
		"node no options":   `{"kind":"next","userProfile":{"id":"1","currentSituation":"x","interests":[]},"pathHistory":[],"currentNode":{"id":"n","title":"t","description":"d","level":0}}`,
		"bad resource type": `{"kind":"next","userProfile":{"id":"1","currentSituation":"x","interests":[]},"pathHistory":[],"currentNode":{"id":"n","title":"t","description":"d","options":[],"level":0,"resources":[{"id":"r","title":"R","type":"book"}]}}`,
		"relative url":      `{"kind":"next","userProfile":{"id":"1","currentSituation":"x","interests":[]},"pathHistory":[],"currentNode":{"id":"n","title":"t","description":"d","options":[],"level":0,"resources":[{"id":"r","title":"R","type":"course","url":"/x"}]}}`,
		"resource no id":    `{"kind":"next","userProfile":{"id":"1","currentSituation":"x","interests":[]},"pathHistory":[],"currentNode":{"id":"n","title":"t","description":"d","options":[],"level":0,"resources":[{"title":"R","type":"course"}]}}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeGenerationRequest([]byte(body))
			if !errors.Is(err, ErrInvalidRequest) {
				t.Fatalf("expected ErrInvalidRequest, got %v", err)
			}
		})
	}
}

func TestValidateGenerationRequestTyped(t *testing.T) {
	if err := ValidateGenerationRequest(models.GenerationRequest{Kind: models.KindInitial}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("initial without profile: %v", err)
	}
	profile := models.UserProfile{ID: "1", Interests: []string{}}
	if err := ValidateGenerationRequest(models.NewInitialRequest(profile)); err != nil {
		t.Fatalf("valid initial: %v", err)
	}
	next := models.NewNextRequest(profile, nil, models.PathNode{ID: "n", Title: "t", Level: 1})
	if err := ValidateGenerationRequest(next); err != nil {
		t.Fatalf("valid next: %v", err)
	}
	next.CurrentNode = nil
	if err := ValidateGenerationRequest(next); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("next without current: %v", err)
	}
}
