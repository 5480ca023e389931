package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"alfredoptarigan/career-pathfinder/internal/logger"
	"alfredoptarigan/career-pathfinder/internal/models"
)

func newTestGenerator(llm TextGenerator) *nodeGenerator {
	g := NewNodeGenerator(llm, logger.NewNop()).(*nodeGenerator)
	g.newID = sequentialIDs()
	return g
}

func musicRequest() models.GenerationRequest {
	return models.NewInitialRequest(models.UserProfile{
		ID:               "1",
		CurrentSituation: "student",
		Interests:        []string{"music"},
	})
}

func TestGenerateFencedBareNode(t *testing.T) {
	llm := newScriptedLLM(reply("```json\n{\"title\":\"Explore Music Careers\",\"description\":\"Start here.\",\"options\":[\"Learn theory\",\"Join a band\"]}\n```"))

	resp, err := newTestGenerator(llm).Generate(context.Background(), musicRequest())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	raw, _ := json.Marshal(resp)
	want := `{"node":{"title":"Explore Music Careers","description":"Start here.","options":["Learn theory","Join a band"],"resources":[]}}`
	if string(raw) != want {
		t.Fatalf("got %s\nwant %s", raw, want)
	}
	if llm.calls() != 1 {
		t.Fatalf("calls = %d, want 1", llm.calls())
	}
	first := llm.requests[0]
	if !first.JSON || first.SystemInstruction == "" || !strings.Contains(first.Prompt, `"music"`) {
		t.Fatalf("unexpected first request %#v", first)
	}
}

func TestGenerateRetryExhaustion(t *testing.T) {
	llm := newScriptedLLM(
		reply("I cannot help with that."),
		reply("Still no JSON, sorry"),
		reply(`{"title":"never","description":"asked"}`),
	)

	_, err := newTestGenerator(llm).Generate(context.Background(), musicRequest())
	if !errors.Is(err, ErrInvalidModelJSON) {
		t.Fatalf("expected ErrInvalidModelJSON, got %v", err)
	}
	if err.Error() != "model did not return valid JSON" {
		t.Fatalf("message = %q", err.Error())
	}
	if llm.calls() != 2 {
		t.Fatalf("calls = %d, want exactly 2", llm.calls())
	}
}

func TestGenerateRetryPromptDemandsBareJSON(t *testing.T) {
	llm := newScriptedLLM(
		reply("Here is my idea: a career in music."),
		reply(FallbackNodeJSON),
	)

	resp, err := newTestGenerator(llm).Generate(context.Background(), musicRequest())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.Node.Title != "TBD" || len(resp.Node.Options) != 0 {
		t.Fatalf("fallback node = %#v", resp.Node)
	}
	retry := llm.requests[1]
	if !strings.HasPrefix(retry.Prompt, llm.requests[0].Prompt) {
		t.Fatalf("retry prompt should extend the original")
	}
	if !strings.Contains(retry.Prompt, FallbackNodeJSON) {
		t.Fatalf("retry prompt should carry the fallback object")
	}
}

func TestGenerateRetriesTransportFailure(t *testing.T) {
	llm := newScriptedLLM(
		failure(&UpstreamError{Status: 503, Message: "overloaded"}),
		reply(`{"node":{"title":"Sound Engineer","description":"Mix records.","options":["Intern at a studio"],"resources":[{"title":"Audio course","url":"https://www.coursera.org/audio"}]}}`),
	)

	resp, err := newTestGenerator(llm).Generate(context.Background(), musicRequest())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.Node.Resources[0].Type != models.ResourceCourse || resp.Node.Resources[0].ID != "id-1" {
		t.Fatalf("resource = %#v", resp.Node.Resources[0])
	}
}

func TestGenerateTransportFailureTwice(t *testing.T) {
	llm := newScriptedLLM(
		failure(&UpstreamError{Status: 500, Message: "missing API key", Err: ErrMissingAPIKey}),
		failure(&UpstreamError{Status: 500, Message: "missing API key", Err: ErrMissingAPIKey}),
	)

	_, err := newTestGenerator(llm).Generate(context.Background(), musicRequest())
	if !errors.Is(err, ErrMissingAPIKey) || !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected upstream missing-key error, got %v", err)
	}
	if llm.calls() != 2 {
		t.Fatalf("calls = %d, want 2", llm.calls())
	}
}

func TestGenerateCoercionFailureIsTerminal(t *testing.T) {
	llm := newScriptedLLM(
		reply(`{"answer":"a JSON object without any node"}`),
		reply(FallbackNodeJSON),
	)

	_, err := newTestGenerator(llm).Generate(context.Background(), musicRequest())
	if !errors.Is(err, ErrInvalidModelJSON) {
		t.Fatalf("expected ErrInvalidModelJSON, got %v", err)
	}
	if llm.calls() != 1 {
		t.Fatalf("coercion failure must not retry, calls = %d", llm.calls())
	}
}

func TestGenerateInvalidRequestMakesNoCall(t *testing.T) {
	llm := newScriptedLLM()
	req := models.GenerationRequest{Kind: models.KindNext}

	_, err := newTestGenerator(llm).Generate(context.Background(), req)
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
	if llm.calls() != 0 {
		t.Fatalf("calls = %d, want 0", llm.calls())
	}
}

func TestGenerateStopsWhenCancelled(t *testing.T) {
	llm := newScriptedLLM(failure(context.Canceled), reply(FallbackNodeJSON))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestGenerator(llm).Generate(ctx, musicRequest())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if llm.calls() != 1 {
		t.Fatalf("calls = %d, want 1", llm.calls())
	}
}

func TestGenerateNextPromptCarriesPath(t *testing.T) {
	parent := "n0"
	history := []models.PathNode{{ID: "n0", Title: "Music", Description: "Root", Options: []string{"Production"}, Resources: []models.Resource{}}}
	current := models.PathNode{ID: "n1", Title: "Production", Options: []string{}, Resources: []models.Resource{}, Level: 1, ParentID: &parent}
	req := models.NewNextRequest(*musicRequest().Profile, history, current)

	llm := newScriptedLLM(reply(`Sure: {"title":"Music Production","description":"Make beats.","options":["Learn a DAW","Study mixing","Collaborate","Release a track","Score films","Teach","Overflow"]} bye`))
	resp, err := newTestGenerator(llm).Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(resp.Node.Options) != models.MaxNodeOptions {
		t.Fatalf("options = %d", len(resp.Node.Options))
	}
	prompt := llm.requests[0].Prompt
	for _, want := range []string{"PATH SO FAR", `"Music"`, "CURRENT NODE", `"Production"`} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}
