package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"alfredoptarigan/career-pathfinder/internal/models"
)

// FallbackNodeJSON is the minimal valid answer the retry prompt offers the model.
const FallbackNodeJSON = `{"node":{"title":"TBD","description":"TBD","options":[],"resources":[]}}`

const nodeSystemInstruction = `You are a pragmatic career exploration guide. You help one person explore career paths one step at a time, as a branching tree.

Always answer with a single JSON object and nothing else, in exactly this shape:
{
  "node": {
    "title": "<short step title>",
    "description": "<at most 2 sentences>",
    "options": ["<next choice>", "..."],
    "resources": [
      {
        "title": "<resource name>",
        "url": "<absolute https URL>",
        "type": "course | video | website | tool",
        "description": "<one sentence>",
        "difficulty": "beginner | intermediate | advanced",
        "duration": "<e.g. 4 weeks, 20 min>"
      }
    ]
  }
}

Rules:
- Options must be mutually exclusive and actionable; each is a concrete next move the person could pick.
- Resources must be credible, real and well known; level them with "difficulty".
- Keep the tone encouraging and specific to the person's situation. No filler.`

const profileSystemInstruction = `You read résumés and summarize them for a career exploration tool.

Answer with a single JSON object and nothing else:
{
  "currentSituation": "<one or two sentences about where the person is now>",
  "interests": ["<topic>", "..."],
  "experience": "<short summary of relevant experience>",
  "goals": "<stated or clearly implied goals, empty string if none>"
}`

const discoverySystemInstruction = `You recommend learning resources. Only recommend resources that really exist and that you are confident about.

Answer with a single JSON object and nothing else:
{
  "resources": [
    {
      "title": "<resource name>",
      "url": "<absolute https URL>",
      "type": "course | video | website | thread | paper",
      "description": "<one sentence on why it helps>"
    }
  ]
}
Rank the best resource first. Return at most 12.`

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

func (pb *PromptBuilder) NodeSystemInstruction() string { return nodeSystemInstruction }

func (pb *PromptBuilder) ProfileSystemInstruction() string { return profileSystemInstruction }

func (pb *PromptBuilder) DiscoverySystemInstruction() string { return discoverySystemInstruction }

// BuildNodePrompt serializes whichever request variant it is given.
func (pb *PromptBuilder) BuildNodePrompt(req models.GenerationRequest) string {
	if req.Kind == models.KindNext {
		return pb.buildNextNodePrompt(req)
	}
	return pb.buildInitialNodePrompt(req)
}

func (pb *PromptBuilder) buildInitialNodePrompt(req models.GenerationRequest) string {
	return fmt.Sprintf(`Create the ROOT node of a career exploration tree for this person.

USER PROFILE:
%s

The root node should name the broad direction that fits this person best, describe it in at most 2 sentences, and offer 3-6 options for where to go first. Include up to 6 resources to get started.`,
		toPromptJSON(req.Profile))
}

func (pb *PromptBuilder) buildNextNodePrompt(req models.GenerationRequest) string {
	return fmt.Sprintf(`Advance one step along this person's career exploration path.

USER PROFILE:
%s

PATH SO FAR (root first):
%s

CURRENT NODE (the step the person just chose):
%s

Produce the node for the current step: a title, a description of at most 2 sentences, 3-6 options for the next step, and up to 6 resources that help with this step. Do not repeat options already taken in the path.`,
		toPromptJSON(req.UserProfile),
		toPromptJSON(pathSummary(req.PathHistory)),
		toPromptJSON(req.CurrentNode))
}

// BuildRetryPrompt appends the bare-JSON demand used for the second attempt.
func (pb *PromptBuilder) BuildRetryPrompt(prompt string) string {
	return prompt + `

IMPORTANT: Your previous answer could not be parsed. Reply with bare JSON only: no prose, no markdown, no code fences.
If you are uncertain, reply with exactly this object:
` + FallbackNodeJSON
}

func (pb *PromptBuilder) BuildProfilePrompt(resumeText string) string {
	return fmt.Sprintf(`Summarize this résumé into the JSON profile shape.

RÉSUMÉ:
%s`, resumeText)
}

func (pb *PromptBuilder) BuildDiscoveryPrompt(query string) string {
	return fmt.Sprintf(`Find the most useful learning resources for:
%s

Prefer free, well-maintained material. Mix formats when it helps (courses, videos, articles, discussion threads, papers).`, query)
}

type pathStep struct {
	Level       int      `json:"level"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Options     []string `json:"options"`
}

// pathSummary drops resources and ids from the history to keep prompts short.
func pathSummary(history []models.PathNode) []pathStep {
	steps := make([]pathStep, 0, len(history))
	for _, n := range history {
		steps = append(steps, pathStep{
			Level:       n.Level,
			Title:       n.Title,
			Description: n.Description,
			Options:     n.Options,
		})
	}
	return steps
}

func toPromptJSON(v any) string {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return strings.TrimSpace(fmt.Sprintf("%+v", v))
	}
	return string(raw)
}
