package services

import (
	"encoding/json"
	"regexp"
	"strings"
)

// ParseStrategy names the lenient-parse step that produced a value.
type ParseStrategy string

const (
	StrategyNone     ParseStrategy = ""
	StrategyWhole    ParseStrategy = "whole"
	StrategyFence    ParseStrategy = "fence"
	StrategyBraces   ParseStrategy = "braces"
	StrategyBrackets ParseStrategy = "brackets"
)

var fencePattern = regexp.MustCompile("(?is)```(?:json)?[ \\t]*\\r?\\n?(.*?)```")

// ExtractJSONObject tries, in order: the whole text, the first fenced code
// block, and the span from the first '{' to the last '}'. Only a JSON object
// counts as a match.
func ExtractJSONObject(text string) (map[string]any, ParseStrategy, bool) {
	for _, step := range objectSteps {
		candidate, ok := step.slice(text)
		if !ok {
			continue
		}
		if obj, ok := decodeObject(candidate); ok {
			return obj, step.name, true
		}
	}
	return nil, StrategyNone, false
}

// ExtractJSONValue is ExtractJSONObject that also accepts a top-level array.
// After the whole text and the fenced block, the span that opens first
// ('{' or '[') is tried before the other.
func ExtractJSONValue(text string) (any, ParseStrategy, bool) {
	steps := []parseStep{{StrategyWhole, wholeText}, {StrategyFence, fencedBlock}}
	objStart, arrStart := strings.Index(text, "{"), strings.Index(text, "[")
	if arrStart != -1 && (objStart == -1 || arrStart < objStart) {
		steps = append(steps, parseStep{StrategyBrackets, bracketSpan}, parseStep{StrategyBraces, braceSpan})
	} else {
		steps = append(steps, parseStep{StrategyBraces, braceSpan}, parseStep{StrategyBrackets, bracketSpan})
	}

	for _, step := range steps {
		candidate, ok := step.slice(text)
		if !ok {
			continue
		}
		var v any
		if err := json.Unmarshal([]byte(candidate), &v); err != nil {
			continue
		}
		switch v.(type) {
		case map[string]any, []any:
			return v, step.name, true
		}
	}
	return nil, StrategyNone, false
}

// StripCodeFences removes markdown fence markers and trims the result.
func StripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	if m := fencePattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```JSON", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

type parseStep struct {
	name  ParseStrategy
	slice func(string) (string, bool)
}

var objectSteps = []parseStep{
	{StrategyWhole, wholeText},
	{StrategyFence, fencedBlock},
	{StrategyBraces, braceSpan},
}

func wholeText(text string) (string, bool) {
	text = strings.TrimSpace(text)
	return text, text != ""
}

func fencedBlock(text string) (string, bool) {
	m := fencePattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	inner := strings.TrimSpace(m[1])
	return inner, inner != ""
}

func braceSpan(text string) (string, bool) {
	return span(text, "{", "}")
}

func bracketSpan(text string) (string, bool) {
	return span(text, "[", "]")
}

func span(text, open, close string) (string, bool) {
	start := strings.Index(text, open)
	end := strings.LastIndex(text, close)
	if start == -1 || end == -1 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

func decodeObject(candidate string) (map[string]any, bool) {
	var v any
	if err := json.Unmarshal([]byte(candidate), &v); err != nil {
		return nil, false
	}
	obj, ok := v.(map[string]any)
	return obj, ok
}
