package services

import (
	"testing"
)

func TestExtractJSONObjectStrategies(t *testing.T) {
	cases := []struct {
		name     string
		text     string
		strategy ParseStrategy
		title    string
	}{
		{"bare", `{"title":"A"}`, StrategyWhole, "A"},
		{"padded", "  \n{\"title\":\"A\"}\n ", StrategyWhole, "A"},
		{"fenced json", "Here you go:\n```json\n{\"title\":\"B\"}\n```\nEnjoy", StrategyFence, "B"},
		{"fenced untagged", "```\n{\"title\":\"C\"}\n```", StrategyFence, "C"},
		{"fenced upper tag", "```JSON\n{\"title\":\"D\"}\n```", StrategyFence, "D"},
		{"embedded in prose", `Sure! {"title":"E","nested":{"x":1}} hope that helps`, StrategyBraces, "E"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			obj, strategy, ok := ExtractJSONObject(tc.text)
			if !ok {
				t.Fatalf("expected a match for %q", tc.text)
			}
			if strategy != tc.strategy {
				t.Fatalf("strategy = %q, want %q", strategy, tc.strategy)
			}
			if obj["title"] != tc.title {
				t.Fatalf("title = %v, want %q", obj["title"], tc.title)
			}
		})
	}
}

func TestExtractJSONObjectFailures(t *testing.T) {
	for _, text := range []string{
		"",
		"no json here",
		"} backwards {",
		`["an","array"]`,
		"```json\nnot json\n```",
		`{"unterminated": `,
	} {
		if obj, _, ok := ExtractJSONObject(text); ok {
			t.Fatalf("expected no object for %q, got %v", text, obj)
		}
	}
}

func TestExtractJSONValueAcceptsArrays(t *testing.T) {
	v, strategy, ok := ExtractJSONValue(`Results: [{"url":"https://a.example"}] done`)
	if !ok {
		t.Fatalf("expected array match")
	}
	if strategy != StrategyBrackets {
		t.Fatalf("strategy = %q, want brackets", strategy)
	}
	arr, isArr := v.([]any)
	if !isArr || len(arr) != 1 {
		t.Fatalf("unexpected value %#v", v)
	}

	v, strategy, ok = ExtractJSONValue(`{"resources":[]}`)
	if !ok || strategy != StrategyWhole {
		t.Fatalf("object should still win: ok=%v strategy=%q", ok, strategy)
	}
	if _, isObj := v.(map[string]any); !isObj {
		t.Fatalf("expected object, got %#v", v)
	}
}

func TestStripCodeFences(t *testing.T) {
	cases := map[string]string{
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```\n{\"a\":1}```":       `{"a":1}`,
		`  {"a":1}  `:             `{"a":1}`,
		"```json {\"a\":1}":       `{"a":1}`,
	}
	for in, want := range cases {
		if got := StripCodeFences(in); got != want {
			t.Fatalf("StripCodeFences(%q) = %q, want %q", in, got, want)
		}
	}
}
