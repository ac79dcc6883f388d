package upstream

import (
	"encoding/json"
	"testing"
)

func TestAssistantTextPlainString(t *testing.T) {
	resp := ChatResponse{Response: json.RawMessage(`"Gigi Anda terlihat sehat."`)}

	if got := resp.AssistantText(); got != "Gigi Anda terlihat sehat." {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestAssistantTextFieldPriority(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"content wins", `{"content":"a","message":"b","text":"c"}`, "a"},
		{"message next", `{"message":"b","text":"c"}`, "b"},
		{"text next", `{"text":"c","response":"d"}`, "c"},
		{"response last", `{"response":"d"}`, "d"},
	}

	for _, tc := range cases {
		resp := ChatResponse{Response: json.RawMessage(tc.raw)}
		if got := resp.AssistantText(); got != tc.want {
			t.Fatalf("%s: got %q want %q", tc.name, got, tc.want)
		}
	}
}

func TestAssistantTextNestedObject(t *testing.T) {
	resp := ChatResponse{Response: json.RawMessage(`{"content":{"text":"nested"}}`)}

	if got := resp.AssistantText(); got != "nested" {
		t.Fatalf("expected nested unwrap, got %q", got)
	}
}

func TestAssistantTextPlaceholder(t *testing.T) {
	cases := []json.RawMessage{
		nil,
		json.RawMessage(`{}`),
		json.RawMessage(`{"unknown":"x"}`),
		json.RawMessage(`""`),
		json.RawMessage(`42`),
	}

	for _, raw := range cases {
		resp := ChatResponse{Response: raw}
		if got := resp.AssistantText(); got != PlaceholderText {
			t.Fatalf("raw %s: expected placeholder, got %q", raw, got)
		}
	}
}
