package utils

import "testing"

type sliceTarget []struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func TestDecodeLLMJSONStrict(t *testing.T) {
	var out sliceTarget
	err := DecodeLLMJSON(`[{"title":"A","body":"text"}]`, &out)
	if err != nil {
		t.Fatalf("DecodeLLMJSON failed: %v", err)
	}
	if len(out) != 1 || out[0].Title != "A" {
		t.Errorf("unexpected decode result: %+v", out)
	}
}

func TestDecodeLLMJSONFencedBlock(t *testing.T) {
	raw := "```json\n[{\"title\":\"A\",\"body\":\"text\"}]\n```"
	var out sliceTarget
	if err := DecodeLLMJSON(raw, &out); err != nil {
		t.Fatalf("fenced block should decode: %v", err)
	}
	if len(out) != 1 {
		t.Errorf("expected 1 element, got %d", len(out))
	}
}

func TestDecodeLLMJSONTrailingComma(t *testing.T) {
	var out sliceTarget
	if err := DecodeLLMJSON(`[{"title":"A","body":"text",},]`, &out); err != nil {
		t.Fatalf("trailing commas should be repaired: %v", err)
	}
	if len(out) != 1 || out[0].Body != "text" {
		t.Errorf("unexpected decode result: %+v", out)
	}
}

func TestDecodeLLMJSONGarbageFails(t *testing.T) {
	var out sliceTarget
	if err := DecodeLLMJSON("I could not produce the analysis, sorry.", &out); err == nil {
		t.Error("plain prose must not decode as JSON")
	}
}

func TestStripCodeFenceNoFence(t *testing.T) {
	if got := StripCodeFence("  plain text  "); got != "plain text" {
		t.Errorf("expected trimmed passthrough, got %q", got)
	}
}

func TestStripCodeFenceLanguageTag(t *testing.T) {
	if got := StripCodeFence("```json\n{\"a\":1}\n```"); got != `{"a":1}` {
		t.Errorf("expected fence and tag removed, got %q", got)
	}
}

func TestCleanNarrativeStripsLeadIn(t *testing.T) {
	got := CleanNarrative("Here is the analysis: Revenue grew 12% on volume.")
	if got != "Revenue grew 12% on volume." {
		t.Errorf("expected lead-in stripped, got %q", got)
	}
}
