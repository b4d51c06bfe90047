package utils

import (
	"encoding/json"
	"fmt"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// DecodeLLMJSON parses a model response into out, tolerating the usual LLM
// JSON defects. The attempt order is:
//  1. strict json.Unmarshal on the fenced-block-stripped response
//  2. json-repair (missing quotes, trailing commas, unclosed brackets)
//  3. hjson (comments, unquoted keys, optional commas)
//
// An error from all three means the output does not match the schema at all.
func DecodeLLMJSON(raw string, out interface{}) error {
	cleaned := StripCodeFence(raw)

	if err := json.Unmarshal([]byte(cleaned), out); err == nil {
		return nil
	}

	if repaired, err := jsonrepair.RepairJSON(cleaned); err == nil {
		if err := json.Unmarshal([]byte(repaired), out); err == nil {
			return nil
		}
	}

	if err := hjson.Unmarshal([]byte(cleaned), out); err == nil {
		return nil
	}

	return fmt.Errorf("response is not parseable as JSON (len=%d)", len(cleaned))
}

// StripCodeFence removes an outer markdown code block (```json ... ```) and
// surrounding whitespace from a model response.
func StripCodeFence(input string) string {
	cleaned := strings.TrimSpace(input)
	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}
	cleaned = strings.TrimPrefix(cleaned, "```")
	// Drop a language tag on the opening fence.
	if idx := strings.Index(cleaned, "\n"); idx >= 0 {
		firstLine := strings.TrimSpace(cleaned[:idx])
		if len(firstLine) <= 10 && !strings.ContainsAny(firstLine, "{}[]\"") {
			cleaned = cleaned[idx+1:]
		}
	}
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	return strings.TrimSpace(cleaned)
}
