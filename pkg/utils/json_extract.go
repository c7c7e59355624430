package utils

import (
	"encoding/json"
	"strings"
)

// DecodeLooseJSON decodes an object from model output that may carry prose around it.
// It tries the whole string first, then the span from the first '{' to the last '}'.
// The span is greedy: two separate objects in one reply produce an invalid span and fail.
func DecodeLooseJSON(response string, v any) error {
	response = strings.TrimSpace(response)
	if strings.HasPrefix(response, "{") {
		if err := json.Unmarshal([]byte(response), v); err == nil {
			return nil
		}
	}

	candidate, ok := GreedyBraceSpan(response)
	if !ok {
		return ErrExtractionParse
	}
	if err := json.Unmarshal([]byte(candidate), v); err != nil {
		return ErrExtractionParse
	}
	return nil
}

func GreedyBraceSpan(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return s[start : end+1], true
}
