package rooms

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Parse pulls the JSON object out of free-form model text. It takes everything
// from the first '{' to the last '}' and trusts the shape; field type
// mismatches are tolerated and the raw object is kept.
func Parse(text string) (AnalysisResult, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < 0 {
		return AnalysisResult{}, ErrNoJSONObject
	}
	if end < start {
		return AnalysisResult{}, fmt.Errorf("%w: closing brace before opening brace", ErrInvalidJSON)
	}

	candidate := []byte(text[start : end+1])
	if !json.Valid(candidate) {
		return AnalysisResult{}, fmt.Errorf("%w: %d bytes", ErrInvalidJSON, len(candidate))
	}

	var res AnalysisResult
	if err := json.Unmarshal(candidate, &res); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return AnalysisResult{}, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
		}
	}
	res.raw = candidate
	return res, nil
}

// Extract is Parse with the default result substituted for any failure.
func Extract(text string) AnalysisResult {
	res, err := Parse(text)
	if err != nil {
		return DefaultResult()
	}
	return res
}
