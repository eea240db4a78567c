package ai

import "strings"

// extractJSONObject returns the substring between the first '{' and the last
// '}' of s. LLM output routinely wraps JSON in prose or markdown fences, so
// callers parse this slice rather than the raw response. The second return is
// false when no object can be located; callers must treat that as a parse
// failure, not as an empty object.
func extractJSONObject(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return s[start : end+1], true
}
