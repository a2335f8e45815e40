package llm

import "strings"

// CleanJSONBlock strips the wrapping LLMs put around JSON payloads even when
// told not to: markdown code fences, conversational preambles, and trailing
// chatter. The first complete object or array in the text is returned; text
// carrying neither comes back fence-stripped only.
func CleanJSONBlock(text string) string {
	text = stripFences(strings.TrimSpace(text))
	if body := firstJSONValue(text); body != "" {
		return body
	}
	return text
}

func stripFences(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	// The fence line may carry a language identifier ("json", "javascript")
	if idx := strings.Index(text, "\n"); idx >= 0 {
		lang := strings.TrimSpace(text[:idx])
		if len(lang) < 20 && !strings.ContainsAny(lang, " {[") {
			text = text[idx+1:]
		}
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

// firstJSONValue returns the first balanced JSON object or array in text.
// Delimiters inside string literals do not count toward nesting.
func firstJSONValue(text string) string {
	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return ""
	}
	open := text[start]
	var closer byte = '}'
	if open == '[' {
		closer = ']'
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == open:
			depth++
		case c == closer:
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}
