package recipeparse

// Extract returns every top-level {...} span of raw, in order. Braces inside
// string literals are ignored, and a span still open at the end of the input
// is dropped. Quotes in the prose between objects do not open strings.
func Extract(raw string) []string {
	var chunks []string
	depth := 0
	start := -1
	inString := false
	escaped := false

	for i := 0; i < len(raw); i++ {
		c := raw[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = depth > 0
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				// stray closer outside any object
				continue
			}
			depth--
			if depth == 0 {
				chunks = append(chunks, raw[start:i+1])
				start = -1
			}
		}
	}
	return chunks
}
