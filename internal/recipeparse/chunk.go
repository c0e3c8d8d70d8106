package recipeparse

import (
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// SkipReason says why a chunk did not produce an object.
type SkipReason int

const (
	SkipNone SkipReason = iota
	SkipMalformed
	SkipNotObject
)

func (r SkipReason) String() string {
	switch r {
	case SkipNone:
		return "none"
	case SkipMalformed:
		return "malformed"
	case SkipNotObject:
		return "not_object"
	default:
		return "unknown"
	}
}

// ChunkResult is the outcome of parsing one chunk: either an object Value or
// a SkipReason with the error that caused it.
type ChunkResult struct {
	Chunk    string
	Value    Value
	Repaired bool
	Skip     SkipReason
	Err      error
}

func (r ChunkResult) OK() bool {
	return r.Skip == SkipNone
}

// ParseChunks parses every chunk independently, keeping input order.
func ParseChunks(chunks []string) []ChunkResult {
	results := make([]ChunkResult, 0, len(chunks))
	for _, c := range chunks {
		results = append(results, ParseChunk(c))
	}
	return results
}

// ParseChunk tries a strict parse first, then the lenient repairs.
func ParseChunk(chunk string) ChunkResult {
	v, repaired, err := parseLenient(chunk)
	if err != nil {
		return ChunkResult{Chunk: chunk, Skip: SkipMalformed, Err: err}
	}
	if v.Kind() != KindObject {
		return ChunkResult{
			Chunk: chunk,
			Skip:  SkipNotObject,
			Err:   fmt.Errorf("chunk decoded to %s, want object", v.Kind()),
		}
	}
	return ChunkResult{Chunk: chunk, Value: v, Repaired: repaired}
}

// ParsedObjects keeps the successful results.
func ParsedObjects(results []ChunkResult) []Value {
	var out []Value
	for _, r := range results {
		if r.OK() {
			out = append(out, r.Value)
		}
	}
	return out
}

func parseLenient(s string) (Value, bool, error) {
	v, err := ParseValue(s)
	if err == nil {
		return v, false, nil
	}

	if fixed := StripTrailingCommas(s); fixed != s {
		if v, ferr := ParseValue(fixed); ferr == nil {
			return v, true, nil
		}
	}

	repairedJSON, repairErr := repairJSON(s)
	if repairErr != nil {
		return Value{}, false, fmt.Errorf("failed to parse chunk and failed to repair JSON: parse error: %w, repair error: %v", err, repairErr)
	}
	v, rerr := ParseValue(repairedJSON)
	if rerr != nil {
		return Value{}, false, fmt.Errorf("failed to parse repaired JSON: %w", rerr)
	}
	return v, true, nil
}

func repairJSON(s string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("jsonrepair panicked: %v", r)
		}
	}()
	return jsonrepair.JSONRepair(s)
}

// StripTrailingCommas removes commas that directly precede a closing brace
// or bracket, ignoring anything inside string literals.
func StripTrailingCommas(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			b.WriteByte(c)
			continue
		}
		if c == '"' {
			inString = true
		}
		if c == ',' {
			j := i + 1
			for j < len(s) && isJSONSpace(s[j]) {
				j++
			}
			if j < len(s) && (s[j] == '}' || s[j] == ']') {
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

func isJSONSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\r' || c == '\t'
}
