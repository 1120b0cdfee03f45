package bundle

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

func decodeObject(data []byte) (map[string]json.RawMessage, error) {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return map[string]json.RawMessage{}, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("corpus record is not a JSON object: %w", err)
	}
	return fields, nil
}

func isString(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '"'
}

// opaque reports whether a field is present with a JSON-truthy non-string value
func opaque(fields map[string]json.RawMessage, key string) bool {
	raw, ok := fields[key]
	return ok && !isString(raw) && truthy(raw)
}

// str returns the value of a JSON string, or "" for any other JSON type
func str(raw json.RawMessage) string {
	if !isString(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// strs returns the string elements of a JSON array; other elements are dropped
func strs(raw json.RawMessage) []string {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if isString(item) {
			out = append(out, str(item))
		}
	}
	return out
}

// truthy applies JSON truthiness: null, false, 0, "", [] and {} are false
func truthy(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return false
	}

	switch raw[0] {
	case 'n', 'f':
		return false
	case 't':
		return true
	case '"':
		return str(raw) != ""
	case '[':
		var items []json.RawMessage
		return json.Unmarshal(raw, &items) == nil && len(items) > 0
	case '{':
		var fields map[string]json.RawMessage
		return json.Unmarshal(raw, &fields) == nil && len(fields) > 0
	default:
		f, err := strconv.ParseFloat(string(raw), 64)
		return err == nil && f != 0
	}
}

// issue converts an Issue field the way an integer cast would: numbers are
// truncated, strings must hold a base-10 integer, booleans map to 1 and 0.
func issue(raw json.RawMessage) IssueNumber {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return IssueNumber{}
	}

	switch raw[0] {
	case 'n', '[', '{':
		return IssueNumber{}
	case 't':
		return Issue(1)
	case 'f':
		return Issue(0)
	case '"':
		n, err := strconv.Atoi(strings.TrimSpace(str(raw)))
		if err != nil {
			return IssueNumber{}
		}
		return Issue(n)
	default:
		f, err := strconv.ParseFloat(string(raw), 64)
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return IssueNumber{}
		}
		return Issue(int(math.Trunc(f)))
	}
}
