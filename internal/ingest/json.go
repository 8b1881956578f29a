package ingest

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Field synonyms checked in order; the first present key wins.
var (
	timestampFields = []string{"timestamp", "time", "date"}
	levelFields     = []string{"level", "severity", "priority"}
	messageFields   = []string{"message", "msg", "text", "description"}
	sourceFields    = []string{"source", "component", "service", "logger"}
)

// FlattenJSON rewrites structured log content into the plain line grammar.
// Each line that is a JSON object becomes one pseudo-log-line of the form
//
//	<timestamp>,[<LEVEL>] [<source>] <message>
//
// with absent fields omitted. Lines that are not JSON objects pass through
// untouched, so mixed files degrade gracefully. Content that is a single JSON
// array of objects is treated as one object per element.
func FlattenJSON(content string) string {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "[") {
		if lines, ok := flattenArray(trimmed); ok {
			return lines
		}
	}

	var out strings.Builder
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, "\r")
		if out.Len() > 0 {
			out.WriteByte('\n')
		}
		if obj, ok := decodeObject(line); ok {
			out.WriteString(flattenObject(obj))
		} else {
			out.WriteString(line)
		}
	}
	return out.String()
}

func flattenArray(content string) (string, bool) {
	var objs []map[string]any
	if err := json.Unmarshal([]byte(content), &objs); err != nil {
		return "", false
	}
	lines := make([]string, 0, len(objs))
	for _, obj := range objs {
		lines = append(lines, flattenObject(obj))
	}
	return strings.Join(lines, "\n"), true
}

func decodeObject(line string) (map[string]any, bool) {
	s := strings.TrimSpace(line)
	if !strings.HasPrefix(s, "{") {
		return nil, false
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return nil, false
	}
	return obj, true
}

func flattenObject(obj map[string]any) string {
	var parts []string

	if ts := firstField(obj, timestampFields); ts != "" {
		parts = append(parts, ts+",")
	}
	if level := firstField(obj, levelFields); level != "" {
		parts = append(parts, "["+strings.ToUpper(level)+"]")
	}
	if source := firstField(obj, sourceFields); source != "" {
		parts = append(parts, "["+source+"]")
	}
	if msg := firstField(obj, messageFields); msg != "" {
		parts = append(parts, msg)
	}

	if len(parts) == 0 {
		// Nothing recognizable; keep the object readable rather than empty.
		raw, _ := json.Marshal(obj)
		return string(raw)
	}

	return strings.Join(parts, " ")
}

func firstField(obj map[string]any, keys []string) string {
	for _, k := range keys {
		v, ok := obj[k]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case string:
			if s := strings.TrimSpace(t); s != "" {
				return s
			}
		case float64:
			return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", t), "0"), ".")
		}
	}
	return ""
}
