package attendance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/google/uuid"
)

// punchNamespace seeds name-based fallback IDs so the same punch always
// receives the same ID across runs.
var punchNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("attendance-engine/punch"))

// NormalizePunches flattens any supported punch source into a new slice.
// Supported: []Punch, map[string]Punch (keyed by ID), QuerySnapshot,
// DataEnvelope, and their JSON encodings as []byte or json.RawMessage.
// Unrecognized sources yield an empty slice. Ignored punches are dropped.
func NormalizePunches(source any) []attendance.Punch {
	var collected []attendance.Punch

	switch src := source.(type) {
	case nil:
		return []attendance.Punch{}
	case []attendance.Punch:
		collected = append(collected, src...)
	case map[string]attendance.Punch:
		collected = fromKeyed(src)
	case attendance.QuerySnapshot:
		collected = fromDocs(src.Docs)
	case *attendance.QuerySnapshot:
		if src != nil {
			collected = fromDocs(src.Docs)
		}
	case attendance.DataEnvelope:
		collected = append(collected, src.Data...)
	case *attendance.DataEnvelope:
		if src != nil {
			collected = append(collected, src.Data...)
		}
	case json.RawMessage:
		collected = decodeSource(src)
	case []byte:
		collected = decodeSource(src)
	default:
		slog.Warn("Unrecognized punch source, treating as empty", "type", fmt.Sprintf("%T", source))
		return []attendance.Punch{}
	}

	punches := make([]attendance.Punch, 0, len(collected))
	for i, p := range collected {
		if p.ID == "" {
			p.ID = fallbackID(p, i)
		}
		if p.Ignored {
			continue
		}
		punches = append(punches, p)
	}
	return punches
}

func fromKeyed(src map[string]attendance.Punch) []attendance.Punch {
	keys := make([]string, 0, len(src))
	for k := range src {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]attendance.Punch, 0, len(keys))
	for _, k := range keys {
		p := src[k]
		if p.ID == "" {
			p.ID = k
		}
		out = append(out, p)
	}
	return out
}

func fromDocs(docs []attendance.DocumentSnapshot) []attendance.Punch {
	out := make([]attendance.Punch, 0, len(docs))
	for _, doc := range docs {
		if doc.Data == nil {
			continue
		}
		p := doc.Data()
		if p.ID == "" {
			p.ID = doc.ID
		}
		out = append(out, p)
	}
	return out
}

// jsonDoc is the wire form of a query-result document.
type jsonDoc struct {
	ID   string          `json:"id"`
	Data attendance.Punch `json:"data"`
}

func decodeSource(raw []byte) []attendance.Punch {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}

	switch raw[0] {
	case '[':
		var punches []attendance.Punch
		if err := json.Unmarshal(raw, &punches); err != nil {
			slog.Warn("Failed to decode punch array", "error", err)
			return nil
		}
		return punches
	case '{':
	default:
		slog.Warn("Unrecognized punch source JSON, treating as empty")
		return nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		slog.Warn("Failed to decode punch object", "error", err)
		return nil
	}

	if data, ok := fields["data"]; ok && isJSONArray(data) {
		var punches []attendance.Punch
		if err := json.Unmarshal(data, &punches); err != nil {
			slog.Warn("Failed to decode punch envelope", "error", err)
			return nil
		}
		return punches
	}

	if docsRaw, ok := fields["docs"]; ok && isJSONArray(docsRaw) {
		var docs []jsonDoc
		if err := json.Unmarshal(docsRaw, &docs); err != nil {
			slog.Warn("Failed to decode punch documents", "error", err)
			return nil
		}
		out := make([]attendance.Punch, 0, len(docs))
		for _, d := range docs {
			p := d.Data
			if p.ID == "" {
				p.ID = d.ID
			}
			out = append(out, p)
		}
		return out
	}

	// Id-keyed map; entries that are not punch objects are skipped.
	keyed := make(map[string]attendance.Punch, len(fields))
	for k, v := range fields {
		if !isJSONObject(v) {
			slog.Warn("Skipping non-object punch entry", "key", k)
			continue
		}
		var p attendance.Punch
		if err := json.Unmarshal(v, &p); err != nil {
			slog.Warn("Skipping undecodable punch entry", "key", k, "error", err)
			continue
		}
		keyed[k] = p
	}
	return fromKeyed(keyed)
}

func isJSONArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

func isJSONObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}

func fallbackID(p attendance.Punch, index int) string {
	name := strings.Join([]string{
		p.EmployeeID,
		p.PunchTimestampUTC,
		p.PunchTime,
		p.AttDate,
		p.AttendanceStatus,
		p.PunchFrom,
		strconv.Itoa(index),
	}, "|")
	return uuid.NewSHA1(punchNamespace, []byte(name)).String()
}
