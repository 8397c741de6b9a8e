package eventlog

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
)

// CanonicalJSON serializes events as a JSON array with every object's keys
// sorted lexicographically at every depth and no insignificant whitespace,
// matching §4.15's replay-hash contract.
func CanonicalJSON(events []Event) ([]byte, error) {
	raw, err := json.Marshal(events)
	if err != nil {
		return nil, err
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writeCanonical(&buf, decoded)
	return buf.Bytes(), nil
}

// ReplayHash computes the lowercase hex SHA-256 digest of the events'
// canonical JSON encoding.
func ReplayHash(events []Event) (string, error) {
	canonical, err := CanonicalJSON(events)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

func writeCanonical(buf *bytes.Buffer, value any) {
	switch v := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			keyBytes, _ := json.Marshal(k)
			buf.Write(keyBytes)
			buf.WriteByte(':')
			writeCanonical(buf, v[k])
		}
		buf.WriteByte('}')
	case []any:
		buf.WriteByte('[')
		for i, item := range v {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeCanonical(buf, item)
		}
		buf.WriteByte(']')
	default:
		encoded, _ := json.Marshal(v)
		buf.Write(encoded)
	}
}
