package docstore

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodeAll decodes raw JSON documents into out, a pointer to a slice.
// No documents yields an empty, non-nil slice.
func DecodeAll(raws [][]byte, out any) error {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, raw := range raws {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(raw)
	}
	buf.WriteByte(']')
	if err := json.Unmarshal(buf.Bytes(), out); err != nil {
		return fmt.Errorf("docstore: decode documents: %w", err)
	}
	return nil
}

// Normalize round-trips v through JSON so it compares equal to decoded
// document fields (numbers become float64, structs become maps).
func Normalize(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
