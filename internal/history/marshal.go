package history

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
)

// marshalSourceInfo converts SourceInfo to JSON TEXT for storage.
// nil maps to SQL NULL. Map keys are sorted by encoding/json, and HTML
// escaping is disabled so stored text matches what the caller supplied.
func marshalSourceInfo(info SourceInfo) (sql.NullString, error) {
	if info == nil {
		return sql.NullString{}, nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(map[string]any(info)); err != nil {
		return sql.NullString{}, fmt.Errorf("marshal source info: %w", err)
	}
	// Encoder adds a trailing newline
	return sql.NullString{String: strings.TrimSpace(buf.String()), Valid: true}, nil
}

// unmarshalSourceInfo parses stored JSON TEXT back to SourceInfo.
// Numbers decode as json.Number so large integers keep their precision.
func unmarshalSourceInfo(data sql.NullString) (SourceInfo, error) {
	if !data.Valid {
		return nil, nil
	}

	dec := json.NewDecoder(strings.NewReader(data.String))
	dec.UseNumber()
	var info SourceInfo
	if err := dec.Decode(&info); err != nil {
		return nil, fmt.Errorf("unmarshal source info: %w", err)
	}
	if info == nil {
		// Stored "null" is treated the same as SQL NULL.
		return nil, nil
	}
	return info, nil
}

// marshalBalance splits a Balance into its stored columns.
func marshalBalance(b Balance) (text string, numeric int) {
	if b.numeric {
		return b.text, 1
	}
	return b.text, 0
}

// unmarshalBalance rebuilds a Balance from its stored columns.
func unmarshalBalance(text string, numeric int) (Balance, error) {
	if numeric == 0 {
		return StringBalance(text), nil
	}
	var b Balance
	if err := b.UnmarshalJSON([]byte(text)); err != nil {
		return Balance{}, err
	}
	return b, nil
}
