package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

// RawValue keeps a form field exactly as submitted. JSON numbers, strings,
// booleans and null are all accepted so a malformed field never fails decoding.
type RawValue string

func (r *RawValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*r = ""
			return nil
		}
		*r = RawValue(s)
		return nil
	}
	*r = RawValue(data)
	return nil
}

func (r RawValue) String() string {
	return strings.TrimSpace(string(r))
}

func (r RawValue) IsBlank() bool {
	return r.String() == ""
}
