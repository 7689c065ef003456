// Package entity contains the core business objects of the marketplace client.
package entity

import (
	"bytes"
	"encoding/json"
	"strconv"

	"tiffin/internal/errors"
)

// ID is a record identifier in canonical string form. The API sends some
// identifiers as JSON numbers and others as strings; both decode to the same ID,
// so 9 and "9" compare equal.
type ID string

// IDFromInt builds an ID from a numeric identifier.
func IDFromInt(n int64) ID {
	return ID(strconv.FormatInt(n, 10))
}

// String returns the canonical form.
func (id ID) String() string {
	return string(id)
}

// IsZero reports whether the identifier is missing.
func (id ID) IsZero() bool {
	return id == ""
}

// MarshalJSON writes integer identifiers back as JSON numbers and everything else as strings.
func (id ID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(string(id)), nil
	}

	return json.Marshal(string(id))
}

// UnmarshalJSON accepts a JSON string, a JSON number or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""

		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return errors.Wrap(err, "decode string id")
		}
		*id = ID(s)

		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.Wrapf(err, "decode id %s", data)
	}
	*id = ID(n.String())

	return nil
}

// legacyID reads the `_id` field some payloads use instead of `id`.
func legacyID(data []byte) ID {
	var aux struct {
		LegacyID ID `json:"_id"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return ""
	}

	return aux.LegacyID
}
