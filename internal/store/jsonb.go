package store

import "encoding/json"

// jsonbValue marshals a slice-valued field for storage in a jsonb column.
// A nil slice is stored as an empty JSON array rather than JSON null so the
// columns keep well-typed array values.
func jsonbValue(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if string(raw) == "null" {
		return []byte("[]"), nil
	}
	return raw, nil
}

// scanJSONB unmarshals a jsonb column value into dest. Empty and NULL
// values leave dest untouched.
func scanJSONB(raw []byte, dest any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dest)
}
