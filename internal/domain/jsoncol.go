package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSON columns hold embedded sub-documents (order items, shipping, replies).

func scanJSON(src any, dst any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dst)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("unsupported json column type %T", src)
	}
}

func valueJSON(v any) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Strings is a JSON-encoded list of strings.
type Strings []string

func (s *Strings) Scan(src any) error { return scanJSON(src, s) }

func (s Strings) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	return valueJSON([]string(s))
}
