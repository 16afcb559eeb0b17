package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// TranslatedString holds per-locale values for a translatable field,
// keyed by BCP-47 locale tag. Stored as JSON in a TEXT column.
type TranslatedString map[string]string

// In returns the value for the given locale, falling back to empty.
func (t TranslatedString) In(locale string) string {
	return t[locale]
}

func (t TranslatedString) Value() (driver.Value, error) {
	if t == nil {
		return "{}", nil
	}
	b, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (t *TranslatedString) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*t = TranslatedString{}
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("cannot scan %T into TranslatedString", src)
	}
	if len(data) == 0 {
		*t = TranslatedString{}
		return nil
	}
	return json.Unmarshal(data, t)
}
