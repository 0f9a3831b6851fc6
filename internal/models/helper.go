package models

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// StringsJSON packs a string slice into a jsonb column value.
func StringsJSON(values []string) datatypes.JSON {
	if values == nil {
		values = []string{}
	}
	data, _ := json.Marshal(values)
	return data
}

// JSONStrings unpacks a jsonb column value into a string slice.
// Malformed or empty data yields an empty slice.
func JSONStrings(data datatypes.JSON) []string {
	if len(data) == 0 {
		return nil
	}
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return nil
	}
	return values
}
