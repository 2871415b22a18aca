// Package homework validates API payloads and turns homework entries into notifications.
package homework

import (
	"bytes"
	"encoding/json"
	"sort"

	"homework_bot/internal/failure"
	"homework_bot/internal/model"
)

// Validate checks that the response carries both required fields and
// returns the homework list unchanged. Field presence is checked before shape.
// Entries are left undecoded; Parse checks the one that gets reported.
func Validate(raw model.RawResponse) ([]json.RawMessage, error) {
	var missing []string
	for _, key := range []string{model.FieldHomeworks, model.FieldCurrentDate} {
		if _, ok := raw[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, failure.Errorf(failure.KindMissingField, "validate response",
			"not enough data in the API response: %v", missing)
	}

	data := bytes.TrimSpace(raw[model.FieldHomeworks])
	if len(data) == 0 || data[0] != '[' {
		return nil, failure.Errorf(failure.KindTypeMismatch, "validate response",
			"%s is not a list", model.FieldHomeworks)
	}

	var homeworks []json.RawMessage
	if err := json.Unmarshal(data, &homeworks); err != nil {
		return nil, failure.New(failure.KindTypeMismatch, "validate response", err)
	}
	return homeworks, nil
}
