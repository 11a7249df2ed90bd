package attendance

import (
	"strings"

	"campusevents/internal/apperr"
)

// Canonical attendance statuses.
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
)

var presentValues = map[string]bool{
	"present": true, "p": true, "yes": true, "y": true,
	"true": true, "t": true, "1": true, "attended": true,
}

var absentValues = map[string]bool{
	"absent": true, "a": true, "no": true, "n": true,
	"false": true, "f": true, "0": true, "missed": true,
}

// NormalizeStatus maps the many status spellings clients send (booleans,
// 0/1, and case-insensitive synonyms) onto the canonical present/absent
// values. This is the single mapping used by every layer; unrecognized
// values are rejected.
func NormalizeStatus(raw any) (string, error) {
	switch v := raw.(type) {
	case nil:
		return "", apperr.Invalid("status is required")
	case bool:
		if v {
			return StatusPresent, nil
		}
		return StatusAbsent, nil
	case float64: // JSON numbers decode as float64
		if v == 1 {
			return StatusPresent, nil
		}
		if v == 0 {
			return StatusAbsent, nil
		}
	case int:
		if v == 1 {
			return StatusPresent, nil
		}
		if v == 0 {
			return StatusAbsent, nil
		}
	case string:
		s := strings.ToLower(strings.TrimSpace(v))
		if presentValues[s] {
			return StatusPresent, nil
		}
		if absentValues[s] {
			return StatusAbsent, nil
		}
	}
	return "", apperr.Invalid("invalid status value; allowed examples: present, absent, true, false")
}

// IsPresent reports whether a stored status string counts as present.
// Tolerates legacy spellings alongside the canonical value.
func IsPresent(status string) bool {
	return presentValues[strings.ToLower(strings.TrimSpace(status))]
}
