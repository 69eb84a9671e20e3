package poller

import (
	"encoding/json"
	"fmt"

	"missiondeck/internal/mission"
)

// Fingerprint computes the canonical serialization of a snapshot used for
// change detection. Equality of fingerprints means no downstream work; the
// encoding is deliberately the full content, not a structural diff, so
// out-of-order or no-op field churn still registers as a change only when
// the serialized bytes differ.
func Fingerprint(missions []mission.Mission) (string, error) {
	if missions == nil {
		missions = []mission.Mission{}
	}
	data, err := json.Marshal(missions)
	if err != nil {
		return "", fmt.Errorf("serialize snapshot: %w", err)
	}
	return string(data), nil
}
