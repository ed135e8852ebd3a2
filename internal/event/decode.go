package event

import "encoding/json"

// DecodePayload converts an event payload into T. Payloads published through
// the in-process MemoryBus arrive as the concrete struct and assert directly;
// anything that crossed a serialization boundary gets a JSON round-trip.
func DecodePayload[T any](input interface{}) (T, error) {
	if typed, ok := input.(T); ok {
		return typed, nil
	}

	var decoded T
	raw, err := json.Marshal(input)
	if err != nil {
		return decoded, err
	}
	return decoded, json.Unmarshal(raw, &decoded)
}
