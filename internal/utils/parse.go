package utils

import (
	"encoding/json"

	"github.com/kaptinlin/jsonrepair"
)

// emptyJSONObject is the fallback value when an argument string cannot be
// coerced into a JSON object.
var emptyJSONObject = json.RawMessage(`{}`)

// ParseJSONObject coerces a tool-call argument string into a JSON object.
// Models occasionally emit malformed JSON (single quotes, trailing commas,
// unquoted keys); the string is repaired with jsonrepair before giving up.
// When repair also fails, an empty object is returned rather than an error;
// downstream conversation turns must always carry a structured value.
func ParseJSONObject(content string) json.RawMessage {
	if content == "" {
		return emptyJSONObject
	}

	if isJSONObject(content) {
		return json.RawMessage(content)
	}

	repaired, err := jsonrepair.JSONRepair(content)
	if err != nil {
		return emptyJSONObject
	}
	if isJSONObject(repaired) {
		return json.RawMessage(repaired)
	}
	return emptyJSONObject
}

// isJSONObject reports whether content parses as a JSON object.
func isJSONObject(content string) bool {
	var probe map[string]json.RawMessage
	return json.Unmarshal([]byte(content), &probe) == nil
}
