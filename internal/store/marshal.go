package store

import (
	"fmt"

	"github.com/roach88/journalized/internal/ir"
)

// marshalObject converts an attribute object to canonical JSON TEXT for storage.
// A nil object is stored as "{}".
func marshalObject(obj ir.Object) (string, error) {
	if obj == nil {
		return "{}", nil
	}
	data, err := ir.MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("marshal attributes: %w", err)
	}
	return string(data), nil
}

// unmarshalObject parses canonical JSON TEXT back into an attribute object.
// Integers are decoded via json.Number so values above 2^53 survive.
func unmarshalObject(data string) (ir.Object, error) {
	obj, err := ir.ParseObject(data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal attributes: %w", err)
	}
	return obj, nil
}
