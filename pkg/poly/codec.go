package poly

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/aretw0/weave/internal/kernel"
)

// MarshalPosition encodes a position as a JSON array of slots.
func MarshalPosition(pos Position) ([]byte, error) {
	return json.Marshal(kernel.Slots(pos))
}

// UnmarshalPosition decodes data into a position of a. Every slot is decoded
// into the Go type its leaf declared, so typed transitions keep working after a
// round trip through storage.
func UnmarshalPosition(a *Agent, data []byte) (Position, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Position{}, fmt.Errorf("decode position: %w", err)
	}
	types := kernel.SlotTypes(a)
	if len(raw) != len(types) {
		return Position{}, fmt.Errorf("decode position: %d slots, agent %q has %d", len(raw), a.Name(), len(types))
	}

	slots := make([]any, len(raw))
	for i, msg := range raw {
		if string(msg) == "null" {
			continue
		}
		if types[i] == nil {
			var v any
			if err := json.Unmarshal(msg, &v); err != nil {
				return Position{}, fmt.Errorf("decode slot %d: %w", i, err)
			}
			slots[i] = v
			continue
		}
		ptr := reflect.New(types[i])
		if err := json.Unmarshal(msg, ptr.Interface()); err != nil {
			return Position{}, fmt.Errorf("decode slot %d: %w", i, err)
		}
		slots[i] = ptr.Elem().Interface()
	}

	pos := kernel.FromSlots(slots)
	if !a.Contains(pos) {
		return Position{}, &ForeignPosition{Agent: a.Name(), Position: pos}
	}
	return pos, nil
}
