package schema

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Decode converts a generic JSON value (as produced by encoding/json into
// an any) into out, which must be a pointer to a struct. Field names follow
// the json tags, embedded structs are flattened and string values are
// parsed into encoding.TextUnmarshaler fields such as uuid.UUID.
func Decode(input, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "json",
		Squash:     true,
		DecodeHook: mapstructure.TextUnmarshallerHookFunc(),
		Result:     out,
	})
	if err != nil {
		return fmt.Errorf("creating decoder: %w", err)
	}
	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
