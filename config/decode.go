package config

import (
	"github.com/go-viper/mapstructure/v2"
)

// Decode copies a loose map into out using mapstructure tags.
// Durations may be given as strings ("30s"). Values are not weakly typed:
// a string where a number is expected is an error.
func Decode(input map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
		TagName: "mapstructure",
		Result:  out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}
