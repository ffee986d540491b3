package runtime

import (
	"fmt"
	"reflect"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

// Package-level validator instance shared by all settings decoding.
var validate = validator.New()

// InitializeSettings is the one call task implementations use to turn raw
// workflow settings into a typed struct. It combines: defaults from struct
// tags → raw value merging → validation.
func InitializeSettings(target any, rawValues map[string]any) error {
	if err := defaults.Set(target); err != nil {
		return fmt.Errorf("failed to apply defaults: %w", err)
	}

	if len(rawValues) > 0 {
		if err := decodeSettings(rawValues, target); err != nil {
			return fmt.Errorf("failed to apply settings values: %w", err)
		}
	}

	targetValue := reflect.ValueOf(target)
	if targetValue.Kind() == reflect.Pointer {
		targetValue = targetValue.Elem()
	}
	if err := validate.Struct(targetValue.Interface()); err != nil {
		return fmt.Errorf("settings validation failed: %w", err)
	}

	return nil
}

// decodeSettings converts a map[string]any to a settings struct using
// mapstructure. It uses json tags for field mapping and supports
// time.Duration and time.Time conversions.
func decodeSettings(m map[string]any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  target,
		TagName: "json",
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		),
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(m); err != nil {
		return fmt.Errorf("failed to decode settings: %w", err)
	}

	return nil
}
