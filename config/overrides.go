package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/golobby/cast"
)

// ApplyOverrides coerces each string value in overrides onto the matching
// exported field of cfg, keyed by the field's "toml" struct tag (the same
// tag LoadTOML decodes with). Coercion uses cast.FromType to turn a raw
// string into a field's declared type, so a caller building overrides
// from os.Args or process environment variables doesn't need to
// hand-parse bools/durations itself.
func ApplyOverrides(cfg *SimulatorConfig, overrides map[string]string) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	tagged := make(map[string]reflect.Value, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("toml")
		if tag == "" {
			continue
		}
		tagged[strings.ToLower(tag)] = v.Field(i)
	}

	for key, raw := range overrides {
		field, ok := tagged[strings.ToLower(key)]
		if !ok {
			return fmt.Errorf("config: unknown override key %q", key)
		}
		coerced, err := cast.FromType(raw, field.Type())
		if err != nil {
			return fmt.Errorf("config: coercing override %q=%q: %w", key, raw, err)
		}
		field.Set(reflect.ValueOf(coerced))
	}
	return nil
}
