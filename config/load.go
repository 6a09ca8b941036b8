package config

import (
	"fmt"

	"github.com/imdario/mergo"
	"github.com/miruken-go/resource"
)

// Load unmarshals the configuration at path into a T.
// Fields the provider does not configure keep the value in
// defaults, including explicit zero values set by the provider.
func Load[T any](
	provider Provider,
	path     string,
	defaults T,
) (T, error) {
	var out T
	if provider == nil {
		panic("provider cannot be nil")
	}
	// maps in defaults are copied so decoding cannot alter them
	if err := mergo.Merge(&out, defaults); err != nil {
		return out, fmt.Errorf("config: %w", err)
	}
	if err := provider.Unmarshal(path, false, &out); err != nil {
		return out, fmt.Errorf("config: %w", err)
	}
	if v, ok := any(&out).(interface {
		Validate() error
	}); ok {
		if err := v.Validate(); err != nil {
			return out, fmt.Errorf("config: %w", err)
		}
	}
	return out, nil
}

// Options loads the resource.Options at path.
func Options(provider Provider, path string) (resource.Options, error) {
	return Load(provider, path, DefaultOptions)
}

// DefaultOptions apply to options not configured.
var DefaultOptions = resource.Options{
	Verbosity: 1,
}
