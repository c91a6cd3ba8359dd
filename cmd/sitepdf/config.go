package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is loaded from the working directory if present.
const DefaultConfigFile = "sitepdf.yaml"

// YAML is a kong.ConfigurationLoader for YAML files keyed by flag name.
// Top-level keys apply to every command; a mapping named after a command
// holds values for that command only:
//
//	verbose: true
//	build:
//	  max-size: 50MB
//	  concurrency: 8
//
// Flags whose environment variable is set are left to the environment.
func YAML(r io.Reader) (kong.Resolver, error) {
	values := map[string]any{}
	if err := yaml.NewDecoder(r).Decode(&values); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return kong.ResolverFunc(func(_ *kong.Context, parent *kong.Path, flag *kong.Flag) (any, error) {
		for _, env := range flag.Envs {
			if _, ok := os.LookupEnv(env); ok {
				return nil, nil
			}
		}

		raw, ok := values[flag.Name]
		if parent != nil && parent.Command != nil {
			if section, isMap := values[parent.Command.Name].(map[string]any); isMap {
				if v, found := section[flag.Name]; found {
					raw, ok = v, true
				}
			}
		}
		if !ok || raw == nil {
			return nil, nil
		}
		switch raw.(type) {
		case map[string]any, []any:
			return nil, fmt.Errorf("config key %q must be a scalar", flag.Name)
		}
		return fmt.Sprint(raw), nil
	}), nil
}
