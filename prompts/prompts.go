package prompts

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed prompts.yaml
var defaultPrompts []byte

var store map[string]string

// Load reads the prompt store from the given YAML file. When path is empty it
// falls back to the PROMPTS_FILE environment variable, and finally to the
// embedded defaults shipped with the binary.
func Load(path string) error {
	if path == "" {
		path = os.Getenv("PROMPTS_FILE")
	}

	data := defaultPrompts
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read prompts file %s: %w", path, err)
		}
		data = b
	}

	parsed := make(map[string]string)
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("failed to parse prompts file: %w", err)
	}

	store = parsed
	return nil
}

func Get(key string) string {
	if store == nil {
		// Lazy-load the embedded defaults so library consumers and tests
		// don't have to call Load explicitly.
		if err := Load(""); err != nil {
			return ""
		}
	}
	return store[key]
}

func MustGet(key string) string {
	val := Get(key)
	if val == "" {
		panic(fmt.Sprintf("prompt %q not found in prompts.yaml", key))
	}
	return val
}

// GetAll returns a copy of all loaded prompts.
func GetAll() map[string]string {
	if store == nil {
		return nil
	}
	cp := make(map[string]string, len(store))
	for k, v := range store {
		cp[k] = v
	}
	return cp
}
