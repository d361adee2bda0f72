// Package pageconfig reads the JSON file that sits next to a mini-app page or
// component script.
package pageconfig

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalid is returned when a config file does not match the schema.
var ErrInvalid = errors.New("invalid page config")

//go:embed schema.json
var schemaBytes []byte

// Config is the part of a page config the converter cares about.
type Config struct {
	// UsingComponents maps tag names to component paths as written.
	UsingComponents map[string]string `json:"usingComponents"`
	// Title is navigationBarTitleText.
	Title     string `json:"navigationBarTitleText"`
	Component bool   `json:"component"`
}

// Parse validates data against the page config schema and decodes it.
func Parse(data []byte) (*Config, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaBytes),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, verr := range result.Errors() {
			problems = append(problems, verr.Field()+": "+verr.Description())
		}

		return nil, fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}

	var cfg Config

	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	return &cfg, nil
}

// Load reads the config file at path. A missing file yields an empty Config
// and no error; scripts without one are common.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Config{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("read page config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// PathFor returns the config path of a script path.
func PathFor(scriptPath string) string {
	return strings.TrimSuffix(scriptPath, ".js") + ".json"
}
