// Package config loads closet configuration from CUE.
//
// A configuration file is optional. When given, it is unified with the
// embedded closed schema, so unknown fields and out-of-range values are
// rejected and omitted fields take the schema defaults.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

//go:embed schema.cue
var schemaSrc string

// Config is the resolved configuration.
type Config struct {
	Database  string `json:"database"`
	Session   string `json:"session"`
	MaxPasses int    `json:"max_passes"`
	// Seed fixes the randomness source; 0 draws a random seed.
	Seed      uint64 `json:"seed"`
	Separator string `json:"separator"`
	Log       Log    `json:"log"`
}

// Log configures logging.
type Log struct {
	Level string `json:"level"`
	// File receives JSON logs in addition to stderr when set.
	File string `json:"file"`
}

// Default returns the schema defaults.
func Default() (Config, error) {
	return decode(nil, "")
}

// Load reads the CUE file at path. An empty path yields the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default()
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return decode(content, path)
}

// Parse resolves CUE source against the schema.
func Parse(src []byte) (Config, error) {
	return decode(src, "config.cue")
}

func decode(src []byte, filename string) (Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString("close({" + schemaSrc + "})", cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return Config{}, fmt.Errorf("config schema: %w", err)
	}

	value := schema
	if src != nil {
		file := ctx.CompileBytes(src, cue.Filename(filename))
		if err := file.Err(); err != nil {
			return Config{}, fmt.Errorf("config %s: %w", filename, err)
		}
		value = schema.Unify(file)
	}

	if err := value.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", filename, err)
	}

	var cfg Config
	if err := value.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", filename, err)
	}
	return cfg, nil
}
