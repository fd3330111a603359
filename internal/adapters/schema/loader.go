// Package schema loads the declarative command-argument schema from its
// on-disk TOML form.
package schema

import (
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/fulcrumlabs/fulcrumbot/internal/domain"
)

// flagEntry is the on-disk shape of one flag declaration.
type flagEntry struct {
	Name     string `toml:"name"`
	Type     string `toml:"type"`
	Bit      *int   `toml:"bit,omitempty"`
	Required bool   `toml:"required,omitempty"`
}

type schemaFile struct {
	Flags []flagEntry `toml:"flag"`
}

// Load reads a schema file and builds the validated ArgumentSchema.
func Load(path string) (*domain.ArgumentSchema, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema file %q: %w", path, err)
	}

	var file schemaFile
	if err := toml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode schema file %q: %w", path, err)
	}

	return build(file)
}

func build(file schemaFile) (*domain.ArgumentSchema, error) {
	specs := make([]domain.FlagSpec, 0, len(file.Flags))
	for _, entry := range file.Flags {
		bit := -1
		if entry.Bit != nil {
			bit = *entry.Bit
		}
		specs = append(specs, domain.FlagSpec{
			Name:     entry.Name,
			Type:     domain.FlagType(entry.Type),
			Bit:      bit,
			Required: entry.Required,
		})
	}

	built, err := domain.NewArgumentSchema(specs...)
	if err != nil {
		return nil, fmt.Errorf("build argument schema: %w", err)
	}
	return built, nil
}

// Default is the built-in schema used when no schema file is configured.
func Default() *domain.ArgumentSchema {
	built, err := domain.NewArgumentSchema(
		domain.FlagSpec{Name: "port", Type: domain.FlagInteger, Bit: -1},
		domain.FlagSpec{Name: "seed", Type: domain.FlagInteger, Bit: -1},
		domain.FlagSpec{Name: "world", Type: domain.FlagText, Bit: -1},
		domain.FlagSpec{Name: "view-distance", Type: domain.FlagFloat, Bit: -1},
		domain.FlagSpec{Name: "fresh", Type: domain.FlagBoolean, Bit: 0},
		domain.FlagSpec{Name: "hardcore", Type: domain.FlagBoolean, Bit: 1},
		domain.FlagSpec{Name: "whitelist", Type: domain.FlagBoolean, Bit: 2},
	)
	if err != nil {
		// The built-in schema is fixed; a failure here is a programming error.
		panic(err)
	}
	return built
}
