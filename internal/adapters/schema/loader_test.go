package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulcrumlabs/fulcrumbot/internal/domain"
)

func writeSchemaFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schema.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadBuildsSchemaFromTOML(t *testing.T) {
	t.Parallel()

	path := writeSchemaFile(t, `
[[flag]]
name = "port"
type = "integer"

[[flag]]
name = "world"
type = "text"
required = true

[[flag]]
name = "fresh"
type = "boolean"
bit = 0
`)

	schema, err := Load(path)
	require.NoError(t, err)

	port, ok := schema.Lookup("port")
	require.True(t, ok)
	assert.Equal(t, domain.FlagInteger, port.Type)
	assert.Equal(t, -1, port.Bit)

	world, ok := schema.Lookup("world")
	require.True(t, ok)
	assert.True(t, world.Required)

	fresh, ok := schema.Lookup("fresh")
	require.True(t, ok)
	assert.Equal(t, domain.FlagBoolean, fresh.Type)
	assert.Equal(t, 0, fresh.Bit)

	names := make([]string, 0, 3)
	for _, spec := range schema.Flags() {
		names = append(names, spec.Name)
	}
	assert.Equal(t, []string{"port", "world", "fresh"}, names, "declaration order preserved")
}

func TestLoadRejectsBitOnValueFlag(t *testing.T) {
	t.Parallel()

	path := writeSchemaFile(t, `
[[flag]]
name = "port"
type = "integer"
bit = 1
`)

	_, err := Load(path)
	assert.ErrorContains(t, err, "non-boolean")
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	t.Parallel()

	path := writeSchemaFile(t, "[[flag]\nname=")
	_, err := Load(path)
	assert.ErrorContains(t, err, "decode schema file")
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.ErrorContains(t, err, "read schema file")
}

func TestDefaultSchemaIsValid(t *testing.T) {
	t.Parallel()

	schema := Default()
	fresh, ok := schema.Lookup("fresh")
	require.True(t, ok)
	assert.Equal(t, 0, fresh.Bit)

	port, ok := schema.Lookup("port")
	require.True(t, ok)
	assert.Equal(t, domain.FlagInteger, port.Type)
}
