package toml

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescriptorParser_Parse(t *testing.T) {
	data := []byte(`name = "ai-commit"
repo_url = "https://github.com/rawnly/ai-commit"
version = "1.2.0"
build = 42
ratio = 1.5
prerelease = false
shasum = "` + strings.Repeat("b", 64) + `"
`)

	raw, err := NewDescriptorParser().Parse(data)
	require.NoError(t, err)

	assert.Equal(t, "ai-commit", raw["name"])
	assert.Equal(t, "https://github.com/rawnly/ai-commit", raw.Get("repo"))
	assert.Equal(t, "1.2.0", raw["version"])
	assert.Equal(t, "42", raw["build"])
	assert.Equal(t, "1.5", raw["ratio"])
	assert.Equal(t, "false", raw["prerelease"])
	assert.Equal(t, strings.Repeat("b", 64), raw.Get("shasum"))
}

func TestDescriptorParser_Parse_Errors(t *testing.T) {
	tests := map[string]string{
		"syntax": `name = "unterminated`,
		"table":  "name = \"x\"\n[platforms]\nlinux = \"amd64\"\n",
		"array":  `name = ["a", "b"]`,
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewDescriptorParser().Parse([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestDescriptorParser_ParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "release.toml")
	require.NoError(t, os.WriteFile(path, []byte(`name = "ai-commit"`), 0600))

	raw, err := NewDescriptorParser().ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ai-commit", raw["name"])

	_, err = NewDescriptorParser().ParseFile(path + ".missing")
	assert.Error(t, err)
}
