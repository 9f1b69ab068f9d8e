package json

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescriptorParser_Parse(t *testing.T) {
	raw, err := NewDescriptorParser().Parse([]byte(`{
  "name": "ai-commit",
  "version": 1.20,
  "binary_name": "ai-commit",
  "homepage": null,
  "stable": true
}`))
	require.NoError(t, err)

	assert.Equal(t, "ai-commit", raw["name"])
	assert.Equal(t, "1.20", raw["version"], "numbers keep their source text")
	assert.Equal(t, "ai-commit", raw.Get("bin"))
	assert.Equal(t, "", raw["homepage"])
	assert.Equal(t, "true", raw["stable"])
}

func TestDescriptorParser_Parse_Errors(t *testing.T) {
	tests := map[string]string{
		"not an object": `["a"]`,
		"nested":        `{"download": {"url": "x"}}`,
		"trailing":      `{"name": "a"} {"name": "b"}`,
		"syntax":        `{"name": `,
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewDescriptorParser().Parse([]byte(data))
			assert.Error(t, err)
		})
	}
}
