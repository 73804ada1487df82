package config

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookSchema(t *testing.T) {
	schema := BookSchema()
	assert.Equal(t, "bookgen book file", schema.Title)
	assert.ElementsMatch(t, []string{"title", "toc"}, schema.Required)

	data, err := json.Marshal(schema)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	props, ok := doc["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "persona")

	toc, ok := props["toc"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "array", toc["type"])
	items, ok := toc["items"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, items["oneOf"], 2)
}
