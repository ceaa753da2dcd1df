package docstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	ID  string `json:"id"`
	Qty int    `json:"qty"`
}

func TestDecodeAll(t *testing.T) {
	var out []doc
	require.NoError(t, DecodeAll([][]byte{[]byte(`{"id":"a","qty":1}`), []byte(`{"id":"b","qty":2}`)}, &out))
	assert.Equal(t, []doc{{"a", 1}, {"b", 2}}, out)
}

func TestDecodeAllEmptyIsNonNil(t *testing.T) {
	var out []doc
	require.NoError(t, DecodeAll(nil, &out))
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestNormalize(t *testing.T) {
	v, err := Normalize(3)
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)

	v, err = Normalize(doc{ID: "a"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": "a", "qty": 0.0}, v)
}
