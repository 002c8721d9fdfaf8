package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByName(t *testing.T) {
	for _, name := range []string{"json", "go-json"} {
		c, ok := ByName(name)
		require.True(t, ok, name)
		assert.Equal(t, name, c.Name())
	}

	_, ok := ByName("msgpack")
	assert.False(t, ok)
}

func TestCodecsAgree(t *testing.T) {
	type payload struct {
		ID    string            `json:"id"`
		Rank  uint32            `json:"rank"`
		Meta  map[string]string `json:"meta"`
		Score float32           `json:"score"`
	}

	in := payload{ID: "r1", Rank: 42, Meta: map[string]string{"k": "v"}, Score: 0.5}

	std, err := JSON{}.Marshal(in)
	require.NoError(t, err)
	fast, err := GoJSON{}.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, string(std), string(fast))

	var out payload
	require.NoError(t, GoJSON{}.Unmarshal(std, &out))
	assert.Equal(t, in, out)
}

func TestMustMarshal(t *testing.T) {
	b := MustMarshal(nil, map[string]int{"a": 1})
	assert.JSONEq(t, `{"a":1}`, string(b))

	assert.Panics(t, func() {
		MustMarshal(JSON{}, make(chan int))
	})
}
