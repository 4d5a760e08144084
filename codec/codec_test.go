package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type runDoc struct {
	Centroids [][]float64 `json:"centroids"`
	Labels    []int       `json:"labels"`
	Inertia   float64     `json:"inertia"`
}

func TestByName(t *testing.T) {
	for _, name := range Names() {
		c, ok := ByName(name)
		require.True(t, ok, name)
		assert.Equal(t, name, c.Name())
	}

	_, ok := ByName("msgpack")
	assert.False(t, ok)
}

func TestCodecs_DecodeEachOther(t *testing.T) {
	in := runDoc{
		Centroids: [][]float64{{3, 2.3}, {8.8, 8.4}},
		Labels:    []int{0, 0, 1},
		Inertia:   12.5,
	}

	for _, enc := range []Codec{JSON{}, GoJSON{}} {
		for _, dec := range []Codec{JSON{}, GoJSON{}} {
			t.Run(enc.Name()+"->"+dec.Name(), func(t *testing.T) {
				var out runDoc
				require.NoError(t, dec.Unmarshal(MustMarshal(enc, in), &out))
				assert.Equal(t, in, out)
			})
		}
	}
}

func TestJSON_Indented(t *testing.T) {
	b, err := JSON{}.Marshal(map[string]int{"k": 2})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"k\": 2\n}", string(b))
}

func TestMustMarshal_Panics(t *testing.T) {
	assert.Panics(t, func() { MustMarshal(nil, make(chan int)) })
}
