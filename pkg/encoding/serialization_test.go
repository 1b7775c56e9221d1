package encoding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string         `yaml:"name"`
	Marks map[string]int `yaml:"marks"`
}

func TestCodecs(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			c, err := Lookup(name)
			require.NoError(t, err)
			assert.Equal(t, name, c.Name())

			in := sample{Name: "a", Marks: map[string]int{"x": 1}}
			data, err := c.Marshal(in)
			require.NoError(t, err)

			var out sample
			require.NoError(t, c.Unmarshal(data, &out))
			assert.Equal(t, in, out)

			assert.Error(t, c.Unmarshal([]byte("\x00garbage: [\x01"), &out))
		})
	}
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup("xml")
	assert.ErrorContains(t, err, "unknown codec")
}
