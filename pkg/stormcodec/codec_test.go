package stormcodec_test

import (
	"testing"

	"github.com/slsmu/slsmu/pkg/stormcodec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Title   string
	Private bool
}

func TestLookup(t *testing.T) {
	c, err := stormcodec.Lookup("")
	require.NoError(t, err)
	assert.Equal(t, "msgpack", c.Name())

	_, err = stormcodec.Lookup("xml")
	assert.EqualError(t, err, `unsupported database codec "xml" (available: binc, cbor, json, msgpack)`)

	assert.Equal(t, []string{"binc", "cbor", "json", "msgpack"}, stormcodec.Names())
}

func TestCodecs(t *testing.T) {
	for _, name := range stormcodec.Names() {
		t.Run(name, func(t *testing.T) {
			c, err := stormcodec.Lookup(name)
			require.NoError(t, err)
			assert.Equal(t, name, c.Name())

			payload, err := c.Marshal(&record{Title: "Test post", Private: true})
			require.NoError(t, err)

			var r record
			require.NoError(t, c.Unmarshal(payload, &r))
			assert.Equal(t, record{Title: "Test post", Private: true}, r)
		})
	}
}
