// Package stormcodec lists the formats available to store records with Storm.
package stormcodec

import (
	"bytes"
	"sort"
	"strings"

	"github.com/asdine/storm/v3/codec"
	"github.com/asdine/storm/v3/codec/json"
	"github.com/asdine/storm/v3/codec/msgpack"
	"github.com/pkg/errors"
	ugorji "github.com/ugorji/go/codec"
)

// Default is the codec used when none is configured.
const Default = "msgpack"

var codecs = map[string]codec.MarshalUnmarshaler{
	"msgpack": msgpack.Codec,
	"json":    json.Codec,
	// http://cbor.io/
	"cbor": &ugorjiCodec{name: "cbor", handle: &ugorji.CborHandle{}},
	// https://github.com/ugorji/binc
	"binc": &ugorjiCodec{name: "binc", handle: &ugorji.BincHandle{}},
}

// Lookup returns the codec registered under the given name.
// An empty name returns the default codec.
func Lookup(name string) (codec.MarshalUnmarshaler, error) {
	if name == "" {
		name = Default
	}

	c, ok := codecs[name]
	if !ok {
		return nil, errors.Errorf("unsupported database codec %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return c, nil
}

// Names returns the sorted names of the available codecs.
func Names() []string {
	names := make([]string, 0, len(codecs))
	for name := range codecs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type ugorjiCodec struct {
	name   string
	handle ugorji.Handle
}

func (c *ugorjiCodec) Marshal(v any) ([]byte, error) {
	var b bytes.Buffer
	if err := ugorji.NewEncoder(&b, c.handle).Encode(v); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func (c *ugorjiCodec) Unmarshal(b []byte, v any) error {
	return ugorji.NewDecoder(bytes.NewReader(b), c.handle).Decode(v)
}

func (c *ugorjiCodec) Name() string {
	return c.name
}
