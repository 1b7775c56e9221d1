// Package encoding provides the codecs used to turn a whole simulation state
// into an opaque snapshot and back.
package encoding

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Codec serializes arbitrary values. Unmarshal must not leave partially
// decoded data visible to the caller on failure; callers decode into fresh
// values.
type Codec interface {
	Name() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

const (
	GobName  = "gob"
	YAMLName = "yaml"
)

type gobCodec struct{}

// Gob is the compact binary codec.
var Gob Codec = gobCodec{}

func (gobCodec) Name() string { return GobName }

func (gobCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (gobCodec) Unmarshal(data []byte, v any) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}

type yamlCodec struct{}

// YAML is the human-readable codec, useful for inspecting snapshots.
var YAML Codec = yamlCodec{}

func (yamlCodec) Name() string { return YAMLName }

func (yamlCodec) Marshal(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

func (yamlCodec) Unmarshal(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(v)
}

var codecs = map[string]Codec{
	GobName:  Gob,
	YAMLName: YAML,
}

// Lookup returns the codec registered under name.
func Lookup(name string) (Codec, error) {
	c, ok := codecs[name]
	if !ok {
		return nil, fmt.Errorf("encoding: unknown codec %q (have %v)", name, Names())
	}
	return c, nil
}

func Names() []string {
	names := make([]string, 0, len(codecs))
	for n := range codecs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
