package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"reflect"

	"gopkg.in/yaml.v3"
)

type yamlCodec struct{}

func (yamlCodec) Format() Format { return YAML }

func (yamlCodec) Binary() bool { return false }

func (yamlCodec) Marshal(v any) (data []byte, err error) {
	// yaml.v3 panics on some unsupported kinds (channels, funcs).
	defer func() {
		if r := recover(); r != nil {
			data, err = nil, fmt.Errorf("codec: yaml encode: %v", r)
		}
	}()

	data, err = yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("codec: yaml encode: %w", err)
	}
	return data, nil
}

// Unmarshal decodes exactly one document. Empty input, a second document
// and a non-string scalar decoded into a string are all errors.
func (yamlCodec) Unmarshal(data []byte, dst any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("codec: yaml decode: empty document")
		}
		return fmt.Errorf("codec: yaml decode: %w", err)
	}
	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("more than one document")
		}
		return fmt.Errorf("codec: yaml decode: %w", err)
	}

	if tag, ok := coercedScalar(&doc, dst); ok {
		return fmt.Errorf("codec: yaml decode: cannot decode %s into string", tag)
	}
	if err := doc.Decode(dst); err != nil {
		return fmt.Errorf("codec: yaml decode: %w", err)
	}
	return nil
}

// coercedScalar reports whether doc is a single non-string scalar that
// yaml.v3 would silently turn into the string dst points at.
func coercedScalar(doc *yaml.Node, dst any) (string, bool) {
	n := doc
	if n.Kind == yaml.DocumentNode && len(n.Content) == 1 {
		n = n.Content[0]
	}
	if n.Kind != yaml.ScalarNode {
		return "", false
	}
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.String {
		return "", false
	}
	switch tag := n.ShortTag(); tag {
	case "!!str", "!!null":
		return "", false
	default:
		return tag, true
	}
}
