package codec

import (
	"fmt"
	"unicode/utf8"
)

// snapshot is the on-disk document for binary formats.
type snapshot struct {
	Values map[string][]byte   `json:"values" yaml:"values" cbor:"values" codec:"values"`
	Lists  map[string][][]byte `json:"lists" yaml:"lists" cbor:"lists" codec:"lists"`
}

// textSnapshot is the on-disk document for text formats. Encoded values of a
// text format are valid UTF-8, so they are embedded as strings instead of
// byte arrays.
type textSnapshot struct {
	Values map[string]string   `json:"values" yaml:"values"`
	Lists  map[string][]string `json:"lists" yaml:"lists"`
}

// Serializer encodes values and snapshots in a single fixed format.
//
// A Serializer is safe for concurrent use.
type Serializer struct {
	codec    Codec
	compress bool
}

// Option configures a Serializer.
type Option func(*Serializer)

// WithCompression wraps encoded snapshots in a zstd frame.
// Values are never compressed.
func WithCompression() Option {
	return func(s *Serializer) {
		s.compress = true
	}
}

// NewSerializer creates a Serializer for the given format.
func NewSerializer(f Format, opts ...Option) (*Serializer, error) {
	c, err := New(f)
	if err != nil {
		return nil, err
	}
	return NewSerializerWithCodec(c, opts...), nil
}

// NewSerializerWithCodec creates a Serializer around a custom codec.
func NewSerializerWithCodec(c Codec, opts ...Option) *Serializer {
	s := &Serializer{codec: c}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Format returns the serializer's wire format.
func (s *Serializer) Format() Format {
	return s.codec.Format()
}

// Compressed reports whether snapshots are zstd-compressed.
func (s *Serializer) Compressed() bool {
	return s.compress
}

// EncodeValue encodes a single value.
func (s *Serializer) EncodeValue(v any) ([]byte, error) {
	return s.codec.Marshal(v)
}

// DecodeValue decodes data into dst. It reports false if the data does not
// decode into dst's type.
func (s *Serializer) DecodeValue(data []byte, dst any) bool {
	return s.codec.Unmarshal(data, dst) == nil
}

// Decode decodes data as a V.
func Decode[V any](s *Serializer, data []byte) (V, bool) {
	var v V
	if !s.DecodeValue(data, &v) {
		var zero V
		return zero, false
	}
	return v, true
}

// EncodeSnapshot encodes the scalar map and the list map as one document.
func (s *Serializer) EncodeSnapshot(values map[string][]byte, lists map[string][][]byte) ([]byte, error) {
	var doc any
	if s.codec.Binary() {
		doc = snapshot{Values: values, Lists: lists}
	} else {
		text, err := toText(values, lists)
		if err != nil {
			return nil, err
		}
		doc = text
	}

	data, err := s.codec.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("codec: encode snapshot: %w", err)
	}
	if s.compress {
		if data, err = compress(data); err != nil {
			return nil, err
		}
	}
	return data, nil
}

// DecodeSnapshot decodes a document produced by EncodeSnapshot.
// The returned maps are never nil.
func (s *Serializer) DecodeSnapshot(data []byte) (map[string][]byte, map[string][][]byte, error) {
	if s.compress {
		plain, err := decompress(data)
		if err != nil {
			return nil, nil, err
		}
		data = plain
	}

	var (
		values map[string][]byte
		lists  map[string][][]byte
	)
	if s.codec.Binary() {
		var doc snapshot
		if err := s.codec.Unmarshal(data, &doc); err != nil {
			return nil, nil, fmt.Errorf("codec: decode snapshot: %w", err)
		}
		values, lists = doc.Values, doc.Lists
	} else {
		var doc textSnapshot
		if err := s.codec.Unmarshal(data, &doc); err != nil {
			return nil, nil, fmt.Errorf("codec: decode snapshot: %w", err)
		}
		values, lists = fromText(doc)
	}

	if values == nil {
		values = make(map[string][]byte)
	}
	if lists == nil {
		lists = make(map[string][][]byte)
	}
	return values, lists, nil
}

func toText(values map[string][]byte, lists map[string][][]byte) (textSnapshot, error) {
	doc := textSnapshot{
		Values: make(map[string]string, len(values)),
		Lists:  make(map[string][]string, len(lists)),
	}
	for k, v := range values {
		if !utf8.Valid(v) {
			return textSnapshot{}, fmt.Errorf("codec: value %q is not valid UTF-8", k)
		}
		doc.Values[k] = string(v)
	}
	for k, list := range lists {
		items := make([]string, len(list))
		for i, v := range list {
			if !utf8.Valid(v) {
				return textSnapshot{}, fmt.Errorf("codec: list %q item %d is not valid UTF-8", k, i)
			}
			items[i] = string(v)
		}
		doc.Lists[k] = items
	}
	return doc, nil
}

func fromText(doc textSnapshot) (map[string][]byte, map[string][][]byte) {
	values := make(map[string][]byte, len(doc.Values))
	for k, v := range doc.Values {
		values[k] = []byte(v)
	}
	lists := make(map[string][][]byte, len(doc.Lists))
	for k, items := range doc.Lists {
		list := make([][]byte, len(items))
		for i, v := range items {
			list[i] = []byte(v)
		}
		lists[k] = list
	}
	return values, lists
}
