package codec

import (
	"errors"
	"fmt"
	"strings"
)

// Format identifies a wire format.
type Format string

const (
	JSON    Format = "json"
	MsgPack Format = "msgpack"
	CBOR    Format = "cbor"
	YAML    Format = "yaml"
)

// ErrUnknownFormat is returned when a format name is not recognized.
var ErrUnknownFormat = errors.New("codec: unknown format")

// Codec encodes and decodes single Go values in one wire format.
type Codec interface {
	// Format returns the wire format implemented by the codec.
	Format() Format

	// Binary reports whether encoded output may contain non-UTF-8 bytes.
	Binary() bool

	// Marshal encodes v.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes data into the value pointed to by dst.
	Unmarshal(data []byte, dst any) error
}

// Formats returns all supported formats.
func Formats() []Format {
	return []Format{JSON, MsgPack, CBOR, YAML}
}

// ParseFormat converts a format name to a Format.
// Matching is case-insensitive; "bin" is accepted as an alias for msgpack.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return JSON, nil
	case "msgpack", "bin":
		return MsgPack, nil
	case "cbor":
		return CBOR, nil
	case "yaml", "yml":
		return YAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// New returns the codec for the given format.
func New(f Format) (Codec, error) {
	switch f {
	case JSON:
		return jsonCodec{}, nil
	case MsgPack:
		return newMsgpackCodec(), nil
	case CBOR:
		return newCBORCodec()
	case YAML:
		return yamlCodec{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
}

// String implements fmt.Stringer.
func (f Format) String() string {
	return string(f)
}
