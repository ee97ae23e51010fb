// Package codec provides the serialization layer for kvfile.
//
// A Serializer is bound to one wire format for its whole life and handles
// two kinds of payload:
//
//   - Values: a single caller value, encoded to an opaque byte slice.
//   - Snapshots: the complete store state (scalar map plus list map) encoded
//     as one self-describing document.
//
// Supported formats:
//
//   - json: encoding/json, sorted map keys
//   - msgpack: compact binary, canonical map ordering
//   - cbor: RFC 8949 canonical encoding
//   - yaml: YAML 1.2 via gopkg.in/yaml.v3
//
// All encoders are deterministic, so two encodings of equal values compare
// equal byte for byte. List value removal relies on this.
//
// Usage:
//
//	s, err := codec.NewSerializer(codec.JSON)
//	data, err := s.EncodeValue(42)
//	n, ok := codec.Decode[int](s, data)
package codec
