package codec

import (
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

type cborCodec struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

func newCBORCodec() (cborCodec, error) {
	enc, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return cborCodec{}, fmt.Errorf("codec: cbor enc mode: %w", err)
	}
	dec, err := cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		return cborCodec{}, fmt.Errorf("codec: cbor dec mode: %w", err)
	}
	return cborCodec{enc: enc, dec: dec}, nil
}

func (cborCodec) Format() Format { return CBOR }

func (cborCodec) Binary() bool { return true }

func (c cborCodec) Marshal(v any) ([]byte, error) {
	data, err := c.enc.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("codec: cbor encode: %w", err)
	}
	return data, nil
}

func (c cborCodec) Unmarshal(data []byte, dst any) error {
	if err := c.dec.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("codec: cbor decode: %w", err)
	}
	return nil
}
