package codec

import (
	"fmt"
	"reflect"

	msgpack "github.com/hashicorp/go-msgpack/v2/codec"
)

type msgpackCodec struct {
	handle *msgpack.MsgpackHandle
}

func newMsgpackCodec() msgpackCodec {
	h := &msgpack.MsgpackHandle{}
	h.WriteExt = true
	h.Canonical = true
	h.RawToString = true
	h.MapType = reflect.TypeOf(map[string]any(nil))
	return msgpackCodec{handle: h}
}

func (msgpackCodec) Format() Format { return MsgPack }

func (msgpackCodec) Binary() bool { return true }

func (c msgpackCodec) Marshal(v any) ([]byte, error) {
	var out []byte
	if err := msgpack.NewEncoderBytes(&out, c.handle).Encode(v); err != nil {
		return nil, fmt.Errorf("codec: msgpack encode: %w", err)
	}
	return out, nil
}

func (c msgpackCodec) Unmarshal(data []byte, dst any) error {
	dec := msgpack.NewDecoderBytes(data, c.handle)
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("codec: msgpack decode: %w", err)
	}
	if n := dec.NumBytesRead(); n != len(data) {
		return fmt.Errorf("codec: msgpack decode: %d bytes of trailing data", len(data)-n)
	}
	return nil
}
