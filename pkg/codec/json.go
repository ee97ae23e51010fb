package codec

import (
	"encoding/json"
	"fmt"
)

type jsonCodec struct{}

func (jsonCodec) Format() Format { return JSON }

func (jsonCodec) Binary() bool { return false }

func (jsonCodec) Marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("codec: json encode: %w", err)
	}
	return data, nil
}

func (jsonCodec) Unmarshal(data []byte, dst any) error {
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("codec: json decode: %w", err)
	}
	return nil
}
