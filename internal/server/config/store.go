package config

import (
	"github.com/yndnr/kvfile-go/pkg/codec"
	"github.com/yndnr/kvfile-go/pkg/kvfile"
)

// DumpPolicy returns the configured dump policy.
func (s StoreSection) DumpPolicy() (kvfile.DumpPolicy, error) {
	return kvfile.ParseDumpPolicy(s.Policy, s.Interval)
}

// CodecFormat returns the configured serialization format.
func (s StoreSection) CodecFormat() (codec.Format, error) {
	return codec.ParseFormat(s.Format)
}

// Options returns the kvfile options implied by the section.
func (s StoreSection) Options() []kvfile.Option {
	var opts []kvfile.Option
	if s.Compress {
		opts = append(opts, kvfile.WithCompression())
	}
	return opts
}
