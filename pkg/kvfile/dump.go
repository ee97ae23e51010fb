package kvfile

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/yndnr/kvfile-go/pkg/codec"
)

// fileSystem is the set of file operations a dump performs.
type fileSystem interface {
	// WriteFile creates or truncates name, writes data and syncs it to disk.
	WriteFile(name string, data []byte) error
	Rename(oldpath, newpath string) error
	Remove(name string) error
}

type osFS struct{}

func (osFS) WriteFile(name string, data []byte) error {
	f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (osFS) Rename(oldpath, newpath string) error { return os.Rename(oldpath, newpath) }

func (osFS) Remove(name string) error { return os.Remove(name) }

// dumper decides when the store is written and performs the atomic replace.
type dumper struct {
	path     string
	policy   DumpPolicy
	lastDump time.Time

	ser     *codec.Serializer
	fs      fileSystem
	clock   clock.Clock
	logger  *slog.Logger
	metrics *metrics
}

func newDumper(path string, policy DumpPolicy, ser *codec.Serializer, o options) *dumper {
	return &dumper{
		path:     path,
		policy:   policy,
		lastDump: o.clock.Now(),
		ser:      ser,
		fs:       osFS{},
		clock:    o.clock,
		logger:   o.logger,
		metrics:  newMetrics(o.registerer, path),
	}
}

// tempPath returns the name of the temporary file for a dump started at t.
func (d *dumper) tempPath(t time.Time) string {
	return fmt.Sprintf("%s.temp.%d", d.path, t.Unix())
}

// dump writes the snapshot unconditionally (except under NeverDump).
func (d *dumper) dump(values map[string][]byte, lists map[string][][]byte) error {
	if d.policy.mode == NeverDump {
		return nil
	}

	start := d.clock.Now()
	data, err := d.ser.EncodeSnapshot(values, lists)
	if err != nil {
		d.metrics.dumps.WithLabelValues("error").Inc()
		return serializationError("dump", err)
	}

	tmp := d.tempPath(start)
	if err := d.fs.WriteFile(tmp, data); err != nil {
		_ = d.fs.Remove(tmp)
		d.metrics.dumps.WithLabelValues("error").Inc()
		return ioError("dump", fmt.Errorf("write temp file: %w", err))
	}
	if err := d.fs.Rename(tmp, d.path); err != nil {
		_ = d.fs.Remove(tmp)
		d.metrics.dumps.WithLabelValues("error").Inc()
		return ioError("dump", fmt.Errorf("rename temp file: %w", err))
	}

	if d.policy.mode == PeriodicDump {
		d.lastDump = d.clock.Now()
	}

	elapsed := d.clock.Since(start)
	d.metrics.dumps.WithLabelValues("ok").Inc()
	d.metrics.duration.Observe(elapsed.Seconds())
	d.metrics.size.Set(float64(len(data)))
	d.logger.Debug("store dumped",
		"path", d.path,
		"bytes", len(data),
		"values", len(values),
		"lists", len(lists),
		"elapsed", elapsed)
	return nil
}

// conditionalDump runs after every mutation and dumps if the policy says so.
func (d *dumper) conditionalDump(values map[string][]byte, lists map[string][][]byte) error {
	switch d.policy.mode {
	case AutoDump:
		return d.dump(values, lists)
	case PeriodicDump:
		now := d.clock.Now()
		if now.Sub(d.lastDump) > d.policy.interval {
			// The interval is measured from the attempt, not its completion.
			d.lastDump = now
			return d.dump(values, lists)
		}
		return nil
	default:
		return nil
	}
}
