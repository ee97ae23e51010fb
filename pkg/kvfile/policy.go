package kvfile

import (
	"fmt"
	"strings"
	"time"
)

// DumpMode selects when mutations are written to the backing file.
type DumpMode int

const (
	// NeverDump never writes the file.
	NeverDump DumpMode = iota
	// AutoDump writes the file after every mutation.
	AutoDump
	// DumpUponRequest writes the file only when Dump is called.
	DumpUponRequest
	// PeriodicDump writes the file after a mutation once the interval has
	// elapsed since the last dump.
	PeriodicDump
)

// String returns the configuration name of the mode.
func (m DumpMode) String() string {
	switch m {
	case NeverDump:
		return "never"
	case AutoDump:
		return "auto"
	case DumpUponRequest:
		return "request"
	case PeriodicDump:
		return "periodic"
	default:
		return fmt.Sprintf("DumpMode(%d)", int(m))
	}
}

// DumpPolicy is a dump mode plus, for PeriodicDump, its interval.
// The zero value is NeverDump.
type DumpPolicy struct {
	mode     DumpMode
	interval time.Duration
}

// Never returns the NeverDump policy.
func Never() DumpPolicy { return DumpPolicy{mode: NeverDump} }

// Auto returns the AutoDump policy.
func Auto() DumpPolicy { return DumpPolicy{mode: AutoDump} }

// UponRequest returns the DumpUponRequest policy.
func UponRequest() DumpPolicy { return DumpPolicy{mode: DumpUponRequest} }

// Periodic returns a PeriodicDump policy with the given interval.
// Negative intervals are treated as zero.
func Periodic(interval time.Duration) DumpPolicy {
	if interval < 0 {
		interval = 0
	}
	return DumpPolicy{mode: PeriodicDump, interval: interval}
}

// ParseDumpPolicy builds a policy from its configuration name.
// interval is only used by "periodic".
func ParseDumpPolicy(name string, interval time.Duration) (DumpPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "never", "never_dump", "readonly":
		return Never(), nil
	case "auto", "auto_dump":
		return Auto(), nil
	case "request", "upon_request", "dump_upon_request":
		return UponRequest(), nil
	case "periodic", "periodic_dump":
		if interval <= 0 {
			return DumpPolicy{}, fmt.Errorf("kvfile: periodic dump policy requires a positive interval, got %s", interval)
		}
		return Periodic(interval), nil
	default:
		return DumpPolicy{}, fmt.Errorf("kvfile: unknown dump policy %q", name)
	}
}

// Mode returns the policy's dump mode.
func (p DumpPolicy) Mode() DumpMode { return p.mode }

// Interval returns the PeriodicDump interval; zero for other modes.
func (p DumpPolicy) Interval() time.Duration { return p.interval }

// flushOnClose reports whether Close attempts a final dump.
func (p DumpPolicy) flushOnClose() bool {
	return p.mode == AutoDump || p.mode == PeriodicDump
}

// String implements fmt.Stringer.
func (p DumpPolicy) String() string {
	if p.mode == PeriodicDump {
		return fmt.Sprintf("periodic(%s)", p.interval)
	}
	return p.mode.String()
}
