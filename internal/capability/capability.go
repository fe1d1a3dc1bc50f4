// Package capability reports which comparison backends are usable in the current environment.
//
// Capabilities are probed once per comparison run and frozen into a Snapshot; nothing re-probes
// while a comparison is in flight.
package capability

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Capability names a backend-gated comparison dimension.
type Capability string

const (
	Text      Capability = "text"
	Visual    Capability = "visual"
	Structure Capability = "structure"
	Metadata  Capability = "metadata"
)

// Known lists every capability in reporting order.
var Known = []Capability{Text, Visual, Structure, Metadata}

// Parse maps a user supplied name to a Capability.
func Parse(name string) (Capability, error) {
	c := Capability(strings.ToLower(strings.TrimSpace(name)))
	for _, k := range Known {
		if k == c {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown capability %q", name)
}

// Registry answers whether a capability is usable.
type Registry interface {
	Available(c Capability) bool
}

// Prober checks a single capability. Probe must not block past ctx.
type Prober interface {
	Capability() Capability
	Probe(ctx context.Context) bool
}

// Snapshot is an immutable Registry produced by Detect or the fake constructors.
type Snapshot struct {
	flags map[Capability]bool
}

func (s Snapshot) Available(c Capability) bool {
	return s.flags[c]
}

// Enabled lists the available capabilities in Known order.
func (s Snapshot) Enabled() []Capability {
	var out []Capability
	for _, c := range Known {
		if s.flags[c] {
			out = append(out, c)
		}
	}
	return out
}

// Flags returns a copy of the underlying flags.
func (s Snapshot) Flags() map[Capability]bool {
	out := make(map[Capability]bool, len(s.flags))
	for k, v := range s.flags {
		out[k] = v
	}
	return out
}

// Without returns a copy of s with the given capabilities switched off.
func (s Snapshot) Without(disabled ...Capability) Snapshot {
	flags := s.Flags()
	for _, c := range disabled {
		flags[c] = false
	}
	return Snapshot{flags: flags}
}

// Detect runs each prober once under its own timeout. A prober that times out or panics
// reports its capability as unavailable.
func Detect(ctx context.Context, timeout time.Duration, log logrus.FieldLogger, probers ...Prober) Snapshot {
	flags := make(map[Capability]bool, len(Known))
	for _, c := range Known {
		flags[c] = false
	}
	for _, p := range probers {
		ok := runProbe(ctx, timeout, p)
		flags[p.Capability()] = ok
		log.WithFields(logrus.Fields{
			"capability": p.Capability(),
			"available":  ok,
		}).Debug("capability probed")
	}
	return Snapshot{flags: flags}
}

func runProbe(ctx context.Context, timeout time.Duration, p Prober) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()
	pctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return p.Probe(pctx) && pctx.Err() == nil
}

// Static builds a Snapshot from explicit flags; capabilities not mentioned are unavailable.
func Static(flags map[Capability]bool) Snapshot {
	cp := make(map[Capability]bool, len(Known))
	for _, c := range Known {
		cp[c] = flags[c]
	}
	return Snapshot{flags: cp}
}

// All reports every capability as available.
func All() Snapshot {
	flags := make(map[Capability]bool, len(Known))
	for _, c := range Known {
		flags[c] = true
	}
	return Snapshot{flags: flags}
}

// None reports every capability as unavailable.
func None() Snapshot {
	return Static(nil)
}

// String renders the snapshot as "text=true visual=false ..." in Known order.
func (s Snapshot) String() string {
	keys := make([]string, 0, len(s.flags))
	for _, c := range Known {
		keys = append(keys, fmt.Sprintf("%s=%t", c, s.flags[c]))
	}
	return strings.Join(keys, " ")
}
