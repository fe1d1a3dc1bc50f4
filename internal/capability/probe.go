package capability

import (
	"context"
	"errors"
	"os/exec"
)

// StaticProber reports a fixed answer. Used for backends compiled into the binary.
type StaticProber struct {
	Cap Capability
	OK  bool
}

func (p StaticProber) Capability() Capability { return p.Cap }

func (p StaticProber) Probe(context.Context) bool { return p.OK }

// ExecProber checks that an external helper can be started. The helper is invoked with Args;
// any exit status counts as present, only a failure to start or a timeout counts as missing.
type ExecProber struct {
	Cap  Capability
	Bin  string
	Args []string
}

func (p ExecProber) Capability() Capability { return p.Cap }

func (p ExecProber) Probe(ctx context.Context) bool {
	if p.Bin == "" {
		return false
	}
	cmd := exec.CommandContext(ctx, p.Bin, p.Args...)
	err := cmd.Run()
	if ctx.Err() != nil {
		return false
	}
	if err == nil {
		return true
	}
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr)
}

// RendererProber probes poppler's pdftoppm (or a replacement binary) for the visual capability.
func RendererProber(bin string) Prober {
	return ExecProber{Cap: Visual, Bin: bin, Args: []string{"-h"}}
}
