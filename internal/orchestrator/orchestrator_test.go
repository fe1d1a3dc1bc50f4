package orchestrator

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Delete1994/PDF-Compare/internal/capability"
	"github.com/Delete1994/PDF-Compare/internal/comparator"
	"github.com/Delete1994/PDF-Compare/internal/result"
)

// stub is a comparator with a canned outcome.
type stub struct {
	method    result.Method
	cap       capability.Capability
	identical bool
	fail      string
	panics    bool
	calls     int
}

func (s *stub) Method() result.Method { return s.method }

func (s *stub) Capability() capability.Capability { return s.cap }

func (s *stub) Compare(_ context.Context, _, _ string, caps capability.Registry) result.MethodResult {
	s.calls++
	if s.cap != "" && !caps.Available(s.cap) {
		return result.Unavailable(s.method)
	}
	if s.panics {
		panic("backend exploded")
	}
	if s.fail != "" {
		return result.Failed(s.method, "%s", s.fail)
	}
	return result.OK(s.method, s.identical, result.BasicMetrics{})
}

func quiet() *logrus.Logger {
	l := logrus.New()
	l.Out = io.Discard
	return l
}

func inputs(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	left := filepath.Join(dir, "left.pdf")
	right := filepath.Join(dir, "right.pdf")
	require.NoError(t, os.WriteFile(left, []byte("%PDF-1.4"), 0644))
	require.NoError(t, os.WriteFile(right, []byte("%PDF-1.4"), 0644))
	return left, right
}

func stubs() map[result.Method]*stub {
	return map[result.Method]*stub{
		result.BasicInfo: {method: result.BasicInfo, identical: true},
		result.Text:      {method: result.Text, cap: capability.Text, identical: true},
		result.Visual:    {method: result.Visual, cap: capability.Visual, identical: true},
		result.Structure: {method: result.Structure, cap: capability.Structure, identical: true},
		result.Metadata:  {method: result.Metadata, cap: capability.Metadata, identical: true},
	}
}

func build(caps capability.Registry, s map[result.Method]*stub) *Orchestrator {
	var cs []comparator.Comparator
	for _, m := range result.Methods {
		cs = append(cs, s[m])
	}
	return New(caps, quiet(), cs...)
}

func TestSelect(t *testing.T) {
	caps := capability.Static(map[capability.Capability]bool{capability.Text: true, capability.Metadata: true})
	o := build(caps, stubs())

	assert.Equal(t, []result.Method{result.BasicInfo, result.Text, result.Metadata}, o.Select(nil))
	assert.Equal(t,
		[]result.Method{result.BasicInfo, result.Visual, result.Text},
		o.Select([]result.Method{result.Visual, result.Text, result.Visual, result.BasicInfo}),
		"explicit requests are kept in order even when unavailable")
	assert.Equal(t, []result.Method{result.BasicInfo}, build(capability.None(), stubs()).Select(nil))
}

func TestCompareAllIdentical(t *testing.T) {
	left, right := inputs(t)
	o := build(capability.All(), stubs())
	o.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	rep, err := o.Compare(context.Background(), left, right, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, rep.ID)
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), rep.Timestamp)
	assert.Len(t, rep.Results, 5)
	assert.Equal(t, result.Summary{OverallIdentical: true, ChecksPassed: 5, ChecksTotal: 5}, rep.Summary)
}

func TestCompareUnavailableMethodDoesNotAffectOthers(t *testing.T) {
	left, right := inputs(t)
	s := stubs()
	caps := capability.Static(map[capability.Capability]bool{capability.Text: true})
	o := build(caps, s)

	rep, err := o.Compare(context.Background(), left, right, []result.Method{result.Text, result.Visual})
	require.NoError(t, err)

	visual := rep.Results[result.Visual]
	assert.True(t, visual.Failed())
	assert.Equal(t, "visual unavailable", visual.Message())

	identical, ok := rep.Results[result.Text].Identical()
	require.True(t, ok)
	assert.True(t, identical)

	assert.True(t, rep.Summary.HasErrors)
	assert.True(t, rep.Summary.OverallIdentical)
	assert.Equal(t, 2, rep.Summary.ChecksTotal)
	assert.Equal(t, len(rep.Selected)-1, rep.Summary.ChecksTotal)
}

func TestComparePanicBecomesFailure(t *testing.T) {
	left, right := inputs(t)
	s := stubs()
	s[result.Structure].panics = true
	o := build(capability.All(), s)

	rep, err := o.Compare(context.Background(), left, right, []result.Method{result.Structure, result.Metadata})
	require.NoError(t, err)
	assert.True(t, rep.Results[result.Structure].Failed())
	assert.Contains(t, rep.Results[result.Structure].Message(), "backend exploded")
	assert.False(t, rep.Results[result.Metadata].Failed(), "later methods still run")
}

func TestCompareDifferences(t *testing.T) {
	left, right := inputs(t)
	s := stubs()
	s[result.Text].identical = false
	o := build(capability.All(), s)

	rep, err := o.Compare(context.Background(), left, right, nil)
	require.NoError(t, err)
	assert.False(t, rep.Summary.OverallIdentical)
	assert.Equal(t, 4, rep.Summary.ChecksPassed)
	assert.Equal(t, 5, rep.Summary.ChecksTotal)
}

func TestCompareMissingInput(t *testing.T) {
	left, _ := inputs(t)
	s := stubs()
	o := build(capability.All(), s)

	rep, err := o.Compare(context.Background(), left, filepath.Join(t.TempDir(), "missing.pdf"), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInputFile))
	assert.Nil(t, rep)
	for m, st := range s {
		assert.Zero(t, st.calls, "method %s must not run", m)
	}

	_, err = o.Compare(context.Background(), left, t.TempDir(), nil)
	assert.ErrorIs(t, err, ErrInputFile)
}

type failingCloser struct{}

func (failingCloser) Close() error { return errors.New("input/output error") }

func TestCompareInputCloseFailure(t *testing.T) {
	left, right := inputs(t)
	o := build(capability.All(), stubs())

	orig := openInput
	openInput = func(string) (io.Closer, error) { return failingCloser{}, nil }
	defer func() { openInput = orig }()

	_, err := o.Compare(context.Background(), left, right, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInputFile)
	assert.Contains(t, err.Error(), "input/output error")
}

func TestObserver(t *testing.T) {
	left, right := inputs(t)
	o := build(capability.All(), stubs())

	var started []result.Method
	var finished []result.Method
	o.SetObserver(ObserverFuncs{
		OnStart:  func(m result.Method) { started = append(started, m) },
		OnFinish: func(res result.MethodResult) { finished = append(finished, res.Method()) },
	})

	rep, err := o.Compare(context.Background(), left, right, []result.Method{result.Metadata})
	require.NoError(t, err)
	assert.Equal(t, rep.Selected, started)
	assert.Equal(t, rep.Selected, finished)
}

func TestMissingComparator(t *testing.T) {
	left, right := inputs(t)
	o := New(capability.All(), quiet(), &stub{method: result.BasicInfo, identical: true})

	rep, err := o.Compare(context.Background(), left, right, []result.Method{result.Text})
	require.NoError(t, err)
	assert.True(t, rep.Results[result.Text].Failed())
}
