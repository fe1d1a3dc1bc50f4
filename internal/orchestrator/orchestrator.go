// Package orchestrator selects the comparison methods for a run, executes them one after
// another and folds their results into a single report.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Delete1994/PDF-Compare/internal/capability"
	"github.com/Delete1994/PDF-Compare/internal/comparator"
	"github.com/Delete1994/PDF-Compare/internal/result"
)

// ErrInputFile is returned when either input cannot be used; no method runs in that case.
var ErrInputFile = errors.New("input file error")

// Observer is notified around every method of a run.
type Observer interface {
	Started(m result.Method)
	Finished(res result.MethodResult)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	OnStart  func(m result.Method)
	OnFinish func(res result.MethodResult)
}

func (o ObserverFuncs) Started(m result.Method) {
	if o.OnStart != nil {
		o.OnStart(m)
	}
}

func (o ObserverFuncs) Finished(res result.MethodResult) {
	if o.OnFinish != nil {
		o.OnFinish(res)
	}
}

// Orchestrator owns one comparator per method and a frozen capability snapshot.
type Orchestrator struct {
	comparators map[result.Method]comparator.Comparator
	caps        capability.Registry
	log         logrus.FieldLogger
	observer    Observer
	now         func() time.Time
}

// New builds an orchestrator over the given comparators. A later comparator for the same
// method replaces an earlier one.
func New(caps capability.Registry, log logrus.FieldLogger, comparators ...comparator.Comparator) *Orchestrator {
	o := &Orchestrator{
		comparators: make(map[result.Method]comparator.Comparator, len(comparators)),
		caps:        caps,
		log:         log,
		now:         time.Now,
	}
	for _, c := range comparators {
		o.comparators[c.Method()] = c
	}
	return o
}

// SetObserver installs the hook notified before and after each method.
func (o *Orchestrator) SetObserver(obs Observer) {
	o.observer = obs
}

// Select returns the methods a run will execute, basic_info first. Explicitly requested methods
// are honored even when their capability is unavailable; without a request every method whose
// capability is available is chosen.
func (o *Orchestrator) Select(requested []result.Method) []result.Method {
	selected := []result.Method{result.BasicInfo}
	seen := map[result.Method]bool{result.BasicInfo: true}

	if len(requested) > 0 {
		for _, m := range requested {
			if !seen[m] {
				seen[m] = true
				selected = append(selected, m)
			}
		}
		return selected
	}

	for _, m := range result.Methods {
		if seen[m] {
			continue
		}
		c, ok := o.comparators[m]
		if !ok {
			continue
		}
		if c.Capability() == "" || o.caps.Available(c.Capability()) {
			seen[m] = true
			selected = append(selected, m)
		}
	}
	return selected
}

// Compare runs the selected methods against left and right. The only error it returns is a
// wrapped ErrInputFile; every method problem ends up as a failed result inside the report.
func (o *Orchestrator) Compare(ctx context.Context, left, right string, requested []result.Method) (*result.Report, error) {
	for _, p := range []string{left, right} {
		if err := checkInput(p); err != nil {
			return nil, err
		}
	}

	rep := &result.Report{
		ID:        uuid.New().String(),
		Left:      left,
		Right:     right,
		Timestamp: o.now(),
		Selected:  o.Select(requested),
		Results:   make(map[result.Method]result.MethodResult),
	}
	log := o.log.WithField("run", rep.ID)
	log.WithField("methods", rep.Selected).Info("starting comparison")

	for _, m := range rep.Selected {
		if o.observer != nil {
			o.observer.Started(m)
		}
		res := o.run(ctx, m, left, right)
		rep.Results[m] = res
		if o.observer != nil {
			o.observer.Finished(res)
		}

		entry := log.WithField("method", m)
		if res.Failed() {
			entry.WithField("error", res.Message()).Warn("method failed")
		} else {
			identical, _ := res.Identical()
			entry.WithField("identical", identical).Debug("method finished")
		}
	}

	rep.Summary = result.Summarize(rep.Ordered())
	log.WithFields(logrus.Fields{
		"identical": rep.Summary.OverallIdentical,
		"passed":    rep.Summary.ChecksPassed,
		"total":     rep.Summary.ChecksTotal,
	}).Info("comparison finished")
	return rep, nil
}

func (o *Orchestrator) run(ctx context.Context, m result.Method, left, right string) (res result.MethodResult) {
	c, ok := o.comparators[m]
	if !ok {
		return result.Failed(m, "no comparator registered for %s", m)
	}
	if err := ctx.Err(); err != nil {
		return result.Failed(m, "%s comparison skipped: %v", m, err)
	}
	defer func() {
		if r := recover(); r != nil {
			res = result.Failed(m, "%s comparison failed: %v", m, r)
		}
	}()
	return c.Compare(ctx, left, right, o.caps)
}

var openInput = func(path string) (io.Closer, error) { return os.Open(path) }

func checkInput(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInputFile, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrInputFile, path)
	}
	f, err := openInput(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInputFile, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrInputFile, err)
	}
	return nil
}
