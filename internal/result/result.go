// Package result defines the uniform outcome of a comparison method and the aggregate report.
package result

import (
	"encoding/json"
	"fmt"
	"time"
)

// Method names a comparison method.
type Method string

const (
	BasicInfo Method = "basic_info"
	Text      Method = "text"
	Visual    Method = "visual"
	Structure Method = "structure"
	Metadata  Method = "metadata"
)

// Methods lists every method in execution order.
var Methods = []Method{BasicInfo, Text, Visual, Structure, Metadata}

// ParseMethod accepts both the short CLI names and the method names.
func ParseMethod(name string) (Method, error) {
	switch name {
	case "basic", "basic_info":
		return BasicInfo, nil
	case "text", "text_comparison":
		return Text, nil
	case "visual", "visual_comparison":
		return Visual, nil
	case "structure", "structure_analysis":
		return Structure, nil
	case "metadata", "metadata_comparison":
		return Metadata, nil
	}
	return "", fmt.Errorf("unknown comparison method %q", name)
}

// Metrics is the method specific payload of a successful result.
type Metrics interface {
	method() Method
}

// MethodResult is either OK (identical flag plus metrics) or Failed (message only).
// Build it with OK or Failed.
type MethodResult struct {
	method    Method
	failed    bool
	message   string
	identical bool
	metrics   Metrics
}

func OK(m Method, identical bool, metrics Metrics) MethodResult {
	return MethodResult{method: m, identical: identical, metrics: metrics}
}

func Failed(m Method, format string, args ...any) MethodResult {
	return MethodResult{method: m, failed: true, message: fmt.Sprintf(format, args...)}
}

// Unavailable is the result of a method whose backend is missing.
func Unavailable(m Method) MethodResult {
	return Failed(m, "%s unavailable", m)
}

func (r MethodResult) Method() Method { return r.method }

func (r MethodResult) Failed() bool { return r.failed }

// Message is the failure description; empty for OK results.
func (r MethodResult) Message() string { return r.message }

// Identical reports the verdict and whether there is one at all.
func (r MethodResult) Identical() (identical, ok bool) {
	if r.failed {
		return false, false
	}
	return r.identical, true
}

// Metrics returns the payload of an OK result, nil otherwise.
func (r MethodResult) Metrics() Metrics { return r.metrics }

func (r MethodResult) MarshalJSON() ([]byte, error) {
	if r.failed {
		return json.Marshal(struct {
			Method Method `json:"method"`
			Status string `json:"status"`
			Error  string `json:"error"`
		}{r.method, "failed", r.message})
	}
	return json.Marshal(struct {
		Method    Method  `json:"method"`
		Status    string  `json:"status"`
		Identical bool    `json:"identical"`
		Metrics   Metrics `json:"metrics,omitempty"`
	}{r.method, "ok", r.identical, r.metrics})
}

// Summary is the pass/fail accounting over every non-failed method.
type Summary struct {
	OverallIdentical bool `json:"overall_identical"`
	ChecksPassed     int  `json:"checks_passed"`
	ChecksTotal      int  `json:"checks_total"`
	HasErrors        bool `json:"has_errors"`
}

// Summarize folds results into a Summary. Failed results only set HasErrors; an empty set of
// verdicts is never reported as identical.
func Summarize(results []MethodResult) Summary {
	var s Summary
	allIdentical := true
	for _, r := range results {
		identical, ok := r.Identical()
		if !ok {
			s.HasErrors = true
			continue
		}
		s.ChecksTotal++
		if identical {
			s.ChecksPassed++
		} else {
			allIdentical = false
		}
	}
	s.OverallIdentical = s.ChecksTotal > 0 && allIdentical
	return s
}

// Report is the combined outcome of one comparison run.
type Report struct {
	ID        string                  `json:"id"`
	Left      string                  `json:"left"`
	Right     string                  `json:"right"`
	Timestamp time.Time               `json:"timestamp"`
	Selected  []Method                `json:"methods_used"`
	Results   map[Method]MethodResult `json:"results"`
	Summary   Summary                 `json:"summary"`
}

// Ordered returns the results in Selected order.
func (r *Report) Ordered() []MethodResult {
	out := make([]MethodResult, 0, len(r.Results))
	for _, m := range r.Selected {
		if res, ok := r.Results[m]; ok {
			out = append(out, res)
		}
	}
	return out
}
