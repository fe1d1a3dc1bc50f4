package result

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name    string
		results []MethodResult
		want    Summary
	}{
		{
			name: "all identical",
			results: []MethodResult{
				OK(BasicInfo, true, nil),
				OK(Text, true, nil),
			},
			want: Summary{OverallIdentical: true, ChecksPassed: 2, ChecksTotal: 2},
		},
		{
			name: "one difference",
			results: []MethodResult{
				OK(BasicInfo, true, nil),
				OK(Text, false, nil),
			},
			want: Summary{ChecksPassed: 1, ChecksTotal: 2},
		},
		{
			name: "failure excluded from verdict",
			results: []MethodResult{
				OK(BasicInfo, true, nil),
				Unavailable(Visual),
			},
			want: Summary{OverallIdentical: true, ChecksPassed: 1, ChecksTotal: 1, HasErrors: true},
		},
		{
			name:    "only failures",
			results: []MethodResult{Failed(Text, "boom"), Unavailable(Visual)},
			want:    Summary{HasErrors: true},
		},
		{
			name: "empty",
			want: Summary{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.results)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, got.ChecksPassed, got.ChecksTotal)

			failed := 0
			for _, r := range tt.results {
				if r.Failed() {
					failed++
				}
			}
			assert.Equal(t, len(tt.results)-failed, got.ChecksTotal)
		})
	}
}

func TestMethodResultShapes(t *testing.T) {
	ok := OK(Text, true, TextMetrics{Similarity: 1})
	identical, has := ok.Identical()
	assert.True(t, identical)
	assert.True(t, has)
	assert.False(t, ok.Failed())
	assert.Empty(t, ok.Message())
	assert.IsType(t, TextMetrics{}, ok.Metrics())

	failed := Unavailable(Visual)
	assert.True(t, failed.Failed())
	assert.Equal(t, "visual unavailable", failed.Message())
	_, has = failed.Identical()
	assert.False(t, has)
	assert.Nil(t, failed.Metrics())
}

func TestMethodResultJSON(t *testing.T) {
	data, err := json.Marshal(Failed(Structure, "structure analysis failed: %s", "bad xref"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"method":"structure","status":"failed","error":"structure analysis failed: bad xref"}`, string(data))

	data, err = json.Marshal(OK(BasicInfo, false, BasicMetrics{FileSize: NewPair[int64](10, 12)}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"method":"basic_info","status":"ok","identical":false,
		"metrics":{"file_size":{"pdf1":10,"pdf2":12,"identical":false}}}`, string(data))
}

func TestParseMethod(t *testing.T) {
	m, err := ParseMethod("visual")
	require.NoError(t, err)
	assert.Equal(t, Visual, m)

	m, err = ParseMethod("metadata_comparison")
	require.NoError(t, err)
	assert.Equal(t, Metadata, m)

	_, err = ParseMethod("ocr")
	assert.Error(t, err)
}

func TestReportOrdered(t *testing.T) {
	r := &Report{
		Selected: []Method{BasicInfo, Text, Metadata},
		Results: map[Method]MethodResult{
			Metadata:  OK(Metadata, true, nil),
			BasicInfo: OK(BasicInfo, true, nil),
			Text:      OK(Text, false, nil),
		},
	}
	got := r.Ordered()
	require.Len(t, got, 3)
	assert.Equal(t, BasicInfo, got[0].Method())
	assert.Equal(t, Text, got[1].Method())
	assert.Equal(t, Metadata, got[2].Method())
}
