package ttx

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/ttx/ot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ttx")
	defer teardown()
	//
	opts, err := ParseOptions("")
	require.NoError(t, err)
	assert.Equal(t, DefaultOptions(), opts)
	assert.Equal(t, -1, opts.FontNumber)

	opts, err = ParseOptions(`{"onlyTables":["head","cmap"],"flavor":"woff","fontNumber":2,
		"recalcTimestamp":true,"splitTables":true,"someFutureKey":42}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"head", "cmap"}, opts.OnlyTables)
	assert.Equal(t, "woff", opts.Flavor)
	assert.Equal(t, 2, opts.FontNumber)
	assert.True(t, opts.RecalcTimestamp)
	assert.True(t, opts.SplitTables)

	opts, err = ParseOptions(`{"onlyTables": "head"}`)
	assert.Error(t, err)
	assert.Equal(t, DefaultOptions(), opts)
}

func TestIncludeTable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ttx")
	defer teardown()
	//
	tests := []struct {
		name     string
		only     []string
		skip     []string
		tag      string
		included bool
	}{
		{"no filter", nil, nil, "head", true},
		{"only", []string{"head"}, nil, "head", true},
		{"not in only", []string{"head"}, nil, "cmap", false},
		{"skipped", nil, []string{"cmap"}, "cmap", false},
		{"not skipped", nil, []string{"cmap"}, "head", true},
		{"skip wins over only", []string{"head"}, []string{"head"}, "head", false},
		{"short name", []string{"cvt"}, nil, "cvt ", true},
		{"padded name", nil, []string{"cvt "}, "cvt ", false},
	}
	for _, tt := range tests {
		opts := Options{OnlyTables: tt.only, SkipTables: tt.skip}
		assert.Equal(t, tt.included, opts.IncludeTable(ot.T(tt.tag)), tt.name)
	}
}
