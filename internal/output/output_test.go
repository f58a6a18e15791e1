// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"

	"github.com/staranto/lciochecks/internal/cache"
)

func TestSortDataset(t *testing.T) {
	testData := []map[string]interface{}{
		{"name": "zebra", "count": 3.0, "kind": "image"},
		{"name": "Alpha", "count": 1.0, "kind": "table"},
		{"name": "beta", "count": 2.0, "kind": "image"},
	}

	tests := []struct {
		name      string
		spec      string
		wantOrder []string
	}{
		{
			name:      "ascending by name",
			spec:      "name",
			wantOrder: []string{"Alpha", "beta", "zebra"},
		},
		{
			name:      "descending by name",
			spec:      "-name",
			wantOrder: []string{"zebra", "beta", "Alpha"},
		},
		{
			name:      "descending by count",
			spec:      "-count",
			wantOrder: []string{"zebra", "beta", "Alpha"},
		},
		{
			name:      "case sensitive",
			spec:      "!name",
			wantOrder: []string{"Alpha", "beta", "zebra"},
		},
		{
			name:      "case sensitive descending",
			spec:      "-!name",
			wantOrder: []string{"zebra", "beta", "Alpha"},
		},
		{
			name:      "multiple fields",
			spec:      "kind,-count",
			wantOrder: []string{"zebra", "beta", "Alpha"},
		},
		{
			name:      "empty spec",
			spec:      "",
			wantOrder: []string{"zebra", "Alpha", "beta"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]map[string]interface{}, len(testData))
			copy(data, testData)
			SortDataset(data, tt.spec)
			for i, expectedName := range tt.wantOrder {
				assert.Equal(t, expectedName, data[i]["name"], "at index %d", i)
			}
		})
	}
}

func TestSortDataset_MissingValuesFirst(t *testing.T) {
	data := []map[string]interface{}{{"name": "b", "size": int64(2)}, {"name": "a"}}
	SortDataset(data, "size")
	assert.Equal(t, "a", data[0]["name"])
}

func TestStringify(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		emptyVal string
		want     string
	}{
		{name: "string", value: "hello", want: "hello"},
		{name: "int", value: 42, want: "42"},
		{name: "int64", value: int64(52000), want: "52000"},
		{name: "float64", value: 42.5, want: "42.5"},
		{name: "bool true", value: true, want: "true"},
		{name: "bool false is zero value", value: false, want: ""},
		{name: "nil default", value: nil, want: ""},
		{name: "nil custom", value: nil, emptyVal: "-", want: "-"},
		{name: "slice", value: []string{"a", "b"}, want: `["a","b"]`},
		{name: "zero value with custom empty", value: 0, emptyVal: "N/A", want: "N/A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			if tt.emptyVal != "" {
				got = Stringify(tt.value, tt.emptyVal)
			} else {
				got = Stringify(tt.value)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func countsTable() *cache.Table {
	tbl := cache.NewTable("generatorStatus", "isAny", "isOverlay")
	tbl.AddRow(0, 12, 0)
	tbl.AddRow(1, 40, 3)
	return tbl
}

func TestTableRows(t *testing.T) {
	rows, columns := TableRows(countsTable())
	assert.Equal(t, []string{"generatorStatus", "isAny", "isOverlay"}, columns)
	require.Len(t, rows, 2)
	assert.Equal(t, "1", rows[1]["generatorStatus"])
	assert.Equal(t, int64(40), rows[1]["isAny"])
	assert.Equal(t, int64(0), rows[0]["isOverlay"])
}

func TestSliceDiceSpit(t *testing.T) {
	rows, columns := TableRows(countsTable())

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, SliceDiceSpit(rows, columns, Options{Format: "csv"}, &buf))
		assert.Equal(t, "generatorStatus,isAny,isOverlay\n0,12,0\n1,40,3\n", buf.String())
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, SliceDiceSpit(rows, columns, Options{Format: "json", Sort: "-isAny"}, &buf))
		var got []map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		require.Len(t, got, 2)
		assert.Equal(t, "1", got[0]["generatorStatus"])
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, SliceDiceSpit(rows, columns, Options{Format: "yaml", Filter: "isOverlay>0"}, &buf))
		var got []map[string]interface{}
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, 40, got[0]["isAny"])
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, SliceDiceSpit(rows, columns, Options{Format: "text", Titles: true}, &buf))
		out := buf.String()
		assert.Contains(t, out, "generatorStatus")
		assert.Contains(t, out, "40")
		assert.Contains(t, out, "12")
		assert.NotContains(t, out, "-")
	})

	t.Run("unknown", func(t *testing.T) {
		assert.Error(t, SliceDiceSpit(rows, columns, Options{Format: "xml"}, &bytes.Buffer{}))
	})
}

func TestTableWriter_Empty(t *testing.T) {
	var buf bytes.Buffer
	TableWriter(nil, []string{"a"}, Options{}, &buf)
	assert.Empty(t, buf.String())
}

func TestLoadPalette(t *testing.T) {
	p := loadPalette("colors")
	assert.NotEmpty(t, p.Title)
	assert.NotEmpty(t, p.Even)
	assert.NotEmpty(t, p.Odd)

	assert.Equal(t, palette{Title: "#f6be00", Even: "#ffffff", Odd: "#00c8f0"}, loadPalette("no_such_colors"))
}

func TestTableWriter_Color(t *testing.T) {
	rows, columns := TableRows(countsTable())
	var buf bytes.Buffer
	TableWriter(rows, columns, Options{Titles: false, Color: true}, &buf)
	assert.NotContains(t, buf.String(), "generatorStatus")
	assert.Contains(t, buf.String(), "40")
}

func BenchmarkSortDataset(b *testing.B) {
	testData := []map[string]interface{}{
		{"name": "zebra", "count": 3.0},
		{"name": "alpha", "count": 1.0},
		{"name": "beta", "count": 2.0},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		data := make([]map[string]interface{}, len(testData))
		copy(data, testData)
		SortDataset(data, "name")
	}
}
