package exporting

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tableColumns = []string{"file", "model", "time_ms_cudaMalloc", "avg_power"}

func tableRecords() []Record {
	return []Record{
		{"file": "resnet1.csv", "model": "resnet", "time_ms_cudaMalloc": 250.3, "avg_power": 61234.2},
		{"file": "vgg1.csv", "model": "vgg", "avg_power": 24010.5},
	}
}

func TestSaveRecords_CSVColumnUnion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aggregated.csv")
	require.NoError(t, SaveRecords(path, tableColumns, tableRecords()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "file,model,time_ms_cudaMalloc,avg_power", lines[0])
	assert.Equal(t, "resnet1.csv,resnet,250.3,61234.2", lines[1])
	assert.Equal(t, "vgg1.csv,vgg,,24010.5", lines[2])
}

func TestSaveRecords_NilColumnsSortsFirstRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.tsv")
	require.NoError(t, SaveRecords(path, nil, []Record{{"b": 1, "a": "x"}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\tb\nx\t1\n", string(data))
}

func TestRoundTrip(t *testing.T) {
	for _, name := range []string{"t.csv", "t.tsv", "t.jsonl", "t.parquet", "t.csv.zst", "t.parquet.zst"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, SaveRecords(path, tableColumns, tableRecords()))

			records, columns, err := LoadRecords(path)
			require.NoError(t, err)
			require.Len(t, records, 2)
			assert.ElementsMatch(t, tableColumns, columns)

			assert.Equal(t, "resnet1.csv", records[0]["file"])
			assert.Equal(t, "vgg", records[1]["model"])
			assert.Equal(t, 250.3, records[0]["time_ms_cudaMalloc"])
			assert.Equal(t, 24010.5, records[1]["avg_power"])

			_, present := records[1]["time_ms_cudaMalloc"]
			assert.False(t, present, "missing value should stay missing")
		})
	}
}

func TestSaveRecords_CompressedIsZstd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aggregated.csv.zst")
	require.NoError(t, SaveRecords(path, tableColumns, tableRecords()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(data), 4)
	assert.Equal(t, []byte{0x28, 0xb5, 0x2f, 0xfd}, data[:4])
}

func TestSaveRecords_UnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aggregated.xlsx")
	assert.Error(t, SaveRecords(path, tableColumns, tableRecords()))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestExporter_AbortLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aggregated.csv")

	exp, err := NewExporter(path, tableColumns)
	require.NoError(t, err)
	require.NoError(t, exp.WriteBatch(tableRecords()))
	exp.Abort()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExporter_ReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aggregated.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale\n"), 0644))

	require.NoError(t, SaveRecords(path, tableColumns, tableRecords()))

	records, _, err := LoadRecords(path)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestGetByPath(t *testing.T) {
	f, compressed, ok := GetByPath("out/aggregated.PARQUET.zst")
	require.True(t, ok)
	assert.True(t, compressed)
	assert.Equal(t, "parquet", f.Name())

	_, _, ok = GetByPath("aggregated")
	assert.False(t, ok)
}

func TestList(t *testing.T) {
	assert.Equal(t, []string{"csv", "jsonl", "parquet", "tsv"}, List())
}

func TestParquet_LateColumnKeepsType(t *testing.T) {
	n := ParquetBatchSize + 1
	records := make([]Record, n)
	for i := range records {
		records[i] = Record{"file": fmt.Sprintf("p%d.csv", i), "model": "resnet"}
	}
	records[n-1]["time_ms_k"] = 1.5
	columns := []string{"file", "model", "time_ms_k"}

	path := filepath.Join(t.TempDir(), "aggregated.parquet")
	require.NoError(t, SaveRecords(path, columns, records))

	loaded, _, err := LoadRecords(path)
	require.NoError(t, err)
	require.Len(t, loaded, n)
	assert.Equal(t, 1.5, loaded[n-1]["time_ms_k"])
	_, ok := loaded[0]["time_ms_k"]
	assert.False(t, ok)
}

func TestSaveRecords_NaNIsMissing(t *testing.T) {
	records := []Record{
		{"file": "resnet1.csv", "model": "resnet", "avg_power": math.NaN(), "max_power": math.Inf(1)},
		{"file": "vgg1.csv", "model": "vgg", "avg_power": 24010.5, "max_power": 1.0},
	}
	columns := []string{"file", "model", "avg_power", "max_power"}

	t.Run("csv", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "aggregated.csv")
		require.NoError(t, SaveRecords(path, columns, records))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		require.Len(t, lines, 3)
		assert.True(t, strings.HasPrefix(lines[1], "resnet1.csv,resnet,,"), lines[1])
	})

	t.Run("jsonl", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "aggregated.jsonl")
		require.NoError(t, SaveRecords(path, columns, records))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		first := strings.SplitN(string(data), "\n", 2)[0]
		assert.Equal(t, `{"file":"resnet1.csv","model":"resnet","avg_power":null,"max_power":null}`, first)
	})

	t.Run("jsonl without columns", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "aggregated.jsonl")
		require.NoError(t, SaveRecords(path, nil, records[:1]))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"avg_power":null`)
	})

	t.Run("parquet", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "aggregated.parquet")
		require.NoError(t, SaveRecords(path, columns, records))
		loaded, _, err := LoadRecords(path)
		require.NoError(t, err)
		require.Len(t, loaded, 2)
		_, ok := loaded[0]["avg_power"]
		assert.False(t, ok)
		assert.Equal(t, 24010.5, loaded[1]["avg_power"])
	})
}
