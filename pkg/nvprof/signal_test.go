package nvprof

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSignalName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"SM Clock", "sm_clock"},
		{"Memory Clock", "memory_clock"},
		{"Temperature", "temperature"},
		{"fan", "fan"},
		{"GPU  Power Draw", "gpu__power_draw"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeSignalName(tt.in), tt.in)
	}
}

func TestParseSignals_FieldNames(t *testing.T) {
	path := writeProfile(t, t.TempDir(), "resnet1.csv", oneGPUProfile)

	rec, err := ParseSignals(File(path), 0, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 15, rec.Len())
	valid := regexp.MustCompile(`^[a-z_]+$`)
	for _, key := range rec.Keys() {
		assert.Regexp(t, valid, key)
	}
	assert.Equal(t, []string{"avg_sm_clock", "min_sm_clock", "max_sm_clock"}, rec.Keys()[:3])

	v, ok := rec.Get("avg_power")
	require.True(t, ok)
	assert.InDelta(t, 61234.2, v, 1e-9)
	v, _ = rec.Get("max_memory_clock")
	assert.Equal(t, 877.0, v)
}

func TestParseSignals_SecondGPU(t *testing.T) {
	path := writeProfile(t, t.TempDir(), "vgg1.csv", twoGPUProfile)

	gpu0, err := ParseSignals(File(path), 0, DefaultOptions())
	require.NoError(t, err)
	gpu1, err := ParseSignals(File(path), 1, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, gpu0.Keys(), gpu1.Keys())

	v0, _ := gpu0.Get("avg_sm_clock")
	v1, _ := gpu1.Get("avg_sm_clock")
	assert.Equal(t, 1380.5, v0)
	assert.Equal(t, 135.0, v1)

	v1, _ = gpu1.Get("max_fan")
	assert.Equal(t, 13.0, v1)
}

func TestParseSignals_LegacySecondGPU(t *testing.T) {
	path := writeProfile(t, t.TempDir(), "vgg1.csv", twoGPUProfile)

	rec, err := ParseSignals(File(path), 1, legacyTestOptions())
	require.NoError(t, err)

	v, _ := rec.Get("avg_temperature")
	assert.Equal(t, 30.0, v)
}

func TestParseSignals_GPUOutOfRange(t *testing.T) {
	path := writeProfile(t, t.TempDir(), "resnet1.csv", oneGPUProfile)

	_, err := ParseSignals(File(path), 1, DefaultOptions())
	require.ErrorIs(t, err, ErrGPUOutOfRange)
}

func TestParseSignals_NegativeGPU(t *testing.T) {
	_, err := ParseSignals(File("/does/not/matter.csv"), -1, DefaultOptions())
	require.ErrorIs(t, err, ErrInvalidGPU)
}

func TestParseSignals_NoSignalColumn(t *testing.T) {
	content := activityBlock + `
==12345== System profiling result:
"Device","Count","Avg","Min","Max"
"Tesla V100 (0)",12,1380,1312,1530
`
	path := writeProfile(t, t.TempDir(), "resnet1.csv", content)

	_, err := ParseSignals(File(path), 0, DefaultOptions())
	require.ErrorIs(t, err, ErrMalformedProfile)
}

func TestParseSignals_NotFound(t *testing.T) {
	path := "/nonexistent/profiles/vgg/missing.csv"

	_, err := ParseSignals(File(path), 0, DefaultOptions())
	require.ErrorIs(t, err, ErrProfileNotFound)
	assert.Contains(t, err.Error(), path)
}

func TestParseSignals_NoSource(t *testing.T) {
	_, err := ParseSignals(Source{}, 0, DefaultOptions())
	require.ErrorIs(t, err, ErrMissingSource)
}

func TestParseSignals_LegacySkipCountsBlankLines(t *testing.T) {
	path := writeProfile(t, t.TempDir(), "resnet1.csv", oneGPUProfile)

	opts := legacyTestOptions()
	rec, err := ParseSignals(File(path), 0, opts)
	require.NoError(t, err)
	v, _ := rec.Get("avg_sm_clock")
	assert.Equal(t, 1380.5, v)

	// Ten non-blank records precede the header, but eleven lines do.
	opts.Signals.Skip = 10
	_, err = ParseSignals(File(path), 0, opts)
	require.ErrorIs(t, err, ErrSectionNotFound)
}

func TestParseSignals_NegativeSkip(t *testing.T) {
	path := writeProfile(t, t.TempDir(), "resnet1.csv", oneGPUProfile)

	opts := legacyTestOptions()
	opts.Signals.Skip = -3
	_, err := ParseSignals(File(path), 0, opts)
	require.ErrorIs(t, err, ErrSectionNotFound)
}
