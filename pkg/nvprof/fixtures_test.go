package nvprof

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const activityBlock = `==12345== NVPROF is profiling process 12345, command: python train.py
==12345== Profiling application: python train.py
==12345== Profiling result:
"Type","Time(%)","Time","Calls","Avg","Min","Max","Name"
,%,ms,,us,us,ms,
"GPU activities",88.005407,38.058423,125,304.467,0.864,13.759156,"[CUDA memcpy HtoD]"
"GPU activities",10.5,4.54,10,454.0,400.1,0.5,"volta_sgemm_128x64_nn"
"API calls",60.1,250.3,4,62575.0,5.2,250.1,"cudaMalloc"
"API calls",1.2,5.0,125,40.0,3.1,0.9,"cudaMemcpy"
`

const signalBanner = `
==12345== System profiling result:
,"Device","Count","Avg","Min","Max"
`

const gpu0Signals = `"SM Clock","Tesla V100-SXM2-16GB (0)",12,1380.5,1312,1530
"Memory Clock","Tesla V100-SXM2-16GB (0)",12,877,877,877
"Temperature","Tesla V100-SXM2-16GB (0)",24,41.5,39,44
"Power","Tesla V100-SXM2-16GB (0)",24,61234.2,39012,180250
"Fan","Tesla V100-SXM2-16GB (0)",12,0,0,0
`

const gpu1Signals = `"SM Clock","Tesla V100-SXM2-16GB (1)",12,135,135,135
"Memory Clock","Tesla V100-SXM2-16GB (1)",12,405,405,405
"Temperature","Tesla V100-SXM2-16GB (1)",24,30,29,31
"Power","Tesla V100-SXM2-16GB (1)",24,24010,23990,24100
"Fan","Tesla V100-SXM2-16GB (1)",12,12,11,13
`

// oneGPUProfile is a complete report for a single-GPU machine.
const oneGPUProfile = activityBlock + signalBanner + gpu0Signals

// twoGPUProfile carries signal blocks for two GPUs.
const twoGPUProfile = activityBlock + signalBanner + gpu0Signals + gpu1Signals

// legacyTestOptions pins the sections of oneGPUProfile by position. The
// signal header sits on line 12, after a blank line.
func legacyTestOptions() Options {
	return Options{
		Activity:      Window{Skip: 3, Rows: 5},
		Signals:       Window{Skip: 11, Rows: 5},
		SignalsPerGPU: DefaultSignalsPerGPU,
	}
}

func writeProfile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(strings.TrimLeft(content, "\n")), 0644))
	return path
}
