package utils

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/TheEpicBlock/mid-journey/pipeline"
)

func TestDurationUS(t *testing.T) {
	d := 1234*time.Microsecond + 567*time.Nanosecond
	got := DurationUS(d)
	if math.Abs(got-1234.567) > 0.001 {
		t.Fatalf("want 1234.567µs, got %.3f", got)
	}
}

func TestTrack(t *testing.T) {
	var d time.Duration
	Track(&d, time.Now().Add(-time.Millisecond))
	if d < time.Millisecond {
		t.Fatalf("tracked %v, want at least 1ms", d)
	}
}

func TestAddPrediction(t *testing.T) {
	stats := &TimingStats{}
	stats.AddPrediction(pipeline.Timings{Encode: 1 * time.Microsecond, Forward: 5 * time.Microsecond, Decode: 2 * time.Microsecond})
	stats.AddPrediction(pipeline.Timings{Encode: 1 * time.Microsecond, Forward: 5 * time.Microsecond, Decode: 2 * time.Microsecond})
	if stats.EncodeTime != 2*time.Microsecond || stats.ForwardTime != 10*time.Microsecond || stats.DecodeTime != 4*time.Microsecond {
		t.Fatalf("unexpected totals: %+v", stats)
	}
	if stats.Total() != 16*time.Microsecond {
		t.Fatalf("Total = %v, want 16µs", stats.Total())
	}
}

func TestPrintTimingStats(t *testing.T) {
	oldOut, oldVerbose := Output, Verbose
	defer func() { Output, Verbose = oldOut, oldVerbose }()

	var buf bytes.Buffer
	Output = &buf
	stats := &TimingStats{EncodeTime: time.Millisecond, ForwardTime: 3 * time.Millisecond}

	Verbose = false
	PrintTimingStats(stats, 2)
	if buf.Len() != 0 {
		t.Fatalf("printed while not verbose: %q", buf.String())
	}

	Verbose = true
	PrintTimingStats(stats, 2)
	out := buf.String()
	for _, want := range []string{"Total time: 4ms", "Strings evaluated: 2", "Forward pass: 3ms (75.0%)", "Average forward pass time: 1500.0µs"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintTimingStatsEmpty(t *testing.T) {
	oldOut, oldVerbose := Output, Verbose
	defer func() { Output, Verbose = oldOut, oldVerbose }()
	var buf bytes.Buffer
	Output, Verbose = &buf, true

	PrintTimingStats(&TimingStats{}, 0)
	if strings.Contains(buf.String(), "NaN") {
		t.Fatalf("NaN in output:\n%s", buf.String())
	}
}
