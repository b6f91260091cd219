package utils

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/TheEpicBlock/mid-journey/pipeline"
)

// Verbose controls whether timing statistics are printed.
// Set to false to suppress output.
var Verbose = true

// Output is the writer where timing statistics are printed.
// Defaults to os.Stderr so it never mixes with colour output.
var Output io.Writer = os.Stderr

// TimingStats accumulates time spent in each stage of a run.
type TimingStats struct {
	LoadTime    time.Duration // reading config and parameters
	EncodeTime  time.Duration // text -> feature vector
	ForwardTime time.Duration // plaintext network evaluation
	DecodeTime  time.Duration // OkLab -> sRGB
	PrivateTime time.Duration // encrypted round trips, keygen included
}

// Total sums every stage.
func (s *TimingStats) Total() time.Duration {
	return s.LoadTime + s.EncodeTime + s.ForwardTime + s.DecodeTime + s.PrivateTime
}

// AddPrediction accumulates the stage timings of one plaintext prediction.
func (s *TimingStats) AddPrediction(t pipeline.Timings) {
	s.EncodeTime += t.Encode
	s.ForwardTime += t.Forward
	s.DecodeTime += t.Decode
}

// Track adds the time elapsed since start to *d.
func Track(d *time.Duration, start time.Time) {
	*d += time.Since(start)
}

// PrintTimingStats prints a breakdown for n evaluated strings.
// Respects the Verbose flag - does nothing if Verbose is false.
func PrintTimingStats(stats *TimingStats, n int) {
	if !Verbose {
		return
	}
	total := stats.Total()
	fmt.Fprintln(Output, "\n=== TIMING STATISTICS ===")
	fmt.Fprintf(Output, "Total time: %v\n", total)
	fmt.Fprintf(Output, "Strings evaluated: %d\n", n)
	fmt.Fprintln(Output, "\nBreakdown by operation:")
	fmt.Fprintf(Output, "  Model loading: %v (%.1f%%)\n", stats.LoadTime, percent(stats.LoadTime, total))
	fmt.Fprintf(Output, "  Encoding: %v (%.1f%%)\n", stats.EncodeTime, percent(stats.EncodeTime, total))
	fmt.Fprintf(Output, "  Forward pass: %v (%.1f%%)\n", stats.ForwardTime, percent(stats.ForwardTime, total))
	fmt.Fprintf(Output, "  Decoding: %v (%.1f%%)\n", stats.DecodeTime, percent(stats.DecodeTime, total))
	fmt.Fprintf(Output, "  Private evaluation: %v (%.1f%%)\n", stats.PrivateTime, percent(stats.PrivateTime, total))
	if n > 0 {
		fmt.Fprintln(Output, "\nPer string:")
		fmt.Fprintf(Output, "  Average forward pass time: %.1fµs\n", DurationUS(stats.ForwardTime)/float64(n))
		fmt.Fprintf(Output, "  Average private time: %.1fµs\n", DurationUS(stats.PrivateTime)/float64(n))
	}
}

func percent(d, total time.Duration) float64 {
	if total == 0 {
		return 0
	}
	return float64(d) / float64(total) * 100
}

// DurationUS converts any time.Duration to micro-seconds as float64
func DurationUS(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1_000.0
}
