// Command genseries writes a synthetic hourly temperature CSV for exercising
// the cleaning pipeline. The series follows a daily sine cycle with Gaussian
// noise; a configurable number of spikes and missing gaps are injected at
// deterministic positions so repeated runs with the same seed produce the
// same file.
//
// Usage:
//
//	go run ./cmd/genseries -out testdata/demo.csv -hours 168 -spikes 3 -gaps 2
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

var baseDate = time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output CSV path")
	hours := flag.Int("hours", 168, "number of hourly readings")
	seed := flag.Int64("seed", 42, "random seed")
	base := flag.Float64("base", 15.0, "mean temperature")
	spikes := flag.Int("spikes", 3, "number of injected outlier spikes")
	gaps := flag.Int("gaps", 2, "number of injected missing gaps")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if *hours < 1 {
		return fmt.Errorf("-hours must be positive, got %d", *hours)
	}

	rng := rand.New(rand.NewSource(*seed))
	values := generate(rng, *hours, *base)

	spikeIdx := inject(rng, values, *spikes, func(i int) {
		// Push well outside any plausible envelope, sign chosen at random.
		sign := 1.0
		if rng.Intn(2) == 0 {
			sign = -1.0
		}
		values[i] = *base + sign*(200+rng.Float64()*100)
	})
	gapIdx := inject(rng, values, *gaps, func(i int) {
		values[i] = math.NaN()
		// Occasionally extend the gap by one reading.
		if rng.Intn(2) == 0 && i+1 < len(values) {
			values[i+1] = math.NaN()
		}
	})

	if err := writeCSV(*out, values); err != nil {
		return err
	}

	log.Printf("wrote %s: %d readings, spikes at %v, gaps at %v", *out, *hours, spikeIdx, gapIdx)
	return nil
}

// generate produces a daily sine cycle around base with sd 2 noise.
func generate(rng *rand.Rand, hours int, base float64) []float64 {
	values := make([]float64, hours)
	for i := range values {
		cycle := 5 * math.Sin(2*math.Pi*float64(i%24)/24)
		values[i] = base + cycle + rng.NormFloat64()*2
	}
	return values
}

// inject applies fn at up to n distinct random positions and returns them.
// fn may invalidate further slots, so eligibility is recomputed before each
// pick and injection stops as soon as no finite slot remains.
func inject(rng *rand.Rand, values []float64, n int, fn func(i int)) []int {
	picked := make(map[int]bool, n)
	idx := make([]int, 0, n)
	for len(idx) < n {
		eligible := make([]int, 0, len(values))
		for i, v := range values {
			if !picked[i] && !math.IsNaN(v) {
				eligible = append(eligible, i)
			}
		}
		if len(eligible) == 0 {
			break
		}
		i := eligible[rng.Intn(len(eligible))]
		picked[i] = true
		idx = append(idx, i)
		fn(i)
	}
	return idx
}

func writeCSV(path string, values []float64) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"timestamp", "temperature"}); err != nil {
		return err
	}
	for i, v := range values {
		ts := baseDate.Add(time.Duration(i) * time.Hour).Format(time.RFC3339)
		cell := "NA"
		if !math.IsNaN(v) {
			cell = strconv.FormatFloat(v, 'f', 2, 64)
		}
		if err := w.Write([]string{ts, cell}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
