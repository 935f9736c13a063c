// Package main benchmarks the blqdash dashboard API.
// It starts `blqdash serve` once without a figure cache and once with SQLite,
// requests every output several times per selection, treats the first
// successful request as cold and averages the rest as warm, and writes the
// timings to CSV.
//
// Prerequisites:
// - blqdash binary installed and available in PATH
//
// Usage: go run benchmark/main.go [port]
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"slices"
	"time"
)

// BenchmarkResult holds the result of one output and selection (no-cache average, cold request and average of warm requests).
type BenchmarkResult struct {
	Selection   string
	Output      string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	Addr        string
	Timeout     time.Duration
	NoCacheRuns int
	CacheRuns   int
	Outputs     []string
	Selections  map[string]url.Values
}

func main() {
	port := "18050"
	if len(os.Args) == 2 {
		port = os.Args[1]
	} else if len(os.Args) > 2 {
		fmt.Printf("Usage: %s [port]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		Addr:        "127.0.0.1:" + port,
		Timeout:     10 * time.Second,
		NoCacheRuns: 5,
		CacheRuns:   6,
		Outputs:     []string{"trends", "annotations", "volumes", "emissions", "efficiency"},
		Selections: map[string]url.Values{
			"default":     {},
			"all-metrics": {"metrics": {"Passengers,Movements,Cargo Tons,CO2 Emissions,Average Delay"}},
			"post-covid":  {"start": {"2020"}, "end": {"2024"}, "metrics": {"Passengers"}, "volume": {"cargo"}},
		},
	}

	if _, err := exec.LookPath("blqdash"); err != nil {
		fmt.Printf("Prerequisites check failed: blqdash binary not found in PATH\n")
		os.Exit(1)
	}

	results, err := runBenchmarks(config)
	if err != nil {
		fmt.Printf("Benchmark failed: %v\n", err)
		os.Exit(1)
	}

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// runBenchmarks measures every output and selection against both cache phases.
func runBenchmarks(config BenchmarkConfig) ([]BenchmarkResult, error) {
	fmt.Printf("Starting benchmark: %d outputs, %d selections, no-cache: %d runs, cache: %d runs\n",
		len(config.Outputs), len(config.Selections), config.NoCacheRuns, config.CacheRuns)

	noCache, err := runPhase(config, "none", config.NoCacheRuns)
	if err != nil {
		return nil, err
	}
	cached, err := runPhase(config, "sqlite", config.CacheRuns)
	if err != nil {
		return nil, err
	}

	var results []BenchmarkResult
	for _, name := range slices.Sorted(maps.Keys(config.Selections)) {
		for _, output := range config.Outputs {
			key := name + "/" + output
			_, noCacheAvg := summarize(noCache[key])
			cold, warmAvg := summarize(cached[key])
			results = append(results, BenchmarkResult{
				Selection:   name,
				Output:      output,
				NoCacheTime: noCacheAvg,
				ColdTime:    cold,
				WarmTime:    warmAvg,
			})
		}
	}
	return results, nil
}

// runPhase starts a server with the given cache backend and times every request.
// The server gets its own HOME so the SQLite cache starts empty.
func runPhase(config BenchmarkConfig, cacheBackend string, numRuns int) (map[string][]float64, error) {
	fmt.Printf("  %s phase (%d runs)\n", cacheBackend, numRuns)

	home, err := os.MkdirTemp("", "blqdash-benchmark-*")
	if err != nil {
		return nil, err
	}
	defer func() { _ = os.RemoveAll(home) }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cmd := exec.CommandContext(ctx, "blqdash", "serve", "--no-warm", "--addr", config.Addr, "--cache-backend", cacheBackend)
	cmd.Env = append(os.Environ(), "HOME="+home)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start server: %w", err)
	}
	defer func() { _ = cmd.Wait() }()
	defer cancel()

	client := &http.Client{Timeout: config.Timeout}
	base := "http://" + config.Addr
	if err := waitHealthy(client, base+"/healthz", config.Timeout); err != nil {
		return nil, err
	}

	timings := make(map[string][]float64)
	for name, query := range config.Selections {
		for _, output := range config.Outputs {
			target := fmt.Sprintf("%s/api/outputs/%s?%s", base, output, query.Encode())
			for range numRuns {
				if elapsed, ok := timeRequest(client, target); ok {
					key := name + "/" + output
					timings[key] = append(timings[key], elapsed)
				}
			}
		}
	}
	return timings, nil
}

// waitHealthy polls the health endpoint until the server answers.
func waitHealthy(client *http.Client, target string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := client.Get(target)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("server did not become healthy within %v", timeout)
}

// timeRequest returns the time of a successful request in milliseconds.
func timeRequest(client *http.Client, target string) (float64, bool) {
	start := time.Now()
	resp, err := client.Get(target)
	if err != nil {
		return 0, false
	}
	defer func() { _ = resp.Body.Close() }()
	if _, err := io.Copy(io.Discard, resp.Body); err != nil || resp.StatusCode != http.StatusOK {
		return 0, false
	}
	return float64(time.Since(start).Microseconds()) / 1000, true
}

// summarize returns the cold time and the average of the remaining runs.
func summarize(times []float64) (cold, warmAvg string) {
	if len(times) == 0 {
		return "FAILED", "FAILED"
	}
	cold = fmt.Sprintf("%.3fms", times[0])
	if len(times) == 1 {
		return cold, cold
	}
	var sum float64
	for _, t := range times[1:] {
		sum += t
	}
	return cold, fmt.Sprintf("%.3fms", sum/float64(len(times)-1))
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/blqdash_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"selection", "output", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Selection, result.Output, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, result := range results {
		fmt.Printf("  %-12s %-12s: No-cache: %s, Cold: %s, Warm: %s\n",
			result.Selection, result.Output, result.NoCacheTime, result.ColdTime, result.WarmTime)
	}
}
