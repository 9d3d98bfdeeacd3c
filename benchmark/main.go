// Package main provides a performance benchmarking tool for the rateplot CLI.
// It measures execution times across sample directories and command types,
// running each test multiple times, treating the first successful run as cold and averaging the rest as warm,
// generating CSV output for performance analysis and documentation.
//
// Prerequisites:
// - rateplot binary installed and available in PATH
// - Sample directories under the base directory, e.g. written by examples/generate_samples.go
//
// Usage: go run benchmark/main.go [sample-base-dir] [sample-dir...]
//
//	sample-base-dir: Directory containing the sample directories
//	sample-dir:      Sample directories to benchmark (default: every subdirectory)
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	SampleDir   string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	SampleBase  string
	Timeout     time.Duration
	NoCacheRuns int
	CacheRuns   int
	SampleDirs  []string
}

// benchmarkCommand is one CLI invocation and the line its successful output contains.
type benchmarkCommand struct {
	name       string
	args       []string
	completion string
}

var commands = []benchmarkCommand{
	{"rate", []string{"rate"}, "Run completed in"},
	{"rate2d", []string{"rate2d"}, "Run completed in"},
	{"sources", []string{"sources"}, "origin yields in"},
	{"classes", []string{"classes"}, "class fractions in"},
}

func main() {
	if len(os.Args) < 2 {
		fmt.Printf("Usage: %s [sample-base-dir] [sample-dir...]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		SampleBase:  os.Args[1],
		Timeout:     5 * time.Minute,
		NoCacheRuns: 3,
		CacheRuns:   4,
		SampleDirs:  os.Args[2:],
	}
	if len(config.SampleDirs) == 0 {
		dirs, err := listSampleDirs(config.SampleBase)
		if err != nil {
			fmt.Printf("Failed to list sample directories: %v\n", err)
			os.Exit(1)
		}
		config.SampleDirs = dirs
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Clearing cache...\n")
	clearCmd := exec.Command("rateplot", "cache", "clear")
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	} else {
		fmt.Printf("Cache cleared successfully\n")
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// listSampleDirs returns the subdirectories of base.
func listSampleDirs(base string) ([]string, error) {
	entries, err := os.ReadDir(base)
	if err != nil {
		return nil, err
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e.Name())
		}
	}
	return dirs, nil
}

// checkPrerequisites verifies that the rateplot binary and the sample directories exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("rateplot"); err != nil {
		return fmt.Errorf("rateplot binary not found in PATH")
	}
	if len(config.SampleDirs) == 0 {
		return fmt.Errorf("no sample directories found under %s", config.SampleBase)
	}
	for _, dir := range config.SampleDirs {
		path := filepath.Join(config.SampleBase, dir)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("sample directory %s not found at %s", dir, path)
		}
	}
	return nil
}

// runBenchmarks executes all benchmark tests across the sample directories
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d sample dirs, %v timeout, no-cache: %d runs, cache: %d runs\n",
		len(config.SampleDirs), config.Timeout, config.NoCacheRuns, config.CacheRuns)

	for _, dir := range config.SampleDirs {
		fmt.Printf("Benchmarking %s\n", dir)
		samplePath := filepath.Join(config.SampleBase, dir)
		for _, c := range commands {
			results = append(results, runBenchmarkSuite(config, dir, samplePath, c))
		}
	}

	return results
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, dir, samplePath string, c benchmarkCommand) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", c.name, dir)

	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, samplePath, c, cacheBackend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avgTime = fmt.Sprintf("%.3fs", sum/float64(len(times)))
		}
		return cold, avgTime
	}

	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		SampleDir:   dir,
		Command:     c.name,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a rateplot command multiple times with the given cache backend and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, samplePath string, c benchmarkCommand, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := append(append([]string{}, c.args...), samplePath, "--cache-backend", cacheBackend)

	var times []float64
	for range numRuns {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		start := time.Now()
		output, err := exec.CommandContext(ctx, "rateplot", args...).CombinedOutput()
		elapsed := time.Since(start).Seconds()
		cancel()
		if err == nil && strings.Contains(string(output), c.completion) {
			times = append(times, elapsed)
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("rateplot_benchmark_%s.csv", timestamp))

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

	if err := writer.Write([]string{"samples", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.SampleDir, result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, c := range commands {
		fmt.Printf("%s:\n", c.name)
		for _, result := range results {
			if result.Command == c.name {
				fmt.Printf("  %-12s: No-cache: %s, Cold: %s, Warm: %s\n", result.SampleDir, result.NoCacheTime, result.ColdTime, result.WarmTime)
			}
		}
	}
}
