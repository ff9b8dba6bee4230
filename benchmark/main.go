// Package main provides a performance benchmarking tool for the busybee CLI.
// It measures execution times across history sizes and command types,
// running each test multiple times, treating the first successful run as cold and averaging the rest as warm,
// generating CSV output for performance analysis and documentation.
//
// Prerequisites:
// - busybee binary installed and available in PATH
// - A trained model file with its .meta.json sidecar
//
// Usage: go run benchmark/main.go [model-path]
//
//	model-path: Model file used for every forecast
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-store average, cold run and average of warm runs).
type BenchmarkResult struct {
	HistoryDays string
	Command     string
	NoStoreTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	ModelPath   string
	WorkDir     string
	Timeout     time.Duration
	NoStoreRuns int
	StoreRuns   int
	HistorySize []int
	Commands    map[string][]string
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [model-path]\n", os.Args[0])
		os.Exit(1)
	}

	workDir, err := os.MkdirTemp("", "busybee-benchmark-*")
	if err != nil {
		fmt.Printf("Failed to create work dir: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = os.RemoveAll(workDir) }()

	config := BenchmarkConfig{
		ModelPath:   os.Args[1],
		WorkDir:     workDir,
		Timeout:     time.Minute,
		NoStoreRuns: 3,
		StoreRuns:   4,
		HistorySize: []int{30, 120, 365},
		Commands: map[string][]string{
			"forecast": {"forecast", "--days", "7"},
			"plan":     {"plan", "--target-hours", "20"},
			"budget":   {"budget", "--period", "week", "--target-hours", "12"},
			"explain":  {"explain", "--top", "8"},
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	// Seed one user per history size
	fmt.Printf("Importing history...\n")
	if err := seedHistory(config); err != nil {
		fmt.Printf("Failed to import history: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the busybee binary and the model exist
func checkPrerequisites(config BenchmarkConfig) error {
	// Check if busybee is available
	if _, err := exec.LookPath("busybee"); err != nil {
		return fmt.Errorf("busybee binary not found in PATH")
	}

	if _, err := os.Stat(config.ModelPath); os.IsNotExist(err) {
		return fmt.Errorf("model not found at %s", config.ModelPath)
	}
	return nil
}

// userFor names the benchmark user holding days of history.
func userFor(days int) string {
	return fmt.Sprintf("bench-%d", days)
}

// storeEnv points both stores at files in the work dir, or disables forecast storage.
func storeEnv(config BenchmarkConfig, forecastBackend string) []string {
	env := append(os.Environ(),
		"BUSYBEE_HISTORY_BACKEND=sqlite",
		"BUSYBEE_HISTORY_DB_CONNECT="+filepath.Join(config.WorkDir, "history.db"),
		"BUSYBEE_FORECAST_BACKEND="+forecastBackend,
		"BUSYBEE_LOG_DIR="+filepath.Join(config.WorkDir, "logs"),
	)
	if forecastBackend == "sqlite" {
		env = append(env, "BUSYBEE_FORECAST_DB_CONNECT="+filepath.Join(config.WorkDir, "forecast.db"))
	}
	return env
}

// seedHistory writes a synthetic daily CSV per history size and imports it.
func seedHistory(config BenchmarkConfig) error {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	for _, days := range config.HistorySize {
		var b strings.Builder
		b.WriteString("date,focus_minutes,idle_minutes,idle_sessions,error_count,error_fix_minutes,day_focus_minutes,night_focus_minutes\n")
		for i := days; i >= 1; i-- {
			focus := 60 + (i*37)%120
			_, _ = fmt.Fprintf(&b, "%s,%d,%d,%d,%d,%d,%d,%d\n",
				today.AddDate(0, 0, -i).Format("2006-01-02"), focus, 20+i%30, 2+i%4, i%7, i%25, focus*3/4, focus/4)
		}
		path := filepath.Join(config.WorkDir, userFor(days)+".csv")
		if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
			return err
		}

		cmd := exec.Command("busybee", "history", "import", "--user", userFor(days), "--daily-csv", path)
		cmd.Env = storeEnv(config, "none")
		if output, err := cmd.CombinedOutput(); err != nil {
			return fmt.Errorf("%w\nOutput: %s", err, string(output))
		}
	}
	return nil
}

// runBenchmarks executes all benchmark tests across configured history sizes
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d history sizes, %v timeout, no-store: %d runs, store: %d runs\n",
		len(config.HistorySize), config.Timeout, config.NoStoreRuns, config.StoreRuns)

	for _, days := range config.HistorySize {
		fmt.Printf("Benchmarking %d days of history\n", days)
		for _, command := range []string{"forecast", "plan", "budget", "explain"} {
			results = append(results, runBenchmarkSuite(config, days, command))
		}
	}

	return results
}

// runBenchmarkSuite runs both no-store and store benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, days int, command string) BenchmarkResult {
	fmt.Printf("Running %s for %s\n", command, userFor(days))

	// Helper to run a benchmark phase
	runPhase := func(forecastBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, days, command, forecastBackend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avg := sum / float64(len(times))
			avgTime = fmt.Sprintf("%.3fs", avg)
		}
		return cold, avgTime
	}

	// Phase 1: Runs without forecast storage
	_, noStoreAvg := runPhase("none", config.NoStoreRuns, "No-store")

	// Phase 2: Runs saving to and reading from forecast storage
	coldTime, warmAvg := runPhase("sqlite", config.StoreRuns, "Store")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-store average: %s, Cold time: %s, Warm average: %s\n", noStoreAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		HistoryDays: fmt.Sprintf("%d", days),
		Command:     command,
		NoStoreTime: noStoreAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a busybee command multiple times with the specified forecast backend
// and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, days int, command, forecastBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	// Prepare command arguments
	args := append([]string{}, config.Commands[command]...)
	args = append(args, "--user", userFor(days), "--model", config.ModelPath, "--output", "json")

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("busybee", args...)
		cmd.Env = storeEnv(config, forecastBackend)

		done := make(chan bool, 1)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.Output()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
			_ = cmd.Process.Kill()
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output is a JSON document for the benchmark user
func isSuccess(output []byte) bool {
	outputStr := strings.TrimSpace(string(output))
	return strings.HasPrefix(outputStr, "{") && strings.Contains(outputStr, `"user_id"`)
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("busybee_benchmark_%s.csv", timestamp))

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

	// Write header
	if err := writer.Write([]string{"history_days", "cmd", "no_store_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{result.HistoryDays, result.Command, result.NoStoreTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	printCommandSummary(results, "forecast", "Forecast:")
	printCommandSummary(results, "plan", "Plan:")
	printCommandSummary(results, "budget", "Budget:")
	printCommandSummary(results, "explain", "Explain:")

	fmt.Printf("Benchmark script completed successfully\n")
}

// printCommandSummary displays results for a specific command type
func printCommandSummary(results []BenchmarkResult, command, title string) {
	fmt.Printf("%s\n", title)
	for _, result := range results {
		if result.Command == command {
			fmt.Printf("  %-6s days: No-store: %s, Cold: %s, Warm: %s\n", result.HistoryDays, result.NoStoreTime, result.ColdTime, result.WarmTime)
		}
	}
}
