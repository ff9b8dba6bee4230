//go:build basic || database

package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var (
	// sharedBusybeePath holds the path to a shared busybee binary built once for all tests.
	sharedBusybeePath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	// Run all tests
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getBusybeeBinary returns the path to the busybee binary, building it once if needed.
func getBusybeeBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		// Create a temp directory for the binary
		var err error
		tempDir, err = os.MkdirTemp("", "busybee-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		busybeePath := filepath.Join(tempDir, "busybee")
		buildCmd := exec.Command("go", "build", "-o", busybeePath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		err = buildCmd.Run()
		if err != nil {
			panic(fmt.Sprintf("failed to build busybee: %v", err))
		}

		sharedBusybeePath = busybeePath
	})

	return sharedBusybeePath
}

// runBusybeeCommand runs the binary from the project root and returns its combined output.
func runBusybeeCommand(t *testing.T, env []string, args ...string) (string, error) {
	cmd := exec.Command(getBusybeeBinary(), args...)
	cmd.Dir = "../" // Run from project root
	cmd.Env = append(os.Environ(), env...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("Command failed: %s\nOutput: %s", cmd.String(), string(output))
	}
	return string(output), err
}

// writeFixtures writes 30 days of telemetry ending yesterday, a week of sessions
// and a linear model over the lag features.
func writeFixtures(t *testing.T) (dailyCSV, sessionsCSV, modelPath string) {
	t.Helper()
	dir := t.TempDir()
	today := time.Now().UTC().Truncate(24 * time.Hour)

	var daily strings.Builder
	daily.WriteString("date,focus_minutes,idle_minutes,idle_sessions,error_count,day_focus_minutes,night_focus_minutes\n")
	for i := 30; i >= 1; i-- {
		day := today.AddDate(0, 0, -i)
		focus := 90 + 10*(i%4)
		fmt.Fprintf(&daily, "%s,%d,%d,%d,%d,%d,%d\n", day.Format("2006-01-02"), focus, 25, 3, 2, focus*2/3, focus/3)
	}
	dailyCSV = filepath.Join(dir, "daily.csv")
	require.NoError(t, os.WriteFile(dailyCSV, []byte(daily.String()), 0o644))

	var sessions strings.Builder
	sessions.WriteString("start,duration_minutes\n")
	for i := 7; i >= 1; i-- {
		day := today.AddDate(0, 0, -i)
		fmt.Fprintf(&sessions, "%s,%d\n", day.Add(9*time.Hour).Format(time.RFC3339), 50)
		fmt.Fprintf(&sessions, "%s,%d\n", day.Add(16*time.Hour).Format(time.RFC3339), 40)
	}
	sessionsCSV = filepath.Join(dir, "sessions.csv")
	require.NoError(t, os.WriteFile(sessionsCSV, []byte(sessions.String()), 0o644))

	modelPath = filepath.Join(dir, "focus.json")
	model := `{"intercept": 10, "coefficients": {"focus_lag_1": 0.5, "focus_rollmean_7": 0.4}}`
	meta := `{"model_version": "linear-it", "features": ["focus_lag_1", "focus_rollmean_7"], "p90_abs_residual": 15}`
	require.NoError(t, os.WriteFile(modelPath, []byte(model), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "focus.meta.json"), []byte(meta), 0o644))
	return dailyCSV, sessionsCSV, modelPath
}
