package contract

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPlainLabel(t *testing.T) {
	tests := []struct {
		level string
		want  string
	}{
		{"high", HighValue},
		{"HIGH", HighValue},
		{"medium", MediumValue},
		{"fair", FairValue},
		{"low", LowValue},
		{"", LowValue},
		{"unknown", LowValue},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, GetPlainLabel(tt.level), "level %q", tt.level)
	}
}

func TestGetColorLabel(t *testing.T) {
	for _, level := range []string{"high", "medium", "fair", "low"} {
		t.Run(level, func(t *testing.T) {
			assert.Contains(t, GetColorLabel(level), GetPlainLabel(level))
			assert.Contains(t, GetSeverityLabel(level), GetPlainLabel(level))
		})
	}
}

func TestSelectOutputFile(t *testing.T) {
	t.Run("empty path returns stdout", func(t *testing.T) {
		file, err := SelectOutputFile("")
		require.NoError(t, err)
		assert.Equal(t, os.Stdout, file)
	})

	t.Run("valid path creates file", func(t *testing.T) {
		tempFile := filepath.Join(t.TempDir(), "plan.json")

		file, err := SelectOutputFile(tempFile)
		require.NoError(t, err)
		assert.NotNil(t, file)
		_ = file.Close()

		_, err = os.Stat(tempFile)
		assert.NoError(t, err)
	})
}

func TestGetDBFilePaths(t *testing.T) {
	history := GetHistoryDBFilePath()
	forecast := GetForecastDBFilePath()
	assert.Equal(t, ".busybee_history.db", filepath.Base(history))
	assert.Equal(t, ".busybee_forecast.db", filepath.Base(forecast))
	assert.NotEqual(t, history, forecast)
	assert.Equal(t, "logs", filepath.Base(GetLogDir()))
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "0m", FormatMinutes(0))
	assert.Equal(t, "45m", FormatMinutes(45))
	assert.Equal(t, "1h 00m", FormatMinutes(60))
	assert.Equal(t, "2h 05m", FormatMinutes(125))
}

func TestFormatDateLabel(t *testing.T) {
	d := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "Mon 2026-10-19", FormatDateLabel(d))
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "TRUE", "1"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.True(t, v)
	}
	for _, s := range []string{"no", "False", "0"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.False(t, v)
	}
	_, err := ParseBoolString("maybe")
	assert.Error(t, err)
}

func FuzzParseBoolString(f *testing.F) {
	for _, seed := range []string{"yes", "no", "", "1", "tru"} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, s string) {
		v, err := ParseBoolString(s)
		if err != nil {
			assert.False(t, v)
		}
	})
}
