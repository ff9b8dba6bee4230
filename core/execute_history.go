package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/contract"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/iocache"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/logger"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/model"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/outwriter"
)

// ErrNothingToImport is returned when history import has no input files.
var ErrNothingToImport = errors.New("at least one of --daily-csv or --sessions-csv is required")

// ExecuteHistoryImport loads daily metrics and focus sessions from CSV files into the history store.
// Both files are parsed before anything is written.
func ExecuteHistoryImport(ctx context.Context, cfg *contract.Config, store contract.HistoryStore, dailyPath, sessionsPath string, w io.Writer) error {
	if cfg.UserID == "" {
		return ErrUserRequired
	}
	if dailyPath == "" && sessionsPath == "" {
		return ErrNothingToImport
	}
	if store == nil {
		return errors.New("history store is not initialized")
	}

	daily, err := readCSVFile(dailyPath, iocache.ReadDailyCSV)
	if err != nil {
		return err
	}
	sessions, err := readCSVFile(sessionsPath, iocache.ReadSessionsCSV)
	if err != nil {
		return err
	}

	if len(daily) > 0 {
		n, err := store.ImportDaily(ctx, cfg.UserID, daily)
		if err != nil {
			return fmt.Errorf("failed to import daily metrics: %w", err)
		}
		logger.Info("imported daily metrics", "user", cfg.UserID, "rows", n)
		_, _ = fmt.Fprintf(w, "Imported %d daily rows for %s\n", n, cfg.UserID)
	}
	if len(sessions) > 0 {
		n, err := store.ImportSessions(ctx, cfg.UserID, sessions)
		if err != nil {
			return fmt.Errorf("failed to import focus sessions: %w", err)
		}
		logger.Info("imported focus sessions", "user", cfg.UserID, "rows", n)
		_, _ = fmt.Fprintf(w, "Imported %d focus sessions for %s\n", n, cfg.UserID)
	}
	return nil
}

// readCSVFile parses path with read, returning nothing for an empty path.
func readCSVFile[T any](path string, read func(io.Reader) ([]T, error)) ([]T, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	rows, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return rows, nil
}

// ExecuteHistoryShow prints the measured history of cfg.UserID within cfg.HistoryDays.
func ExecuteHistoryShow(ctx context.Context, cfg *contract.Config, source contract.HistorySource) error {
	if cfg.UserID == "" {
		return ErrUserRequired
	}
	if source == nil {
		return errors.New("history store is not initialized")
	}
	records, err := source.FetchHistory(ctx, cfg.UserID, cfg.HistoryDays)
	if err != nil {
		return fmt.Errorf("failed to fetch history: %w", err)
	}
	return outwriter.NewOutWriter().WriteHistory(cfg.UserID, records, cfg)
}

// ExecuteModelInfo prints the metadata of the configured model.
// When the model file itself is given it is loaded too, so a broken model fails here.
func ExecuteModelInfo(cfg *contract.Config) error {
	if cfg.MetadataPath == "" {
		return &Error{Kind: KindModelUnavailable, Msg: "--model or --model-metadata is required"}
	}
	if cfg.ModelPath != "" {
		m, err := model.Load(cfg.ModelPath, cfg.MetadataPath)
		if err != nil {
			return wrapError(KindModelUnavailable, err, "failed to load model")
		}
		return outwriter.NewOutWriter().WriteModel(m.Metadata(), cfg)
	}
	meta, err := model.LoadMetadata(cfg.MetadataPath)
	if err != nil {
		return wrapError(KindModelUnavailable, err, "failed to load model metadata")
	}
	return outwriter.NewOutWriter().WriteModel(meta, cfg)
}
