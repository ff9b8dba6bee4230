package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/contract"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/schema"
)

// WriteModelResult outputs model metadata, dispatching based on the output format configured.
func WriteModelResult(meta schema.ModelMetadata, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, meta)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeModelCSV(w, meta, fmtFloat)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for model info, use json or csv")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeModelTable(w, meta, cfg, fmtFloat)
		}, "Wrote table")
	}
}

func modelRows(meta schema.ModelMetadata, fmtFloat func(float64) string) [][]string {
	cutoff := meta.CutoffDate
	if cutoff == "" {
		cutoff = "-"
	}
	return [][]string{
		{"Version", meta.ModelVersion},
		{"Type", meta.ModelType},
		{"Features", strconv.Itoa(len(meta.Features))},
		{"P90 abs residual", fmtFloat(meta.P90AbsResidual)},
		{"MAE (test)", fmtFloat(meta.MAETest)},
		{"Train rows", strconv.Itoa(meta.TrainRows)},
		{"Test rows", strconv.Itoa(meta.TestRows)},
		{"Cutoff date", cutoff},
		{"Importance", yesNo(len(meta.FeatureImportance) > 0)},
	}
}

func writeModelTable(w io.Writer, meta schema.ModelMetadata, cfg *contract.Config, fmtFloat func(float64) string) error {
	if err := writeTitle(w, cfg, "🧠", "Model "+meta.ModelVersion); err != nil {
		return err
	}
	if err := renderTable(w, []string{"Property", "Value"}, modelRows(meta, fmtFloat)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Feature order: %s\n", strings.Join(meta.Features, ", "))
	return err
}

func writeModelCSV(w io.Writer, meta schema.ModelMetadata, fmtFloat func(float64) string) error {
	return writeCSVWithHeader(w, []string{"property", "value"}, func(cw *csv.Writer) error {
		for _, row := range modelRows(meta, fmtFloat) {
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return cw.Write([]string{"Feature order", strings.Join(meta.Features, ";")})
	})
}
