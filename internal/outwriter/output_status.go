package outwriter

import (
	"fmt"
	"io"

	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/contract"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/iocache"
	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/schema"
)

// WriteStoreStatusResult outputs the status of both stores.
// Only text and JSON are supported.
func WriteStoreStatusResult(status schema.StoreStatus, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, status)
		}, "Wrote JSON")
	case schema.TextOut, "":
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if err := writeTitle(w, cfg, "🗄️ ", "Store status"); err != nil {
				return err
			}
			iocache.PrintHistoryStatus(w, status.History)
			_, _ = fmt.Fprintln(w)
			iocache.PrintForecastStatus(w, status.Forecast)
			return nil
		}, "Wrote status")
	default:
		return fmt.Errorf("store status supports text and json output, not %s", cfg.Output)
	}
}
