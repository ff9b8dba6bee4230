package iocache

import (
	"errors"
	"fmt"

	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/parquet"
)

// ExecuteForecastExport exports saved forecasts, plans and registered models to Parquet files.
func ExecuteForecastExport(outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	store := Manager.GetForecastStore()
	if store == nil {
		return errors.New("forecast store is not initialized")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get forecast store status: %w", err)
	}

	if status.TotalForecasts == 0 && status.TotalPlans == 0 {
		return errors.New("no forecast data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total forecast rows: %d\n", status.TotalForecasts)
	fmt.Printf("Total plans: %d\n", status.TotalPlans)

	forecasts, err := store.GetAllForecasts()
	if err != nil {
		return fmt.Errorf("failed to retrieve forecasts: %w", err)
	}
	plans, err := store.GetAllPlans()
	if err != nil {
		return fmt.Errorf("failed to retrieve plans: %w", err)
	}
	models, err := store.GetAllModels()
	if err != nil {
		return fmt.Errorf("failed to retrieve models: %w", err)
	}

	forecastsFile := outputFile + ".forecasts.parquet"
	if err := parquet.WriteForecastsParquet(parquet.ConvertForecastRecords(forecasts), forecastsFile); err != nil {
		return fmt.Errorf("failed to write forecasts: %w", err)
	}
	fmt.Printf("Exported %d forecast rows to: %s\n", len(forecasts), forecastsFile)

	plansFile := outputFile + ".plans.parquet"
	if err := parquet.WritePlansParquet(parquet.ConvertPlanRecords(plans), plansFile); err != nil {
		return fmt.Errorf("failed to write plans: %w", err)
	}
	fmt.Printf("Exported %d plans to: %s\n", len(plans), plansFile)

	modelsFile := outputFile + ".models.parquet"
	if err := parquet.WriteModelsParquet(parquet.ConvertModelRecords(models), modelsFile); err != nil {
		return fmt.Errorf("failed to write models: %w", err)
	}
	fmt.Printf("Exported %d models to: %s\n", len(models), modelsFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
