package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"home_maintenance/internal/application"
	"home_maintenance/internal/domain/service/classifier"
	"home_maintenance/internal/domain/service/schedule"
	"home_maintenance/internal/domain/value"
	"home_maintenance/internal/importer"
	"home_maintenance/pkg/contextx"
)

//nolint:gochecknoglobals
var (
	classifyRange value.RangeDefinition
	classifyValue float64
	rangesFile    string
)

//nolint:gochecknoglobals
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and reminder delivery",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return application.Run(cmd.Context(), cfg)
	},
}

//nolint:gochecknoglobals
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		storage, err := application.OpenStorage(ctx, cfg.Database)
		if err != nil {
			return err
		}
		storage.Close(ctx)

		contextx.LoggerFromContextOrDefault(ctx).Info("database is up to date")

		return nil
	},
}

//nolint:gochecknoglobals
var classifyCmd = &cobra.Command{
	Use:     "classify",
	Short:   "Classify a reading against a desired range",
	Example: "  home_maintenance classify --value -5 --low -10 --high -2",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := classifyRange.Validate(); err != nil {
			return err
		}

		status := classifier.Classify(classifyValue, classifyRange)
		colour := status.Colour()

		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", status, colour.Name, colour.Hex)

		return nil
	},
}

//nolint:gochecknoglobals
var nextDateCmd = &cobra.Command{
	Use:   "next-date DATE",
	Short: "Print the planned date of the next pool test",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := schedule.ParseTestDate(args[0])
		if err != nil {
			return err
		}

		next := schedule.NextPlannedDate(d)

		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", next, schedule.AddMonth(d))

		return nil
	},
}

//nolint:gochecknoglobals
var seedRangesCmd = &cobra.Command{
	Use:   "seed-ranges",
	Short: "Write the desired ranges table (defaults or --file)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		storage, err := application.OpenStorage(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer storage.Close(ctx)

		if rangesFile == "" {
			return storage.Pool.SeedDefaultRanges(ctx)
		}

		f, err := os.Open(rangesFile)
		if err != nil {
			return fmt.Errorf("os.Open: %w", err)
		}
		defer f.Close()

		table, err := importer.ReadRangesYAML(f)
		if err != nil {
			return err
		}

		return storage.Pool.ReplaceRanges(ctx, table)
	},
}

//nolint:gochecknoglobals
var exportRangesCmd = &cobra.Command{
	Use:   "export-ranges",
	Short: "Print the desired ranges table as YAML",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		storage, err := application.OpenStorage(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer storage.Close(ctx)

		table, err := storage.Pool.Ranges(ctx)
		if err != nil {
			return err
		}

		return importer.WriteRangesYAML(cmd.OutOrStdout(), table)
	},
}

//nolint:gochecknoglobals
var importRainfallCmd = &cobra.Command{
	Use:   "import-rainfall FILE.csv",
	Short: "Import the rainfall log from CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("os.Open: %w", err)
		}
		defer f.Close()

		recs, result, err := importer.ReadRainfallCSV(ctx, f)
		if err != nil {
			return err
		}

		storage, err := application.OpenStorage(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer storage.Close(ctx)

		n, err := storage.Rainfall.Import(ctx, recs)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "imported %d of %d rows, skipped %d\n", n, result.Total, result.Skipped)

		return nil
	},
}

//nolint:gochecknoglobals
var importSettingsCmd = &cobra.Command{
	Use:   "import-settings FILE.json",
	Short: "Import key-value settings from a JSON object",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("os.Open: %w", err)
		}
		defer f.Close()

		values, err := importer.ReadSettingsJSON(f)
		if err != nil {
			return err
		}

		storage, err := application.OpenStorage(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer storage.Close(ctx)

		n, err := storage.Settings.Import(ctx, values)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "imported %d settings\n", n)

		return nil
	},
}

//nolint:gochecknoinits
func init() {
	classifyCmd.Flags().Float64Var(&classifyValue, "value", 0, "reading to classify")
	classifyCmd.Flags().Float64Var(&classifyRange.Low, "low", 0, "lower bound of the desired range")
	classifyCmd.Flags().Float64Var(&classifyRange.High, "high", 0, "upper bound of the desired range")
	classifyCmd.Flags().Float64Var(&classifyRange.WarnFactor, "warn-factor", 0.1, "tolerance as a fraction of the bound")
	_ = classifyCmd.MarkFlagRequired("value")
	_ = classifyCmd.MarkFlagRequired("low")
	_ = classifyCmd.MarkFlagRequired("high")

	seedRangesCmd.Flags().StringVar(&rangesFile, "file", "", "YAML file with the ranges table")
}
