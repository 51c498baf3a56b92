package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jengzang/crimestats-backend-go/internal/database"
	"github.com/jengzang/crimestats-backend-go/internal/loader"
)

var (
	loadFile     string
	loadEncoding string
	loadBatch    int
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Bulk load a crime incident CSV into the store",
	RunE:  runLoad,
}

func init() {
	loadCmd.Flags().StringVar(&loadFile, "file", "", "CSV file to load (default CRIMESTATS_CSV_PATH)")
	loadCmd.Flags().StringVar(&loadEncoding, "encoding", loader.EncodingLatin1, "Source encoding: latin1 or utf-8")
	loadCmd.Flags().IntVar(&loadBatch, "batch-size", 0, "Rows per transaction (default CRIMESTATS_LOAD_BATCH_SIZE)")
	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if loadFile == "" {
		loadFile = cfg.CSVPath
	}
	if loadBatch <= 0 {
		loadBatch = cfg.LoadBatchSize
	}
	switch loadEncoding {
	case loader.EncodingLatin1, loader.EncodingUTF8:
	default:
		return fmt.Errorf("unsupported encoding %q", loadEncoding)
	}
	logger := newLogger(cfg)

	ctx := cmd.Context()
	db, err := database.Open(ctx, database.Config{Path: cfg.DBPath}, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	report, err := loader.New(db, loadBatch, logger).WithEncoding(loadEncoding).LoadFile(ctx, loadFile)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "read %d, inserted %d, skipped %d\n", report.Read, report.Inserted, report.Skipped)
	return nil
}
