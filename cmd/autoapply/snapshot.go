package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/daniel/autoapply/internal/store"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the full application state as a JSON snapshot",
	RunE:  runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <snapshot-file>",
	Short: "Replace the application state with a validated snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard all state and restore defaults",
	RunE:  runReset,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Write the snapshot to this file instead of stdout")
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(resetCmd)
}

func runExport(_ *cobra.Command, _ []string) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}

	snapshot, err := openStore(cfg).Export()
	if err != nil {
		return err
	}

	if exportOut == "" {
		fmt.Fprintln(os.Stdout, snapshot)
		return nil
	}
	if err := os.WriteFile(exportOut, []byte(snapshot), 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Output: %s\n", exportOut)
	return nil
}

func runImport(_ *cobra.Command, args []string) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}

	if err := openStore(cfg).Import(string(data)); err != nil {
		var importErr *store.ImportError
		if errors.As(err, &importErr) {
			return fmt.Errorf("%s", importErr.Error())
		}
		return err
	}

	fmt.Fprintln(os.Stdout, "State imported")
	return nil
}

func runReset(_ *cobra.Command, _ []string) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}

	if err := openStore(cfg).Reset(); err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, "State reset to defaults")
	return nil
}
