package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/optrader/market/data"
)

var dataExtractDir string

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Manage the historical chain dataset",
}

var dataExtractCmd = &cobra.Command{
	Use:   "extract ARCHIVE.zip",
	Short: "Unpack a zipped dataset bundle into the data directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := data.NewStore(dataExtractDir)
		if err := store.ExtractArchive(args[0]); err != nil {
			return fmt.Errorf("extract %s: %w", args[0], err)
		}
		fmt.Printf("Extracted %s into %s\n", args[0], dataExtractDir)
		return nil
	},
}

func init() {
	dataExtractCmd.Flags().StringVarP(&dataExtractDir, "dir", "d", "./data", "dataset directory")
	dataCmd.AddCommand(dataExtractCmd)
}
