package cmd

import (
	"fmt"

	"github.com/nconklindev/capview/internal/reshape"
	"github.com/nconklindev/capview/internal/workbook"

	"github.com/spf13/cobra"
)

var flagOutput string

var exportCmd = &cobra.Command{
	Use:   "export <workbook.xlsx>",
	Short: "Write the summary tables to a new workbook",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output file (default <workbook>_summary.xlsx)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	logger, closeLog, err := newLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	input := args[0]
	output := flagOutput
	if output == "" {
		output = workbook.OutputPath(input)
	}

	result := reshape.ProcessFile(input, reshapeOptions(logger)...)
	if err := workbook.Export(result, output); err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}

	logger.Info("exported", "input", input, "output", output, "tables", len(result))
	fmt.Fprintf(cmd.OutOrStdout(), "Output: %s (%d tables)\n", output, len(result))
	return nil
}
