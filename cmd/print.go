package cmd

import (
	"fmt"

	"github.com/nconklindev/capview/internal/cli"
	"github.com/nconklindev/capview/internal/reshape"
	"github.com/nconklindev/capview/internal/types"
	"github.com/nconklindev/capview/internal/workbook"

	"github.com/spf13/cobra"
)

var flagTab string

var printCmd = &cobra.Command{
	Use:   "print <workbook.xlsx>",
	Short: "Print the summary tables to the terminal",
	Args:  cobra.ExactArgs(1),
	RunE:  runPrint,
}

func init() {
	printCmd.Flags().StringVarP(&flagTab, "tab", "t", "", "Only print this table (Contributions, Redemptions, Partner Capital)")
	rootCmd.AddCommand(printCmd)
}

func runPrint(cmd *cobra.Command, args []string) error {
	logger, closeLog, err := newLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	result := reshape.ProcessFile(args[0], reshapeOptions(logger)...)
	if len(result) == 0 {
		return fmt.Errorf("%s: %w", args[0], workbook.ErrEmptyResult)
	}

	if flagTab != "" {
		table, ok := result[flagTab]
		if !ok {
			return fmt.Errorf("table %q not available (have %v)", flagTab, result.Names())
		}
		result = types.Result{flagTab: table}
	}

	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprint(cmd.OutOrStdout(), cli.RenderResult(result, cfg.Display.Decimals))
	fmt.Fprintf(cmd.OutOrStdout(), "\n  Successfully loaded %d data analysis tabs\n", len(result))
	return nil
}
