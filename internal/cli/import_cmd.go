package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import columns and cards from a JSON file",
		Long: "Import columns and cards from a JSON file. Columns are appended to the\n" +
			"right of the board; every card must name an existing or imported column.\n" +
			"The whole file is rejected when any entry is invalid.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Import == nil {
				return fmt.Errorf("import is not available")
			}
			result, err := app.Import.ImportBoard(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d columns and %d cards\n", result.ColumnCount, result.CardCount)
			return nil
		},
	}
}
