package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"slidecast/internal/deps"
	"slidecast/internal/textutil"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check availability of the external tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			statuses := deps.CheckBinaries(deps.Requirements(cfg))
			rows := make([][]string, 0, len(statuses))
			missing := 0
			for _, status := range statuses {
				state := textutil.Ternary(status.Available, "found", "missing")
				if !status.Available && !status.Optional {
					missing++
				}
				rows = append(rows, []string{status.Name, status.Command, state, status.Detail})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(out, []string{"Dependency", "Command", "Status", "Detail"}, rows))
			if missing > 0 {
				return fmt.Errorf("%d required tool(s) missing", missing)
			}
			return nil
		},
	}
}
