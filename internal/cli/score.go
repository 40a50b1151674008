package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewScoreCmd builds the one-shot command: load the quiz directory,
// print the leaderboard, exit.
func NewScoreCmd(configPath, quizDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "score [dir]",
		Short: "Load a quiz directory and print the leaderboard",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := *quizDir
			if len(args) == 1 {
				dir = args[0]
			}
			return runScore(cmd, *configPath, dir)
		},
	}
}

func runScore(cmd *cobra.Command, configPath, dir string) error {
	logger := zap.NewNop()

	_, service, err := buildService(configPath, dir, logger)
	if err != nil {
		return err
	}
	if _, err := service.Rescan(cmd.Context()); err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\tTeam\tPoints")
	for _, row := range service.Leaderboard() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", row.Rank, row.Team, row.Score)
	}
	return w.Flush()
}
