package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	port       string
	quizDir    string
	configPath string
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envPort := os.Getenv("PORT")
	if envPort == "" {
		envPort = "8080"
	}
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}

	cmd := &cobra.Command{
		Use:   "pubquiz",
		Short: "Score a forms-based pub quiz from per-round spreadsheet exports",
	}

	cmd.PersistentFlags().StringVar(&port, "port", envPort, "port to listen on")
	cmd.PersistentFlags().StringVar(&quizDir, "dir", "", "quiz directory (overrides config)")
	cmd.PersistentFlags().StringVar(&configPath, "config", envConfig, "path to YAML config")
	cmd.AddCommand(NewServeCmd(&configPath, &quizDir, &port))
	cmd.AddCommand(NewScoreCmd(&configPath, &quizDir))
	return cmd
}
