package cli

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/liamcoop/attrition/internal/config"
)

func Execute() {
	_ = godotenv.Load()

	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	defaultModel := "models/best_XGB.json"
	if cfg, err := config.Load(); err == nil {
		defaultModel = cfg.ModelPath
	}

	var modelPath string

	cmd := &cobra.Command{
		Use:          "attrition",
		Short:        "Predict whether an employee will churn",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&modelPath, "model", defaultModel, "Path to the XGBoost JSON model (MODEL_PATH)")

	cmd.AddCommand(
		predictCmd(&modelPath),
		exampleCmd(),
		featuresCmd(),
	)
	return cmd
}
