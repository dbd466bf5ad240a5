package tracking

import (
	"bankrec/cmd/root"

	"github.com/spf13/cobra"
)

var trackingCmd = &cobra.Command{
	Use:   "tracking",
	Short: "Manage the MLflow tracking server",
	Long: `The 'tracking' command group launches, stops and inspects the MLflow
tracking server used for experiment logging and model artifact storage.`,
}

func init() {
	root.RootCmd.AddCommand(trackingCmd)
}
