package root

import (
	"github.com/spf13/cobra"
)

var RootCmd = &cobra.Command{
	Use:   "bankrec",
	Short: "Bank product recommendation service manager",
	Long: `bankrec runs the bank product recommendation HTTP service and manages
the MLflow tracking server used for experiment logging and model artifacts.`,
}
