package tracking

import (
	"context"
	"fmt"

	"bankrec/internal/config"
	"bankrec/services"

	"github.com/spf13/cobra"
)

var (
	flagHost string
	flagPort int
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the tracking server",
	Long: `Starts the MLflow tracking server in the background and waits for it to
become ready. Host and port come from --host/--port, then MLFLOW_HOST and
MLFLOW_PORT, then the configuration defaults (127.0.0.1:5000).`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return startTracking(context.Background())
	},
}

/**
 * Launch the tracking server and poll for readiness
 * @param {context.Context} ctx - Context for install and readiness probes
 * @returns {error} Returns error on port conflict, install or spawn failure
 * @description
 * - A server that did not become ready within the polling budget is NOT a
 *   failure: it is reported as possibly still starting and the command
 *   exits successfully, since the process keeps running detached
 */
func startTracking(ctx context.Context) error {
	manager := services.NewTrackingManager(&config.Config.Tracking)
	manager.ResolveAddress(flagHost, flagPort)

	pid, err := manager.Start(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Tracking server starting on http://%s:%d (PID: %d)\n",
		manager.Host, manager.Port, pid)
	fmt.Printf("Pid file: %s\n", manager.PidFile)

	if manager.WaitReady(ctx) {
		fmt.Printf("Tracking server is ready at http://%s:%d\n", manager.Host, manager.Port)
	} else {
		fmt.Printf("Tracking server did not answer yet, it may still be starting. Check http://%s:%d manually.\n",
			manager.Host, manager.Port)
	}
	return nil
}

func init() {
	startCmd.Flags().StringVar(&flagHost, "host", "", "host to bind the tracking server to (default MLFLOW_HOST or 127.0.0.1)")
	startCmd.Flags().IntVar(&flagPort, "port", 0, "port to bind the tracking server to (default MLFLOW_PORT or 5000)")

	trackingCmd.AddCommand(startCmd)

	startCmd.Example = `  bankrec tracking start
  bankrec tracking start --host 0.0.0.0 --port 6000`
}
