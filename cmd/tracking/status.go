package tracking

import (
	"context"
	"fmt"

	"bankrec/internal/config"
	"bankrec/services"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show tracking server status",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		manager := services.NewTrackingManager(&config.Config.Tracking)
		manager.ResolveAddress("", 0)
		status := manager.Status(context.Background())

		fmt.Printf("Address:  http://%s:%d\n", status.Host, status.Port)
		if status.Pid > 0 {
			fmt.Printf("Pid:      %d (%s)\n", status.Pid, status.PidFile)
		} else {
			fmt.Printf("Pid:      none (%s missing)\n", status.PidFile)
		}
		fmt.Printf("Running:  %v\n", status.Running)
		fmt.Printf("Healthy:  %v\n", status.Healthy)
	},
}

func init() {
	trackingCmd.AddCommand(statusCmd)
}
