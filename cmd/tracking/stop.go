package tracking

import (
	"fmt"

	"bankrec/internal/config"
	"bankrec/services"

	"github.com/spf13/cobra"
)

var stopCmd = &cobra.Command{
	Use:          "stop",
	Short:        "Stop the tracking server",
	Long:         `Stops the tracking server whose pid was recorded by 'tracking start'.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		manager := services.NewTrackingManager(&config.Config.Tracking)
		if err := manager.Stop(); err != nil {
			return err
		}
		fmt.Println("Tracking server stopped")
		return nil
	},
}

func init() {
	trackingCmd.AddCommand(stopCmd)
}
