package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the moss backend status",
	Long:  `Query the moss backend for its version, platform and integration state.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runStatus(); err != nil {
			log.Fatalf("Status failed: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus() error {
	ctx := createContext()
	client, br, console, err := createServices()
	if err != nil {
		return err
	}
	defer client.Close()

	status, err := br.SystemStatus(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch system status: %w", err)
	}

	console.ShowSystemStatus(status)
	return nil
}
