package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

// installIntegrationCmd represents the install-integration command
var installIntegrationCmd = &cobra.Command{
	Use:   "install-integration",
	Short: "Install the Finder integration",
	Long: `Install the moss Finder context menu item so folders can be published
straight from Finder. Repeating the install is harmless if the integration
is already present; the backend decides.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runInstallIntegration(); err != nil {
			log.Fatalf("Install integration failed: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(installIntegrationCmd)
}

func runInstallIntegration() error {
	ctx := createContext()
	client, br, console, err := createServices()
	if err != nil {
		return err
	}
	defer client.Close()

	if err := br.InstallFinderIntegration(ctx); err != nil {
		return fmt.Errorf("failed to install Finder integration: %w", err)
	}

	console.ShowMessage("Finder integration installed.")
	return nil
}
