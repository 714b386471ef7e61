package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"moss/internal/backend"
	"moss/internal/bridge"
	"moss/internal/config"
	"moss/internal/ui"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfg     *config.Config
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "moss",
	Short: "moss - turn a local folder into a publishable website",
	Long: `moss turns a local folder into a publishable website.

The heavy lifting (compiling the folder into a site, rebuilding on change,
serving the local preview) is done by the moss backend process; this command
line talks to it over its local socket.

Usage:
  Compile a folder:   moss compile --folder ~/notes
  Backend status:     moss status
  Finder menu item:   moss install-integration`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Initialize viper configuration
		initConfig()

		// Initialize configuration
		cfg = config.NewDefaultConfig()
		cfg.LoadFromViper(viper.GetViper())
		if err := cfg.Validate(); err != nil {
			log.Fatalf("Invalid configuration: %v", err)
		}
	},
}

func init() {
	// Add global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.moss.yaml)")

	// Set up viper environment variable support
	viper.SetEnvPrefix("MOSS")
	viper.AutomaticEnv()
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			log.Printf("Warning: Could not find home directory: %v", err)
			return
		}

		// Search config in home directory with name ".moss" (without extension)
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".moss")
	}

	// Read in environment variables that match
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil {
		log.Printf("Using config file: %s", viper.ConfigFileUsed())
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// createContext creates a context that cancels on interrupt signals
func createContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	// Setup signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	return ctx
}

// createServices connects to the backend and wires up the bridge and UI
func createServices() (*backend.Client, *bridge.Bridge, *ui.ConsoleUI, error) {
	client, err := backend.Dial(&cfg.Backend)
	if err != nil {
		return nil, nil, nil, err
	}
	return client, bridge.New(client), ui.NewConsoleUI(), nil
}
