package cmd

import (
	"log"

	"moss/internal/app"
	"moss/internal/ui"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type CompileFlags struct {
	FolderPath string
	AutoServe  bool
	Watch      bool
}

var compileFlags CompileFlags

// compileCmd represents the compile command
var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Compile a folder into a website",
	Long: `Compile a local folder into a publishable website. This will:

1. Ask the moss backend to compile the folder
2. Stream compilation progress to the terminal
3. Print the resulting site location when done

By default the backend starts the local preview server after compiling;
pass --serve=false to skip that. With --watch the backend keeps rebuilding
the site as files change and progress keeps streaming until interrupted.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runCompileApp(cmd, &compileFlags); err != nil {
			log.Fatalf("Compile failed: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(compileCmd)

	// Define flags with struct binding
	compileCmd.Flags().StringVarP(&compileFlags.FolderPath, "folder", "f", "", "Path to the folder to compile")
	compileCmd.Flags().BoolVar(&compileFlags.AutoServe, "serve", true, "Start the local preview server after compiling")
	compileCmd.Flags().BoolVarP(&compileFlags.Watch, "watch", "w", false, "Keep compiling as files change")

	// Bind flags to viper for environment variable support
	viper.BindPFlag("compile.folder", compileCmd.Flags().Lookup("folder"))
	viper.BindPFlag("compile.serve", compileCmd.Flags().Lookup("serve"))
	viper.BindPFlag("compile.watch", compileCmd.Flags().Lookup("watch"))
}

// runCompileApp creates and runs the compile application
func runCompileApp(cmd *cobra.Command, flags *CompileFlags) error {
	ctx := createContext()
	client, br, console, err := createServices()
	if err != nil {
		return err
	}
	defer client.Close()

	opts := &app.CompileOptions{
		FolderPath: flags.FolderPath,
		AutoServe:  flags.AutoServe,
		Watch:      flags.Watch,
	}
	// The injected auto_serve default applies when the flag was left alone.
	if !cmd.Flags().Changed("serve") {
		opts.AutoServe = cfg.Compile.AutoServe
	}

	compileApp := app.NewCompileApp(cfg, br, console, ui.NewCompileProgressUI())
	return compileApp.Run(ctx, opts)
}
