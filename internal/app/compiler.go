package app

import (
	"context"
	"fmt"

	"moss/internal/bridge"
	"moss/internal/config"
	"moss/internal/ui"
)

// CompileOptions configures the compile application behavior
type CompileOptions struct {
	FolderPath string // Empty falls back to the injected config default
	AutoServe  bool
	Watch      bool
}

// CompileApp drives one compilation through the bridge and renders its
// progress in the terminal.
type CompileApp struct {
	config   *config.Config
	bridge   *bridge.Bridge
	console  *ui.ConsoleUI
	progress *ui.CompileProgressUI
}

// NewCompileApp creates a new compile application
func NewCompileApp(
	cfg *config.Config,
	b *bridge.Bridge,
	console *ui.ConsoleUI,
	progress *ui.CompileProgressUI,
) *CompileApp {
	return &CompileApp{
		config:   cfg,
		bridge:   b,
		console:  console,
		progress: progress,
	}
}

// Run starts the compile application with the given options
func (a *CompileApp) Run(ctx context.Context, opts *CompileOptions) error {
	folder := opts.FolderPath
	if folder == "" {
		folder = a.config.Compile.FolderPath
	}
	if folder == "" {
		return fmt.Errorf("no folder to compile: pass --folder or set folder_path in the config")
	}

	a.console.ShowMessage(fmt.Sprintf("Compiling folder: %s", folder))
	a.progress.Start(folder)

	output, err := a.bridge.Compile(ctx, bridge.CompileOptions{
		FolderPath: folder,
		AutoServe:  opts.AutoServe,
		Watch:      opts.Watch,
		OnProgress: a.progress.Update,
	})
	if err != nil {
		return fmt.Errorf("compilation failed: %w", err)
	}

	a.progress.Complete(output)

	if opts.Watch {
		a.console.ShowMessage("Watching for changes. Press Ctrl+C to stop.")
		<-ctx.Done()
	}
	return nil
}
