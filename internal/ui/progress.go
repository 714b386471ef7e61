package ui

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"moss/pkg/types"

	"github.com/schollz/progressbar/v3"
)

// CompileProgressUI renders compilation progress in the terminal. Updates
// and completion may arrive from different goroutines in watch mode, so
// access to the bar goes through the mutex.
type CompileProgressUI struct {
	mu        sync.Mutex
	bar       *progressbar.ProgressBar
	folder    string
	startTime time.Time
}

// NewCompileProgressUI creates a new compile progress UI
func NewCompileProgressUI() *CompileProgressUI {
	return &CompileProgressUI{}
}

// Start initializes the progress bar for a compilation run.
func (p *CompileProgressUI) Start(folder string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.folder = folder
	p.startTime = time.Now()
	p.bar = progressbar.NewOptions(100,
		progressbar.OptionSetDescription(fmt.Sprintf("Compiling %s", folder)),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(50),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(false),
	)
}

// Update renders one backend progress notification. After the initial
// build completed (watch mode), updates fall back to plain log lines.
func (p *CompileProgressUI) Update(update types.ProgressUpdate) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar == nil {
		if update.File != "" {
			log.Printf("%s: %s (%.0f%%)", update.Stage, update.File, update.Percent)
		} else {
			log.Printf("%s (%.0f%%)", update.Stage, update.Percent)
		}
		return
	}

	_ = p.bar.Set(int(update.Percent))

	desc := update.Stage
	if update.File != "" {
		desc = fmt.Sprintf("%s (%s)", update.Stage, update.File)
	}
	if update.Message != "" {
		desc = fmt.Sprintf("%s: %s", desc, update.Message)
	}
	p.bar.Describe(fmt.Sprintf("Compiling %s: %s", p.folder, desc))
}

// Complete finishes the bar and prints a summary of the compilation.
func (p *CompileProgressUI) Complete(output string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar != nil {
		_ = p.bar.Finish()
		p.bar = nil
	}
	fmt.Printf("=============================================\n")
	fmt.Printf("Compilation completed successfully!\n")
	fmt.Printf("+ Folder: %s\n", p.folder)
	fmt.Printf("+ Output: %s\n", output)
	fmt.Printf("+ Duration: %s\n", time.Since(p.startTime).Round(time.Millisecond))
	fmt.Printf("=============================================\n")
}
