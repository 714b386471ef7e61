package ui

import (
	"fmt"
	"log"

	"moss/pkg/types"
)

// ConsoleUI implements console-based output for command results
type ConsoleUI struct{}

// NewConsoleUI creates a new console UI
func NewConsoleUI() *ConsoleUI {
	return &ConsoleUI{}
}

// ShowMessage displays a message to the user
func (c *ConsoleUI) ShowMessage(message string) {
	log.Printf("%s\n", message)
}

// ShowSystemStatus prints the backend's status report.
func (c *ConsoleUI) ShowSystemStatus(status types.SystemStatus) {
	fmt.Println("moss backend status")
	fmt.Printf("  Version:            %s\n", status.Version)
	fmt.Printf("  Platform:           %s\n", status.Platform)
	if status.FinderIntegration {
		fmt.Printf("  Finder integration: installed\n")
	} else {
		fmt.Printf("  Finder integration: not installed\n")
	}
	if status.PreviewServerActive {
		fmt.Printf("  Preview server:     running at %s\n", status.PreviewServerURL)
	} else {
		fmt.Printf("  Preview server:     stopped\n")
	}
}
