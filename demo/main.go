package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"quoteme/demo/client"
	"quoteme/demo/tui"
)

func main() {
	// Load environment
	_ = godotenv.Load()

	apiURL := flag.String("url", client.GetEnvOrDefault("API_URL", "http://localhost:8080"), "Quote Me API URL")
	token := flag.String("token", os.Getenv("DEMO_TOKEN"), "Admin ID token for the duplicate-check endpoint")
	flag.Parse()

	m := tui.NewModel(client.NewClient(*apiURL, *token))
	program := tea.NewProgram(m)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		program.Quit()
	}()

	if _, err := program.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}
