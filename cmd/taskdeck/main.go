package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/taskdeck/taskdeck-mcp/internal/cli/commands"
)

// Version will be set during build with ldflags
var Version = "1.4.0"

func main() {
	// Local .env is optional; real deployments use TASKDECK_* variables
	_ = godotenv.Load()

	app := &cli.App{
		Name:    "taskdeck",
		Usage:   "Taskdeck task management from the terminal and over MCP",
		Version: Version,
		Commands: []*cli.Command{
			commands.NewSetupCommand(),
			commands.NewTaskCommand(),
			commands.NewProjectCommand(),
			commands.NewOverviewCommand(),
			commands.NewMcpCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
