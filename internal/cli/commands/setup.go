package commands

import (
	"fmt"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/urfave/cli/v2"

	"github.com/taskdeck/taskdeck-mcp/internal/api"
	"github.com/taskdeck/taskdeck-mcp/internal/auth"
	"github.com/taskdeck/taskdeck-mcp/internal/config"
)

func NewSetupCommand() *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Configure the CLI with your Taskdeck API token",
		Subcommands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Store and verify an API token",
				Action: func(c *cli.Context) error {
					return handleLogin()
				},
			},
			{
				Name:  "status",
				Usage: "Show who is logged in and where the token is stored",
				Action: func(c *cli.Context) error {
					return handleStatus()
				},
			},
			{
				Name:  "logout",
				Usage: "Remove the stored API token",
				Action: func(c *cli.Context) error {
					if err := auth.DeleteToken(); err != nil {
						return fmt.Errorf("could not remove token: %w", err)
					}
					fmt.Println("✅ Token removed")
					return nil
				},
			},
		},
		Action: func(c *cli.Context) error {
			return handleLogin()
		},
	}
}

func handleLogin() error {
	var token string
	prompt := &survey.Password{
		Message: "Taskdeck API token:",
		Help:    "Create one under Settings → Integrations → Developer in the Taskdeck app",
	}
	if err := survey.AskOne(prompt, &token, survey.WithValidator(survey.Required)); err != nil {
		return err
	}

	// Verify the token before persisting it
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	client := api.NewClient(cfg.APIBaseURL, token, 15*time.Second)
	user, err := client.GetUser()
	if err != nil {
		return fmt.Errorf("token verification failed: %w", err)
	}

	if err := auth.StoreToken(token); err != nil {
		return fmt.Errorf("could not store token: %w", err)
	}

	fmt.Printf("✅ Logged in as %s <%s>\n", user.FullName, user.Email)
	fmt.Printf("✅ Token stored (%s)\n", auth.StorageMode())
	return nil
}

func handleStatus() error {
	if !auth.HasStoredToken() {
		fmt.Println("Not logged in. Run 'taskdeck setup' to store a token.")
		return nil
	}
	fmt.Printf("Token storage: %s\n", auth.StorageMode())

	client, _, err := newAPIClient()
	if err != nil {
		return err
	}
	user, err := client.GetUser()
	if err != nil {
		return fmt.Errorf("stored token is no longer valid: %w", err)
	}
	fmt.Printf("Logged in as %s <%s>\n", user.FullName, user.Email)
	fmt.Printf("Timezone: %s (%s)\n", user.TzInfo.Timezone, user.TzInfo.GmtString)
	return nil
}
