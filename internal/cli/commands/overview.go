package commands

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/taskdeck/taskdeck-mcp/internal/models"
)

func NewOverviewCommand() *cli.Command {
	return &cli.Command{
		Name:  "overview",
		Usage: "Show your profile and workspace at a glance",
		Action: func(c *cli.Context) error {
			client, cfg, err := newAPIClient()
			if err != nil {
				return err
			}

			// Profile and project list are independent; fetch concurrently
			type userResult struct {
				user *models.User
				err  error
			}
			userCh := make(chan userResult, 1)
			go func() {
				user, err := client.GetUser()
				userCh <- userResult{user, err}
			}()

			projects, _, projErr := client.ListProjects("", cfg.DefaultPageSize)
			ur := <-userCh
			if ur.err != nil {
				return ur.err
			}
			if projErr != nil {
				return projErr
			}

			fmt.Println(headerStyle.Render(ur.user.FullName) + " <" + ur.user.Email + ">")
			fmt.Printf("Timezone: %s (%s)\n", ur.user.TzInfo.Timezone, ur.user.TzInfo.GmtString)
			fmt.Println()
			fmt.Println(headerStyle.Render(fmt.Sprintf("%d projects", len(projects))))
			for _, p := range projects {
				line := taskIDStyle.Render("["+p.ID+"]") + " " + p.Name
				if p.ID == ur.user.InboxProjectID {
					line += " " + taskLabelStyle.Render("(inbox)")
				}
				fmt.Println(line)
			}
			return nil
		},
	}
}
