package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/taskdeck/taskdeck-mcp/internal/api"
	"github.com/taskdeck/taskdeck-mcp/internal/models"
	"github.com/taskdeck/taskdeck-mcp/internal/query"
)

func NewProjectCommand() *cli.Command {
	return &cli.Command{
		Name:    "project",
		Usage:   "Create and list projects",
		Aliases: []string{"p"},
		Subcommands: []*cli.Command{
			newProjectListCmd(),
			newProjectAddCmd(),
		},
	}
}

func newProjectListCmd() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Usage:   "List projects, optionally matching a name",
		Aliases: []string{"ls"},
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "case-insensitive name fragment (scans every page)"},
		},
		Action: func(c *cli.Context) error {
			client, cfg, err := newAPIClient()
			if err != nil {
				return err
			}

			name := strings.TrimSpace(c.String("name"))
			pageSize := cfg.DefaultPageSize
			if name != "" {
				pageSize = cfg.MaxPageSize
			}
			page, err := query.Paginate(func(cursor string) (query.Page[models.Project], error) {
				projects, next, err := client.ListProjects(cursor, pageSize)
				return query.Page[models.Project]{Items: projects, NextCursor: next}, err
			}, query.PageOptions{Exhaustive: name != ""})
			if err != nil {
				return err
			}

			projects := page.Items
			if name != "" {
				needle := strings.ToLower(name)
				kept := projects[:0]
				for _, p := range projects {
					if strings.Contains(strings.ToLower(p.Name), needle) {
						kept = append(kept, p)
					}
				}
				projects = kept
			}

			if len(projects) == 0 {
				fmt.Println("No projects found.")
				return nil
			}
			fmt.Println(headerStyle.Render(fmt.Sprintf("%d projects", len(projects))))
			for _, p := range projects {
				line := taskIDStyle.Render("["+p.ID+"]") + " " + p.Name
				if p.IsInboxProject {
					line += " " + taskLabelStyle.Render("(inbox)")
				}
				if p.IsFavorite {
					line += " ★"
				}
				fmt.Println(line)
			}
			return nil
		},
	}
}

func newProjectAddCmd() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Create a project",
		ArgsUsage: "<name>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "color", Usage: "project color name"},
			&cli.BoolFlag{Name: "favorite", Usage: "mark as favorite"},
		},
		Action: func(c *cli.Context) error {
			name := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if name == "" {
				return errors.New("name is required: taskdeck project add \"Website redesign\"")
			}
			client, _, err := newAPIClient()
			if err != nil {
				return err
			}
			project, err := client.CreateProject(api.CreateProjectRequest{
				Name:       name,
				Color:      c.String("color"),
				IsFavorite: c.Bool("favorite"),
			})
			if err != nil {
				return err
			}
			fmt.Printf("✅ Created project [%s] %s\n", project.ID, project.Name)
			return nil
		},
	}
}
