package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v2"

	"github.com/taskdeck/taskdeck-mcp/internal/api"
	"github.com/taskdeck/taskdeck-mcp/internal/models"
	"github.com/taskdeck/taskdeck-mcp/internal/query"
)

var (
	taskContentStyle = lipgloss.NewStyle().Bold(true)
	taskIDStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	taskDueStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	taskLabelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("36"))
	headerStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
)

func NewTaskCommand() *cli.Command {
	return &cli.Command{
		Name:    "task",
		Usage:   "Create, list and manage tasks",
		Aliases: []string{"t"},
		Subcommands: []*cli.Command{
			newTaskListCmd(),
			newTaskAddCmd(),
			newTaskViewCmd(),
			newTaskDoneCmd(),
			newTaskReopenCmd(),
			newTaskDeleteCmd(),
			newTaskCopyCmd(),
		},
	}
}

func newTaskListCmd() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Usage:   "List tasks, optionally filtered by search text, labels, project or assignee",
		Aliases: []string{"ls"},
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "search", Aliases: []string{"s"}, Usage: "free-text search (scans every page)"},
			&cli.StringSliceFlag{Name: "label", Aliases: []string{"l"}, Usage: "label filter, repeatable"},
			&cli.StringFlag{Name: "label-op", Value: "and", Usage: "combine labels with 'and' or 'or'"},
			&cli.StringFlag{Name: "project", Aliases: []string{"p"}, Usage: "project id, or 'inbox'"},
			&cli.StringFlag{Name: "assignee", Aliases: []string{"a"}, Usage: "assignee id, email or name (needs --project)"},
			&cli.IntFlag{Name: "limit", Value: 50, Usage: "page size"},
		},
		Action: func(c *cli.Context) error {
			client, cfg, err := newAPIClient()
			if err != nil {
				return err
			}

			resolver := query.NewProjectResolver(client)
			projectID, err := resolver.Resolve(query.ParseProjectRef(c.String("project")))
			if err != nil {
				return err
			}

			var assignee *models.Collaborator
			if name := c.String("assignee"); name != "" {
				if projectID == "" {
					return errors.New("--assignee needs --project to resolve against")
				}
				assignee, err = query.ResolveAssignee(client, projectID, name)
				if err != nil {
					return err
				}
			}

			labelOp := query.LabelsAll
			if c.String("label-op") == string(query.LabelsAny) {
				labelOp = query.LabelsAny
			}
			search := strings.TrimSpace(c.String("search"))
			filter := query.ComposeAll(
				query.CompileLabelFilter(c.StringSlice("label"), labelOp),
				query.AssigneeFragment(assignee),
				query.SearchFragment(search),
			)

			var fetch query.PageFunc[models.Task]
			if filter != "" {
				pageSize := c.Int("limit")
				if search != "" {
					pageSize = cfg.MaxPageSize
				}
				fetch = func(cursor string) (query.Page[models.Task], error) {
					tasks, next, err := client.FilterTasks(api.FilterTasksParams{
						Query:     string(filter),
						Lang:      "en",
						ProjectID: projectID,
						Cursor:    cursor,
						Limit:     pageSize,
					})
					return query.Page[models.Task]{Items: tasks, NextCursor: next}, err
				}
			} else {
				fetch = func(cursor string) (query.Page[models.Task], error) {
					tasks, next, err := client.ListTasks(api.ListTasksParams{
						ProjectID: projectID,
						Cursor:    cursor,
						Limit:     c.Int("limit"),
					})
					return query.Page[models.Task]{Items: tasks, NextCursor: next}, err
				}
			}

			page, err := query.Paginate(fetch, query.PageOptions{Exhaustive: search != ""})
			if err != nil {
				return err
			}

			if len(page.Items) == 0 {
				fmt.Println("No tasks found.")
				return nil
			}
			fmt.Println(headerStyle.Render(fmt.Sprintf("%d tasks", len(page.Items))))
			for _, t := range page.Items {
				printTaskLine(t)
			}
			if page.NextCursor != "" {
				fmt.Println(taskIDStyle.Render("more available — rerun with a larger --limit"))
			}
			return nil
		},
	}
}

func printTaskLine(t models.Task) {
	line := taskIDStyle.Render("["+t.ID+"]") + " " + taskContentStyle.Render(truncateString(t.Content, 70))
	if t.Due != nil && t.Due.Date != "" {
		line += " " + taskDueStyle.Render("due "+t.Due.Date)
	}
	for _, l := range t.Labels {
		line += " " + taskLabelStyle.Render("@"+l)
	}
	fmt.Println(line)
}

func newTaskAddCmd() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Create a task",
		ArgsUsage: "<content>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "project", Aliases: []string{"p"}, Usage: "project id, or 'inbox'"},
			&cli.StringFlag{Name: "due", Aliases: []string{"d"}, Usage: "natural-language due string, e.g. 'next friday 5pm'"},
			&cli.IntFlag{Name: "priority", Value: 1, Usage: "1 (normal) .. 4 (urgent)"},
			&cli.StringSliceFlag{Name: "label", Aliases: []string{"l"}, Usage: "label, repeatable"},
		},
		Action: func(c *cli.Context) error {
			content := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if content == "" {
				return errors.New("content is required: taskdeck task add \"Write report\"")
			}
			client, _, err := newAPIClient()
			if err != nil {
				return err
			}
			resolver := query.NewProjectResolver(client)
			projectID, err := resolver.Resolve(query.ParseProjectRef(c.String("project")))
			if err != nil {
				return err
			}
			task, err := client.CreateTask(api.CreateTaskRequest{
				Content:   content,
				ProjectID: projectID,
				Priority:  c.Int("priority"),
				Labels:    c.StringSlice("label"),
				DueString: c.String("due"),
			})
			if err != nil {
				return err
			}
			fmt.Println("✅ Created task")
			printTaskLine(*task)
			return nil
		},
	}
}

func newTaskViewCmd() *cli.Command {
	return &cli.Command{
		Name:      "view",
		Usage:     "Show one task, rendering its description as markdown",
		ArgsUsage: "<task-id>",
		Action: func(c *cli.Context) error {
			id := c.Args().First()
			if id == "" {
				return errors.New("task id is required")
			}
			client, _, err := newAPIClient()
			if err != nil {
				return err
			}
			task, err := client.GetTask(id)
			if err != nil {
				return err
			}

			var md strings.Builder
			fmt.Fprintf(&md, "# %s\n\n", task.Content)
			if task.Due != nil && task.Due.Date != "" {
				fmt.Fprintf(&md, "**Due:** %s\n\n", task.Due.Date)
			}
			if len(task.Labels) > 0 {
				fmt.Fprintf(&md, "**Labels:** @%s\n\n", strings.Join(task.Labels, " @"))
			}
			if task.Description != "" {
				md.WriteString(task.Description)
				md.WriteString("\n")
			}

			renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
			if err != nil {
				return err
			}
			out, err := renderer.Render(md.String())
			if err != nil {
				return err
			}
			fmt.Print(out)
			return nil
		},
	}
}

func newTaskDoneCmd() *cli.Command {
	return &cli.Command{
		Name:      "done",
		Usage:     "Mark a task as completed",
		ArgsUsage: "<task-id>",
		Action: func(c *cli.Context) error {
			id := c.Args().First()
			if id == "" {
				return errors.New("task id is required")
			}
			client, _, err := newAPIClient()
			if err != nil {
				return err
			}
			if err := client.CloseTask(id); err != nil {
				return err
			}
			fmt.Printf("✅ Completed task %s\n", id)
			return nil
		},
	}
}

func newTaskReopenCmd() *cli.Command {
	return &cli.Command{
		Name:      "reopen",
		Usage:     "Reopen a completed task",
		ArgsUsage: "<task-id>",
		Action: func(c *cli.Context) error {
			id := c.Args().First()
			if id == "" {
				return errors.New("task id is required")
			}
			client, _, err := newAPIClient()
			if err != nil {
				return err
			}
			if err := client.ReopenTask(id); err != nil {
				return err
			}
			fmt.Printf("✅ Reopened task %s\n", id)
			return nil
		},
	}
}

func newTaskDeleteCmd() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a task permanently",
		ArgsUsage: "<task-id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "skip confirmation"},
		},
		Action: func(c *cli.Context) error {
			id := c.Args().First()
			if id == "" {
				return errors.New("task id is required")
			}
			if !c.Bool("yes") {
				fmt.Printf("Delete task %s permanently? Rerun with --yes to confirm.\n", id)
				return nil
			}
			client, _, err := newAPIClient()
			if err != nil {
				return err
			}
			if err := client.DeleteTask(id); err != nil {
				return err
			}
			fmt.Printf("✅ Deleted task %s\n", id)
			return nil
		},
	}
}

func newTaskCopyCmd() *cli.Command {
	return &cli.Command{
		Name:      "copy",
		Usage:     "Copy a task's link (or content when it has no link) to the clipboard",
		ArgsUsage: "<task-id>",
		Action: func(c *cli.Context) error {
			id := c.Args().First()
			if id == "" {
				return errors.New("task id is required")
			}
			client, _, err := newAPIClient()
			if err != nil {
				return err
			}
			task, err := client.GetTask(id)
			if err != nil {
				return err
			}
			text := task.URL
			if text == "" {
				text = task.Content
			}
			if err := clipboard.WriteAll(text); err != nil {
				return fmt.Errorf("could not write to clipboard: %w", err)
			}
			fmt.Printf("✅ Copied %q\n", truncateString(text, 60))
			return nil
		},
	}
}
