package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/taskdeck/taskdeck-mcp/internal/api"
	"github.com/taskdeck/taskdeck-mcp/internal/models"
	"github.com/taskdeck/taskdeck-mcp/internal/query"
)

// filterLang is sent alongside composed filter queries so the backend
// parses them with a stable grammar version.
const filterLang = "en"

type FindTasksInput struct {
	SearchText     string   `json:"search_text,omitempty"`
	Labels         []string `json:"labels,omitempty"`
	LabelsOperator string   `json:"labels_operator,omitempty"` // "and" (default) or "or"
	ProjectID      string   `json:"project_id,omitempty"`      // accepts "inbox"
	SectionID      string   `json:"section_id,omitempty"`
	ParentID       string   `json:"parent_id,omitempty"`
	Assignee       string   `json:"assignee,omitempty"` // id, email, or name
	Cursor         string   `json:"cursor,omitempty"`
	Limit          int      `json:"limit,omitempty"`
}

func handleFindTasks(ctx context.Context, req *mcp.CallToolRequest, input FindTasksInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	searchText := strings.TrimSpace(input.SearchText)
	if searchText != "" && input.Cursor != "" {
		return nil, nil, query.Validationf("cursor cannot be combined with search_text: free-text searches always scan the full result set")
	}

	labelOp := query.LabelsAll
	if input.LabelsOperator == string(query.LabelsAny) {
		labelOp = query.LabelsAny
	}

	resolver := query.NewProjectResolver(apiClient)
	projectID, err := resolver.Resolve(query.ParseProjectRef(input.ProjectID))
	if err != nil {
		return nil, nil, err
	}

	var assignee *models.Collaborator
	if input.Assignee != "" {
		if projectID == "" {
			return nil, nil, query.Validationf("assignee requires a project_id to resolve against")
		}
		assignee, err = query.ResolveAssignee(apiClient, projectID, input.Assignee)
		if err != nil {
			return nil, nil, err
		}
	}

	filter := query.ComposeAll(
		query.CompileLabelFilter(input.Labels, labelOp),
		query.AssigneeFragment(assignee),
		query.SearchFragment(searchText),
	)

	limit := input.Limit
	if limit <= 0 {
		limit = cfg.DefaultPageSize
	}

	var fetch query.PageFunc[models.Task]
	if filter != "" {
		// A free-text facet suppresses pagination, so the fetch runs at
		// the endpoint's maximum page size to minimize round trips.
		pageSize := limit
		if searchText != "" {
			pageSize = cfg.MaxPageSize
		}
		fetch = func(cursor string) (query.Page[models.Task], error) {
			tasks, next, err := apiClient.FilterTasks(api.FilterTasksParams{
				Query:     string(filter),
				Lang:      filterLang,
				ProjectID: projectID,
				SectionID: input.SectionID,
				ParentID:  input.ParentID,
				Cursor:    cursor,
				Limit:     pageSize,
			})
			return query.Page[models.Task]{Items: tasks, NextCursor: next}, err
		}
	} else {
		fetch = func(cursor string) (query.Page[models.Task], error) {
			tasks, next, err := apiClient.ListTasks(api.ListTasksParams{
				ProjectID: projectID,
				SectionID: input.SectionID,
				ParentID:  input.ParentID,
				Cursor:    cursor,
				Limit:     limit,
			})
			return query.Page[models.Task]{Items: tasks, NextCursor: next}, err
		}
	}

	page, err := query.Paginate(fetch, query.PageOptions{
		Exhaustive: searchText != "",
		Cursor:     input.Cursor,
	})
	if err != nil {
		return nil, nil, err
	}

	var hints []string
	if filter != "" {
		hints = append(hints, "Filter: "+string(filter))
	}
	if projectID != "" {
		hints = append(hints, "Project: "+projectID)
	}
	if input.SectionID != "" {
		hints = append(hints, "Section: "+input.SectionID)
	}
	if input.ParentID != "" {
		hints = append(hints, "Parent: "+input.ParentID)
	}

	summary := query.RenderSummary(query.SummaryOptions{
		Subject:      "task",
		Items:        taskLines(page.Items),
		FilterHints:  hints,
		ZeroHints:    zeroTaskHints(filter),
		PreviewLimit: cfg.PreviewLimit,
		NextCursor:   page.NextCursor,
	})

	return summaryResult(summary), taskListPayload(page), nil
}

type FindTasksByDateInput struct {
	Since     string `json:"since,omitempty"`   // YYYY-MM-DD, inclusive
	Until     string `json:"until,omitempty"`   // YYYY-MM-DD, inclusive
	Overdue   bool   `json:"overdue,omitempty"` // tasks due strictly before now; excludes since/until
	ProjectID string `json:"project_id,omitempty"`
	Cursor    string `json:"cursor,omitempty"`
	Limit     int    `json:"limit,omitempty"`
}

func handleFindTasksByDate(ctx context.Context, req *mcp.CallToolRequest, input FindTasksByDateInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	var (
		resolver     *query.ProjectResolver
		since, until string
		hints        []string
		zeroHints    []string
	)
	if input.Overdue {
		if input.Since != "" || input.Until != "" {
			return nil, nil, query.Validationf("overdue cannot be combined with since/until")
		}
		// An instant comparison needs no timezone normalization; the
		// resolver fetches the profile lazily only for the inbox sentinel.
		resolver = query.NewProjectResolver(apiClient)
		until = query.OverdueHorizon(time.Now())
		hints = []string{"Due before now (" + until + ")"}
		zeroHints = []string{"Nothing is overdue"}
	} else {
		window, wr, err := resolveWindow(input.Since, input.Until)
		if err != nil {
			return nil, nil, err
		}
		resolver = wr
		since, until = window.Since(), window.Until()
		hints = []string{fmt.Sprintf("Due between %s and %s", since, until)}
		zeroHints = []string{"Try widening the date range"}
	}

	projectID, err := resolver.Resolve(query.ParseProjectRef(input.ProjectID))
	if err != nil {
		return nil, nil, err
	}

	limit := input.Limit
	if limit <= 0 {
		limit = cfg.DefaultPageSize
	}
	page, err := query.Paginate(func(cursor string) (query.Page[models.Task], error) {
		tasks, next, err := apiClient.ListTasks(api.ListTasksParams{
			ProjectID: projectID,
			Since:     since,
			Until:     until,
			Cursor:    cursor,
			Limit:     limit,
		})
		return query.Page[models.Task]{Items: tasks, NextCursor: next}, err
	}, query.PageOptions{Cursor: input.Cursor})
	if err != nil {
		return nil, nil, err
	}

	if projectID != "" {
		hints = append(hints, "Project: "+projectID)
	}
	summary := query.RenderSummary(query.SummaryOptions{
		Subject:      "task",
		Items:        taskLines(page.Items),
		FilterHints:  hints,
		ZeroHints:    zeroHints,
		PreviewLimit: cfg.PreviewLimit,
		NextCursor:   page.NextCursor,
	})
	return summaryResult(summary), taskListPayload(page), nil
}

type FindCompletedTasksInput struct {
	Since     string `json:"since"` // YYYY-MM-DD, inclusive
	Until     string `json:"until"` // YYYY-MM-DD, inclusive
	ProjectID string `json:"project_id,omitempty"`
	Cursor    string `json:"cursor,omitempty"`
	Limit     int    `json:"limit,omitempty"`
}

func handleFindCompletedTasks(ctx context.Context, req *mcp.CallToolRequest, input FindCompletedTasksInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	window, resolver, err := resolveWindow(input.Since, input.Until)
	if err != nil {
		return nil, nil, err
	}
	projectID, err := resolver.Resolve(query.ParseProjectRef(input.ProjectID))
	if err != nil {
		return nil, nil, err
	}

	limit := input.Limit
	if limit <= 0 {
		limit = cfg.DefaultPageSize
	}
	page, err := query.Paginate(func(cursor string) (query.Page[models.Task], error) {
		tasks, next, err := apiClient.ListCompletedTasks(api.CompletedTasksParams{
			Since:     window.Since(),
			Until:     window.Until(),
			ProjectID: projectID,
			Cursor:    cursor,
			Limit:     limit,
		})
		return query.Page[models.Task]{Items: tasks, NextCursor: next}, err
	}, query.PageOptions{Cursor: input.Cursor})
	if err != nil {
		return nil, nil, err
	}

	hints := []string{fmt.Sprintf("Completed between %s and %s", window.Since(), window.Until())}
	if projectID != "" {
		hints = append(hints, "Project: "+projectID)
	}
	summary := query.RenderSummary(query.SummaryOptions{
		Subject:      "completed task",
		Items:        taskLines(page.Items),
		FilterHints:  hints,
		ZeroHints:    []string{"Try widening the date range"},
		PreviewLimit: cfg.PreviewLimit,
		NextCursor:   page.NextCursor,
	})
	return summaryResult(summary), taskListPayload(page), nil
}

// resolveWindow fetches the caller's profile, normalizes the date range in
// their GMT offset, and returns a resolver primed with the same profile so
// a sentinel project in the same call costs no second fetch.
func resolveWindow(since, until string) (query.DateWindow, *query.ProjectResolver, error) {
	if since == "" || until == "" {
		return query.DateWindow{}, nil, query.Validationf("both since and until are required (YYYY-MM-DD)")
	}
	user, err := apiClient.GetUser()
	if err != nil {
		return query.DateWindow{}, nil, err
	}
	window, err := query.NormalizeWindow(since, until, user.TzInfo.GmtString)
	if err != nil {
		return query.DateWindow{}, nil, err
	}
	resolver := query.NewProjectResolver(apiClient)
	resolver.Prime(user)
	return window, resolver, nil
}

type FindProjectsInput struct {
	Name   string `json:"name,omitempty"` // case-insensitive substring match
	Cursor string `json:"cursor,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

func handleFindProjects(ctx context.Context, req *mcp.CallToolRequest, input FindProjectsInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	name := strings.TrimSpace(input.Name)
	if name != "" && input.Cursor != "" {
		return nil, nil, query.Validationf("cursor cannot be combined with name: name matching always scans the full list")
	}

	limit := input.Limit
	if limit <= 0 {
		limit = cfg.DefaultPageSize
	}
	pageSize := limit
	if name != "" {
		pageSize = cfg.MaxPageSize
	}

	page, err := query.Paginate(func(cursor string) (query.Page[models.Project], error) {
		projects, next, err := apiClient.ListProjects(cursor, pageSize)
		return query.Page[models.Project]{Items: projects, NextCursor: next}, err
	}, query.PageOptions{Exhaustive: name != "", Cursor: input.Cursor})
	if err != nil {
		return nil, nil, err
	}

	var hints []string
	if name != "" {
		page.Items = matchByName(page.Items, name, func(p models.Project) string { return p.Name })
		hints = append(hints, "Name contains: "+name)
	}

	lines := make([]string, len(page.Items))
	for i, p := range page.Items {
		lines[i] = projectLine(p)
	}
	summary := query.RenderSummary(query.SummaryOptions{
		Subject:      "project",
		Items:        lines,
		FilterHints:  hints,
		ZeroHints:    []string{"Try a shorter name fragment"},
		PreviewLimit: cfg.PreviewLimit,
		NextCursor:   page.NextCursor,
	})

	payload := map[string]interface{}{"projects": page.Items, "count": len(page.Items)}
	if page.NextCursor != "" {
		payload["next_cursor"] = page.NextCursor
	}
	return summaryResult(summary), payload, nil
}

type FindSectionsInput struct {
	ProjectID string `json:"project_id,omitempty"` // accepts "inbox"
	Name      string `json:"name,omitempty"`       // case-insensitive substring match
	Cursor    string `json:"cursor,omitempty"`
	Limit     int    `json:"limit,omitempty"`
}

func handleFindSections(ctx context.Context, req *mcp.CallToolRequest, input FindSectionsInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	name := strings.TrimSpace(input.Name)
	if name != "" && input.Cursor != "" {
		return nil, nil, query.Validationf("cursor cannot be combined with name: name matching always scans the full list")
	}

	resolver := query.NewProjectResolver(apiClient)
	projectID, err := resolver.Resolve(query.ParseProjectRef(input.ProjectID))
	if err != nil {
		return nil, nil, err
	}

	limit := input.Limit
	if limit <= 0 {
		limit = cfg.DefaultPageSize
	}
	pageSize := limit
	if name != "" {
		pageSize = cfg.MaxPageSize
	}

	page, err := query.Paginate(func(cursor string) (query.Page[models.Section], error) {
		sections, next, err := apiClient.ListSections(projectID, cursor, pageSize)
		return query.Page[models.Section]{Items: sections, NextCursor: next}, err
	}, query.PageOptions{Exhaustive: name != "", Cursor: input.Cursor})
	if err != nil {
		return nil, nil, err
	}

	var hints []string
	if projectID != "" {
		hints = append(hints, "Project: "+projectID)
	}
	if name != "" {
		page.Items = matchByName(page.Items, name, func(s models.Section) string { return s.Name })
		hints = append(hints, "Name contains: "+name)
	}

	lines := make([]string, len(page.Items))
	for i, s := range page.Items {
		lines[i] = "[" + s.ID + "] " + s.Name
	}
	summary := query.RenderSummary(query.SummaryOptions{
		Subject:      "section",
		Items:        lines,
		FilterHints:  hints,
		ZeroHints:    []string{"Try a shorter name fragment or drop the project filter"},
		PreviewLimit: cfg.PreviewLimit,
		NextCursor:   page.NextCursor,
	})

	payload := map[string]interface{}{"sections": page.Items, "count": len(page.Items)}
	if page.NextCursor != "" {
		payload["next_cursor"] = page.NextCursor
	}
	return summaryResult(summary), payload, nil
}

type FindLabelsInput struct {
	Name   string `json:"name,omitempty"` // case-insensitive substring match
	Cursor string `json:"cursor,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

func handleFindLabels(ctx context.Context, req *mcp.CallToolRequest, input FindLabelsInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	name := strings.TrimSpace(input.Name)
	if name != "" && input.Cursor != "" {
		return nil, nil, query.Validationf("cursor cannot be combined with name: name matching always scans the full list")
	}

	limit := input.Limit
	if limit <= 0 {
		limit = cfg.DefaultPageSize
	}
	pageSize := limit
	if name != "" {
		pageSize = cfg.MaxPageSize
	}

	page, err := query.Paginate(func(cursor string) (query.Page[models.Label], error) {
		labels, next, err := apiClient.ListLabels(cursor, pageSize)
		return query.Page[models.Label]{Items: labels, NextCursor: next}, err
	}, query.PageOptions{Exhaustive: name != "", Cursor: input.Cursor})
	if err != nil {
		return nil, nil, err
	}

	var hints []string
	if name != "" {
		page.Items = matchByName(page.Items, name, func(l models.Label) string { return l.Name })
		hints = append(hints, "Name contains: "+name)
	}

	lines := make([]string, len(page.Items))
	for i, l := range page.Items {
		lines[i] = "[" + l.ID + "] @" + l.Name
	}
	summary := query.RenderSummary(query.SummaryOptions{
		Subject:      "label",
		Items:        lines,
		FilterHints:  hints,
		ZeroHints:    []string{"Labels are created on first use in add_task"},
		PreviewLimit: cfg.PreviewLimit,
		NextCursor:   page.NextCursor,
	})

	payload := map[string]interface{}{"labels": page.Items, "count": len(page.Items)}
	if page.NextCursor != "" {
		payload["next_cursor"] = page.NextCursor
	}
	return summaryResult(summary), payload, nil
}

type FindCommentsInput struct {
	TaskID    string `json:"task_id,omitempty"`
	ProjectID string `json:"project_id,omitempty"`
	Cursor    string `json:"cursor,omitempty"`
	Limit     int    `json:"limit,omitempty"`
}

func handleFindComments(ctx context.Context, req *mcp.CallToolRequest, input FindCommentsInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	if err := requireExactlyOneScope(input.TaskID, input.ProjectID); err != nil {
		return nil, nil, err
	}

	limit := input.Limit
	if limit <= 0 {
		limit = cfg.DefaultPageSize
	}
	page, err := query.Paginate(func(cursor string) (query.Page[models.Comment], error) {
		comments, next, err := apiClient.ListComments(api.ListCommentsParams{
			TaskID:    input.TaskID,
			ProjectID: input.ProjectID,
			Cursor:    cursor,
			Limit:     limit,
		})
		return query.Page[models.Comment]{Items: comments, NextCursor: next}, err
	}, query.PageOptions{Cursor: input.Cursor})
	if err != nil {
		return nil, nil, err
	}

	var hints []string
	if input.TaskID != "" {
		hints = append(hints, "Task: "+input.TaskID)
	} else {
		hints = append(hints, "Project: "+input.ProjectID)
	}

	lines := make([]string, len(page.Items))
	for i, c := range page.Items {
		lines[i] = "[" + c.ID + "] " + firstLine(c.Content)
	}
	summary := query.RenderSummary(query.SummaryOptions{
		Subject:      "comment",
		Items:        lines,
		FilterHints:  hints,
		ZeroHints:    []string{"Add one with add_comment"},
		PreviewLimit: cfg.PreviewLimit,
		NextCursor:   page.NextCursor,
	})

	payload := map[string]interface{}{"comments": page.Items, "count": len(page.Items)}
	if page.NextCursor != "" {
		payload["next_cursor"] = page.NextCursor
	}
	return summaryResult(summary), payload, nil
}

// matchByName keeps the items whose name contains the fragment,
// case-insensitively, preserving order.
func matchByName[T any](items []T, fragment string, name func(T) string) []T {
	needle := strings.ToLower(fragment)
	var out []T
	for _, item := range items {
		if strings.Contains(strings.ToLower(name(item)), needle) {
			out = append(out, item)
		}
	}
	return out
}

func zeroTaskHints(filter query.Fragment) []string {
	if filter != "" {
		return []string{"Try broader search terms or fewer labels", "Check the project and assignee filters"}
	}
	return []string{"This view has no tasks. Try another project or section."}
}

func taskLine(t models.Task) string {
	line := "[" + t.ID + "] " + t.Content
	if t.Due != nil && t.Due.Date != "" {
		line += " (due " + t.Due.Date + ")"
	}
	if t.Priority > 1 {
		line += fmt.Sprintf(" p%d", t.Priority)
	}
	return line
}

func taskLines(tasks []models.Task) []string {
	lines := make([]string, len(tasks))
	for i, t := range tasks {
		lines[i] = taskLine(t)
	}
	return lines
}

func projectLine(p models.Project) string {
	line := "[" + p.ID + "] " + p.Name
	if p.IsInboxProject {
		line += " (inbox)"
	}
	return line
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + "…"
	}
	return s
}

func taskListPayload(page query.Page[models.Task]) map[string]interface{} {
	payload := map[string]interface{}{
		"tasks": page.Items,
		"count": len(page.Items),
	}
	if page.NextCursor != "" {
		payload["next_cursor"] = page.NextCursor
	}
	return payload
}
