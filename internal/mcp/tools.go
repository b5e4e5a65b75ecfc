package mcp

import (
	"context"
	"errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/taskdeck/taskdeck-mcp/internal/api"
	"github.com/taskdeck/taskdeck-mcp/internal/models"
	"github.com/taskdeck/taskdeck-mcp/internal/query"
)

// toolDef describes a registered tool for the CLI "mcp tools" command.
type toolDef struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

var toolDefs []toolDef

func addTool[In, Out any](server *mcp.Server, tool *mcp.Tool, handler mcp.ToolHandlerFor[In, Out]) {
	toolDefs = append(toolDefs, toolDef{Name: tool.Name, Description: tool.Description})
	mcp.AddTool(server, tool, handler)
}

// ToolDefinitions returns the registered tool names and descriptions,
// registering against a throwaway server when none is running yet.
func ToolDefinitions() []toolDef {
	if len(toolDefs) == 0 {
		registerTools(mcp.NewServer(&mcp.Implementation{Name: "taskdeck"}, nil))
	}
	return toolDefs
}

// registerTools registers all MCP tools with the server using go-sdk.
// The SDK infers each InputSchema from the handler's input struct type.
func registerTools(server *mcp.Server) {
	toolDefs = nil

	addTool(server, &mcp.Tool{
		Name:        "setup_agent",
		Description: "Initialize the agent session. Call this first with your agent name and model so changes are attributed correctly.",
	}, handleSetupAgent)

	addTool(server, &mcp.Tool{
		Name:        "get_overview",
		Description: "Get the caller's profile and workspace overview: inbox project, timezone, and the first page of projects.",
	}, handleGetOverview)

	// Find tools — all of them share the query/pagination/summary layer
	addTool(server, &mcp.Tool{
		Name:        "find_tasks",
		Description: "Find tasks by free text, labels, assignee, project (use 'inbox' for the default project), section or parent. Free-text searches scan every page.",
	}, handleFindTasks)

	addTool(server, &mcp.Tool{
		Name:        "find_tasks_by_date",
		Description: "Find tasks due inside an inclusive calendar date range (YYYY-MM-DD), interpreted in the user's own timezone. Pass overdue=true instead of dates to get everything due before now.",
	}, handleFindTasksByDate)

	addTool(server, &mcp.Tool{
		Name:        "find_completed_tasks",
		Description: "Find tasks completed inside an inclusive calendar date range (YYYY-MM-DD), interpreted in the user's own timezone.",
	}, handleFindCompletedTasks)

	addTool(server, &mcp.Tool{
		Name:        "find_projects",
		Description: "Find projects, optionally matching a name. Name matching scans the full project list.",
	}, handleFindProjects)

	addTool(server, &mcp.Tool{
		Name:        "find_sections",
		Description: "Find sections, optionally scoped to a project and matching a name.",
	}, handleFindSections)

	addTool(server, &mcp.Tool{
		Name:        "find_labels",
		Description: "Find personal labels, optionally matching a name.",
	}, handleFindLabels)

	addTool(server, &mcp.Tool{
		Name:        "find_comments",
		Description: "List comments for exactly one of a task or a project.",
	}, handleFindComments)

	// Single-call CRUD tools
	addTool(server, &mcp.Tool{
		Name:        "add_task",
		Description: "Create a task. Supports natural-language due strings and project_id='inbox'.",
	}, handleAddTask)

	addTool(server, &mcp.Tool{
		Name:        "get_task",
		Description: "Get one task by id.",
	}, handleGetTask)

	addTool(server, &mcp.Tool{
		Name:        "update_task",
		Description: "Update a task's content, description, priority, labels or due date.",
	}, handleUpdateTask)

	addTool(server, &mcp.Tool{
		Name:        "complete_task",
		Description: "Mark a task as completed.",
	}, handleCompleteTask)

	addTool(server, &mcp.Tool{
		Name:        "reopen_task",
		Description: "Reopen a previously completed task.",
	}, handleReopenTask)

	addTool(server, &mcp.Tool{
		Name:        "delete_task",
		Description: "Delete a task permanently. Requires explicit user approval.",
	}, handleDeleteTask)

	addTool(server, &mcp.Tool{
		Name:        "add_project",
		Description: "Create a project.",
	}, handleAddProject)

	addTool(server, &mcp.Tool{
		Name:        "get_project",
		Description: "Get one project by id.",
	}, handleGetProject)

	addTool(server, &mcp.Tool{
		Name:        "add_comment",
		Description: "Add a comment to exactly one of a task or a project.",
	}, handleAddComment)
}

type SetupAgentInput struct {
	AgentName  string `json:"agent_name,omitempty"`
	AgentModel string `json:"agent_model,omitempty"`
}

func handleSetupAgent(ctx context.Context, req *mcp.CallToolRequest, input SetupAgentInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	agentName := strings.TrimSpace(input.AgentName)
	if agentName == "" {
		agentName = "unknown-agent"
	}
	session := InitializeSession(agentName, strings.TrimSpace(input.AgentModel))
	apiClient.SetAgentInfo(session.AgentName, session.AgentModel, session.ID)

	return nil, map[string]interface{}{
		"session_id":  session.ID,
		"agent_name":  session.AgentName,
		"agent_model": session.AgentModel,
		"message":     "Session initialized. Changes are now attributed to this agent.",
	}, nil
}

func handleGetOverview(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, map[string]interface{}, error) {
	// Profile and project list are independent; fetch them concurrently
	// and join before rendering.
	type userResult struct {
		user *models.User
		err  error
	}
	userCh := make(chan userResult, 1)
	go func() {
		user, err := apiClient.GetUser()
		userCh <- userResult{user, err}
	}()

	projects, nextCursor, projErr := apiClient.ListProjects("", cfg.DefaultPageSize)
	ur := <-userCh
	if ur.err != nil {
		return nil, nil, ur.err
	}
	if projErr != nil {
		return nil, nil, projErr
	}

	lines := make([]string, len(projects))
	for i, p := range projects {
		lines[i] = projectLine(p)
	}
	summary := query.RenderSummary(query.SummaryOptions{
		Subject:      "project",
		Items:        lines,
		FilterHints:  []string{"User: " + ur.user.FullName + " <" + ur.user.Email + ">", "Timezone: " + ur.user.TzInfo.Timezone + " (" + ur.user.TzInfo.GmtString + ")"},
		ZeroHints:    []string{"Create a project with add_project"},
		PreviewLimit: cfg.PreviewLimit,
		NextCursor:   nextCursor,
	})

	payload := map[string]interface{}{
		"user":     ur.user,
		"projects": projects,
		"count":    len(projects),
	}
	if nextCursor != "" {
		payload["next_cursor"] = nextCursor
	}
	return summaryResult(summary), payload, nil
}

type AddTaskInput struct {
	Content     string   `json:"content"`
	Description string   `json:"description,omitempty"`
	ProjectID   string   `json:"project_id,omitempty"` // accepts "inbox"
	SectionID   string   `json:"section_id,omitempty"`
	ParentID    string   `json:"parent_id,omitempty"`
	Priority    int      `json:"priority,omitempty"` // 1 (normal) .. 4 (urgent)
	Labels      []string `json:"labels,omitempty"`
	DueString   string   `json:"due_string,omitempty"`
	DueDate     string   `json:"due_date,omitempty"`
	Assignee    string   `json:"assignee,omitempty"` // id, email, or name
}

func handleAddTask(ctx context.Context, req *mcp.CallToolRequest, input AddTaskInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, nil, errors.New("content is required")
	}

	resolver := query.NewProjectResolver(apiClient)
	projectID, err := resolver.Resolve(query.ParseProjectRef(input.ProjectID))
	if err != nil {
		return nil, nil, err
	}

	assigneeID := ""
	if input.Assignee != "" {
		if projectID == "" {
			return nil, nil, query.Validationf("assignee requires a project_id to resolve against")
		}
		collaborator, err := query.ResolveAssignee(apiClient, projectID, input.Assignee)
		if err != nil {
			return nil, nil, err
		}
		assigneeID = collaborator.ID
	}

	task, err := apiClient.CreateTask(api.CreateTaskRequest{
		Content:     content,
		Description: input.Description,
		ProjectID:   projectID,
		SectionID:   input.SectionID,
		ParentID:    input.ParentID,
		Priority:    input.Priority,
		Labels:      input.Labels,
		DueString:   input.DueString,
		DueDate:     input.DueDate,
		AssigneeID:  assigneeID,
	})
	if err != nil {
		return nil, nil, err
	}
	return summaryResult("Created task " + taskLine(*task)), taskPayload(task), nil
}

type TaskIDInput struct {
	TaskID string `json:"task_id"`
}

func handleGetTask(ctx context.Context, req *mcp.CallToolRequest, input TaskIDInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	if input.TaskID == "" {
		return nil, nil, errors.New("task_id is required")
	}
	task, err := apiClient.GetTask(input.TaskID)
	if err != nil {
		return nil, nil, err
	}
	return mustTextResult(task), taskPayload(task), nil
}

type UpdateTaskInput struct {
	TaskID      string   `json:"task_id"`
	Content     string   `json:"content,omitempty"`
	Description string   `json:"description,omitempty"`
	Priority    int      `json:"priority,omitempty"`
	Labels      []string `json:"labels,omitempty"`
	DueString   string   `json:"due_string,omitempty"`
	DueDate     string   `json:"due_date,omitempty"`
}

func handleUpdateTask(ctx context.Context, req *mcp.CallToolRequest, input UpdateTaskInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	if input.TaskID == "" {
		return nil, nil, errors.New("task_id is required")
	}

	data := map[string]interface{}{}
	if input.Content != "" {
		data["content"] = input.Content
	}
	if input.Description != "" {
		data["description"] = input.Description
	}
	if input.Priority != 0 {
		data["priority"] = input.Priority
	}
	if input.Labels != nil {
		data["labels"] = input.Labels
	}
	if input.DueString != "" {
		data["due_string"] = input.DueString
	}
	if input.DueDate != "" {
		data["due_date"] = input.DueDate
	}
	if len(data) == 0 {
		return nil, nil, query.Validationf("no fields to update")
	}

	task, err := apiClient.UpdateTask(input.TaskID, data)
	if err != nil {
		return nil, nil, err
	}
	return summaryResult("Updated task " + taskLine(*task)), taskPayload(task), nil
}

func handleCompleteTask(ctx context.Context, req *mcp.CallToolRequest, input TaskIDInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	if input.TaskID == "" {
		return nil, nil, errors.New("task_id is required")
	}
	if err := apiClient.CloseTask(input.TaskID); err != nil {
		return nil, nil, err
	}
	return nil, map[string]interface{}{"task_id": input.TaskID, "completed": true}, nil
}

func handleReopenTask(ctx context.Context, req *mcp.CallToolRequest, input TaskIDInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	if input.TaskID == "" {
		return nil, nil, errors.New("task_id is required")
	}
	if err := apiClient.ReopenTask(input.TaskID); err != nil {
		return nil, nil, err
	}
	return nil, map[string]interface{}{"task_id": input.TaskID, "completed": false}, nil
}

func handleDeleteTask(ctx context.Context, req *mcp.CallToolRequest, input TaskIDInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	if input.TaskID == "" {
		return nil, nil, errors.New("task_id is required")
	}
	if err := apiClient.DeleteTask(input.TaskID); err != nil {
		return nil, nil, err
	}
	return nil, map[string]interface{}{"task_id": input.TaskID, "deleted": true}, nil
}

type AddProjectInput struct {
	Name       string `json:"name"`
	ParentID   string `json:"parent_id,omitempty"`
	Color      string `json:"color,omitempty"`
	IsFavorite bool   `json:"is_favorite,omitempty"`
}

func handleAddProject(ctx context.Context, req *mcp.CallToolRequest, input AddProjectInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, nil, errors.New("name is required")
	}
	project, err := apiClient.CreateProject(api.CreateProjectRequest{
		Name:       strings.TrimSpace(input.Name),
		ParentID:   input.ParentID,
		Color:      input.Color,
		IsFavorite: input.IsFavorite,
	})
	if err != nil {
		return nil, nil, err
	}
	return summaryResult("Created project " + projectLine(*project)), map[string]interface{}{"project": project}, nil
}

type ProjectIDInput struct {
	ProjectID string `json:"project_id"`
}

func handleGetProject(ctx context.Context, req *mcp.CallToolRequest, input ProjectIDInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	if input.ProjectID == "" {
		return nil, nil, errors.New("project_id is required")
	}
	resolver := query.NewProjectResolver(apiClient)
	projectID, err := resolver.Resolve(query.ParseProjectRef(input.ProjectID))
	if err != nil {
		return nil, nil, err
	}
	project, err := apiClient.GetProject(projectID)
	if err != nil {
		return nil, nil, err
	}
	return mustTextResult(project), map[string]interface{}{"project": project}, nil
}

type AddCommentInput struct {
	TaskID    string `json:"task_id,omitempty"`
	ProjectID string `json:"project_id,omitempty"`
	Content   string `json:"content"`
}

func handleAddComment(ctx context.Context, req *mcp.CallToolRequest, input AddCommentInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	if strings.TrimSpace(input.Content) == "" {
		return nil, nil, errors.New("content is required")
	}
	if err := requireExactlyOneScope(input.TaskID, input.ProjectID); err != nil {
		return nil, nil, err
	}
	comment, err := apiClient.CreateComment(api.CreateCommentRequest{
		TaskID:    input.TaskID,
		ProjectID: input.ProjectID,
		Content:   input.Content,
	})
	if err != nil {
		return nil, nil, err
	}
	return nil, map[string]interface{}{"comment": comment}, nil
}

// requireExactlyOneScope enforces the task-or-project exclusivity shared by
// the comment tools.
func requireExactlyOneScope(taskID, projectID string) error {
	if taskID != "" && projectID != "" {
		return query.Validationf("task_id and project_id are mutually exclusive")
	}
	if taskID == "" && projectID == "" {
		return query.Validationf("one of task_id or project_id is required")
	}
	return nil
}

func taskPayload(task *models.Task) map[string]interface{} {
	return map[string]interface{}{"task": task}
}
