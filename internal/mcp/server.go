package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/taskdeck/taskdeck-mcp/internal/api"
	"github.com/taskdeck/taskdeck-mcp/internal/config"
)

// apiClient and cfg hold the collaborators for tool handlers
var (
	apiClient *api.Client
	cfg       *config.Config
)

// ServeStdio starts the MCP server using the official go-sdk over stdio
func ServeStdio(client *api.Client, conf *config.Config) error {
	if client == nil {
		return errors.New("api client is required")
	}
	apiClient = client
	cfg = conf

	// Restore agent attribution from a previous MCP run so stdio restarts
	// keep writing to the same session
	if LoadPersistedSession() {
		setAgentInfoFromSession(client)
	}

	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "taskdeck",
			Version: "1.4.0",
		},
		&mcp.ServerOptions{
			Instructions: `Taskdeck - task management for agents

You are connected to the user's Taskdeck workspace. Tasks, projects,
sections, comments and labels live in the hosted service; every tool call
reads or writes live data.

## Getting started
1. Call setup_agent first with your agent name and model.
2. Use find_projects to discover the workspace layout.
3. Pass project_id="inbox" anywhere to target the user's inbox project.

## Finding things
- find_tasks supports free text, labels, assignee and project facets.
  Free-text searches scan the entire result set, not just the first page.
- find_tasks_by_date and find_completed_tasks take calendar dates in the
  user's own timezone; pass YYYY-MM-DD and the server handles offsets.
- Every find tool returns a text summary plus the structured records.

## Changing things
- add_task accepts natural-language due strings ("next friday 5pm").
- complete_task / reopen_task / delete_task act on one task id.
- Never delete without explicit user approval.`,
		},
	)

	registerTools(server)

	return server.Run(context.Background(), &mcp.StdioTransport{})
}

// summaryResult wraps an already-rendered text summary as tool content.
func summaryResult(summary string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: summary},
		},
	}
}

// textResult converts any data to a CallToolResult with JSON TextContent.
// This keeps payloads compatible with clients that ignore structured
// content.
func textResult(data interface{}) (*mcp.CallToolResult, error) {
	if data == nil {
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: "{}"},
			},
		}, nil
	}
	jsonBytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, nil
}

// mustTextResult is like textResult but returns an error result instead of
// failing. Use in handler return statements for one-liner conversions.
func mustTextResult(data interface{}) *mcp.CallToolResult {
	res, err := textResult(data)
	if err != nil {
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf(`{"error": %q}`, err.Error())},
			},
			IsError: true,
		}
	}
	return res
}
