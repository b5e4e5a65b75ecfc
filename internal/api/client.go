package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/taskdeck/taskdeck-mcp/internal/models"
)

// Client talks to the Taskdeck REST API. It performs no retries and no
// caching; every failure is surfaced to the caller as a wrapped error.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	APIToken   string

	// Agent metadata included in all requests (set via SetAgentInfo)
	AgentName      string
	AgentModel     string
	AgentSessionID string
}

// NewClient creates a new API client.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		BaseURL:  baseURL,
		APIToken: token,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SetAgentInfo sets agent metadata that will be included in all subsequent
// requests, so the backend can attribute changes to the agent session.
func (c *Client) SetAgentInfo(name, model, sessionID string) {
	c.AgentName = name
	c.AgentModel = model
	c.AgentSessionID = sessionID
}

// makeRequest makes an HTTP request and returns the response body
func (c *Client) makeRequest(method, endpoint string, body interface{}) ([]byte, error) {
	url := c.BaseURL + endpoint

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.APIToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIToken)
	}

	// Agent headers enable per-agent attribution in the backend
	if c.AgentName != "" {
		req.Header.Set("X-Created-Via", "mcp")
		req.Header.Set("X-Agent-Name", c.AgentName)
	}
	if c.AgentModel != "" {
		req.Header.Set("X-Agent-Model", c.AgentModel)
	}
	if c.AgentSessionID != "" {
		req.Header.Set("X-Agent-Session-ID", c.AgentSessionID)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

// listEnvelope is the wire envelope of every cursor-paginated endpoint.
type listEnvelope struct {
	Results    json.RawMessage `json:"results"`
	NextCursor string          `json:"next_cursor"`
}

// decodeList unpacks a paginated response body into typed results plus the
// server-reported next cursor (empty when no further page exists).
func decodeList[T any](body []byte) ([]T, string, error) {
	var envelope listEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, "", fmt.Errorf("failed to unmarshal list response: %w", err)
	}
	var results []T
	if len(envelope.Results) > 0 {
		if err := json.Unmarshal(envelope.Results, &results); err != nil {
			return nil, "", fmt.Errorf("failed to unmarshal list results: %w", err)
		}
	}
	return results, envelope.NextCursor, nil
}

func pageParams(params url.Values, cursor string, limit int) url.Values {
	if cursor != "" {
		params.Set("cursor", cursor)
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	return params
}

// ListTasksParams filters the active-task list endpoint. Zero-valued fields
// are omitted from the request.
type ListTasksParams struct {
	ProjectID string
	SectionID string
	ParentID  string
	Label     string
	Since     string // RFC 3339 UTC instant, inclusive
	Until     string // RFC 3339 UTC instant, inclusive
	Cursor    string
	Limit     int
}

func (c *Client) ListTasks(p ListTasksParams) ([]models.Task, string, error) {
	params := url.Values{}
	if p.ProjectID != "" {
		params.Set("project_id", p.ProjectID)
	}
	if p.SectionID != "" {
		params.Set("section_id", p.SectionID)
	}
	if p.ParentID != "" {
		params.Set("parent_id", p.ParentID)
	}
	if p.Label != "" {
		params.Set("label", p.Label)
	}
	if p.Since != "" {
		params.Set("since", p.Since)
	}
	if p.Until != "" {
		params.Set("until", p.Until)
	}
	pageParams(params, p.Cursor, p.Limit)

	body, err := c.makeRequest("GET", "/tasks?"+params.Encode(), nil)
	if err != nil {
		return nil, "", err
	}
	return decodeList[models.Task](body)
}

// FilterTasksParams queries the filter endpoint with a composed filter
// expression. Query must be non-empty; callers skip the filter endpoint
// entirely when no facet is active.
type FilterTasksParams struct {
	Query     string
	Lang      string
	ProjectID string
	SectionID string
	ParentID  string
	Cursor    string
	Limit     int
}

func (c *Client) FilterTasks(p FilterTasksParams) ([]models.Task, string, error) {
	params := url.Values{}
	params.Set("query", p.Query)
	if p.Lang != "" {
		params.Set("lang", p.Lang)
	}
	if p.ProjectID != "" {
		params.Set("project_id", p.ProjectID)
	}
	if p.SectionID != "" {
		params.Set("section_id", p.SectionID)
	}
	if p.ParentID != "" {
		params.Set("parent_id", p.ParentID)
	}
	pageParams(params, p.Cursor, p.Limit)

	body, err := c.makeRequest("GET", "/tasks/filter?"+params.Encode(), nil)
	if err != nil {
		return nil, "", err
	}
	return decodeList[models.Task](body)
}

// CompletedTasksParams bounds the completed-task list by completion time.
type CompletedTasksParams struct {
	Since     string // RFC 3339 UTC instant, inclusive
	Until     string // RFC 3339 UTC instant, inclusive
	ProjectID string
	Cursor    string
	Limit     int
}

func (c *Client) ListCompletedTasks(p CompletedTasksParams) ([]models.Task, string, error) {
	params := url.Values{}
	params.Set("since", p.Since)
	params.Set("until", p.Until)
	if p.ProjectID != "" {
		params.Set("project_id", p.ProjectID)
	}
	pageParams(params, p.Cursor, p.Limit)

	body, err := c.makeRequest("GET", "/tasks/completed?"+params.Encode(), nil)
	if err != nil {
		return nil, "", err
	}
	return decodeList[models.Task](body)
}

func (c *Client) GetTask(id string) (*models.Task, error) {
	body, err := c.makeRequest("GET", "/tasks/"+id, nil)
	if err != nil {
		return nil, err
	}
	var task models.Task
	if err := json.Unmarshal(body, &task); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task: %w", err)
	}
	return &task, nil
}

// CreateTaskRequest carries the writable fields of a new task.
type CreateTaskRequest struct {
	Content     string   `json:"content"`
	Description string   `json:"description,omitempty"`
	ProjectID   string   `json:"project_id,omitempty"`
	SectionID   string   `json:"section_id,omitempty"`
	ParentID    string   `json:"parent_id,omitempty"`
	Priority    int      `json:"priority,omitempty"`
	Labels      []string `json:"labels,omitempty"`
	DueString   string   `json:"due_string,omitempty"`
	DueDate     string   `json:"due_date,omitempty"`
	AssigneeID  string   `json:"assignee_id,omitempty"`
}

func (c *Client) CreateTask(req CreateTaskRequest) (*models.Task, error) {
	body, err := c.makeRequest("POST", "/tasks", req)
	if err != nil {
		return nil, err
	}
	var task models.Task
	if err := json.Unmarshal(body, &task); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task: %w", err)
	}
	return &task, nil
}

func (c *Client) UpdateTask(id string, data map[string]interface{}) (*models.Task, error) {
	body, err := c.makeRequest("POST", "/tasks/"+id, data)
	if err != nil {
		return nil, err
	}
	var task models.Task
	if err := json.Unmarshal(body, &task); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task from update response: %w", err)
	}
	return &task, nil
}

func (c *Client) CloseTask(id string) error {
	_, err := c.makeRequest("POST", "/tasks/"+id+"/close", nil)
	return err
}

func (c *Client) ReopenTask(id string) error {
	_, err := c.makeRequest("POST", "/tasks/"+id+"/reopen", nil)
	return err
}

func (c *Client) DeleteTask(id string) error {
	_, err := c.makeRequest("DELETE", "/tasks/"+id, nil)
	return err
}

func (c *Client) ListProjects(cursor string, limit int) ([]models.Project, string, error) {
	params := pageParams(url.Values{}, cursor, limit)
	body, err := c.makeRequest("GET", "/projects?"+params.Encode(), nil)
	if err != nil {
		return nil, "", err
	}
	return decodeList[models.Project](body)
}

func (c *Client) GetProject(id string) (*models.Project, error) {
	body, err := c.makeRequest("GET", "/projects/"+id, nil)
	if err != nil {
		return nil, err
	}
	var project models.Project
	if err := json.Unmarshal(body, &project); err != nil {
		return nil, fmt.Errorf("failed to unmarshal project: %w", err)
	}
	return &project, nil
}

// CreateProjectRequest carries the writable fields of a new project.
type CreateProjectRequest struct {
	Name       string `json:"name"`
	ParentID   string `json:"parent_id,omitempty"`
	Color      string `json:"color,omitempty"`
	IsFavorite bool   `json:"is_favorite,omitempty"`
	ViewStyle  string `json:"view_style,omitempty"`
}

func (c *Client) CreateProject(req CreateProjectRequest) (*models.Project, error) {
	body, err := c.makeRequest("POST", "/projects", req)
	if err != nil {
		return nil, err
	}
	var project models.Project
	if err := json.Unmarshal(body, &project); err != nil {
		return nil, fmt.Errorf("failed to unmarshal project: %w", err)
	}
	return &project, nil
}

func (c *Client) ListSections(projectID, cursor string, limit int) ([]models.Section, string, error) {
	params := url.Values{}
	if projectID != "" {
		params.Set("project_id", projectID)
	}
	pageParams(params, cursor, limit)
	body, err := c.makeRequest("GET", "/sections?"+params.Encode(), nil)
	if err != nil {
		return nil, "", err
	}
	return decodeList[models.Section](body)
}

func (c *Client) ListLabels(cursor string, limit int) ([]models.Label, string, error) {
	params := pageParams(url.Values{}, cursor, limit)
	body, err := c.makeRequest("GET", "/labels?"+params.Encode(), nil)
	if err != nil {
		return nil, "", err
	}
	return decodeList[models.Label](body)
}

// ListCommentsParams scopes the comment list to a task or a project.
// Exactly one of TaskID / ProjectID must be set; the handler layer enforces
// that before the request is built.
type ListCommentsParams struct {
	TaskID    string
	ProjectID string
	Cursor    string
	Limit     int
}

func (c *Client) ListComments(p ListCommentsParams) ([]models.Comment, string, error) {
	params := url.Values{}
	if p.TaskID != "" {
		params.Set("task_id", p.TaskID)
	}
	if p.ProjectID != "" {
		params.Set("project_id", p.ProjectID)
	}
	pageParams(params, p.Cursor, p.Limit)
	body, err := c.makeRequest("GET", "/comments?"+params.Encode(), nil)
	if err != nil {
		return nil, "", err
	}
	return decodeList[models.Comment](body)
}

// CreateCommentRequest attaches a comment to a task or a project.
type CreateCommentRequest struct {
	TaskID    string `json:"task_id,omitempty"`
	ProjectID string `json:"project_id,omitempty"`
	Content   string `json:"content"`
}

func (c *Client) CreateComment(req CreateCommentRequest) (*models.Comment, error) {
	body, err := c.makeRequest("POST", "/comments", req)
	if err != nil {
		return nil, err
	}
	var comment models.Comment
	if err := json.Unmarshal(body, &comment); err != nil {
		return nil, fmt.Errorf("failed to unmarshal comment: %w", err)
	}
	return &comment, nil
}

// ListCollaborators returns every member of the given project. The endpoint
// is not paginated.
func (c *Client) ListCollaborators(projectID string) ([]models.Collaborator, error) {
	body, err := c.makeRequest("GET", "/projects/"+projectID+"/collaborators", nil)
	if err != nil {
		return nil, err
	}
	var collaborators []models.Collaborator
	if err := json.Unmarshal(body, &collaborators); err != nil {
		return nil, fmt.Errorf("failed to unmarshal collaborators: %w", err)
	}
	return collaborators, nil
}

// GetUser fetches the caller's own profile.
func (c *Client) GetUser() (*models.User, error) {
	body, err := c.makeRequest("GET", "/user", nil)
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return &user, nil
}
