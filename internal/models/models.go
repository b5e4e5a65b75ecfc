package models

// Project represents a project in the Taskdeck workspace
type Project struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Color          string `json:"color,omitempty"`
	ParentID       string `json:"parent_id,omitempty"`
	IsInboxProject bool   `json:"is_inbox_project,omitempty"`
	IsFavorite     bool   `json:"is_favorite,omitempty"`
	ViewStyle      string `json:"view_style,omitempty"`
	URL            string `json:"url,omitempty"`
}

// Section represents a section inside a project
type Section struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	Name      string `json:"name"`
	Order     int    `json:"order,omitempty"`
}

// Due carries the due schedule of a task. Date is a plain calendar day
// (YYYY-MM-DD); Datetime is set when the task has a fixed time of day.
type Due struct {
	Date        string `json:"date"`
	Datetime    string `json:"datetime,omitempty"`
	String      string `json:"string,omitempty"`
	Timezone    string `json:"timezone,omitempty"`
	IsRecurring bool   `json:"is_recurring"`
}

// Task represents a task in the system
type Task struct {
	ID          string   `json:"id"`
	ProjectID   string   `json:"project_id"`
	SectionID   string   `json:"section_id,omitempty"`
	ParentID    string   `json:"parent_id,omitempty"`
	Content     string   `json:"content"`
	Description string   `json:"description,omitempty"`
	Priority    int      `json:"priority"` // 1 (normal) .. 4 (urgent)
	Labels      []string `json:"labels,omitempty"`
	AssigneeID  string   `json:"assignee_id,omitempty"`
	Due         *Due     `json:"due,omitempty"`
	URL         string   `json:"url,omitempty"`
	CompletedAt string   `json:"completed_at,omitempty"`
	CreatedAt   string   `json:"created_at,omitempty"`
}

// Comment represents a comment attached to a task or a project.
// Exactly one of TaskID / ProjectID is set.
type Comment struct {
	ID        string `json:"id"`
	TaskID    string `json:"task_id,omitempty"`
	ProjectID string `json:"project_id,omitempty"`
	Content   string `json:"content"`
	PostedAt  string `json:"posted_at,omitempty"`
}

// Label represents a personal label
type Label struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// Collaborator is a member of a shared project
type Collaborator struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// TzInfo is the timezone block of a user profile. GmtString is a signed
// offset like "+02:00" or "-09:30".
type TzInfo struct {
	Timezone  string `json:"timezone"`
	GmtString string `json:"gmt_string"`
}

// User is the caller's own profile
type User struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	FullName       string `json:"full_name"`
	InboxProjectID string `json:"inbox_project_id"`
	TzInfo         TzInfo `json:"tz_info"`
}
