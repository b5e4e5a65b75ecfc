package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClient(server.URL, "test-token", 5*time.Second)
	return client, server
}

func TestListTasksRequestShape(t *testing.T) {
	var gotPath, gotAuth, gotQuery string
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"results":[{"id":"t1","project_id":"p1","content":"Write report","priority":1}],"next_cursor":"abc"}`))
	})
	defer server.Close()

	tasks, cursor, err := client.ListTasks(ListTasksParams{ProjectID: "p1", Label: "work", Cursor: "cur0", Limit: 50})
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if gotPath != "/tasks" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	for _, want := range []string{"project_id=p1", "label=work", "cursor=cur0", "limit=50"} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("query %q missing %q", gotQuery, want)
		}
	}
	if len(tasks) != 1 || tasks[0].ID != "t1" {
		t.Errorf("tasks = %+v", tasks)
	}
	if cursor != "abc" {
		t.Errorf("cursor = %q, want abc", cursor)
	}
}

func TestFilterTasksOmitsEmptyPageParams(t *testing.T) {
	var gotQuery string
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"results":[],"next_cursor":null}`))
	})
	defer server.Close()

	_, cursor, err := client.FilterTasks(FilterTasksParams{Query: "@work & search: report"})
	if err != nil {
		t.Fatalf("FilterTasks: %v", err)
	}
	if strings.Contains(gotQuery, "cursor=") || strings.Contains(gotQuery, "limit=") {
		t.Errorf("query %q carries page params that were not set", gotQuery)
	}
	if cursor != "" {
		t.Errorf("cursor = %q, want empty for null next_cursor", cursor)
	}
}

func TestErrorStatusSurfacesBody(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":"invalid token"}`))
	})
	defer server.Close()

	_, err := client.GetUser()
	if err == nil {
		t.Fatal("GetUser succeeded on a 403")
	}
	if !strings.Contains(err.Error(), "403") || !strings.Contains(err.Error(), "invalid token") {
		t.Errorf("error %q does not carry status and body", err)
	}
}

func TestAgentHeadersForwarded(t *testing.T) {
	var gotName, gotVia string
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotName = r.Header.Get("X-Agent-Name")
		gotVia = r.Header.Get("X-Created-Via")
		w.Write([]byte(`{"id":"u1","inbox_project_id":"p0","tz_info":{"gmt_string":"+00:00"}}`))
	})
	defer server.Close()

	client.SetAgentInfo("claude", "some-model", "s1")
	if _, err := client.GetUser(); err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if gotName != "claude" || gotVia != "mcp" {
		t.Errorf("agent headers = %q / %q", gotName, gotVia)
	}
}
