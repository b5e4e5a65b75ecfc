package mcp

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/taskdeck/taskdeck-mcp/internal/api"
)

// Session represents an MCP agent session. Agent name and model flow into
// the X-Agent-* attribution headers on every API request.
type Session struct {
	ID             string
	Initialized    bool
	AgentName      string
	AgentModel     string
	CreatedAt      time.Time
	LastActivityAt time.Time
}

// SessionManager manages MCP sessions. Stdio serves one connection, so a
// single global session is enough.
type SessionManager struct {
	currentSession *Session
	mu             sync.RWMutex
}

var sessionManager = &SessionManager{}

// GetCurrentSession returns the current session, creating one if needed
func GetCurrentSession() *Session {
	sessionManager.mu.Lock()
	defer sessionManager.mu.Unlock()

	if sessionManager.currentSession == nil {
		sessionManager.currentSession = &Session{
			ID:        uuid.New().String(),
			CreatedAt: time.Now(),
		}
	}
	sessionManager.currentSession.LastActivityAt = time.Now()
	return sessionManager.currentSession
}

// InitializeSession marks the session as initialized with agent info
func InitializeSession(agentName, agentModel string) *Session {
	sessionManager.mu.Lock()
	defer sessionManager.mu.Unlock()

	if sessionManager.currentSession == nil {
		sessionManager.currentSession = &Session{
			ID:        uuid.New().String(),
			CreatedAt: time.Now(),
		}
	}

	sessionManager.currentSession.Initialized = true
	sessionManager.currentSession.AgentName = agentName
	sessionManager.currentSession.AgentModel = agentModel
	sessionManager.currentSession.LastActivityAt = time.Now()

	go PersistSession()

	return sessionManager.currentSession
}

// ResetSession clears the current session (useful for testing)
func ResetSession() {
	sessionManager.mu.Lock()
	defer sessionManager.mu.Unlock()

	sessionManager.currentSession = nil
}

// setAgentInfoFromSession copies agent metadata from the current session
// onto an API client
func setAgentInfoFromSession(client *api.Client) {
	session := GetCurrentSession()
	if session != nil && session.AgentName != "" {
		client.SetAgentInfo(session.AgentName, session.AgentModel, session.ID)
	}
}

// Session persistence across MCP stdio restarts

const persistedSessionFile = "taskdeck-mcp-session.json"

// sessionTTL bounds how long a persisted session stays valid
const sessionTTL = 24 * time.Hour

type persistedSession struct {
	ID         string `json:"id"`
	AgentName  string `json:"agent_name"`
	AgentModel string `json:"agent_model"`
	CreatedAt  int64  `json:"created_at"`
	ExpiresAt  int64  `json:"expires_at"`
}

func sessionFilePath() string {
	return filepath.Join(os.TempDir(), persistedSessionFile)
}

// PersistSession writes the current session to disk so a restarted stdio
// server keeps the same attribution.
func PersistSession() error {
	sessionManager.mu.RLock()
	s := sessionManager.currentSession
	sessionManager.mu.RUnlock()

	if s == nil || !s.Initialized {
		return nil
	}

	data, err := json.Marshal(persistedSession{
		ID:         s.ID,
		AgentName:  s.AgentName,
		AgentModel: s.AgentModel,
		CreatedAt:  s.CreatedAt.Unix(),
		ExpiresAt:  time.Now().Add(sessionTTL).Unix(),
	})
	if err != nil {
		return err
	}
	return os.WriteFile(sessionFilePath(), data, 0600)
}

// LoadPersistedSession restores a previously persisted session. Returns
// true when a non-expired session was loaded.
func LoadPersistedSession() bool {
	data, err := os.ReadFile(sessionFilePath())
	if err != nil {
		return false
	}

	var p persistedSession
	if err := json.Unmarshal(data, &p); err != nil {
		return false
	}
	if p.ExpiresAt < time.Now().Unix() {
		_ = os.Remove(sessionFilePath())
		return false
	}

	sessionManager.mu.Lock()
	defer sessionManager.mu.Unlock()
	sessionManager.currentSession = &Session{
		ID:             p.ID,
		Initialized:    true,
		AgentName:      p.AgentName,
		AgentModel:     p.AgentModel,
		CreatedAt:      time.Unix(p.CreatedAt, 0),
		LastActivityAt: time.Now(),
	}
	return true
}
