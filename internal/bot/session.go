package bot

import "sync"

// Session is one respondent's in-progress questionnaire. Answers grow by
// one per inbound message; Index is the question currently awaiting an
// answer. Sessions are transient: completing or cancelling removes them.
type Session struct {
	Answers []string
	Index   int
}

// Registry holds live sessions keyed by chat id. The poller is the only
// writer, but the registry is mutex-guarded because admin surfaces run on
// other goroutines in the same process.
type Registry struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[int64]*Session)}
}

// Begin creates a fresh session for chatID, replacing any existing one.
func (r *Registry) Begin(chatID int64) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := &Session{}
	r.sessions[chatID] = s
	return s
}

// Get returns the live session for chatID, if any.
func (r *Registry) Get(chatID int64) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[chatID]
	return s, ok
}

// End removes the session for chatID.
func (r *Registry) End(chatID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, chatID)
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
