package presence

import "sync"

// Entry maps an open realtime session to the user holding it.
// Entries are ephemeral: they live only as long as the process and the
// connection.
type Entry struct {
	SessionID string
	UserID    string
}

// Registry tracks which users currently hold an open realtime session.
// It is owned by the server's lifecycle root and injected where needed,
// never a package-level variable, so it can be swapped for a distributed
// backing store later without touching call sites.
//
// A user may hold several concurrent sessions (multi-device); each is a
// distinct entry. LookupByUser returns the earliest-registered live
// session, matching the "first match" delivery target semantics.
type Registry struct {
	mu        sync.RWMutex
	bySession map[string]string   // session id -> user id
	byUser    map[string][]string // user id -> session ids, registration order
}

// NewRegistry creates an empty presence registry.
func NewRegistry() *Registry {
	return &Registry{
		bySession: make(map[string]string),
		byUser:    make(map[string][]string),
	}
}

// Register records that sessionID is held by userID.
// Registering the same session twice is a no-op.
func (r *Registry) Register(sessionID, userID string) {
	if sessionID == "" || userID == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.bySession[sessionID]; exists {
		return
	}
	r.bySession[sessionID] = userID
	r.byUser[userID] = append(r.byUser[userID], sessionID)
}

// LookupByUser returns an open session for userID, if any.
// With multiple concurrent sessions the earliest-registered one wins.
func (r *Registry) LookupByUser(userID string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sessions := r.byUser[userID]
	if len(sessions) == 0 {
		return Entry{}, false
	}
	return Entry{SessionID: sessions[0], UserID: userID}, true
}

// LookupBySession resolves the user that owns sessionID. Used to answer
// "who is the currently-speaking actor" for an inbound realtime message.
func (r *Registry) LookupBySession(sessionID string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	userID, ok := r.bySession[sessionID]
	if !ok {
		return Entry{}, false
	}
	return Entry{SessionID: sessionID, UserID: userID}, true
}

// Remove drops the entry for sessionID on disconnect. No-op if absent.
func (r *Registry) Remove(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userID, ok := r.bySession[sessionID]
	if !ok {
		return
	}
	delete(r.bySession, sessionID)

	sessions := r.byUser[userID]
	for i, s := range sessions {
		if s == sessionID {
			r.byUser[userID] = append(sessions[:i], sessions[i+1:]...)
			break
		}
	}
	if len(r.byUser[userID]) == 0 {
		delete(r.byUser, userID)
	}
}

// Len reports how many sessions are currently registered.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bySession)
}
