package app

import "sync"

// sessionScratch is the ephemeral, reconstructible per-session state: it
// must not survive a crash and is simply reset on restart.
type sessionScratch struct {
	ready         map[string]bool
	connected     map[string]bool
	usedScenarios map[string]bool
}

// Registry owns ephemeral per-session state (ready flags, connection sets,
// used-scenario lists) with an explicit open/close lifecycle, keeping it
// apart from the durable session record.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*sessionScratch
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*sessionScratch)}
}

// OpenSession allocates scratch state for a session. Reopening an already
// open session is a no-op.
func (r *Registry) OpenSession(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[sessionID]; ok {
		return
	}
	r.sessions[sessionID] = &sessionScratch{
		ready:         make(map[string]bool),
		connected:     make(map[string]bool),
		usedScenarios: make(map[string]bool),
	}
}

// CloseSession releases all scratch state for a session.
func (r *Registry) CloseSession(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
}

func (r *Registry) scratch(sessionID string) *sessionScratch {
	s, ok := r.sessions[sessionID]
	if !ok {
		// Tolerate use before OpenSession: behaves as empty and discards writes.
		return &sessionScratch{
			ready:         map[string]bool{},
			connected:     map[string]bool{},
			usedScenarios: map[string]bool{},
		}
	}
	return s
}

// SetReady flags or unflags a member as ready.
func (r *Registry) SetReady(sessionID, userID string, ready bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.scratch(sessionID)
	if ready {
		s.ready[userID] = true
	} else {
		delete(s.ready, userID)
	}
}

// Ready reports whether a member is flagged ready.
func (r *Registry) Ready(sessionID, userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scratch(sessionID).ready[userID]
}

// ReadyCount returns the number of ready members.
func (r *Registry) ReadyCount(sessionID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.scratch(sessionID).ready)
}

// ReadyUserIDs returns the ids of ready members.
func (r *Registry) ReadyUserIDs(sessionID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.scratch(sessionID).ready))
	for id := range r.scratch(sessionID).ready {
		out = append(out, id)
	}
	return out
}

// AllReady reports whether every one of the given members is flagged ready.
func (r *Registry) AllReady(sessionID string, userIDs []string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.scratch(sessionID)
	for _, id := range userIDs {
		if !s.ready[id] {
			return false
		}
	}
	return true
}

// ClearReady removes a member's ready flag, typically when they leave.
func (r *Registry) ClearReady(sessionID, userID string) {
	r.SetReady(sessionID, userID, false)
}

// SetConnected records whether a member currently holds a live connection.
func (r *Registry) SetConnected(sessionID, userID string, connected bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.scratch(sessionID)
	if connected {
		s.connected[userID] = true
	} else {
		delete(s.connected, userID)
	}
}

// ConnectedCount returns the number of live connections for a session.
func (r *Registry) ConnectedCount(sessionID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.scratch(sessionID).connected)
}

// MarkScenarioUsed records a scenario as shown this session.
func (r *Registry) MarkScenarioUsed(sessionID, scenarioID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sessionID]
	if !ok {
		return
	}
	s.usedScenarios[scenarioID] = true
}

// UsedScenarios returns a copy of the used-scenario set.
func (r *Registry) UsedScenarios(sessionID string) map[string]bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]bool)
	for id := range r.scratch(sessionID).usedScenarios {
		out[id] = true
	}
	return out
}
