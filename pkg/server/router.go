package server

// Router implements message fan-out over the session registry. Delivery
// is fire-and-forget per recipient: a write failure to one session never
// aborts delivery to the others. Dead sessions are collected during the
// sweep and unregistered afterwards, never written to again.
type Router struct {
	sessions *SessionManager
	metrics  *Metrics
}

// NewRouter creates a router over a session manager.
func NewRouter(sessions *SessionManager) *Router {
	return &Router{sessions: sessions}
}

// SetMetrics attaches metrics to the router.
func (r *Router) SetMetrics(metrics *Metrics) {
	r.metrics = metrics
}

// BroadcastExcept delivers text to every authenticated session other than
// the sender's own session. Returns the number of recipients.
func (r *Router) BroadcastExcept(senderID uint64, text string) int {
	var dead []uint64
	delivered := 0

	for _, sess := range r.sessions.Snapshot() {
		if sess.ID == senderID || !sess.Authenticated() {
			continue
		}
		if err := sess.Conn.WriteFrame(text); err != nil {
			debugLog.Printf("Session %d: broadcast write failed: %v", sess.ID, err)
			dead = append(dead, sess.ID)
			continue
		}
		delivered++
	}

	for _, id := range dead {
		r.sessions.Unregister(id)
	}

	if r.metrics != nil {
		r.metrics.RecordMessagesRouted("broadcast", delivered)
		r.metrics.RecordBroadcastFanout(delivered)
	}
	return delivered
}

// DirectTo delivers text to every session authenticated as the given
// username and returns the recipient count, so the dispatcher can report
// "not in chat room" when zero.
func (r *Router) DirectTo(username, text string) int {
	var dead []uint64
	delivered := 0

	for _, sess := range r.sessions.FindByUsername(username) {
		if err := sess.Conn.WriteFrame(text); err != nil {
			debugLog.Printf("Session %d: direct write failed: %v", sess.ID, err)
			dead = append(dead, sess.ID)
			continue
		}
		delivered++
	}

	for _, id := range dead {
		r.sessions.Unregister(id)
	}

	if delivered > 0 && r.metrics != nil {
		r.metrics.RecordMessagesRouted("direct", delivered)
	}
	return delivered
}

// Roster returns the usernames of all authenticated sessions in registry
// order. A user logged in from several connections appears once per
// session.
func (r *Router) Roster() []string {
	var names []string
	for _, sess := range r.sessions.Snapshot() {
		if name := sess.Username(); name != "" {
			names = append(names, name)
		}
	}
	return names
}
