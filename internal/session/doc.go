// Package session keeps one balls engine per network client.
//
// The engine itself does no locking, so every Session serialises access
// to its engine behind a mutex. The Manager owns the session table and
// the collaborators shared by all sessions: the best-score store, the
// recorder for finished games and a logger.
//
// Usage:
//
//	m := session.NewManager(session.WithBestStore(store), session.WithRecorder(store))
//	s, err := m.Create("balls_small", 0)
//	res, err := s.RemoveAt(3, 1)
//	view := s.View()
package session
