package httpapi

import (
	"context"
	"errors"
	"sync"

	"sidequest/internal/app"
)

// Sessions keeps one application context per identity, created on first
// use.
type Sessions struct {
	mu     sync.Mutex
	newApp func(identity string) *app.App
	apps   map[string]*app.App
}

func NewSessions(newApp func(identity string) *app.App) *Sessions {
	return &Sessions{newApp: newApp, apps: make(map[string]*app.App)}
}

func (s *Sessions) Get(identity string) *app.App {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.apps[identity]
	if !ok {
		a = s.newApp(identity)
		s.apps[identity] = a
	}
	return a
}

// Close commits every session's pending deletions.
func (s *Sessions) Close(ctx context.Context) error {
	s.mu.Lock()
	apps := make([]*app.App, 0, len(s.apps))
	for _, a := range s.apps {
		apps = append(apps, a)
	}
	s.mu.Unlock()

	var errs []error
	for _, a := range apps {
		if err := a.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
