package app

import (
	"sync"
	"time"
)

type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Notice is a user-facing message. Surfaces drain the queue with Notices.
type Notice struct {
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// maxNotices bounds the queue when no surface drains it.
const maxNotices = 100

type noticeQueue struct {
	mu    sync.Mutex
	items []Notice
}

func (q *noticeQueue) push(n Notice) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, n)
	if len(q.items) > maxNotices {
		q.items = q.items[len(q.items)-maxNotices:]
	}
}

func (q *noticeQueue) drain() []Notice {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.items
	q.items = nil
	return out
}

func (a *App) notify(level Level, message string) {
	a.notices.push(Notice{Level: level, Message: message, Time: a.clockNow()})
}

// Notices returns and clears queued notices, oldest first.
func (a *App) Notices() []Notice {
	return a.notices.drain()
}
