package db

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/lib/pq"
)

// taskChannel is the NOTIFY channel the tasks trigger posts to. The payload
// is the affected row's user_id.
const taskChannel = "task_changes"

// SubscribeTaskChanges opens a LISTEN connection and invokes fn for every
// task change event belonging to ownerID, whatever its origin. The returned
// unsubscribe function tears the connection down; calling it more than once
// is a no-op.
func (db *DB) SubscribeTaskChanges(ctx context.Context, ownerID string, fn func()) (func(), error) {
	listener := pq.NewListener(db.connStr, 10*time.Second, time.Minute,
		func(ev pq.ListenerEventType, err error) {
			if err != nil {
				log.Printf("db: listener event %d: %v", ev, err)
			}
		})

	if err := listener.Listen(taskChannel); err != nil {
		listener.Close()
		return nil, fmt.Errorf("error listening on %s: %w", taskChannel, err)
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case n, ok := <-listener.Notify:
				if !ok {
					return
				}
				// nil notifications signal a reconnect; the remote may have
				// changed underneath us, so treat them as a change too.
				if n == nil || n.Extra == ownerID {
					fn()
				}
			case <-done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			if err := listener.Close(); err != nil {
				log.Printf("db: closing listener: %v", err)
			}
		})
	}, nil
}
