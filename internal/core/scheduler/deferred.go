package scheduler

import "time"

// Token identifies a scheduled action.
type Token uint32

type deferredAction struct {
	token  Token
	due    time.Duration
	action func()
}

type deferredQueue struct {
	next    Token
	pending []deferredAction
}

func (queue *deferredQueue) add(due time.Duration, action func()) Token {
	queue.next++
	queue.pending = append(queue.pending, deferredAction{token: queue.next, due: due, action: action})
	return queue.next
}

func (queue *deferredQueue) cancel(token Token) bool {
	for i, entry := range queue.pending {
		if entry.token == token {
			queue.pending = append(queue.pending[:i], queue.pending[i+1:]...)
			return true
		}
	}
	return false
}

// run fires every action due at now. Actions may schedule more work; that
// work waits for a later pass.
func (queue *deferredQueue) run(now time.Duration) {
	var due []deferredAction
	kept := queue.pending[:0]
	for _, entry := range queue.pending {
		if now >= entry.due {
			due = append(due, entry)
		} else {
			kept = append(kept, entry)
		}
	}
	queue.pending = kept
	for _, entry := range due {
		entry.action()
	}
}
