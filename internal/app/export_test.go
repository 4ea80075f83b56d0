package app

import "wedding-site-api/internal/queue"

func (a *App) EventQueue() queue.RsvpEventQueue {
	return a.eventQueue
}
