package notifications

import (
	"log"

	"gorm.io/gorm"

	"github.com/consultbridge/consult-booking/models"
)

// Event is one notification to record for a user.
type Event struct {
	UserID  uint
	Type    string
	Message string
}

// Notifier persists notification events off the request path. Booking
// handlers enqueue and move on; a full queue or a failed write is logged
// and dropped, never surfaced to the caller.
type Notifier struct {
	db     *gorm.DB
	events chan Event
	done   chan struct{}
}

func New(db *gorm.DB, buffer int) *Notifier {
	if buffer <= 0 {
		buffer = 256
	}
	return &Notifier{
		db:     db,
		events: make(chan Event, buffer),
		done:   make(chan struct{}),
	}
}

// Start launches the single worker goroutine.
func (n *Notifier) Start() {
	go func() {
		defer close(n.done)
		for ev := range n.events {
			n.deliver(ev)
		}
	}()
}

// Stop drains the queue and waits for the worker to exit.
func (n *Notifier) Stop() {
	close(n.events)
	<-n.done
}

// Enqueue never blocks; when the buffer is full the event is dropped.
func (n *Notifier) Enqueue(ev Event) {
	select {
	case n.events <- ev:
	default:
		log.Printf("notification queue full, dropping %s for user %d", ev.Type, ev.UserID)
	}
}

func (n *Notifier) deliver(ev Event) {
	record := models.Notification{
		UserID:  ev.UserID,
		Type:    ev.Type,
		Message: ev.Message,
	}
	if err := n.db.Create(&record).Error; err != nil {
		log.Printf("failed to write notification %s for user %d: %v", ev.Type, ev.UserID, err)
	}
}

// Default is the process-wide notifier wired up in main.
var Default *Notifier

// Emit enqueues on the default notifier when one is running.
func Emit(userID uint, eventType, message string) {
	if Default == nil {
		return
	}
	Default.Enqueue(Event{UserID: userID, Type: eventType, Message: message})
}
