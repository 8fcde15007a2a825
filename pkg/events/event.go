package events

import "time"

type Type string

const (
	PhotoUploaded Type = "uploaded"
	PhotoRenamed  Type = "renamed"
	PhotoDeleted  Type = "deleted"
	PhotosCleared Type = "cleared"
)

// Event describes a completed photo lifecycle transition.
type Event struct {
	Type     Type      `json:"type"`
	PhotoID  uint      `json:"photoID,omitempty"`
	FileName string    `json:"fileName,omitempty"`
	Time     time.Time `json:"time"`
}

// Publisher receives lifecycle events. Publish must not block.
type Publisher interface {
	Publish(event Event)
}

type discard struct{}

func (discard) Publish(Event) {}

// Discard drops every event.
var Discard Publisher = discard{}
