package ws

import (
	"encoding/json"
	"time"
)

const EventSkillsUpdated = "skills_updated"

type SkillsUpdatedEvent struct {
	Type      string `json:"type"`
	Action    string `json:"action"`
	SkillID   int64  `json:"skill_id"`
	Timestamp string `json:"timestamp"`
}

// Notifier turns store writes into hub broadcasts.
type Notifier struct {
	hub *Hub
	now func() time.Time
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub, now: time.Now}
}

func (n *Notifier) NotifySkillsChanged(action string, id int64) {
	if n == nil || n.hub == nil {
		return
	}

	evt := SkillsUpdatedEvent{
		Type:      EventSkillsUpdated,
		Action:    action,
		SkillID:   id,
		Timestamp: n.now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}

	n.hub.Broadcast(b)
}
