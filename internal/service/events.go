package service

import "inventory-catalog/internal/ws"

// Publisher receives change events after successful writes.
type Publisher interface {
	Publish(event ws.Event)
}

// Actor identifies who performs a write, for audit columns and change events.
type Actor struct {
	ID    string
	Name  string
	Email string
}

// SystemActor is used by seeding and other non-interactive writes.
var SystemActor = Actor{ID: "system", Name: "System"}

func (a Actor) auditID() string {
	if a.ID == "" {
		return SystemActor.ID
	}
	return a.ID
}

func publish(p Publisher, action, entity string, id uint, name string, actor Actor) {
	if p == nil {
		return
	}
	p.Publish(ws.Event{
		Type:   ws.EventCatalogUpdate,
		Action: action,
		Entity: entity,
		ID:     id,
		Name:   name,
		User:   actor.Name,
	})
}
