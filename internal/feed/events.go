package feed

import "time"

// CollectionEvent tells connected clients the shelf changed so they can
// refresh their list.
type CollectionEvent struct {
	Type string    `json:"type"` // "collection.created", "collection.updated" or "collection.deleted"
	IDs  []string  `json:"ids"`
	At   time.Time `json:"at"`
}

func Created(ids []string) CollectionEvent {
	return CollectionEvent{Type: "collection.created", IDs: ids, At: time.Now().UTC()}
}

func Updated(id string) CollectionEvent {
	return CollectionEvent{Type: "collection.updated", IDs: []string{id}, At: time.Now().UTC()}
}

func Deleted(id string) CollectionEvent {
	return CollectionEvent{Type: "collection.deleted", IDs: []string{id}, At: time.Now().UTC()}
}
