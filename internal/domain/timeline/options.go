package timeline

// ListOptions provides filtering options for listing timeline events.
type ListOptions struct {
	ProjectID       string
	RelatedEntityID *string
	Type            *EventType
	Limit           int
	Offset          int
}
