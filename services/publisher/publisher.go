package publisher

// Publisher represents a service for publishing listing change events
type Publisher interface {
	// Publish publishes an event of the given kind to the change feed
	Publish(kind string, message []byte) error

	// TrimStream trims the change feed to the configured maximum length
	TrimStream() error

	// Close closes the publisher connection
	Close() error
}

// Change event kinds emitted by the worker after reconciliation.
const (
	EventAdded       = "added"
	EventUpdated     = "updated"
	EventDeactivated = "deactivated"
)
