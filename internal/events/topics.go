package events

// Topics emitted by the storefront core.
const (
	// TopicOrderPlaced fires once an order has been finalized and persisted.
	TopicOrderPlaced = "order.placed"
)
