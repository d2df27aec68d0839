package application

const (
	// eventTypeUserRegistered is emitted when an account is created.
	eventTypeUserRegistered = "user.registered"
	// eventTypeOrderPlaced is emitted in the same transaction as the order rows.
	eventTypeOrderPlaced = "order.placed"
)
