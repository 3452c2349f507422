package constants

// Environments
const (
	EnvDevelop    = "develop"
	EnvStaging    = "staging"
	EnvProduction = "production"
)

// Pub/Sub providers
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)

// Order event types carried on the event bus
const (
	EventOrderPlaced   = "order.placed"
	EventOrderAccepted = "order.accepted"
	EventOrderDeclined = "order.declined"
	EventOrderConfirm  = "order.confirmed"
)
