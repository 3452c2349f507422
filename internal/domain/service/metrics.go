package service

// MarketMetrics records business counters.
type MarketMetrics interface {
	OrderLinesPlaced(count int)
	OrderActioned(status string)
	OTPIssued(purpose string)
	EventPublishFailed(eventType string)
}
