package logging

import "go.uber.org/zap"

// Event ids for the product intake flow. They are stable so log queries can
// rely on them.
const (
	EventProductCreationStarted    = 2001
	EventProductValidationFailed   = 2002
	EventProductCreationCompleted  = 2003
	EventDatabaseOperationStarted  = 2004
	EventDatabaseOperationComplete = 2005
	EventCacheOperationPerformed   = 2006
	EventSKUValidationPerformed    = 2007
	EventStockValidationPerformed  = 2008
)

// Event tags a log entry with an event id.
func Event(id int) zap.Field {
	return zap.Int("event_id", id)
}
