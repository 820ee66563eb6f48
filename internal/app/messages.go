package app

import (
	"time"

	"github.com/j-veylop/kpi-dashboard-tui/internal/models"
	"github.com/j-veylop/kpi-dashboard-tui/internal/services"
)

// TickMsg drives periodic housekeeping such as expiring toasts.
type TickMsg struct {
	Time time.Time
}

// RecordsLoadedMsg carries the records file contents read at startup.
type RecordsLoadedMsg struct {
	Records []models.Record
	Keys    []string
}

// QueryResultMsg is the outcome of a query started from the query tab.
// Exactly one of Result and Err is set.
type QueryResultMsg struct {
	Result *services.QueryResult
	Err    error
}

// QueryCompletedMsg tells every tab that a new query result is in State.
type QueryCompletedMsg struct {
	Result *services.QueryResult
}

// QueryFailedMsg tells every tab that a query failed and was logged.
type QueryFailedMsg struct {
	Err error
}

// RecordsUpdatedMsg tells every tab that the records file changed.
type RecordsUpdatedMsg struct {
	Count int
}

type AddNotificationMsg struct {
	Type     NotificationType
	Message  string
	Duration time.Duration
}

type RemoveNotificationMsg struct {
	ID string
}

// ServiceEventMsg wraps one event read from the manager subscription.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

type subscribedMsg struct {
	events chan services.ServiceEvent
}

// TabSwitchMsg activates a tab. The root model also emits it after a
// navigation key so the new tab can refresh itself.
type TabSwitchMsg struct {
	Tab TabID
}

type ToggleHelpMsg struct{}

// isBroadcast reports whether msg goes to every tab rather than only the active one.
func isBroadcast(msg any) bool {
	switch msg.(type) {
	case QueryResultMsg, QueryCompletedMsg, QueryFailedMsg, RecordsUpdatedMsg:
		return true
	}
	return false
}
