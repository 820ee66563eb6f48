package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/kpi-dashboard-tui/internal/query"
	"github.com/j-veylop/kpi-dashboard-tui/internal/services"
)

const tickInterval = 2 * time.Second

// How long each kind of toast stays up.
var notificationDurations = map[NotificationType]time.Duration{
	NotificationSuccess: 5 * time.Second,
	NotificationError:   10 * time.Second,
	NotificationWarning: 5 * time.Second,
	NotificationInfo:    3 * time.Second,
}

// QueryRunner runs a validated, logged query. *services.Manager implements it.
type QueryRunner interface {
	RunQuery(ctx context.Context, c query.Candidate) (*services.QueryResult, error)
}

// RunQueryCmd runs c and reports a QueryResultMsg. Canceling ctx aborts the
// in-flight request.
func RunQueryCmd(ctx context.Context, runner QueryRunner, c query.Candidate) tea.Cmd {
	return func() tea.Msg {
		result, err := runner.RunQuery(ctx, c)
		return QueryResultMsg{Result: result, Err: err}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return TickMsg{Time: t} })
}

func loadRecordsCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		src := mgr.Records()
		return RecordsLoadedMsg{Records: src.Records(), Keys: src.KPIKeys()}
	}
}

func subscribeCmd(mgr *services.Manager) tea.Cmd {
	ch, _ := mgr.Subscribe()
	return func() tea.Msg { return subscribedMsg{events: ch} }
}

// waitForServiceEventCmd blocks for the next event; a closed channel ends the loop.
func waitForServiceEventCmd(ch <-chan services.ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return ServiceEventMsg{Event: event}
	}
}

func expireNotificationCmd(id string, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg { return RemoveNotificationMsg{ID: id} })
}

func notifyCmd(t NotificationType, message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{Type: t, Message: message, Duration: notificationDurations[t]}
	}
}

func NotifySuccessCmd(message string) tea.Cmd { return notifyCmd(NotificationSuccess, message) }
func NotifyErrorCmd(message string) tea.Cmd   { return notifyCmd(NotificationError, message) }
func NotifyWarningCmd(message string) tea.Cmd { return notifyCmd(NotificationWarning, message) }
func NotifyInfoCmd(message string) tea.Cmd    { return notifyCmd(NotificationInfo, message) }
