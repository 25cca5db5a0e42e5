package eventlog

import (
	"fmt"
	"net/http"

	"github.com/tailscale/tailsql/server/tailsql"
	"tailscale.com/tsweb"
)

// AttachAdminRoutes mounts a tailsql live-SQL debug endpoint and a
// plain-text latency stats endpoint on mux, the same way the teacher's radar DB exposes
// /debug/tailsql/ for operator inspection without a bespoke API.
func (el *EventLog) AttachAdminRoutes(mux *http.ServeMux) error {
	debug := tsweb.Debugger(mux)

	tsql, err := tailsql.NewServer(tailsql.Options{
		RoutePrefix: "/debug/tailsql/",
	})
	if err != nil {
		return fmt.Errorf("eventlog: failed to create tailsql server: %w", err)
	}
	tsql.SetDB("sqlite://coverage-events.db", el.DB, &tailsql.DBOptions{Label: "Coverage Event Log"})
	debug.Handle("tailsql/", "SQL live debugging", tsql.NewMux())

	debug.Handle("event-stats", "Load-event latency summary", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		summary, err := el.LatencySummaryOverRecent(1000)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		fmt.Fprintf(w, "count=%d p50=%.0fns p85=%.0fns p98=%.0fns\n",
			summary.Count, summary.P50Nanos, summary.P85Nanos, summary.P98Nanos)
	}))

	return nil
}
