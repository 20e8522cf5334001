// Package health reports service liveness for the health endpoint.
package health

import "time"

// StatusHealthy is the only status a running service reports.
const StatusHealthy = "healthy"

// Report is the health endpoint payload.
type Report struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	UpTime    int64     `json:"upTime"` // whole seconds
}

// Reporter builds health reports relative to the service start time.
type Reporter struct {
	service string
	started time.Time
	now     func() time.Time
}

// NewReporter returns a Reporter whose uptime counts from now.
func NewReporter(service string) *Reporter {
	return newReporter(service, time.Now)
}

func newReporter(service string, now func() time.Time) *Reporter {
	return &Reporter{service: service, started: now(), now: now}
}

// Report returns the current health snapshot.
func (r *Reporter) Report() Report {
	return Report{
		Status:    StatusHealthy,
		Timestamp: r.now().UTC(),
		Service:   r.service,
		UpTime:    int64(r.Uptime() / time.Second),
	}
}

// Uptime returns how long the reporter has been running.
func (r *Reporter) Uptime() time.Duration {
	return r.now().Sub(r.started)
}
