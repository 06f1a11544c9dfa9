// Package metrics counts what happens during a run: logins, signups and
// dispatched actions with their outcome. Counters live in a private
// prometheus registry; nothing is exported over the network, the app logs
// a Snapshot when it exits.
package metrics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

const namespace = "recipekeeper"

// Outcome labels.
const (
	OutcomeOK       = "ok"
	OutcomeDenied   = "denied"
	OutcomeNotFound = "not_found"
	OutcomeInvalid  = "invalid"
	OutcomeConflict = "conflict"
	OutcomeFailed   = "failed"
)

type Recorder struct {
	registry *prometheus.Registry
	actions  *prometheus.CounterVec
	logins   *prometheus.CounterVec
	signups  *prometheus.CounterVec
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_total",
			Help:      "Session actions by name and outcome.",
		}, []string{"action", "outcome"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts by outcome.",
		}, []string{"outcome"}),
		signups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signups_total",
			Help:      "Account creation attempts by outcome.",
		}, []string{"outcome"}),
	}
	r.registry.MustRegister(r.actions, r.logins, r.signups)
	return r
}

// Action counts one dispatched action.
func (r *Recorder) Action(action, outcome string) {
	r.actions.WithLabelValues(action, outcome).Inc()
}

// Login counts one login attempt.
func (r *Recorder) Login(ok bool) {
	outcome := OutcomeOK
	if !ok {
		outcome = OutcomeFailed
	}
	r.logins.WithLabelValues(outcome).Inc()
}

// Signup counts one account creation attempt.
func (r *Recorder) Signup(outcome string) {
	r.signups.WithLabelValues(outcome).Inc()
}

// Snapshot returns every non-zero counter keyed in exposition style, e.g.
// recipekeeper_logins_total{outcome="ok"}.
func (r *Recorder) Snapshot() (map[string]float64, error) {
	families, err := r.registry.Gather()
	if err != nil {
		return nil, fmt.Errorf("gather metrics: %w", err)
	}

	out := make(map[string]float64)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			v := m.GetCounter().GetValue()
			if v == 0 {
				continue
			}
			out[seriesName(mf.GetName(), m.GetLabel())] = v
		}
	}
	return out, nil
}

func seriesName(name string, labels []*dto.LabelPair) string {
	if len(labels) == 0 {
		return name
	}
	parts := make([]string, 0, len(labels))
	for _, lp := range labels {
		parts = append(parts, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
	}
	sort.Strings(parts)
	return name + "{" + strings.Join(parts, ",") + "}"
}
