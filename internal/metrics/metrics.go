// Package metrics holds the Prometheus collectors of the application.
// A CLI process is short-lived, so collectors are flushed to a node_exporter
// textfile instead of being scraped.
package metrics

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "skillmatrix"

type collectors struct {
	syncRecords     *prometheus.CounterVec
	syncRejections  *prometheus.CounterVec
	bundlesExported prometheus.Counter
	receiptsApplied prometheus.Counter

	rotationSlots *prometheus.CounterVec
	rotationPlans *prometheus.CounterVec

	skillTransitions *prometheus.CounterVec
	auditsCreated    *prometheus.CounterVec
}

var get = sync.OnceValue(func() *collectors {
	return &collectors{
		syncRecords: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "records_total",
			Help:      "Records processed by bundle imports, by kind and outcome.",
		}, []string{"kind", "status"}),
		syncRejections: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "rejected_bundles_total",
			Help:      "Bundles rejected as a whole, by integrity code.",
		}, []string{"code"}),
		bundlesExported: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "bundles_exported_total",
			Help:      "Bundles exported by this device.",
		}),
		receiptsApplied: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "records_marked_synced_total",
			Help:      "Local records flipped to synced by receipts.",
		}),
		rotationSlots: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rotation",
			Name:      "slots_total",
			Help:      "Generated rotation slots, by outcome (clean, repeat, double, underqualified, gap, bb_skipped).",
		}, []string{"outcome"}),
		rotationPlans: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rotation",
			Name:      "plans_total",
			Help:      "Generated rotation plans, by mode.",
		}, []string{"mode"}),
		skillTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "skill",
			Name:      "transitions_total",
			Help:      "Skill workflow attempts, by action and outcome code.",
		}, []string{"action", "outcome"}),
		auditsCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "audit",
			Name:      "drafts_total",
			Help:      "Draft audits created, by whether the cycle reset.",
		}, []string{"cycle_reset"}),
	}
})

// SyncRecord counts one record outcome of an import.
func SyncRecord(kind, status string) {
	get().syncRecords.WithLabelValues(kind, status).Inc()
}

// SyncRejected counts a bundle rejected as a whole.
func SyncRejected(code string) {
	get().syncRejections.WithLabelValues(code).Inc()
}

// BundleExported counts an exported bundle.
func BundleExported() {
	get().bundlesExported.Inc()
}

// MarkedSynced counts records flipped to synced.
func MarkedSynced(n int) {
	get().receiptsApplied.Add(float64(n))
}

// RotationSlot counts one generated slot or gap.
func RotationSlot(outcome string) {
	get().rotationSlots.WithLabelValues(outcome).Inc()
}

// RotationPlan counts one generated plan.
func RotationPlan(bottleneck bool) {
	mode := "full"
	if bottleneck {
		mode = "bottleneck"
	}
	get().rotationPlans.WithLabelValues(mode).Inc()
}

// SkillTransition counts a promotion or demotion attempt.
func SkillTransition(action, outcome string) {
	get().skillTransitions.WithLabelValues(action, outcome).Inc()
}

// AuditCreated counts a new draft audit.
func AuditCreated(cycleReset bool) {
	get().auditsCreated.WithLabelValues(fmt.Sprint(cycleReset)).Inc()
}

// WriteTextfile writes every registered metric to path in the text
// exposition format. An empty path is a no-op.
func WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
