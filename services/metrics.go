package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	verseLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "biblenotes",
		Name:      "verse_lookups_total",
		Help:      "Verse lookups by kind (range, single) and outcome (found, empty, bad_reference, error).",
	}, []string{"kind", "outcome"})

	versesSeeded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "biblenotes",
		Name:      "verses_seeded_total",
		Help:      "Verse records inserted by the seeding job.",
	})

	notesDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "biblenotes",
		Name:      "empty_notes_deleted_total",
		Help:      "Notes removed by the empty-note cleanup.",
	})
)
