package http

import (
	"net/http"

	"github.com/ligafc/liga-engine/internal/cache"
	"github.com/ligafc/liga-engine/internal/config"
	"github.com/ligafc/liga-engine/internal/consolidation"
	"github.com/ligafc/liga-engine/internal/ledger"
	"github.com/ligafc/liga-engine/internal/league"
	"github.com/ligafc/liga-engine/internal/metrics"
	"github.com/ligafc/liga-engine/internal/projection"
	"github.com/ligafc/liga-engine/internal/pubsub"
	"github.com/ligafc/liga-engine/internal/schedule"
)

type Server struct {
	Participants   league.Store
	Fixtures       schedule.FixtureStore
	Snapshots      consolidation.SnapshotStore
	Consolidator   *consolidation.Consolidator
	Projection     *projection.Service
	Ledger         *cache.Service
	Aggregator     *ledger.Aggregator
	Events         ledger.EventStore
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
}
