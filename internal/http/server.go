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

func NewServer(
	participants league.Store,
	fixtures schedule.FixtureStore,
	snapshots consolidation.SnapshotStore,
	consolidator *consolidation.Consolidator,
	projectionSvc *projection.Service,
	ledgerCache *cache.Service,
	aggregator *ledger.Aggregator,
	events ledger.EventStore,
	metricsSvc metrics.Metrics,
	metricsHandler http.Handler,
	cfg config.Config,
	pubsubClient pubsub.PubSubClient,
) *Server {
	server := &Server{
		Participants:   participants,
		Fixtures:       fixtures,
		Snapshots:      snapshots,
		Consolidator:   consolidator,
		Projection:     projectionSvc,
		Ledger:         ledgerCache,
		Aggregator:     aggregator,
		Events:         events,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
		pubsub:         pubsubClient,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// Mutating routes additionally go through adminMiddleware.
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("/participants", Chain(s.ListParticipantsHandler(), paramsMiddleware))
	s.Router.Handle("/schedule", Chain(s.ScheduleHandler(), paramsMiddleware))
	s.Router.Handle("/standings", Chain(s.StandingsHandler(), paramsMiddleware))
	s.Router.Handle("/snapshot", Chain(s.SnapshotHandler(), paramsMiddleware))
	s.Router.Handle("/round-status", Chain(s.RoundStatusHandler(), paramsMiddleware))
	s.Router.Handle("/projection", Chain(s.ProjectionHandler(), paramsMiddleware))
	s.Router.Handle("/ledger", Chain(s.LedgerHandler(), paramsMiddleware))
	s.Router.Handle("/statement", Chain(s.StatementHandler(), paramsMiddleware))
	s.Router.Handle("/summary", Chain(s.SeasonSummaryHandler(), paramsMiddleware))
	s.Router.Handle("/audit", Chain(s.AuditHandler(), paramsMiddleware))
	s.Router.Handle("/consolidate", Chain(s.ConsolidateHandler(), paramsMiddleware, s.adminMiddleware))
	s.Router.Handle("/adjustments", Chain(s.AdjustmentsHandler(), paramsMiddleware, s.adminMiddleware))
	s.Router.Handle("/settlements", Chain(s.SettlementsHandler(), paramsMiddleware, s.adminMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
