package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/ligafc/liga-engine/internal/consolidation"
	"github.com/ligafc/liga-engine/internal/ledger"
	"github.com/ligafc/liga-engine/internal/league"
	"github.com/ligafc/liga-engine/internal/projection"
	"github.com/ligafc/liga-engine/internal/pubsub"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) ListParticipantsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			participants []league.Participant
			err          error
		)
		if r.URL.Query().Get("active") == "true" {
			participants, err = s.Participants.GetActiveParticipants(s.Cfg.League.ID, s.Cfg.League.Season)
		} else {
			participants, err = s.Participants.GetParticipants(s.Cfg.League.ID, s.Cfg.League.Season)
		}
		if err != nil {
			log.Error("Failed to list participants", "error", err)
			http.Error(w, "Failed to list participants", http.StatusInternalServerError)
			return
		}
		writeJSON(w, participants)
	}
}

func (s *Server) ScheduleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if roundStr := r.URL.Query().Get("round"); roundStr != "" {
			round, err := strconv.Atoi(roundStr)
			if err != nil {
				http.Error(w, "Invalid 'round' parameter", http.StatusBadRequest)
				return
			}
			fixtures, err := s.Fixtures.GetRound(s.Cfg.League.ID, s.Cfg.League.Season, round)
			if err != nil {
				log.Error("Failed to fetch fixtures", "round", round, "error", err)
				http.Error(w, "Failed to fetch fixtures", http.StatusInternalServerError)
				return
			}
			if fixtures == nil {
				http.Error(w, "Round not found", http.StatusNotFound)
				return
			}
			writeJSON(w, fixtures)
			return
		}

		rounds, err := s.Fixtures.GetAllRounds(s.Cfg.League.ID, s.Cfg.League.Season)
		if err != nil {
			log.Error("Failed to fetch schedule", "error", err)
			http.Error(w, "Failed to fetch schedule", http.StatusInternalServerError)
			return
		}
		writeJSON(w, rounds)
	}
}

func (s *Server) StandingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, status := s.snapshotFromQuery(w, r)
		if status != http.StatusOK {
			return
		}
		writeJSON(w, map[string]any{
			"round":      snap.Round,
			"cumulative": snap.Cumulative,
			"ranking":    snap.Ranking,
			"minileague": snap.MiniLeague.Standings,
			"knockout":   snap.Knockout,
		})
	}
}

func (s *Server) SnapshotHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, status := s.snapshotFromQuery(w, r)
		if status != http.StatusOK {
			return
		}
		writeJSON(w, snap)
	}
}

// snapshotFromQuery resolves the 'round' query parameter to a consolidated
// snapshot, defaulting to the latest one. A non-OK return means the
// response has already been written.
func (s *Server) snapshotFromQuery(w http.ResponseWriter, r *http.Request) (*consolidation.Snapshot, int) {
	round := 0
	if roundStr := r.URL.Query().Get("round"); roundStr != "" {
		parsed, err := strconv.Atoi(roundStr)
		if err != nil {
			http.Error(w, "Invalid 'round' parameter", http.StatusBadRequest)
			return nil, http.StatusBadRequest
		}
		round = parsed
	}

	if round == 0 {
		latest, err := s.Snapshots.LatestRound(s.Cfg.League.ID, s.Cfg.League.Season)
		if err != nil {
			log.Error("Failed to resolve latest round", "error", err)
			http.Error(w, "Failed to fetch snapshot", http.StatusInternalServerError)
			return nil, http.StatusInternalServerError
		}
		if latest == 0 {
			http.Error(w, "No consolidated rounds yet", http.StatusNotFound)
			return nil, http.StatusNotFound
		}
		round = latest
	}

	snap, err := s.Snapshots.Get(s.Cfg.League.ID, s.Cfg.League.Season, round)
	if err != nil {
		log.Error("Failed to fetch snapshot", "round", round, "error", err)
		http.Error(w, "Failed to fetch snapshot", http.StatusInternalServerError)
		return nil, http.StatusInternalServerError
	}
	if snap == nil {
		http.Error(w, "Round not consolidated", http.StatusNotFound)
		return nil, http.StatusNotFound
	}
	return snap, http.StatusOK
}

func (s *Server) RoundStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		round, err := strconv.Atoi(r.URL.Query().Get("round"))
		if err != nil || round < 1 {
			http.Error(w, "Invalid 'round' parameter", http.StatusBadRequest)
			return
		}
		status, err := s.Consolidator.RoundStatus(r.Context(), round)
		if err != nil {
			log.Error("Failed to determine round status", "round", round, "error", err)
			http.Error(w, "Failed to determine round status", http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]any{"round": round, "status": status})
	}
}

func (s *Server) ProjectionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		round, err := strconv.Atoi(r.URL.Query().Get("round"))
		if err != nil || round < 1 {
			http.Error(w, "Invalid 'round' parameter", http.StatusBadRequest)
			return
		}

		snap, err := s.Projection.Project(r.Context(), round)
		if err != nil {
			if errors.Is(err, projection.ErrUnavailable) {
				http.Error(w, "Projection unavailable", http.StatusServiceUnavailable)
				return
			}
			http.Error(w, "Failed to compute projection", http.StatusInternalServerError)
			return
		}
		writeJSON(w, snap)
	}
}

func (s *Server) ConsolidateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		round, err := strconv.Atoi(r.URL.Query().Get("round"))
		if err != nil || round < 1 {
			http.Error(w, "Invalid 'round' parameter", http.StatusBadRequest)
			return
		}
		force := r.URL.Query().Get("force") == "true"

		if isDryRunFromContext(r) {
			snap, err := s.Consolidator.Preview(r.Context(), round)
			if err != nil {
				log.Error("Dry-run consolidation failed", "round", round, "error", err)
				http.Error(w, "Dry-run consolidation failed", http.StatusInternalServerError)
				return
			}
			writeJSON(w, snap)
			return
		}

		opts := consolidation.Options{Force: force}
		if overrides := r.URL.Query().Get("overrides"); overrides != "" {
			if err := json.Unmarshal([]byte(overrides), &opts.ScoreOverrides); err != nil {
				http.Error(w, "Invalid 'overrides' parameter", http.StatusBadRequest)
				return
			}
		}

		snap, err := s.Consolidator.ConsolidateRound(r.Context(), round, opts)
		if err != nil {
			status := http.StatusInternalServerError
			switch {
			case errors.Is(err, consolidation.ErrMissingPriorRound),
				errors.Is(err, consolidation.ErrRoundStillOpen):
				status = http.StatusConflict
			case errors.Is(err, consolidation.ErrNoParticipants):
				status = http.StatusUnprocessableEntity
			}
			log.Error("Consolidation failed", "round", round, "error", err)
			http.Error(w, err.Error(), status)
			return
		}
		writeJSON(w, snap)
	}
}

func (s *Server) LedgerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if participant := r.URL.Query().Get("participant"); participant != "" {
			id, err := league.ParseID(participant)
			if err != nil {
				http.Error(w, "Invalid 'participant' parameter", http.StatusBadRequest)
				return
			}
			balance, err := s.Ledger.GetBalance(id)
			if err != nil {
				if errors.Is(err, ledger.ErrUnknownParticipant) {
					http.Error(w, "Unknown participant", http.StatusNotFound)
					return
				}
				log.Error("Failed to fetch balance", "participantID", id, "error", err)
				http.Error(w, "Failed to fetch balance", http.StatusInternalServerError)
				return
			}
			writeJSON(w, balance)
			return
		}

		balances, err := s.Ledger.GetAllBalances()
		if err != nil {
			log.Error("Failed to fetch balances", "error", err)
			http.Error(w, "Failed to fetch balances", http.StatusInternalServerError)
			return
		}
		writeJSON(w, balances)
	}
}

func (s *Server) StatementHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := league.ParseID(r.URL.Query().Get("participant"))
		if err != nil {
			http.Error(w, "Invalid 'participant' parameter", http.StatusBadRequest)
			return
		}
		statement, err := s.Aggregator.Statement(id)
		if err != nil {
			if errors.Is(err, ledger.ErrUnknownParticipant) {
				http.Error(w, "Unknown participant", http.StatusNotFound)
				return
			}
			log.Error("Failed to build statement", "participantID", id, "error", err)
			http.Error(w, "Failed to build statement", http.StatusInternalServerError)
			return
		}
		writeJSON(w, statement)
	}
}

func (s *Server) SeasonSummaryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := s.Aggregator.SeasonSummary()
		if err != nil {
			log.Error("Failed to build season summary", "error", err)
			http.Error(w, "Failed to build season summary", http.StatusInternalServerError)
			return
		}
		writeJSON(w, summary)
	}
}

func (s *Server) AuditHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := league.ParseID(r.URL.Query().Get("participant"))
		if err != nil {
			http.Error(w, "Invalid 'participant' parameter", http.StatusBadRequest)
			return
		}
		balance, drifted, err := s.Ledger.Audit(id)
		if err != nil {
			log.Error("Ledger audit failed", "participantID", id, "error", err)
			http.Error(w, "Ledger audit failed", http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]any{"balance": balance, "drift_detected": drifted})
	}
}

func (s *Server) AdjustmentsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			adjustments, err := s.Events.ListAdjustments(s.Cfg.League.ID, s.Cfg.League.Season)
			if err != nil {
				log.Error("Failed to list adjustments", "error", err)
				http.Error(w, "Failed to list adjustments", http.StatusInternalServerError)
				return
			}
			writeJSON(w, adjustments)

		case http.MethodPost:
			var body struct {
				ParticipantID string  `json:"participant_id"`
				Label         string  `json:"label"`
				Amount        float64 `json:"amount"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				http.Error(w, "Invalid JSON", http.StatusBadRequest)
				return
			}
			id, err := league.ParseID(body.ParticipantID)
			if err != nil || !s.Participants.IsKnownParticipant(s.Cfg.League.ID, s.Cfg.League.Season, id) {
				http.Error(w, "Unknown participant", http.StatusBadRequest)
				return
			}
			if body.Label == "" {
				http.Error(w, "Missing 'label'", http.StatusBadRequest)
				return
			}

			adjustment := ledger.Adjustment{
				ID:            uuid.New().String(),
				LeagueID:      s.Cfg.League.ID,
				Season:        s.Cfg.League.Season,
				ParticipantID: id,
				Label:         body.Label,
				Amount:        body.Amount,
				CreatedAt:     time.Now().Unix(),
			}
			if isDryRunFromContext(r) {
				writeJSON(w, adjustment)
				return
			}
			if err := s.Events.AddAdjustment(adjustment); err != nil {
				log.Error("Failed to add adjustment", "error", err)
				http.Error(w, "Failed to add adjustment", http.StatusInternalServerError)
				return
			}
			s.invalidateAfterLedgerChange()
			writeJSON(w, adjustment)

		case http.MethodDelete:
			id := r.URL.Query().Get("id")
			if id == "" {
				http.Error(w, "Missing 'id' parameter", http.StatusBadRequest)
				return
			}
			if err := s.Events.DeleteAdjustment(s.Cfg.League.ID, s.Cfg.League.Season, id); err != nil {
				if errors.Is(err, ledger.ErrNotFound) {
					http.Error(w, "Adjustment not found", http.StatusNotFound)
					return
				}
				log.Error("Failed to delete adjustment", "id", id, "error", err)
				http.Error(w, "Failed to delete adjustment", http.StatusInternalServerError)
				return
			}
			s.invalidateAfterLedgerChange()
			w.Write([]byte("OK"))

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func (s *Server) SettlementsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			settlements, err := s.Events.ListSettlements(s.Cfg.League.ID, s.Cfg.League.Season)
			if err != nil {
				log.Error("Failed to list settlements", "error", err)
				http.Error(w, "Failed to list settlements", http.StatusInternalServerError)
				return
			}
			writeJSON(w, settlements)

		case http.MethodPost:
			var body struct {
				ParticipantID string  `json:"participant_id"`
				Type          string  `json:"type"`
				Amount        float64 `json:"amount"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				http.Error(w, "Invalid JSON", http.StatusBadRequest)
				return
			}
			id, err := league.ParseID(body.ParticipantID)
			if err != nil || !s.Participants.IsKnownParticipant(s.Cfg.League.ID, s.Cfg.League.Season, id) {
				http.Error(w, "Unknown participant", http.StatusBadRequest)
				return
			}

			settlement := ledger.Settlement{
				ID:            uuid.New().String(),
				LeagueID:      s.Cfg.League.ID,
				Season:        s.Cfg.League.Season,
				ParticipantID: id,
				Type:          ledger.SettlementType(body.Type),
				Amount:        body.Amount,
				CreatedAt:     time.Now().Unix(),
			}
			if err := settlement.Validate(); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			if isDryRunFromContext(r) {
				writeJSON(w, settlement)
				return
			}
			if err := s.Events.AddSettlement(settlement); err != nil {
				log.Error("Failed to add settlement", "error", err)
				http.Error(w, "Failed to add settlement", http.StatusInternalServerError)
				return
			}
			s.invalidateAfterLedgerChange()
			if err := s.pubsub.SendMessage(pubsub.EventSettlementAdded, settlement); err != nil {
				log.Error("Failed to publish settlement event", "error", err)
			}
			writeJSON(w, settlement)

		case http.MethodDelete:
			id := r.URL.Query().Get("id")
			if id == "" {
				http.Error(w, "Missing 'id' parameter", http.StatusBadRequest)
				return
			}
			if err := s.Events.DeleteSettlement(s.Cfg.League.ID, s.Cfg.League.Season, id); err != nil {
				if errors.Is(err, ledger.ErrNotFound) {
					http.Error(w, "Settlement not found", http.StatusNotFound)
					return
				}
				log.Error("Failed to delete settlement", "id", id, "error", err)
				http.Error(w, "Failed to delete settlement", http.StatusInternalServerError)
				return
			}
			s.invalidateAfterLedgerChange()
			w.Write([]byte("OK"))

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// invalidateAfterLedgerChange wipes derived balances after any adjustment
// or settlement edit. The next read recomputes lazily.
func (s *Server) invalidateAfterLedgerChange() {
	if err := s.Ledger.InvalidateLeague(s.Cfg.League.ID, s.Cfg.League.Season); err != nil {
		log.Error("Failed to invalidate ledger cache", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}
