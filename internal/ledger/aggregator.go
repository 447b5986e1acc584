package ledger

import (
	"fmt"
	"sort"

	"github.com/ligafc/liga-engine/internal/consolidation"
	"github.com/ligafc/liga-engine/internal/league"
)

// Aggregator derives cumulative balances from the three sources of truth:
// consolidated snapshots, the adjustment log and the settlement log. It is
// the only recompute path in the system; every cached or reported total
// must come from here.
type Aggregator struct {
	leagueID     string
	season       int
	participants league.Store
	snapshots    consolidation.SnapshotStore
	events       EventStore
}

// NewAggregator creates an Aggregator for one league season.
func NewAggregator(leagueID string, season int, participants league.Store, snapshots consolidation.SnapshotStore, events EventStore) *Aggregator {
	return &Aggregator{
		leagueID:     leagueID,
		season:       season,
		participants: participants,
		snapshots:    snapshots,
		events:       events,
	}
}

// ComputeBalance folds, in round order, every consolidated round's net
// delta up to the cutoff, then adds adjustments and settlement deltas.
// A cutoff of zero means every consolidated round.
func (a *Aggregator) ComputeBalance(participantID league.ParticipantID, cutoff int) (Balance, error) {
	balances, err := a.ComputeAllBalances(cutoff)
	if err != nil {
		return Balance{}, err
	}
	balance, ok := balances[participantID]
	if !ok {
		return Balance{}, fmt.Errorf("participant %s: %w", participantID, ErrUnknownParticipant)
	}
	return balance, nil
}

// ComputeAllBalances recomputes every participant's balance in one pass
// over the snapshot history.
func (a *Aggregator) ComputeAllBalances(cutoff int) (map[league.ParticipantID]Balance, error) {
	if cutoff <= 0 {
		latest, err := a.snapshots.LatestRound(a.leagueID, a.season)
		if err != nil {
			return nil, err
		}
		cutoff = latest
	}

	participants, err := a.participants.GetParticipants(a.leagueID, a.season)
	if err != nil {
		return nil, err
	}
	balances := make(map[league.ParticipantID]Balance, len(participants))
	for _, p := range participants {
		balances[p.ID] = Balance{ParticipantID: p.ID}
	}

	snapshots, err := a.snapshots.ListUpTo(a.leagueID, a.season, cutoff)
	if err != nil {
		return nil, err
	}
	for _, snap := range snapshots {
		for id, amount := range snap.NetDeltas() {
			balance, ok := balances[id]
			if !ok {
				// Deactivated mid-season participants keep their history.
				balance = Balance{ParticipantID: id}
			}
			balance.Rounds = append(balance.Rounds, RoundDelta{Round: snap.Round, Amount: amount, Forced: snap.Forced})
			balance.RoundTotal += amount
			balance.LastRound = snap.Round
			balances[id] = balance
		}
	}

	adjustments, err := a.events.ListAdjustments(a.leagueID, a.season)
	if err != nil {
		return nil, err
	}
	for _, adj := range adjustments {
		balance := balances[adj.ParticipantID]
		balance.ParticipantID = adj.ParticipantID
		balance.AdjustmentTotal += adj.Amount
		balances[adj.ParticipantID] = balance
	}

	settlements, err := a.events.ListSettlements(a.leagueID, a.season)
	if err != nil {
		return nil, err
	}
	for _, settlement := range settlements {
		balance := balances[settlement.ParticipantID]
		balance.ParticipantID = settlement.ParticipantID
		balance.SettlementTotal += settlement.BalanceDelta()
		balances[settlement.ParticipantID] = balance
	}

	for id, balance := range balances {
		balance.Total = balance.RoundTotal + balance.AdjustmentTotal + balance.SettlementTotal
		balances[id] = balance
	}
	return balances, nil
}

// Statement itemizes everything behind a participant's balance: round
// deltas in round order, then adjustments and settlements in entry order,
// with a running total per line.
func (a *Aggregator) Statement(participantID league.ParticipantID) (Statement, error) {
	balance, err := a.ComputeBalance(participantID, 0)
	if err != nil {
		return Statement{}, err
	}

	statement := Statement{ParticipantID: participantID}
	running := 0.0
	push := func(entry StatementEntry) {
		running += entry.Amount
		entry.Running = running
		statement.Entries = append(statement.Entries, entry)
	}

	for _, round := range balance.Rounds {
		label := fmt.Sprintf("Rodada %d", round.Round)
		if round.Forced {
			label += " (corrigida)"
		}
		push(StatementEntry{Kind: EntryRound, Round: round.Round, Label: label, Amount: round.Amount})
	}

	adjustments, err := a.events.ListAdjustments(a.leagueID, a.season)
	if err != nil {
		return Statement{}, err
	}
	for _, adj := range adjustments {
		if adj.ParticipantID != participantID {
			continue
		}
		push(StatementEntry{Kind: EntryAdjustment, Label: adj.Label, Amount: adj.Amount})
	}

	settlements, err := a.events.ListSettlements(a.leagueID, a.season)
	if err != nil {
		return Statement{}, err
	}
	for _, settlement := range settlements {
		label := "Pagamento"
		if settlement.Type == SettlementReceipt {
			label = "Recebimento"
		}
		push(StatementEntry{Kind: EntrySettlement, Label: label, Amount: settlement.BalanceDelta()})
	}

	statement.Total = running
	return statement, nil
}

// SeasonSummary ranks every participant by cumulative balance. Equal
// balances rank by round total, then by canonical id order.
func (a *Aggregator) SeasonSummary() (SeasonSummary, error) {
	balances, err := a.ComputeAllBalances(0)
	if err != nil {
		return SeasonSummary{}, err
	}
	participants, err := a.participants.GetParticipants(a.leagueID, a.season)
	if err != nil {
		return SeasonSummary{}, err
	}
	names := make(map[league.ParticipantID]string, len(participants))
	for _, p := range participants {
		names[p.ID] = p.Name
	}

	summary := SeasonSummary{LeagueID: a.leagueID, Season: a.season}
	for _, balance := range balances {
		if balance.LastRound > summary.LastRound {
			summary.LastRound = balance.LastRound
		}
		summary.Rows = append(summary.Rows, SummaryRow{
			ParticipantID: balance.ParticipantID,
			Name:          names[balance.ParticipantID],
			Balance:       balance.Total,
			RoundTotal:    balance.RoundTotal,
			Settled:       balance.SettlementTotal,
		})
	}

	sort.Slice(summary.Rows, func(i, j int) bool {
		a, b := summary.Rows[i], summary.Rows[j]
		if a.Balance != b.Balance {
			return a.Balance > b.Balance
		}
		if a.RoundTotal != b.RoundTotal {
			return a.RoundTotal > b.RoundTotal
		}
		return a.ParticipantID < b.ParticipantID
	})
	for i := range summary.Rows {
		summary.Rows[i].Position = i + 1
	}
	return summary, nil
}

// RoundDeltas returns the per-round entries behind a balance, up to the
// cutoff.
func (a *Aggregator) RoundDeltas(participantID league.ParticipantID, cutoff int) ([]RoundDelta, error) {
	balance, err := a.ComputeBalance(participantID, cutoff)
	if err != nil {
		return nil, err
	}
	return balance.Rounds, nil
}
