package schedule

import "github.com/ligafc/liga-engine/internal/league"

// Pairing is a single head-to-head fixture between two participants.
type Pairing struct {
	Home league.ParticipantID `json:"home"`
	Away league.ParticipantID `json:"away"`
}

// Round is one round of a round-robin cycle. Bye is set when the participant
// count is odd; the bye participant has no fixture and earns no delta that
// round.
type Round struct {
	Number   int                  `json:"number"`
	Pairings []Pairing            `json:"pairings"`
	Bye      league.ParticipantID `json:"bye,omitempty"`
}

// RoundRobin generates a full round-robin cycle with the circle method:
// index 0 stays fixed and the rest rotate one position per round, pairing
// index i against index len-1-i. The output is fully determined by the input
// order, so the season's membership order must be captured once and reused.
func RoundRobin(ids []league.ParticipantID) []Round {
	if len(ids) < 2 {
		return nil
	}

	const bye = league.ParticipantID("")
	circle := make([]league.ParticipantID, len(ids))
	copy(circle, ids)
	if len(circle)%2 != 0 {
		circle = append(circle, bye)
	}

	n := len(circle)
	rounds := make([]Round, 0, n-1)
	for r := 0; r < n-1; r++ {
		round := Round{Number: r + 1}
		for i := 0; i < n/2; i++ {
			home, away := circle[i], circle[n-1-i]
			if home == bye {
				round.Bye = away
				continue
			}
			if away == bye {
				round.Bye = home
				continue
			}
			round.Pairings = append(round.Pairings, Pairing{Home: home, Away: away})
		}
		rounds = append(rounds, round)

		// Rotate everything except index 0: the last element moves to index 1.
		last := circle[n-1]
		copy(circle[2:], circle[1:n-1])
		circle[1] = last
	}
	return rounds
}

// KnockoutSeeding pairs a seeded list bracket-style: 1st vs last,
// 2nd vs second-to-last, and so on. An odd seed count gives the middle
// seed a bye into the next phase, returned separately.
func KnockoutSeeding(seeds []league.ParticipantID) ([]Pairing, league.ParticipantID) {
	var pairings []Pairing
	var bye league.ParticipantID
	n := len(seeds)
	for i := 0; i < n/2; i++ {
		pairings = append(pairings, Pairing{Home: seeds[i], Away: seeds[n-1-i]})
	}
	if n%2 != 0 {
		bye = seeds[n/2]
	}
	return pairings, bye
}
