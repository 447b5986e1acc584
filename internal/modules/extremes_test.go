package modules_test

import (
	"testing"

	"github.com/ligafc/liga-engine/internal/league"
	"github.com/ligafc/liga-engine/internal/modules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func extremesCfg() modules.ExtremesConfig {
	return modules.ExtremesConfig{Enabled: true, BestBonus: 10, WorstPenalty: 10}
}

func TestCalculateExtremes(t *testing.T) {
	deltas := modules.CalculateExtremes(map[league.ParticipantID]float64{
		"a": 55.0,
		"b": 81.2,
		"c": 12.4,
		"d": 40.0,
	}, extremesCfg())

	require.Len(t, deltas, 2)
	net := modules.NetByParticipant(deltas)
	assert.Equal(t, 10.0, net["b"])
	assert.Equal(t, -10.0, net["c"])
}

func TestCalculateExtremesTieResolvedByLowestID(t *testing.T) {
	deltas := modules.CalculateExtremes(map[league.ParticipantID]float64{
		"300": 90.0,
		"100": 90.0,
		"200": 10.0,
		"050": 10.0,
	}, extremesCfg())

	net := modules.NetByParticipant(deltas)
	assert.Equal(t, 10.0, net["100"])
	assert.Equal(t, -10.0, net["050"])
}

func TestCalculateExtremesDegenerate(t *testing.T) {
	// One participant: no extremes to award.
	assert.Nil(t, modules.CalculateExtremes(map[league.ParticipantID]float64{"a": 50}, extremesCfg()))

	// Everyone tied: best would equal worst, so nothing is awarded.
	assert.Nil(t, modules.CalculateExtremes(map[league.ParticipantID]float64{"a": 50, "b": 50}, extremesCfg()))

	cfg := extremesCfg()
	cfg.Enabled = false
	assert.Nil(t, modules.CalculateExtremes(map[league.ParticipantID]float64{"a": 1, "b": 2}, cfg))
}
