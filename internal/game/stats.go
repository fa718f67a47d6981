package game

import "math/rand"

const (
	BasicStatBudget    = 100
	AdvancedStatBudget = 200
	statStep           = 5
)

var statWeights = Stats{
	STR: 100,
	VIT: 80,
	DEX: 100,
	INT: 120,
	EXP: 20,
}

// randomStats are the stats that receive the random half of the budget.
var randomStats = []Stat{STR, VIT, DEX, INT}

// CalculateCP returns the weighted stat sum.
func CalculateCP(s Stats) int {
	cp := 0
	for i, v := range s {
		cp += v * statWeights[i]
	}
	return cp
}

// StatBudget returns the total stat budget for a creature class.
func StatBudget(advanced bool) int {
	if advanced {
		return AdvancedStatBudget
	}
	return BasicStatBudget
}

// StatDistributor assigns stat budgets to freshly created creatures. It is the only
// source of randomness in combat strength.
type StatDistributor struct {
	rng *rand.Rand
}

func NewStatDistributor(rng *rand.Rand) *StatDistributor {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &StatDistributor{rng: rng}
}

// Distribute gives card a full stat budget: half from the template defaults
// (rescaled to budget/2), half in random 5-15 point increments over the non-EXP stats.
// The result always totals the budget and every stat is a multiple of 5.
func (sd *StatDistributor) Distribute(card *CardInstance, advanced bool) {
	budget := StatBudget(advanced)
	stats := preallocate(card.Template.Stats, budget/2)

	remaining := budget / 2
	for remaining > 0 {
		inc := statStep * (1 + sd.rng.Intn(3))
		if inc > remaining {
			inc = remaining
		}
		stats[randomStats[sd.rng.Intn(len(randomStats))]] += inc
		remaining -= inc
	}

	card.SetStats(stats)
}

// preallocate rescales base proportionally to total target, rounds every stat to the
// nearest multiple of 5, and corrects the rounding drift on the largest stat.
func preallocate(base Stats, target int) Stats {
	var out Stats
	total := base.Total()
	if total <= 0 {
		share := roundToStep(target / len(randomStats))
		for _, s := range randomStats {
			out[s] = share
		}
	} else {
		for i, v := range base {
			if v < 0 {
				v = 0
			}
			out[i] = roundToStep(v * target / total)
		}
	}

	drift := target - out.Total()
	for drift != 0 {
		s := largestStat(out)
		if drift < 0 && out[s] == 0 {
			break
		}
		step := statStep
		if drift < 0 {
			step = -statStep
		}
		out[s] += step
		drift -= step
	}
	return out
}

func roundToStep(v int) int {
	return ((v + statStep/2) / statStep) * statStep
}

func largestStat(s Stats) Stat {
	best := STR
	for _, st := range randomStats {
		if s[st] > s[best] {
			best = st
		}
	}
	return best
}
