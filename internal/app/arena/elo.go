package arena

import (
	"math"

	"github.com/faangarena/arena/internal/domain"
)

// ComputeElo returns the post-vote pair of scores and the rating amount the
// winner gains. The expected-winner probability follows the classic Elo
// curve; k scales how aggressively one outcome moves ratings. The loser gives
// up half of the winner's gain and neither side drops below domain.MinScore.
func ComputeElo(winnerScore, loserScore, k int) (newWinner, newLoser, delta int) {
	expected := 1 / (1 + math.Pow(10, float64(loserScore-winnerScore)/400))
	delta = int(math.Round(float64(k) * (1 - expected)))

	newWinner = winnerScore + delta
	if newWinner < domain.MinScore {
		newWinner = domain.MinScore
	}

	newLoser = loserScore - delta/2
	if newLoser < domain.MinScore {
		newLoser = domain.MinScore
	}

	return newWinner, newLoser, delta
}
