package arena

import (
	"math/rand"

	"github.com/faangarena/arena/internal/domain"
)

// PickTwo chooses two distinct companies uniformly at random. The second
// index is drawn from the remaining n-1 positions and shifted past the first,
// which keeps the pair distinct without rejection sampling.
func PickTwo(companies []domain.Company) (domain.Company, domain.Company, error) {
	if len(companies) < 2 {
		return domain.Company{}, domain.Company{}, ErrInsufficientRoster
	}

	i := rand.Intn(len(companies))
	j := rand.Intn(len(companies) - 1)
	if j >= i {
		j++
	}

	return companies[i], companies[j], nil
}

// PickOpponent chooses one company uniformly at random after removing the
// excluded ids. An empty eligible set yields nil, not an error; the caller
// decides how to continue.
func PickOpponent(companies []domain.Company, exclude ...domain.CompanyID) *domain.Company {
	excluded := make(map[domain.CompanyID]struct{}, len(exclude))
	for _, id := range exclude {
		excluded[id] = struct{}{}
	}

	eligible := make([]domain.Company, 0, len(companies))
	for _, c := range companies {
		if _, skip := excluded[c.ID]; !skip {
			eligible = append(eligible, c)
		}
	}

	if len(eligible) == 0 {
		return nil
	}

	pick := eligible[rand.Intn(len(eligible))]
	return &pick
}
