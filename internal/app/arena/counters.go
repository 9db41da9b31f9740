package arena

import (
	"fmt"

	"github.com/faangarena/arena/internal/domain"
)

func CounterKeyTotalVotes() string {
	return "votes:total"
}

func CounterKeyCompanyWins(id domain.CompanyID) string {
	return fmt.Sprintf("company:%s:wins", id)
}
