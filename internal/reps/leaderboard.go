// Package reps scores the ambassador programme: attributed sales become
// points, points become a ranked leaderboard.
package reps

import (
	"sort"

	"github.com/feralclo/feral-presents/internal/domain"
	"github.com/feralclo/feral-presents/internal/store"
)

// Leaderboard converts per-rep sales aggregates into ranked standings using
// the configured point weights. Ties on points share a rank. The result is
// truncated to cfg.TopN when that is positive.
func Leaderboard(sales []store.RepSales, cfg domain.LeaderboardSettings) []domain.RepStanding {
	standings := make([]domain.RepStanding, 0, len(sales))
	for _, s := range sales {
		standings = append(standings, domain.RepStanding{
			RepCode:     s.Code,
			RepName:     s.Name,
			TicketsSold: s.Tickets,
			Points:      s.Tickets*cfg.PointsPerSale + s.Merch*cfg.PointsPerMerch,
		})
	}

	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Points != standings[j].Points {
			return standings[i].Points > standings[j].Points
		}
		if standings[i].TicketsSold != standings[j].TicketsSold {
			return standings[i].TicketsSold > standings[j].TicketsSold
		}
		return standings[i].RepCode < standings[j].RepCode
	})

	rank := 0
	lastPoints := -1
	for i := range standings {
		if standings[i].Points != lastPoints {
			rank = i + 1
			lastPoints = standings[i].Points
		}
		standings[i].Rank = rank
	}

	if cfg.TopN > 0 && len(standings) > cfg.TopN {
		standings = standings[:cfg.TopN]
	}
	return standings
}
