// internal/deck/deck.go
//
// Package deck turns a word pool into a dealt Codenames board. All
// randomness flows through an injected *rand.Rand so that game setup is
// seedable: the turn engine itself is deterministic, and a fixed seed makes
// the whole game reproducible in tests.
package deck

import (
	"fmt"
	"math/rand"

	"github.com/jason-s-yu/codenames/internal/engine"
)

// Deal draws settings.TotalCards() distinct words from pool, assigns team
// ownership per settings, and shuffles the board layout. It also picks which
// playing team starts; the starting team receives the larger card count.
func Deal(pool []string, settings engine.Settings, rng *rand.Rand) ([]engine.Card, engine.Team, error) {
	total := settings.TotalCards()
	if total <= 0 {
		return nil, "", fmt.Errorf("settings produce an empty board")
	}
	if len(pool) < total {
		return nil, "", fmt.Errorf("word pool has %d words, need %d", len(pool), total)
	}

	words := append([]string(nil), pool...)
	rng.Shuffle(len(words), func(i, j int) {
		words[i], words[j] = words[j], words[i]
	})
	words = words[:total]

	starting := engine.TeamRed
	if rng.Intn(2) == 1 {
		starting = engine.TeamBlue
	}

	cards := make([]engine.Card, 0, total)
	next := 0
	take := func(team engine.Team, n int) {
		for i := 0; i < n; i++ {
			cards = append(cards, engine.Card{Word: words[next], Team: team})
			next++
		}
	}
	take(starting, settings.StartingTeamCards)
	take(starting.Other(), settings.OtherTeamCards)
	take(engine.TeamBystander, settings.BystanderCards)
	take(engine.TeamAssassin, settings.AssassinCards)

	// Word order is already random, but ownership was assigned in blocks, so
	// the layout needs its own shuffle.
	rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})

	return cards, starting, nil
}
