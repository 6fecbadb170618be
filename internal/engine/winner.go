// internal/engine/winner.go
package engine

// DetermineWinner inspects the board in a single pass and reports which
// side, if any, has met a terminal condition. It returns:
//
//   - "" when the game is still open,
//   - TeamRed or TeamBlue when that side has selected all of its cards,
//   - TeamAssassin when the assassin card has been selected. The assassin is
//     a sentinel, not a winner: the caller must remap it to the team that
//     did NOT pick it, since only the transition function knows whose round
//     it is.
//
// Both playing teams being complete at once cannot happen through the
// engine, which selects one card per call; if it is observed anyway, the
// board was corrupted upstream and an InvariantError is returned rather
// than an arbitrary pick.
func DetermineWinner(cards []Card) (Team, error) {
	var (
		totals      = map[Team]int{}
		selected    = map[Team]int{}
		assassinHit = false
	)
	for _, c := range cards {
		switch {
		case c.Team == TeamAssassin:
			if c.Selected {
				assassinHit = true
			}
		case c.Team.Playing():
			totals[c.Team]++
			if c.Selected {
				selected[c.Team]++
			}
		}
	}

	if assassinHit {
		return TeamAssassin, nil
	}

	redWon := totals[TeamRed] > 0 && selected[TeamRed] == totals[TeamRed]
	blueWon := totals[TeamBlue] > 0 && selected[TeamBlue] == totals[TeamBlue]
	switch {
	case redWon && blueWon:
		return "", &InvariantError{Msg: "both teams satisfy the win condition"}
	case redWon:
		return TeamRed, nil
	case blueWon:
		return TeamBlue, nil
	}
	return "", nil
}
