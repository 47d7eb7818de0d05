package game

// Outcome describes how a match ended. Draw is set when both players drop to
// zero health on the same step; winner and loser are then empty.
type Outcome struct {
	WinnerID   string
	WinnerName string
	LoserID    string
	Draw       bool
}

// Decide reports the match result once a two-player match has at most one
// survivor. It returns false while the match should continue.
func Decide(players []*Player) (Outcome, bool) {
	if len(players) != 2 {
		return Outcome{}, false
	}
	a, b := players[0], players[1]
	switch {
	case a.Alive() && b.Alive():
		return Outcome{}, false
	case a.Alive():
		return Outcome{WinnerID: a.ID, WinnerName: a.Name, LoserID: b.ID}, true
	case b.Alive():
		return Outcome{WinnerID: b.ID, WinnerName: b.Name, LoserID: a.ID}, true
	default:
		return Outcome{Draw: true}, true
	}
}
