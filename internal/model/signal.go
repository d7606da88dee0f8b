package model

// Action is the direction recommended by a signal.
type Action string

const (
	ActionCall Action = "call"
	ActionPut  Action = "put"
	ActionHold Action = "hold"
)

// Tradable reports whether the action can be sent to the broker.
func (a Action) Tradable() bool {
	return a == ActionCall || a == ActionPut
}

// Signal is the final output of the rule engine.
type Signal struct {
	Action     Action
	Confidence int // percent
	Rule       string
}

// BacktestResult scores predicted against realized direction.
type BacktestResult struct {
	Wins     int
	Losses   int
	Accuracy float64 // percent
	Holds    int
	Flats    int
}

// Scored is the number of predictions that counted as a win or a loss.
func (r *BacktestResult) Scored() int {
	return r.Wins + r.Losses
}
