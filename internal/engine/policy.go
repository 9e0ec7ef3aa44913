package engine

// PolicyContext is the read-only view of engine state the Scheduler exposes
// to the decision policy each tick. The policy itself (feature engineering,
// decision logic) is an external collaborator — only this interface is
// part of the core.
type PolicyContext struct {
	Book        Book
	RecentTrades []TradePrint
	Position    Position
	NowTs       int64
}

// Policy produces the next Action given the current tick's context. ok is
// false when the policy chooses to do nothing this tick (HOLD).
type Policy interface {
	NextAction(ctx PolicyContext) (Action, bool)
}
