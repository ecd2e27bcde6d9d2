package deals

import "time"

// Pipeline stages in order. passed can be entered from any active stage;
// portfolio and passed are terminal.
const (
	StageSourcing  = "sourcing"
	StageScreening = "screening"
	StageDiligence = "diligence"
	StageTermSheet = "term_sheet"
	StageClosed    = "closed"
	StagePortfolio = "portfolio"
	StagePassed    = "passed"
)

var stageOrder = []string{StageSourcing, StageScreening, StageDiligence, StageTermSheet, StageClosed, StagePortfolio}

// ValidStage reports whether s names a known pipeline stage.
func ValidStage(s string) bool {
	if s == StagePassed {
		return true
	}
	for _, stage := range stageOrder {
		if stage == s {
			return true
		}
	}
	return false
}

// terminalStage reports whether no transition may leave s.
func terminalStage(s string) bool {
	return s == StagePortfolio || s == StagePassed
}

// CanTransition reports whether a deal may move from one stage to another.
// Active deals may move forward or backward along the pipeline or be passed;
// terminal stages permit no further movement.
func CanTransition(from, to string) bool {
	if !ValidStage(from) || !ValidStage(to) || from == to {
		return false
	}
	return !terminalStage(from)
}

// Deal is one company moving through the investment pipeline.
type Deal struct {
	ID           string
	UserID       string
	Company      string
	Sector       string
	Round        string
	CheckSizeUSD int64
	Stage        string
	Notes        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
