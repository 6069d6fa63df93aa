package entities

const (
	StageLead        = "lead"
	StageQualified   = "qualified"
	StageSampling    = "sampling"
	StageNegotiation = "negotiation"
	StageWon         = "won"
	StageLost        = "lost"
)

// stageTransitions is the full transition table. Losing is allowed from any
// open stage; winning only out of negotiation. Won and lost are terminal.
var stageTransitions = map[string][]string{
	StageLead:        {StageQualified, StageLost},
	StageQualified:   {StageSampling, StageLost},
	StageSampling:    {StageNegotiation, StageLost},
	StageNegotiation: {StageWon, StageLost},
	StageWon:         {},
	StageLost:        {},
}

// defaultProbability is the starting close probability per stage. Reps can
// override it on the opportunity afterwards.
var defaultProbability = map[string]int{
	StageLead:        10,
	StageQualified:   30,
	StageSampling:    50,
	StageNegotiation: 75,
	StageWon:         100,
	StageLost:        0,
}

func IsKnownStage(stage string) bool {
	_, ok := stageTransitions[stage]
	return ok
}

func IsTerminalStage(stage string) bool {
	return stage == StageWon || stage == StageLost
}

func CanTransition(from, to string) bool {
	for _, next := range stageTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func DefaultProbability(stage string) int {
	return defaultProbability[stage]
}
