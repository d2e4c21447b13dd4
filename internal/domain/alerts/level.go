package alerts

// Level is the tri-state risk classification shared by both alert tracks.
type Level string

const (
	LevelStable Level = "stable"
	LevelWatch  Level = "watch"
	LevelAction Level = "action"
)

// Rank orders levels so that escalation is a max over ranks.
func (l Level) Rank() int {
	switch l {
	case LevelWatch:
		return 1
	case LevelAction:
		return 2
	default:
		return 0
	}
}

func (l Level) Valid() bool {
	return l == LevelStable || l == LevelWatch || l == LevelAction
}

// Max returns the more severe of two levels.
func Max(a, b Level) Level {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}
