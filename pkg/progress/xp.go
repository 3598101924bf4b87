package progress

// XP constants. Every completed node is worth the same amount; levels get
// progressively longer.
const (
	xpPerNode      = 50
	baseLevelXP    = 100
	levelXPGrowth  = 50
	maxStreakShown = 30
)

// Projection is the derived gamification state for one (user, tree) pair.
// It is a pure function of the completed-node count, recomputed on every
// change - nothing here is stored.
type Projection struct {
	Level       int `json:"level"`       // 1-based level
	XP          int `json:"xp"`          // total XP earned
	LevelXP     int `json:"levelXp"`     // XP earned within the current level
	NextLevelXP int `json:"nextLevelXp"` // XP required to finish the current level
	StreakDays  int `json:"streakDays"`  // capped streak-display value
}

// Project derives level, XP, and streak-display values from a completed
// count and a raw streak length.
//
// Level n requires baseLevelXP + (n-1)*levelXPGrowth XP, so early levels
// come quickly and later ones stretch out.
func Project(completedCount, streakDays int) Projection {
	if completedCount < 0 {
		completedCount = 0
	}
	xp := completedCount * xpPerNode

	level := 1
	remaining := xp
	for {
		need := baseLevelXP + (level-1)*levelXPGrowth
		if remaining < need {
			return Projection{
				Level:       level,
				XP:          xp,
				LevelXP:     remaining,
				NextLevelXP: need,
				StreakDays:  min(max(streakDays, 0), maxStreakShown),
			}
		}
		remaining -= need
		level++
	}
}
