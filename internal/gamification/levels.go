package gamification

import "math"

// XPForLevel returns the XP needed to advance past level l.
func XPForLevel(l int) int {
	if l < 1 {
		l = 1
	}
	return int(math.Floor(100 * math.Pow(1.5, float64(l-1))))
}

// SessionXP is the XP granted when a stage session completes.
func SessionXP(score, accuracy int) int {
	return int(math.Floor(float64(score)*2 + float64(accuracy)))
}

// LevelProgress describes progress toward the next level.
type LevelProgress struct {
	Level   int
	XP      int
	Needed  int
	Percent int
}

// Progress computes the progress view for a level and carried XP.
func Progress(level, xp int) LevelProgress {
	need := XPForLevel(level)
	pct := 0
	if need > 0 {
		pct = int(math.Round(float64(xp) / float64(need) * 100))
	}
	return LevelProgress{Level: level, XP: xp, Needed: need, Percent: pct}
}

// LevelReward is unlocked on reaching a level.
type LevelReward struct {
	Level   int
	Title   string
	Unlocks []string
}

// LevelRewards lists reward milestones in ascending order.
var LevelRewards = []LevelReward{
	{Level: 1, Title: "Beginner", Unlocks: []string{"Basic stages"}},
	{Level: 3, Title: "Intermediate", Unlocks: []string{"Word stages", "Blue theme"}},
	{Level: 5, Title: "Advanced", Unlocks: []string{"Sentence stages", "Purple theme"}},
	{Level: 10, Title: "Expert", Unlocks: []string{"Quranic stage", "Custom themes"}},
}

// RewardFor returns the highest reward at or below level.
func RewardFor(level int) LevelReward {
	r := LevelRewards[0]
	for _, lr := range LevelRewards {
		if lr.Level <= level {
			r = lr
		}
	}
	return r
}

// addXP applies xp to (level, carried), returning the new pair and the
// levels crossed. Overflow carries into the next level.
func addXP(level, carried, xp int) (int, int, []int) {
	var crossed []int
	carried += xp
	for carried >= XPForLevel(level) {
		carried -= XPForLevel(level)
		level++
		crossed = append(crossed, level)
	}
	return level, carried, crossed
}
