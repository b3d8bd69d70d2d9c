package domain

import "math"

// UnboundedXP marks the open upper edge of the last level.
const UnboundedXP = math.MaxInt32

type Level struct {
	Level int      `json:"level"`
	MinXP int      `json:"min_xp"`
	MaxXP int      `json:"max_xp"`
	Name  string   `json:"name"`
	Perks []string `json:"perks,omitempty"`
}

// Levels is the static level table. Ranges are contiguous and inclusive.
var Levels = []Level{
	{Level: 1, MinXP: 0, MaxXP: 499, Name: "Beginner"},
	{Level: 2, MinXP: 500, MaxXP: 1199, Name: "Novice", Perks: []string{"Custom workout templates"}},
	{Level: 3, MinXP: 1200, MaxXP: 2499, Name: "Apprentice", Perks: []string{"Weekly report history"}},
	{Level: 4, MinXP: 2500, MaxXP: 4499, Name: "Dedicated", Perks: []string{"Macro breakdown charts"}},
	{Level: 5, MinXP: 4500, MaxXP: 7499, Name: "Committed", Perks: []string{"Coach messaging priority"}},
	{Level: 6, MinXP: 7500, MaxXP: 11999, Name: "Athlete", Perks: []string{"Advanced analytics"}},
	{Level: 7, MinXP: 12000, MaxXP: 17999, Name: "Elite", Perks: []string{"Custom challenges"}},
	{Level: 8, MinXP: 18000, MaxXP: 25999, Name: "Champion", Perks: []string{"Profile badge"}},
	{Level: 9, MinXP: 26000, MaxXP: 35999, Name: "Master", Perks: []string{"Mentor program access"}},
	{Level: 10, MinXP: 36000, MaxXP: UnboundedXP, Name: "Legend", Perks: []string{"Hall of fame"}},
}

// LevelFromXP returns the level whose range contains xp. Negative xp counts as 0
// and anything past the table resolves to the last level.
func LevelFromXP(xp int) Level {
	xp = nonNegative(xp)
	for _, l := range Levels {
		if xp >= l.MinXP && xp <= l.MaxXP {
			return l
		}
	}
	return Levels[len(Levels)-1]
}

// IsMaxLevel reports whether l is the top of the table.
func IsMaxLevel(l Level) bool {
	return l.Level >= Levels[len(Levels)-1].Level
}

// NextLevel returns the level after current, or nil at the top.
func NextLevel(current Level) *Level {
	for i, l := range Levels {
		if l.Level == current.Level && i+1 < len(Levels) {
			next := Levels[i+1]
			return &next
		}
	}
	return nil
}

// XPToNextLevel returns the XP still needed to leave the current level.
// At the max level it returns 0.
func XPToNextLevel(xp int) int {
	xp = nonNegative(xp)
	current := LevelFromXP(xp)
	if IsMaxLevel(current) {
		return 0
	}
	return current.MaxXP - xp + 1
}

// LevelProgress returns the position inside the current level as 0-100.
// The max level always reports 100.
func LevelProgress(xp int) float64 {
	xp = nonNegative(xp)
	current := LevelFromXP(xp)
	if IsMaxLevel(current) {
		return 100
	}
	span := current.MaxXP - current.MinXP
	if span <= 0 {
		return 100
	}
	progress := float64(xp-current.MinXP) / float64(span) * 100
	return clampFloat(progress, 0, 100)
}

// CheckLevelUp returns the level reached at newXP when it is higher than the
// level at previousXP. Multi-level jumps return only the final level.
func CheckLevelUp(previousXP, newXP int) *Level {
	before := LevelFromXP(previousXP)
	after := LevelFromXP(newXP)
	if after.Level > before.Level {
		return &after
	}
	return nil
}
