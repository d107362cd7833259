package domain

import "fmt"

// MaxLevelUpsPerAward bounds the leveling loop for a single award.
const MaxLevelUpsPerAward = 1000

// ThresholdFunc returns the cumulative XP required to advance past level.
// It must be increasing in level; the calculator caps iterations regardless.
type ThresholdFunc func(level int64) int64

// TriangularThreshold is base * L * (L+1) / 2: with base 100 the thresholds are
// 100, 300, 600, 1000, ... so each level costs base more XP than the previous one.
func TriangularThreshold(base int64) ThresholdFunc {
	return func(level int64) int64 {
		return base * level * (level + 1) / 2
	}
}

// LinearThreshold is step * L: every level costs the same amount of XP.
func LinearThreshold(step int64) ThresholdFunc {
	return func(level int64) int64 {
		return step * level
	}
}

// LevelCurve names a shipped threshold strategy.
type LevelCurve string

const (
	CurveTriangular LevelCurve = "triangular"
	CurveLinear     LevelCurve = "linear"
)

// ThresholdFor builds the threshold function for a named curve.
func ThresholdFor(curve LevelCurve, base int64) (ThresholdFunc, error) {
	if base <= 0 {
		return nil, fmt.Errorf("level base must be positive, got %d", base)
	}
	switch curve {
	case CurveTriangular, "":
		return TriangularThreshold(base), nil
	case CurveLinear:
		return LinearThreshold(base), nil
	default:
		return nil, fmt.Errorf("unknown level curve %q", curve)
	}
}

// ProgressionResult is the outcome of applying an XP award.
type ProgressionResult struct {
	XP           int64
	Level        int64
	LeveledUp    bool
	LevelsGained int64
}

// Progress adds award to xp once and advances level while xp has reached the
// threshold of the current level. XP is never rebased when leveling.
// Negative awards are treated as zero so progression never decreases.
func Progress(xp, level, award int64, threshold ThresholdFunc) ProgressionResult {
	if award < 0 {
		award = 0
	}
	if level < 1 {
		level = 1
	}

	result := ProgressionResult{XP: xp + award, Level: level}
	for i := 0; i < MaxLevelUpsPerAward && result.XP >= threshold(result.Level); i++ {
		result.Level++
		result.LevelsGained++
	}
	result.LeveledUp = result.LevelsGained > 0
	return result
}
