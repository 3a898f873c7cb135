package pulse

import "errors"

// FakeLevels is a test double that replays scripted logic levels.
// Once the script is exhausted the last level is returned repeatedly.
type FakeLevels struct {
	// Levels contains scripted levels to return, one per Level call.
	Levels []bool

	// ReadError, if set, will be returned by Level.
	ReadError error

	index int
}

// NewFakeLevels creates a FakeLevels with the given script.
func NewFakeLevels(levels ...bool) *FakeLevels {
	return &FakeLevels{Levels: levels}
}

// Level returns the next scripted level.
func (f *FakeLevels) Level() (bool, error) {
	if f.ReadError != nil {
		return false, f.ReadError
	}
	if len(f.Levels) == 0 {
		return false, errors.New("no levels configured")
	}
	level := f.Levels[f.index]
	if f.index < len(f.Levels)-1 {
		f.index++
	}
	return level, nil
}
