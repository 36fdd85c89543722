package quiz

import (
	"errors"
	"fmt"
)

var ErrLengthMismatch = errors.New("quiz: presented and submitted lengths differ")

// Grade counts the positions where submitted[i] is an exact member of
// presented[i]'s accepted answers. Wrong answers score 0 and never fail.
func Grade(presented []Entry, submitted []string) (int, error) {
	if len(presented) != len(submitted) {
		return 0, fmt.Errorf("%w: %d != %d", ErrLengthMismatch, len(presented), len(submitted))
	}
	score := 0
	for i, e := range presented {
		if e.Accepts(submitted[i]) {
			score++
		}
	}
	return score, nil
}
