package domain

import "time"

// WorkoutFeedback is the rider's subjective report on a workout.
type WorkoutFeedback struct {
	ID         string
	SlotID     *string
	Category   WorkoutCategory
	Difficulty int // 1 = too easy, 5 = too hard
	Rating     int
	Notes      string
	CreatedAt  time.Time
}

func (f *WorkoutFeedback) Validate() error {
	if f.Difficulty < 1 || f.Difficulty > 5 {
		return invalid("difficulty must be between 1 and 5, got %d", f.Difficulty)
	}
	if f.Rating < 1 || f.Rating > 5 {
		return invalid("rating must be between 1 and 5, got %d", f.Rating)
	}
	return nil
}
