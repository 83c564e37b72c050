package exercise

import (
	"errors"
	"time"
)

var (
	ErrExerciseNotFound = errors.New("exercise not found")
)

// Exercise is a catalog entry: a reusable, client-independent definition of a
// trainable movement. Names are not enforced unique on the write path.
type Exercise struct {
	ID          int64
	Name        string
	MuscleGroup string
	Description *string
	Equipment   *string
	VideoURL    *string
	CreatedAt   time.Time
}

func New(name, muscleGroup string, description, equipment, videoURL *string) *Exercise {
	return &Exercise{
		Name:        name,
		MuscleGroup: muscleGroup,
		Description: description,
		Equipment:   equipment,
		VideoURL:    videoURL,
		CreatedAt:   time.Now().UTC(),
	}
}

// Filter narrows catalog listings. MuscleGroup is matched by equality,
// Search by case-sensitive containment in the name.
type Filter struct {
	MuscleGroup string
	Search      string
}
