package domain

// Activity is one extracurricular offering and its current roster.
// Participants is ordered by signup time for display only.
type Activity struct {
	Name            string
	Description     string
	Schedule        string
	MaxParticipants int
	Participants    []string
}
