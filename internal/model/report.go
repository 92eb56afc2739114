package model

type HabitReport struct {
	HabitID              string    `json:"habit_id"`
	Streak               int       `json:"streak"`
	CompletionPercentage float64   `json:"completion_percentage"`
	CompletionCount      int       `json:"completion_count"`
	Period               Frequency `json:"period"`
}
