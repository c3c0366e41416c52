package models

// Exercise categories and related enums mirror the values the frontend
// renders as filter chips; unknown values are passed through untouched.
const (
	CategoryStrength    = "strength"
	CategoryCardio      = "cardio"
	CategoryFlexibility = "flexibility"
	CategoryBalance     = "balance"
	CategoryOther       = "other"
)

type Exercise struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	MuscleGroup string `json:"muscle_group,omitempty"`
	Difficulty  string `json:"difficulty,omitempty"`
	// Duration in seconds.
	Duration *int   `json:"duration,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
	VideoURL string `json:"video_url,omitempty"`
	OwnerID  string `json:"owner_id"`
	// Exercises are soft-deleted: inactive ones are hidden from reads
	// but their ledger history stays intact.
	IsActive bool `json:"is_active"`
}
