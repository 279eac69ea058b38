package storage

import (
	"time"

	"github.com/antonyforte/yuanshao-bot/internal/team"
)

// Registrant is a user who confirmed registration for the event
type Registrant struct {
	ID          int    `json:"id"`
	DisplayName string `json:"display_name"`
	Handle      string `json:"handle"`
}

// Mission is an entry of the decree document. Only the first entry is shown.
type Mission struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Submission is a finalized mission delivery
type Submission struct {
	ID              string    `json:"id,omitempty"`
	SubmitterName   string    `json:"submitter_name"`
	SubmitterHandle string    `json:"submitter_handle"`
	Team            team.ID   `json:"team"`
	Images          []string  `json:"images"`
	Texts           []string  `json:"texts"`
	SubmittedAt     time.Time `json:"submitted_at,omitempty"`
}
