package conversation

import (
	"github.com/antonyforte/yuanshao-bot/internal/team"
)

// Step is the point a user has reached in a dialogue
type Step int

const (
	AwaitingRegistrationConfirm Step = iota + 1
	AwaitingTeamChoice
	AwaitingSubmissionItems
)

func (s Step) String() string {
	switch s {
	case AwaitingRegistrationConfirm:
		return "awaiting_registration_confirm"
	case AwaitingTeamChoice:
		return "awaiting_team_choice"
	case AwaitingSubmissionItems:
		return "awaiting_submission_items"
	default:
		return "unknown"
	}
}

// ItemKind tells collected texts and images apart
type ItemKind int

const (
	ItemText ItemKind = iota
	ItemImage
)

// Item is one piece of a mission submission. Images hold a storage reference.
type Item struct {
	Kind  ItemKind
	Value string
}

// TextItem wraps a text entry
func TextItem(s string) Item { return Item{Kind: ItemText, Value: s} }

// ImageItem wraps a storage reference
func ImageItem(ref string) Item { return Item{Kind: ItemImage, Value: ref} }

// State is the open dialogue of one user
type State struct {
	Step Step
	Team team.ID
	// SubmissionID identifies the submission being collected, so that a
	// retried finalize appends it at most once.
	SubmissionID string
	Items        []Item
}

// Partition splits the collected items into image references and texts,
// each in collection order.
func (s State) Partition() (images, texts []string) {
	images = []string{}
	texts = []string{}
	for _, it := range s.Items {
		if it.Kind == ItemImage {
			images = append(images, it.Value)
		} else {
			texts = append(texts, it.Value)
		}
	}
	return images, texts
}

func (s State) clone() State {
	c := s
	c.Items = append([]Item(nil), s.Items...)
	return c
}
