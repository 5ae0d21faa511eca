package lifecycle

import (
	"tabot/internal/platform"
	"tabot/internal/question"
)

// RenderCard describes the tracking card for q's current state.
func RenderCard(q *question.Question) platform.Card {
	state := q.State()
	card := platform.Card{
		QuestionID:   q.ID,
		Title:        "Question from @" + q.RaiserName,
		Status:       string(state),
		RaisedBy:     q.RaisedBy,
		ClaimedBy:    q.Claimant(),
		ThreadLink:   ThreadLink(q.GuildID, q.ID),
		RaisedAt:     q.CreatedAt,
		ClaimedAt:    q.ClaimedAt,
		SolvedAt:     q.SolvedAt,
		ClaimLabel:   "Claim",
		ClaimEnabled: true,
		SolveLabel:   "Solved",
	}

	switch state {
	case question.StateClaimed:
		card.ClaimLabel = "Claimed By " + q.ClaimantDisplayName()
		card.ClaimEnabled = false
		card.SolveEnabled = true
	case question.StateSolved:
		card.ClaimLabel = "Claimed By " + q.ClaimantDisplayName()
		card.ClaimEnabled = false
		card.SolveLabel = "Solved by " + q.ClaimantDisplayName()
	}
	return card
}
