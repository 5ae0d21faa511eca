package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"tabot/internal/apperr"
	"tabot/internal/events"
	"tabot/internal/index"
	"tabot/internal/question"
)

type SummaryResult struct {
	Question *question.Question
	Solved   bool
}

type AnswerResult struct {
	ID      string
	Summary string
	Link    string
}

// SetSummary stores the summary whatever the state. Only solved questions with a
// non-empty summary are visible to lookup, so the index follows the fresh row.
func (e *Engine) SetSummary(ctx context.Context, questionID, guildID, text string) (*SummaryResult, error) {
	const action = "summary"
	ctx, sc := e.begin(ctx, action, guildID, questionID, "")
	defer sc.End()

	summary := question.NormalizeSummary(text)

	if _, err := e.load(ctx, sc, action, guildID, questionID); err != nil {
		return nil, err
	}

	q, err := e.questions.SetSummary(ctx, questionID, summary)
	if err != nil {
		if errors.Is(err, question.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, "Sorry, I cannot find this question.")
		}
		return nil, e.transient(ctx, sc, action, fmt.Errorf("set summary: %w", err))
	}

	if q.Solved {
		if q.Summary != "" {
			e.index.PutSummary(q.GuildID, q.ID, q.Summary)
		} else {
			e.index.DeleteSummary(q.GuildID, q.ID)
		}
	}

	e.logger.InfoContext(ctx, "question summary set", "solved", q.Solved)
	e.publish(ctx, events.QuestionSummarized, q, "")
	return &SummaryResult{Question: q, Solved: q.Solved}, nil
}

// Lookup filters the guild's solved summaries for autocomplete. It never touches the store.
func (e *Engine) Lookup(guildID, query string) []index.Entry {
	return e.index.Lookup(guildID, query, index.DefaultLookupLimit)
}

// Answer resolves a looked-up question into its thread link.
func (e *Engine) Answer(guildID, threadID string) (*AnswerResult, error) {
	summary, ok := e.index.Summary(guildID, threadID)
	if !ok {
		return nil, apperr.New(apperr.NotFound, "Sorry, I cannot find this query.")
	}
	return &AnswerResult{
		ID:      threadID,
		Summary: summary,
		Link:    ThreadLink(guildID, threadID),
	}, nil
}

func ThreadLink(guildID, threadID string) string {
	return fmt.Sprintf(ThreadLinkFormat, guildID, threadID)
}
