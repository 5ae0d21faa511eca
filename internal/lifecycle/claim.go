package lifecycle

import (
	"context"
	"fmt"

	"tabot/internal/apperr"
	"tabot/internal/events"
	"tabot/internal/platform"
	"tabot/internal/question"
)

type SolveResult struct {
	Question *question.Question
	// SummaryAlreadySet is false when the claimant should still be asked for a summary.
	SummaryAlreadySet bool
}

// requireHelper checks the guild has a helper role and the actor holds it.
func (e *Engine) requireHelper(guildID string, actor platform.Member) error {
	cfg, _ := e.index.Guild(guildID)
	if cfg.HelperRoleID == "" {
		return apperr.New(apperr.ConfigurationMissing, "Please set up the helper role with `/init helper` first.")
	}
	if !actor.HasRole(cfg.HelperRoleID) {
		return apperr.New(apperr.AuthorizationDenied, "Sorry, only helpers are allowed to use these buttons.")
	}
	return nil
}

// Claim hands a Waiting question to the actor. When two helpers race, the store's
// conditional update picks the winner and the loser is told who won, read fresh.
func (e *Engine) Claim(ctx context.Context, in ActionInput) (*question.Question, error) {
	const action = "claim"
	ctx, sc := e.begin(ctx, action, in.GuildID, in.QuestionID, in.Actor.ID)
	defer sc.End()

	if err := e.requireHelper(in.GuildID, in.Actor); err != nil {
		return nil, err
	}

	q, err := e.load(ctx, sc, action, in.GuildID, in.QuestionID)
	if err != nil {
		return nil, err
	}
	if q.State() != question.StateWaiting {
		return nil, takenDenial(q)
	}

	now := e.now()
	ok, err := e.questions.Claim(ctx, q.ID, in.Actor.ID, in.Actor.DisplayName, now)
	if err != nil {
		return nil, e.transient(ctx, sc, action, fmt.Errorf("claim question: %w", err))
	}
	if !ok {
		fresh, err := e.load(ctx, sc, action, in.GuildID, in.QuestionID)
		if err != nil {
			return nil, err
		}
		e.logger.InfoContext(ctx, "claim lost to a concurrent claim", "claimant_id", fresh.Claimant())
		return nil, takenDenial(fresh)
	}

	q.ClaimantID = &in.Actor.ID
	q.ClaimantName = &in.Actor.DisplayName
	q.ClaimedAt = &now

	e.decorate(ctx, q)
	e.logger.InfoContext(ctx, "question claimed")
	e.publish(ctx, events.QuestionClaimed, q, in.Actor.ID)
	return q, nil
}

// Solve closes a Claimed question. Only the claimant may do it.
func (e *Engine) Solve(ctx context.Context, in ActionInput) (*SolveResult, error) {
	const action = "solve"
	ctx, sc := e.begin(ctx, action, in.GuildID, in.QuestionID, in.Actor.ID)
	defer sc.End()

	q, err := e.load(ctx, sc, action, in.GuildID, in.QuestionID)
	if err != nil {
		return nil, err
	}
	if err := solveDenial(q, in.Actor); err != nil {
		return nil, err
	}

	now := e.now()
	ok, err := e.questions.Solve(ctx, q.ID, in.Actor.ID, now)
	if err != nil {
		return nil, e.transient(ctx, sc, action, fmt.Errorf("solve question: %w", err))
	}
	if !ok {
		fresh, err := e.load(ctx, sc, action, in.GuildID, in.QuestionID)
		if err != nil {
			return nil, err
		}
		if err := solveDenial(fresh, in.Actor); err != nil {
			return nil, err
		}
		return nil, apperr.New(apperr.InvalidStateTransition, "Sorry, the question changed while you were solving it. Please try again.")
	}

	// Re-read so a summary written concurrently is not missed by the index.
	solved, err := e.questions.FindByID(ctx, q.ID)
	if err != nil {
		e.logger.WarnContext(ctx, "re-reading solved question failed", "error", err)
		q.Solved = true
		q.SolvedAt = &now
		solved = q
	}
	if solved.Summary != "" {
		e.index.PutSummary(solved.GuildID, solved.ID, solved.Summary)
	}

	e.decorate(ctx, solved)
	e.logger.InfoContext(ctx, "question solved", "summary_set", solved.Summary != "")
	e.publish(ctx, events.QuestionSolved, solved, in.Actor.ID)
	return &SolveResult{Question: solved, SummaryAlreadySet: solved.Summary != ""}, nil
}

// AuthorizeSummary gates the summary form: helpers only, claimed questions only, claimant only.
func (e *Engine) AuthorizeSummary(ctx context.Context, in ActionInput) (*question.Question, error) {
	const action = "authorize_summary"
	ctx, sc := e.begin(ctx, action, in.GuildID, in.QuestionID, in.Actor.ID)
	defer sc.End()

	if err := e.requireHelper(in.GuildID, in.Actor); err != nil {
		return nil, err
	}
	q, err := e.load(ctx, sc, action, in.GuildID, in.QuestionID)
	if err != nil {
		return nil, err
	}
	if q.State() == question.StateWaiting {
		return nil, apperr.New(apperr.InvalidStateTransition, "Sorry, the question is unclaimed. Please claim it first.")
	}
	if q.Claimant() != in.Actor.ID {
		return nil, claimantMismatch(q)
	}
	return q, nil
}

func takenDenial(q *question.Question) error {
	switch q.State() {
	case question.StateSolved:
		return apperr.New(apperr.InvalidStateTransition,
			"Sorry, the question has already been solved by `%s`.", q.ClaimantDisplayName())
	case question.StateClaimed:
		return apperr.New(apperr.InvalidStateTransition,
			"Sorry, the question has been claimed by `%s`. Try to find another unclaimed question.", q.ClaimantDisplayName())
	default:
		return apperr.New(apperr.InvalidStateTransition, "Sorry, the question cannot be claimed right now. Please try again.")
	}
}

func solveDenial(q *question.Question, actor platform.Member) error {
	switch q.State() {
	case question.StateWaiting:
		return apperr.New(apperr.InvalidStateTransition, "Sorry, the question is unclaimed. Please claim it first.")
	case question.StateSolved:
		return apperr.New(apperr.InvalidStateTransition,
			"Sorry, the question has already been solved by `%s`.", q.ClaimantDisplayName())
	}
	if q.Claimant() != actor.ID {
		return claimantMismatch(q)
	}
	return nil
}

func claimantMismatch(q *question.Question) error {
	return apperr.New(apperr.AuthorizationDenied,
		"Sorry, the question has been claimed by `%s`. Try to find another unclaimed question.", q.ClaimantDisplayName())
}
