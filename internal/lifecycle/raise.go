package lifecycle

import (
	"context"
	"fmt"
	"strings"

	"tabot/internal/apperr"
	"tabot/internal/events"
	"tabot/internal/logger"
	"tabot/internal/platform"
	"tabot/internal/question"
)

type RaiseInput struct {
	GuildID   string
	ChannelID string
	Raiser    platform.Member
	Content   string
	// StartMessageID raises the question from an existing message instead of Content.
	StartMessageID string
}

// Raise opens a thread for the question, posts its tracking card and records it as Waiting.
func (e *Engine) Raise(ctx context.Context, in RaiseInput) (*question.Question, error) {
	const action = "raise"
	ctx, sc := e.begin(ctx, action, in.GuildID, "", in.Raiser.ID)
	defer sc.End()

	cfg, _ := e.index.Guild(in.GuildID)
	if cfg.QuestionChannelID == "" {
		return nil, apperr.New(apperr.ConfigurationMissing,
			"Please use `/init question` to set up a question channel first. If you don't understand, please call the admin.")
	}

	if err := e.requireCapabilities(ctx, sc, action, in.ChannelID, platform.ThreadCapabilities, ""); err != nil {
		return nil, err
	}
	if err := e.requireCapabilities(ctx, sc, action, cfg.QuestionChannelID, platform.ThreadCapabilities, "Question Channel "); err != nil {
		return nil, err
	}

	threadID, err := e.platform.CreateThread(ctx, platform.ThreadSpec{
		ChannelID:      in.ChannelID,
		Name:           question.ThreadName(question.StateWaiting, in.Raiser.DisplayName),
		StartMessageID: in.StartMessageID,
	})
	if err != nil {
		return nil, e.transient(ctx, sc, action, fmt.Errorf("create thread: %w", err))
	}

	content := strings.TrimSpace(in.Content)
	if in.StartMessageID == "" && content != "" {
		_, err := e.platform.SendMessage(ctx, threadID, platform.Message{
			Content: fmt.Sprintf("Question from <@%s>:\n%s", in.Raiser.ID, content),
		})
		if err != nil {
			return nil, e.transient(ctx, sc, action, fmt.Errorf("post question: %w", err))
		}
	}

	q := &question.Question{
		ID:            threadID,
		GuildID:       in.GuildID,
		ChannelID:     in.ChannelID,
		RaisedBy:      in.Raiser.ID,
		RaiserName:    in.Raiser.DisplayName,
		CardChannelID: cfg.QuestionChannelID,
		CreatedAt:     e.now(),
	}

	cardID, err := e.platform.PostCard(ctx, cfg.QuestionChannelID, RenderCard(q))
	if err != nil {
		return nil, e.transient(ctx, sc, action, fmt.Errorf("post card: %w", err))
	}
	q.CardMessageID = cardID

	if err := e.questions.Create(ctx, q); err != nil {
		// The platform has no undo; leave the ids for an operator.
		e.logger.ErrorContext(ctx, "question not stored, thread and card orphaned",
			"thread_id", threadID,
			"card_channel_id", cfg.QuestionChannelID,
			"card_message_id", cardID)
		return nil, e.transient(ctx, sc, action, fmt.Errorf("create question %s: %w", threadID, err))
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{QuestionID: logger.Ptr(q.ID)})
	e.logger.InfoContext(ctx, "question raised")
	e.publish(ctx, events.QuestionRaised, q, in.Raiser.ID)
	return q, nil
}

// requireCapabilities checks what the bot itself may do in channelID.
func (e *Engine) requireCapabilities(ctx context.Context, sc *logger.SpanContext, action, channelID string, required []platform.Permission, subject string) error {
	granted, err := e.platform.Permissions(ctx, channelID, e.platform.SelfID())
	if err != nil {
		return e.transient(ctx, sc, action, fmt.Errorf("permissions for %s: %w", channelID, err))
	}
	if missing, ok := platform.Missing(granted, required); ok {
		return apperr.New(apperr.AuthorizationDenied,
			"Sorry, I cannot raise this question for you, because %s%s Please report it to the admin.",
			subject, platform.MissingMessage(missing))
	}
	return nil
}
