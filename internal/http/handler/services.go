package handler

import (
	"context"

	"tabot/internal/guild"
	"tabot/internal/hype"
	"tabot/internal/index"
	"tabot/internal/lifecycle"
	"tabot/internal/platform"
	"tabot/internal/question"
	"tabot/internal/settings"
	"tabot/internal/stats"
)

type LifecycleService interface {
	Raise(ctx context.Context, in lifecycle.RaiseInput) (*question.Question, error)
	Claim(ctx context.Context, in lifecycle.ActionInput) (*question.Question, error)
	Solve(ctx context.Context, in lifecycle.ActionInput) (*lifecycle.SolveResult, error)
	AuthorizeSummary(ctx context.Context, in lifecycle.ActionInput) (*question.Question, error)
	SetSummary(ctx context.Context, questionID, guildID, text string) (*lifecycle.SummaryResult, error)
	Lookup(guildID, query string) []index.Entry
	Answer(guildID, threadID string) (*lifecycle.AnswerResult, error)
}

type SettingsService interface {
	Configure(ctx context.Context, in settings.ConfigureInput) (*settings.ConfigureResult, error)
	Read(ctx context.Context, guildID string, actor platform.Member) (guild.Config, error)
}

type HypeService interface {
	Hype(ctx context.Context, in hype.HypeInput) (*hype.Result, error)
}

type StatsService interface {
	CollectByPeriod(ctx context.Context, guildID string, g stats.Granularity) ([]stats.Bucket, error)
	CountHype(ctx context.Context, guildID string) ([]stats.HypeCount, error)
}
