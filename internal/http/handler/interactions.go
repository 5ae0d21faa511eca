package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"tabot/internal/guild"
	"tabot/internal/hype"
	"tabot/internal/lifecycle"
	"tabot/internal/settings"
)

// Kind names one user action routed from the platform front end.
type Kind string

const (
	KindRaise            Kind = "raise"
	KindClaim            Kind = "claim"
	KindSolve            Kind = "solve"
	KindAuthorizeSummary Kind = "summary_authorize"
	KindSummary          Kind = "summary"
	KindHype             Kind = "hype"
	KindConfigure        Kind = "configure"
	KindReadConfig       Kind = "read_config"
)

type interactionReq struct {
	Kind           Kind      `json:"kind"`
	GuildID        string    `json:"guild_id"`
	ChannelID      string    `json:"channel_id"`
	QuestionID     string    `json:"question_id"`
	MessageID      string    `json:"message_id"`
	AuthorID       string    `json:"author_id"`
	StartMessageID string    `json:"start_message_id"`
	Content        string    `json:"content"`
	Summary        string    `json:"summary"`
	Field          string    `json:"field"`
	Value          string    `json:"value"`
	Actor          memberDTO `json:"actor"`
}

// input names a request field an action cannot run without.
type input string

const (
	inGuild    input = "guild_id"
	inChannel  input = "channel_id"
	inQuestion input = "question_id"
	inMessage  input = "message_id"
	inActor    input = "actor.id"
	inField    input = "field"
)

func (r *interactionReq) has(in input) bool {
	switch in {
	case inGuild:
		return r.GuildID != ""
	case inChannel:
		return r.ChannelID != ""
	case inQuestion:
		return r.QuestionID != ""
	case inMessage:
		return r.MessageID != ""
	case inActor:
		return r.Actor.ID != ""
	case inField:
		return r.Field != ""
	}
	return false
}

type action struct {
	needs []input
	run   func(ctx context.Context, req *interactionReq) (any, error)
}

type InteractionHandler struct {
	actions map[Kind]action
}

func NewInteractionHandler(lc LifecycleService, st SettingsService, hy HypeService) *InteractionHandler {
	h := &InteractionHandler{}
	h.actions = map[Kind]action{
		KindRaise: {
			needs: []input{inGuild, inChannel, inActor},
			run: func(ctx context.Context, req *interactionReq) (any, error) {
				q, err := lc.Raise(ctx, lifecycle.RaiseInput{
					GuildID:        req.GuildID,
					ChannelID:      req.ChannelID,
					Raiser:         req.Actor.member(),
					Content:        req.Content,
					StartMessageID: req.StartMessageID,
				})
				if err != nil {
					return nil, err
				}
				return map[string]any{"question": toQuestionDTO(q)}, nil
			},
		},
		KindClaim: {
			needs: []input{inGuild, inQuestion, inActor},
			run: func(ctx context.Context, req *interactionReq) (any, error) {
				q, err := lc.Claim(ctx, actionInput(req))
				if err != nil {
					return nil, err
				}
				return map[string]any{"question": toQuestionDTO(q)}, nil
			},
		},
		KindSolve: {
			needs: []input{inGuild, inQuestion, inActor},
			run: func(ctx context.Context, req *interactionReq) (any, error) {
				res, err := lc.Solve(ctx, actionInput(req))
				if err != nil {
					return nil, err
				}
				return map[string]any{
					"question":            toQuestionDTO(res.Question),
					"summary_already_set": res.SummaryAlreadySet,
				}, nil
			},
		},
		KindAuthorizeSummary: {
			needs: []input{inGuild, inQuestion, inActor},
			run: func(ctx context.Context, req *interactionReq) (any, error) {
				q, err := lc.AuthorizeSummary(ctx, actionInput(req))
				if err != nil {
					return nil, err
				}
				return map[string]any{"question": toQuestionDTO(q)}, nil
			},
		},
		KindSummary: {
			needs: []input{inGuild, inQuestion, inActor},
			run: func(ctx context.Context, req *interactionReq) (any, error) {
				// The form may have been open for a while; check again before writing.
				if _, err := lc.AuthorizeSummary(ctx, actionInput(req)); err != nil {
					return nil, err
				}
				res, err := lc.SetSummary(ctx, req.QuestionID, req.GuildID, req.Summary)
				if err != nil {
					return nil, err
				}
				return map[string]any{
					"question": toQuestionDTO(res.Question),
					"indexed":  res.Solved && res.Question.Summary != "",
				}, nil
			},
		},
		KindHype: {
			needs: []input{inGuild, inChannel, inMessage, inActor},
			run: func(ctx context.Context, req *interactionReq) (any, error) {
				res, err := hy.Hype(ctx, hype.HypeInput{
					GuildID:   req.GuildID,
					ChannelID: req.ChannelID,
					MessageID: req.MessageID,
					AuthorID:  req.AuthorID,
					Actor:     req.Actor.member(),
				})
				if err != nil {
					return nil, err
				}
				return map[string]any{"message_id": res.Hype.MessageID, "count": res.Count}, nil
			},
		},
		KindConfigure: {
			needs: []input{inGuild, inActor, inField},
			run: func(ctx context.Context, req *interactionReq) (any, error) {
				res, err := st.Configure(ctx, settings.ConfigureInput{
					GuildID: req.GuildID,
					Actor:   req.Actor.member(),
					Field:   guild.Field(strings.ToLower(req.Field)),
					Value:   req.Value,
				})
				if err != nil {
					return nil, err
				}
				return map[string]any{"config": toGuildConfigDTO(res.Config), "changed": res.Changed}, nil
			},
		},
		KindReadConfig: {
			needs: []input{inGuild, inActor},
			run: func(ctx context.Context, req *interactionReq) (any, error) {
				cfg, err := st.Read(ctx, req.GuildID, req.Actor.member())
				if err != nil {
					return nil, err
				}
				return map[string]any{"config": toGuildConfigDTO(cfg)}, nil
			},
		},
	}
	return h
}

func actionInput(req *interactionReq) lifecycle.ActionInput {
	return lifecycle.ActionInput{
		GuildID:    req.GuildID,
		QuestionID: req.QuestionID,
		Actor:      req.Actor.member(),
	}
}

func (h *InteractionHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req interactionReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "bad json")
		return
	}

	act, ok := h.actions[req.Kind]
	if !ok {
		badRequest(w, "unknown kind")
		return
	}
	for _, in := range act.needs {
		if !req.has(in) {
			badRequest(w, string(in)+" required")
			return
		}
	}

	out, err := act.run(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
