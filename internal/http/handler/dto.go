package handler

import (
	"time"

	"tabot/internal/guild"
	"tabot/internal/lifecycle"
	"tabot/internal/platform"
	"tabot/internal/question"
)

type memberDTO struct {
	ID            string   `json:"id"`
	DisplayName   string   `json:"display_name"`
	RoleIDs       []string `json:"role_ids"`
	Administrator bool     `json:"administrator"`
}

func (m memberDTO) member() platform.Member {
	return platform.Member{
		ID:            m.ID,
		DisplayName:   m.DisplayName,
		RoleIDs:       m.RoleIDs,
		Administrator: m.Administrator,
	}
}

type questionDTO struct {
	ID           string     `json:"id"`
	GuildID      string     `json:"guild_id"`
	State        string     `json:"state"`
	RaisedBy     string     `json:"raised_by"`
	RaiserName   string     `json:"raiser_name"`
	ClaimantID   *string    `json:"claimant_id"`
	ClaimantName *string    `json:"claimant_name"`
	Summary      string     `json:"summary"`
	Solved       bool       `json:"solved"`
	CreatedAt    time.Time  `json:"created_at"`
	ClaimedAt    *time.Time `json:"claimed_at"`
	SolvedAt     *time.Time `json:"solved_at"`
	ThreadLink   string     `json:"thread_link"`
}

func toQuestionDTO(q *question.Question) questionDTO {
	return questionDTO{
		ID:           q.ID,
		GuildID:      q.GuildID,
		State:        string(q.State()),
		RaisedBy:     q.RaisedBy,
		RaiserName:   q.RaiserName,
		ClaimantID:   q.ClaimantID,
		ClaimantName: q.ClaimantName,
		Summary:      q.Summary,
		Solved:       q.Solved,
		CreatedAt:    q.CreatedAt,
		ClaimedAt:    q.ClaimedAt,
		SolvedAt:     q.SolvedAt,
		ThreadLink:   lifecycle.ThreadLink(q.GuildID, q.ID),
	}
}

type guildConfigDTO struct {
	GuildID           string `json:"guild_id"`
	AdminRoleID       string `json:"admin_role_id"`
	HelperRoleID      string `json:"helper_role_id"`
	QuestionChannelID string `json:"question_channel_id"`
	HypeChannelID     string `json:"hype_channel_id"`
}

func toGuildConfigDTO(c guild.Config) guildConfigDTO {
	return guildConfigDTO{
		GuildID:           c.GuildID,
		AdminRoleID:       c.AdminRoleID,
		HelperRoleID:      c.HelperRoleID,
		QuestionChannelID: c.QuestionChannelID,
		HypeChannelID:     c.HypeChannelID,
	}
}
