package question

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("question not found")

type Repo struct {
	DB *gorm.DB
}

func (r *Repo) Create(ctx context.Context, q *Question) error {
	return r.DB.WithContext(ctx).Create(q).Error
}

func (r *Repo) FindByID(ctx context.Context, id string) (*Question, error) {
	var q Question
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&q).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &q, nil
}

// Claim sets the claimant only while the question is still unclaimed.
// The single conditional update is what makes concurrent claims exclusive:
// it reports false when another claim already landed.
func (r *Repo) Claim(ctx context.Context, id, claimantID, claimantName string, at time.Time) (bool, error) {
	res := r.DB.WithContext(ctx).
		Model(&Question{}).
		Where("id = ? AND claimed_at IS NULL AND claimant_id IS NULL", id).
		Updates(map[string]any{
			"claimant_id":   claimantID,
			"claimant_name": claimantName,
			"claimed_at":    at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// Solve marks a claimed question solved, only for its recorded claimant.
// solved and solved_at are always written together.
func (r *Repo) Solve(ctx context.Context, id, claimantID string, at time.Time) (bool, error) {
	res := r.DB.WithContext(ctx).
		Model(&Question{}).
		Where("id = ? AND claimant_id = ? AND claimed_at IS NOT NULL AND solved = ?", id, claimantID, false).
		Updates(map[string]any{
			"solved":    true,
			"solved_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// SetSummary stores the summary regardless of state and returns the fresh row.
func (r *Repo) SetSummary(ctx context.Context, id, summary string) (*Question, error) {
	err := r.DB.WithContext(ctx).
		Model(&Question{}).
		Where("id = ?", id).
		Update("summary", summary).Error
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

// ListSolved returns the guild's solved questions ordered by solve time.
func (r *Repo) ListSolved(ctx context.Context, guildID string) ([]Question, error) {
	var rows []Question
	err := r.DB.WithContext(ctx).
		Where("guild_id = ? AND solved = ? AND solved_at IS NOT NULL", guildID, true).
		Order("solved_at asc, id asc").
		Find(&rows).Error
	return rows, err
}

// ListIndexable returns every solved question with a summary, across guilds.
func (r *Repo) ListIndexable(ctx context.Context) ([]Question, error) {
	var rows []Question
	err := r.DB.WithContext(ctx).
		Where("solved = ? AND summary <> ''", true).
		Order("solved_at asc, id asc").
		Find(&rows).Error
	return rows, err
}

func (r *Repo) Counts(ctx context.Context) (raised, solved int64, err error) {
	db := r.DB.WithContext(ctx)
	if err = db.Model(&Question{}).Count(&raised).Error; err != nil {
		return 0, 0, err
	}
	if err = db.Model(&Question{}).Where("solved = ?", true).Count(&solved).Error; err != nil {
		return 0, 0, err
	}
	return raised, solved, nil
}
