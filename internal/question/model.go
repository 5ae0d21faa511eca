package question

import "time"

// State is derived from which timestamps are set; it is never stored.
type State string

const (
	StateWaiting State = "WAITING"
	StateClaimed State = "CLAIMED"
	StateSolved  State = "SOLVED"
)

// Question is one raised question, keyed by the platform thread id.
// Rows are never deleted, they feed the statistics.
type Question struct {
	ID         string `gorm:"primaryKey;type:varchar(32)"`
	GuildID    string `gorm:"index;not null;type:varchar(32)"`
	ChannelID  string `gorm:"not null;type:varchar(32);default:''"`
	RaisedBy   string `gorm:"not null;type:varchar(32)"`
	RaiserName string `gorm:"not null;default:''"`

	// Tracking card location.
	CardChannelID string `gorm:"not null;type:varchar(32);default:''"`
	CardMessageID string `gorm:"not null;type:varchar(32);default:''"`

	ClaimantID   *string `gorm:"type:varchar(32)"`
	ClaimantName *string

	Summary string `gorm:"type:text;not null;default:''"`
	Solved  bool   `gorm:"index;not null;default:false"`

	CreatedAt time.Time `gorm:"not null"`
	ClaimedAt *time.Time
	SolvedAt  *time.Time
}

// DeriveState infers the lifecycle state from the populated timestamps.
func DeriveState(q *Question) State {
	switch {
	case q.SolvedAt != nil:
		return StateSolved
	case q.ClaimedAt != nil:
		return StateClaimed
	default:
		return StateWaiting
	}
}

func (q *Question) State() State { return DeriveState(q) }

func (q *Question) Claimant() string {
	if q.ClaimantID == nil {
		return ""
	}
	return *q.ClaimantID
}

func (q *Question) ClaimantDisplayName() string {
	if q.ClaimantName == nil || *q.ClaimantName == "" {
		return "Unknown Member"
	}
	return *q.ClaimantName
}

// ThreadName is the discussion thread title for the question in its current state.
func (q *Question) ThreadName() string {
	return ThreadName(q.State(), q.RaiserName)
}

func ThreadName(s State, raiserName string) string {
	return string(s) + " -- Question from " + raiserName
}
