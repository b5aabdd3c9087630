package audit

import (
	"context"
	"log/slog"
	"time"
)

type Action string

const (
	ActionCreate           Action = "CREATE"
	ActionUpdate           Action = "UPDATE"
	ActionDelete           Action = "DELETE"
	ActionLogin            Action = "LOGIN"
	ActionForbiddenAttempt Action = "FORBIDDEN_ATTEMPT"
)

// Entry is append-only: rows are never updated or deleted.
type Entry struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	ActionType Action    `json:"action_type"`
	EntityType string    `json:"entity_type"`
	EntityID   *string   `json:"entity_id,omitempty"`
	IPAddress  string    `json:"ip_address"`
	CreatedAt  time.Time `json:"created_at"`
}

type Inserter interface {
	Insert(ctx context.Context, e Entry) error
}

// Recorder writes audit entries synchronously, so an entry is durable
// before the HTTP response goes out. A failed write is logged and
// swallowed: it must never replace the result the caller is about to
// return.
type Recorder struct {
	repo Inserter
	log  *slog.Logger
}

func NewRecorder(repo Inserter, log *slog.Logger) *Recorder {
	return &Recorder{repo: repo, log: log}
}

func (r *Recorder) Record(ctx context.Context, actorID string, action Action, entityType string, entityID *string, ip string) {
	e := Entry{
		UserID:     actorID,
		ActionType: action,
		EntityType: entityType,
		EntityID:   entityID,
		IPAddress:  ip,
		CreatedAt:  time.Now().UTC(),
	}

	err := r.repo.Insert(ctx, e)

	if err != nil {
		r.log.ErrorContext(ctx, "audit write failed",
			"action", string(action),
			"entity_type", entityType,
			"actor_id", actorID,
			"err", err,
		)
	}
}
