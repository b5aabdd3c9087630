package postgres

import (
	"context"

	"github.com/aperdana/networth/internal/audit"
	"github.com/aperdana/networth/internal/observability"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AuditRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewAuditRepo(pool *pgxpool.Pool, prom *observability.Prom) *AuditRepo {
	return &AuditRepo{pool: pool, prom: prom}
}

func (r *AuditRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}

	return fn()
}

func (r *AuditRepo) Insert(ctx context.Context, e audit.Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	return r.observe("audit.insert", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO audit_logs (id, user_id, action_type, entity_type, entity_id, ip_address, created_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			e.ID, e.UserID, string(e.ActionType), e.EntityType, e.EntityID, e.IPAddress, e.CreatedAt,
		)
		return err
	})
}

// ListRecent returns the newest entries, capped by limit. The log itself
// is append-only and unbounded.
func (r *AuditRepo) ListRecent(ctx context.Context, limit int) (entries []audit.Entry, err error) {
	var rows pgx.Rows

	err = r.observe("audit.list_recent", func() error {
		rows, err = r.pool.Query(ctx,
			`SELECT id, user_id, action_type, entity_type, entity_id, ip_address, created_at
			 FROM audit_logs
			 ORDER BY created_at DESC, id DESC
			 LIMIT $1`,
			limit,
		)
		return err
	})

	if err != nil {
		return
	}

	defer rows.Close()

	entries = make([]audit.Entry, 0, limit)

	for rows.Next() {
		var (
			e      audit.Entry
			action string
		)

		scanErr := rows.Scan(&e.ID, &e.UserID, &action, &e.EntityType, &e.EntityID, &e.IPAddress, &e.CreatedAt)

		if scanErr != nil {
			err = scanErr
			return
		}

		e.ActionType = audit.Action(action)
		entries = append(entries, e)
	}

	err = rows.Err()

	return
}
