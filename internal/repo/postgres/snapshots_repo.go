package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/aperdana/networth/internal/date"
	"github.com/aperdana/networth/internal/domain/networth"
	"github.com/aperdana/networth/internal/domain/snapshot"
	"github.com/aperdana/networth/internal/observability"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type SnapshotsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewSnapshotsRepo(pool *pgxpool.Pool, prom *observability.Prom) *SnapshotsRepo {
	return &SnapshotsRepo{pool: pool, prom: prom}
}

func (r *SnapshotsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}

	return fn()
}

func scanSnapshot(row pgx.Row) (snapshot.Snapshot, error) {
	var (
		s        snapshot.Snapshot
		snapDate time.Time
		rawValue string
	)

	err := row.Scan(&s.ID, &s.AssetID, &snapDate, &rawValue, &s.CreatedBy, &s.CreatedAt)

	if err != nil {
		return snapshot.Snapshot{}, err
	}

	s.SnapshotDate = date.FromTime(snapDate)

	s.Value, err = decimal.NewFromString(rawValue)

	if err != nil {
		return snapshot.Snapshot{}, err
	}

	return s, nil
}

// List returns snapshots newest-first, optionally filtered to one asset.
func (r *SnapshotsRepo) List(ctx context.Context, assetID *string) (snaps []snapshot.Snapshot, err error) {
	q := `SELECT id, asset_id, snapshot_date, value::text, created_by, created_at
	      FROM asset_snapshots`
	args := []interface{}{}

	if assetID != nil {
		q += ` WHERE asset_id = $1`
		args = append(args, *assetID)
	}

	q += ` ORDER BY snapshot_date DESC, id DESC`

	var rows pgx.Rows

	err = r.observe("snapshots.list", func() error {
		rows, err = r.pool.Query(ctx, q, args...)
		return err
	})

	if err != nil {
		return
	}

	defer rows.Close()

	snaps = make([]snapshot.Snapshot, 0)

	for rows.Next() {
		s, e := scanSnapshot(rows)

		if e != nil {
			err = e
			return
		}

		snaps = append(snaps, s)
	}

	err = rows.Err()

	return
}

func (r *SnapshotsRepo) GetByID(ctx context.Context, id string) (snapshot.Snapshot, error) {
	var s snapshot.Snapshot

	err := r.observe("snapshots.get_by_id", func() error {
		var e error
		s, e = scanSnapshot(r.pool.QueryRow(ctx,
			`SELECT id, asset_id, snapshot_date, value::text, created_by, created_at
			 FROM asset_snapshots
			 WHERE id = $1`,
			id,
		))
		return e
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return snapshot.Snapshot{}, snapshot.ErrNotFound
		}

		return snapshot.Snapshot{}, err
	}

	return s, nil
}

// Create relies on the (asset_id, snapshot_date) unique constraint to
// resolve concurrent same-date inserts: one wins, the other surfaces
// ErrDuplicateDate. No application-level locking.
func (r *SnapshotsRepo) Create(ctx context.Context, assetID string, snapDate date.Date, value decimal.Decimal, createdBy string) (snapshot.Snapshot, error) {
	s := snapshot.Snapshot{
		ID:           uuid.NewString(),
		AssetID:      assetID,
		SnapshotDate: snapDate,
		Value:        value,
		CreatedBy:    createdBy,
		CreatedAt:    time.Now().UTC(),
	}

	err := r.observe("snapshots.create", func() error {
		_, e := r.pool.Exec(ctx,
			`INSERT INTO asset_snapshots (id, asset_id, snapshot_date, value, created_by, created_at)
			 VALUES ($1,$2,$3::date,$4,$5,$6)`,
			s.ID, s.AssetID, s.SnapshotDate.String(), s.Value.String(), s.CreatedBy, s.CreatedAt,
		)
		return e
	})

	if err != nil {
		var pgErr *pgconn.PgError

		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return snapshot.Snapshot{}, snapshot.ErrDuplicateDate
			case "23503":
				return snapshot.Snapshot{}, snapshot.ErrAssetNotFound
			}
		}

		return snapshot.Snapshot{}, err
	}

	return s, nil
}

func (r *SnapshotsRepo) UpdateValue(ctx context.Context, id string, value decimal.Decimal) error {
	var tag pgconn.CommandTag

	err := r.observe("snapshots.update_value", func() error {
		var e error
		tag, e = r.pool.Exec(ctx,
			`UPDATE asset_snapshots SET value = $2 WHERE id = $1`,
			id, value.String(),
		)
		return e
	})

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return snapshot.ErrNotFound
	}

	return nil
}

func (r *SnapshotsRepo) Delete(ctx context.Context, id string) error {
	var tag pgconn.CommandTag

	err := r.observe("snapshots.delete", func() error {
		var e error
		tag, e = r.pool.Exec(ctx, `DELETE FROM asset_snapshots WHERE id = $1`, id)
		return e
	})

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return snapshot.ErrNotFound
	}

	return nil
}

// Histories loads every snapshot of every non-deleted asset, grouped per
// asset and date-ascending, ready for the net-worth aggregator to scan.
func (r *SnapshotsRepo) Histories(ctx context.Context) (histories []networth.AssetHistory, err error) {
	var rows pgx.Rows

	err = r.observe("snapshots.histories", func() error {
		rows, err = r.pool.Query(ctx,
			`SELECT s.asset_id, s.snapshot_date, s.value::text
			 FROM asset_snapshots s
			 JOIN assets a ON a.id = s.asset_id AND a.is_deleted = FALSE
			 ORDER BY s.asset_id, s.snapshot_date ASC`,
		)
		return err
	})

	if err != nil {
		return
	}

	defer rows.Close()

	histories = make([]networth.AssetHistory, 0)

	for rows.Next() {
		var (
			assetID  string
			snapDate time.Time
			rawValue string
		)

		e := rows.Scan(&assetID, &snapDate, &rawValue)

		if e != nil {
			err = e
			return
		}

		value, e := decimal.NewFromString(rawValue)

		if e != nil {
			err = e
			return
		}

		point := networth.ValuePoint{Date: date.FromTime(snapDate), Value: value}

		if n := len(histories); n > 0 && histories[n-1].AssetID == assetID {
			histories[n-1].Points = append(histories[n-1].Points, point)
		} else {
			histories = append(histories, networth.AssetHistory{
				AssetID: assetID,
				Points:  []networth.ValuePoint{point},
			})
		}
	}

	err = rows.Err()

	return
}
