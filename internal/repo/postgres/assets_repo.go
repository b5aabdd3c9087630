package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/aperdana/networth/internal/domain/asset"
	"github.com/aperdana/networth/internal/observability"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AssetsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewAssetsRepo(pool *pgxpool.Pool, prom *observability.Prom) *AssetsRepo {
	return &AssetsRepo{pool: pool, prom: prom}
}

func (r *AssetsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}

	return fn()
}

func (r *AssetsRepo) List(ctx context.Context) (assets []asset.Asset, err error) {
	var rows pgx.Rows

	err = r.observe("assets.list", func() error {
		rows, err = r.pool.Query(ctx,
			`SELECT id, name, category, description, created_by, created_at
			 FROM assets
			 WHERE is_deleted = FALSE
			 ORDER BY created_at DESC, id DESC`,
		)
		return err
	})

	if err != nil {
		return
	}

	defer rows.Close()

	assets = make([]asset.Asset, 0)

	for rows.Next() {
		var a asset.Asset

		e := rows.Scan(&a.ID, &a.Name, &a.Category, &a.Description, &a.CreatedBy, &a.CreatedAt)

		if e != nil {
			err = e
			return
		}

		assets = append(assets, a)
	}

	err = rows.Err()

	return
}

func (r *AssetsRepo) Create(ctx context.Context, req asset.CreateAssetRequest, createdBy string) (asset.Asset, error) {
	a := asset.Asset{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		CreatedBy:   createdBy,
		CreatedAt:   time.Now().UTC(),
	}

	err := r.observe("assets.create", func() error {
		_, e := r.pool.Exec(ctx,
			`INSERT INTO assets (id, name, category, description, created_by, is_deleted, created_at)
			 VALUES ($1,$2,$3,$4,$5,FALSE,$6)`,
			a.ID, a.Name, a.Category, a.Description, a.CreatedBy, a.CreatedAt,
		)
		return e
	})

	if err != nil {
		return asset.Asset{}, err
	}

	return a, nil
}

func (r *AssetsRepo) Update(ctx context.Context, id string, req asset.UpdateAssetRequest) (asset.Asset, error) {
	var a asset.Asset

	err := r.observe("assets.update", func() error {
		return r.pool.QueryRow(ctx,
			`UPDATE assets
			 SET name = $2,
			     category = $3,
			     description = $4
			 WHERE id = $1 AND is_deleted = FALSE
			 RETURNING id, name, category, description, created_by, created_at`,
			id, req.Name, req.Category, req.Description,
		).Scan(&a.ID, &a.Name, &a.Category, &a.Description, &a.CreatedBy, &a.CreatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return asset.Asset{}, asset.ErrNotFound
		}

		return asset.Asset{}, err
	}

	return a, nil
}

// DeleteCascade removes the asset and all of its snapshots in one
// transaction. No observer may see the asset gone with snapshots left
// behind, or the reverse.
func (r *AssetsRepo) DeleteCascade(ctx context.Context, id string) (err error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})

	if err != nil {
		return
	}

	defer func() {
		_ = tx.Rollback(ctx)
	}()

	err = r.observe("assets.delete_cascade.snapshots", func() error {
		_, e := tx.Exec(ctx, `DELETE FROM asset_snapshots WHERE asset_id = $1`, id)
		return e
	})

	if err != nil {
		return
	}

	var deleted int64

	err = r.observe("assets.delete_cascade.asset", func() error {
		tag, e := tx.Exec(ctx, `DELETE FROM assets WHERE id = $1`, id)

		if e != nil {
			return e
		}

		deleted = tag.RowsAffected()

		return nil
	})

	if err != nil {
		return
	}

	if deleted == 0 {
		err = asset.ErrNotFound
		return
	}

	err = tx.Commit(ctx)

	return
}
