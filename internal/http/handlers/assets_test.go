package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aperdana/networth/internal/audit"
	"github.com/aperdana/networth/internal/cache"
	"github.com/aperdana/networth/internal/domain/asset"
	"github.com/aperdana/networth/internal/domain/user"
	"github.com/aperdana/networth/internal/http/handlers"
)

type fakeAssetsRepo struct {
	listFn   func(ctx context.Context) ([]asset.Asset, error)
	createFn func(ctx context.Context, req asset.CreateAssetRequest, createdBy string) (asset.Asset, error)
	updateFn func(ctx context.Context, id string, req asset.UpdateAssetRequest) (asset.Asset, error)
	deleteFn func(ctx context.Context, id string) error
}

func (f *fakeAssetsRepo) List(ctx context.Context) ([]asset.Asset, error) {
	if f.listFn != nil {
		return f.listFn(ctx)
	}
	return []asset.Asset{}, nil
}

func (f *fakeAssetsRepo) Create(ctx context.Context, req asset.CreateAssetRequest, createdBy string) (asset.Asset, error) {
	if f.createFn != nil {
		return f.createFn(ctx, req, createdBy)
	}
	return asset.Asset{ID: "a1", Name: req.Name, Category: req.Category, CreatedBy: createdBy}, nil
}

func (f *fakeAssetsRepo) Update(ctx context.Context, id string, req asset.UpdateAssetRequest) (asset.Asset, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, id, req)
	}
	return asset.Asset{ID: id, Name: req.Name, Category: req.Category}, nil
}

func (f *fakeAssetsRepo) DeleteCascade(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func TestCreateAsset(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		wantStatusCode int
		wantActions    []audit.Action
	}{
		{
			name:           "success",
			body:           `{"name": "BCA Savings", "category": "bank"}`,
			wantStatusCode: http.StatusCreated,
			wantActions:    []audit.Action{audit.ActionCreate},
		},
		{
			name:           "with_description",
			body:           `{"name": "House", "category": "property", "description": "primary residence"}`,
			wantStatusCode: http.StatusCreated,
			wantActions:    []audit.Action{audit.ActionCreate},
		},
		{
			name:           "missing_name",
			body:           `{"category": "bank"}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "missing_category",
			body:           `{"name": "BCA Savings"}`,
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeAssetsRepo{}
			rec := &fakeRecorder{}

			h := handlers.NewAssetsHandler(repo, rec, cache.New(time.Minute))

			r := setupRouter(http.MethodPost, "/assets", identity("u1", user.RoleUser), h.CreateAsset)

			w := doJSON(r, http.MethodPost, "/assets", tt.body)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			got := rec.actions()

			if len(got) != len(tt.wantActions) {
				t.Fatalf("audit actions = %v, want %v", got, tt.wantActions)
			}
		})
	}
}

func TestUpdateAssetNotFound(t *testing.T) {
	repo := &fakeAssetsRepo{
		updateFn: func(ctx context.Context, id string, req asset.UpdateAssetRequest) (asset.Asset, error) {
			return asset.Asset{}, asset.ErrNotFound
		},
	}

	rec := &fakeRecorder{}
	h := handlers.NewAssetsHandler(repo, rec, cache.New(time.Minute))

	r := setupRouter(http.MethodPut, "/assets/:id", identity("u1", user.RoleUser), h.UpdateAsset)

	w := doJSON(r, http.MethodPut, "/assets/missing", `{"name": "X", "category": "bank"}`)

	if w.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404, body=%s", w.Code, w.Body.String())
	}

	if len(rec.actions()) != 0 {
		t.Fatalf("no audit entry expected on failed update, got %v", rec.actions())
	}
}

func TestDeleteAssetClearsSeriesCache(t *testing.T) {
	series := cache.New(time.Minute)
	series.Set("some-key", nil)

	repo := &fakeAssetsRepo{}
	rec := &fakeRecorder{}

	h := handlers.NewAssetsHandler(repo, rec, series)

	r := setupRouter(http.MethodDelete, "/assets/:id", identity("admin1", user.RoleAdmin), h.DeleteAsset)

	req := httptest.NewRequest(http.MethodDelete, "/assets/a1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("got status %d, want 204, body=%s", w.Code, w.Body.String())
	}

	if _, ok := series.Get("some-key"); ok {
		t.Fatal("series cache should be cleared after an asset delete")
	}

	got := rec.actions()

	if len(got) != 1 || got[0] != audit.ActionDelete {
		t.Fatalf("audit actions = %v, want [DELETE]", got)
	}
}
