package application

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/folio/internal/domain/model"
)

func TestAdminService_DashboardJoinsStatsAndVisitors(t *testing.T) {
	api := &mockAPI{
		getDashboardStatsFn: func(context.Context) (*model.DashboardStats, error) {
			return &model.DashboardStats{Overview: model.Overview{TotalVisitors: 3}}, nil
		},
		listVisitorsFn: func(context.Context) ([]model.Visitor, error) {
			return []model.Visitor{{ID: 1}, {ID: 2}}, nil
		},
	}
	svc := NewAdminService(api, slog.Default())

	dash, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, dash.Stats.Overview.TotalVisitors)
	assert.Len(t, dash.Visitors, 2)
}

func TestAdminService_DashboardFailsIfEitherFetchFails(t *testing.T) {
	api := &mockAPI{
		listVisitorsFn: func(context.Context) ([]model.Visitor, error) {
			return nil, errors.New("visitors 500")
		},
	}
	svc := NewAdminService(api, slog.Default())

	dash, err := svc.Dashboard(context.Background())

	require.Error(t, err)
	assert.Nil(t, dash)
}

func TestDashboard_TopVisitorsCapsAtN(t *testing.T) {
	d := &Dashboard{Visitors: make([]model.Visitor, 8)}

	assert.Len(t, d.TopVisitors(5), 5)
	assert.Len(t, (&Dashboard{Visitors: make([]model.Visitor, 2)}).TopVisitors(5), 2)
}

func TestDashboard_TopPagesShare(t *testing.T) {
	d := &Dashboard{Stats: model.DashboardStats{
		Overview: model.Overview{TotalPageviews: 200},
		TopPages: []model.TopPage{
			{Path: "/", Views: 100},
			{Path: "/blog", Views: 50},
			{Path: "/projects", Views: 30},
			{Path: "/contact", Views: 20},
		},
	}}

	pages := d.TopPages(3)

	require.Len(t, pages, 3)
	assert.Equal(t, PageShare{Path: "/", Views: 100, Percent: 50}, pages[0])
	assert.Equal(t, 25, pages[1].Percent)
	assert.Equal(t, 15, pages[2].Percent)
}

func TestDashboard_TopPagesZeroTotal(t *testing.T) {
	d := &Dashboard{Stats: model.DashboardStats{TopPages: []model.TopPage{{Path: "/", Views: 4}}}}

	assert.Equal(t, 0, d.TopPages(3)[0].Percent)
}

func TestAdminService_UploadThenRelists(t *testing.T) {
	var gotName string
	var gotCategory model.VaultCategory
	var gotBody string
	api := &mockAPI{
		uploadVaultFileFn: func(_ context.Context, name string, category model.VaultCategory, content io.Reader) (*model.VaultFile, error) {
			gotName, gotCategory = name, category
			b, _ := io.ReadAll(content)
			gotBody = string(b)
			return &model.VaultFile{ID: 9, Name: name}, nil
		},
		listVaultFilesFn: func(context.Context) ([]model.VaultFile, error) {
			return []model.VaultFile{{ID: 9, Name: "cv.pdf"}}, nil
		},
	}
	svc := NewAdminService(api, slog.Default())

	files, err := svc.UploadVaultFile(context.Background(), " cv.pdf ", model.VaultCategoryResume, strings.NewReader("%PDF"))
	require.NoError(t, err)

	assert.Equal(t, "cv.pdf", gotName)
	assert.Equal(t, model.VaultCategoryResume, gotCategory)
	assert.Equal(t, "%PDF", gotBody)
	assert.Equal(t, 1, api.vaultListings)
	require.Len(t, files, 1)
	assert.Equal(t, int64(9), files[0].ID)
}

func TestAdminService_UploadFailureDoesNotRelist(t *testing.T) {
	boom := errors.New("disk full")
	api := &mockAPI{
		uploadVaultFileFn: func(context.Context, string, model.VaultCategory, io.Reader) (*model.VaultFile, error) {
			return nil, boom
		},
	}
	svc := NewAdminService(api, slog.Default())

	files, err := svc.UploadVaultFile(context.Background(), "cv.pdf", model.VaultCategoryResume, strings.NewReader("x"))

	require.ErrorIs(t, err, boom)
	assert.Nil(t, files)
	assert.Zero(t, api.vaultListings)
}

func TestAdminService_UploadRequiresName(t *testing.T) {
	svc := NewAdminService(&mockAPI{}, slog.Default())

	_, err := svc.UploadVaultFile(context.Background(), "   ", model.VaultCategoryOther, strings.NewReader("x"))

	assert.ErrorIs(t, err, ErrFileNameRequired)
}

func TestAdminService_DeletePropagatesFailure(t *testing.T) {
	boom := errors.New("permission denied")
	api := &mockAPI{deleteVaultFileFn: func(_ context.Context, id int64) error {
		assert.Equal(t, int64(4), id)
		return boom
	}}
	svc := NewAdminService(api, slog.Default())

	assert.ErrorIs(t, svc.DeleteVaultFile(context.Background(), 4), boom)
}
