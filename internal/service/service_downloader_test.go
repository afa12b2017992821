package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/resource-sync/internal/adapter"
	"github.com/MKhiriev/resource-sync/internal/mock"
	"github.com/MKhiriev/resource-sync/models"
)

func newTestDownloader(t *testing.T) (Downloader, *mock.MockDataSource, *mock.MockDownloadWorkManager) {
	t.Helper()
	ctrl := gomock.NewController(t)
	ds := mock.NewMockDataSource(ctrl)
	wm := mock.NewMockDownloadWorkManager(ctrl)
	return NewDownloader(ds, func() DownloadWorkManager { return wm }), ds, wm
}

func collectDownload(d Downloader) []models.DownloadState {
	var states []models.DownloadState
	for s := range d.Download(context.Background()) {
		states = append(states, s)
	}
	return states
}

func TestDownloader_PagesInOrder(t *testing.T) {
	d, ds, wm := newTestDownloader(t)

	page1 := mustResource(t, `{"resourceType":"Bundle","type":"searchset"}`)
	page2 := mustResource(t, `{"resourceType":"Bundle","type":"searchset","id":"2"}`)
	p1 := mustResource(t, `{"resourceType":"Patient","id":"p1"}`)
	p2 := mustResource(t, `{"resourceType":"Patient","id":"p2"}`)
	p3 := mustResource(t, `{"resourceType":"Patient","id":"p3"}`)

	gomock.InOrder(
		wm.EXPECT().SummaryRequestURLs(gomock.Any()).Return(map[string]string{"Patient": "Patient?_summary=count"}, nil),
		ds.EXPECT().Download(gomock.Any(), models.DownloadRequest{URL: "Patient?_summary=count", ResourceTypeHint: "Patient"}).
			Return(mustResource(t, `{"resourceType":"Bundle","type":"searchset","total":3}`), nil),
		wm.EXPECT().NextRequest(gomock.Any()).Return(&models.DownloadRequest{URL: "Patient", ResourceTypeHint: "Patient"}, nil),
		ds.EXPECT().Download(gomock.Any(), models.DownloadRequest{URL: "Patient", ResourceTypeHint: "Patient"}).Return(page1, nil),
		wm.EXPECT().ProcessResponse(gomock.Any(), page1).Return([]models.Resource{p1, p2}, nil),
		wm.EXPECT().NextRequest(gomock.Any()).Return(&models.DownloadRequest{URL: "Patient?page=2", ResourceTypeHint: "Patient"}, nil),
		ds.EXPECT().Download(gomock.Any(), models.DownloadRequest{URL: "Patient?page=2", ResourceTypeHint: "Patient"}).Return(page2, nil),
		wm.EXPECT().ProcessResponse(gomock.Any(), page2).Return([]models.Resource{p3}, nil),
		wm.EXPECT().NextRequest(gomock.Any()).Return(nil, nil),
	)

	states := collectDownload(d)

	require.Len(t, states, 3)
	assert.Equal(t, models.DownloadState{Kind: models.DownloadStarted, Total: 3}, states[0])
	assert.Equal(t, models.DownloadState{Kind: models.DownloadSuccess, Resources: []models.Resource{p1, p2}, Total: 3, Completed: 2}, states[1])
	assert.Equal(t, models.DownloadState{Kind: models.DownloadSuccess, Resources: []models.Resource{p3}, Total: 3, Completed: 3}, states[2])
}

func TestDownloader_SummaryUnavailable(t *testing.T) {
	tests := []struct {
		name  string
		setup func(ds *mock.MockDataSource, wm *mock.MockDownloadWorkManager)
	}{
		{
			name: "no summary urls",
			setup: func(_ *mock.MockDataSource, wm *mock.MockDownloadWorkManager) {
				wm.EXPECT().SummaryRequestURLs(gomock.Any()).Return(nil, nil)
			},
		},
		{
			name: "summary request fails",
			setup: func(ds *mock.MockDataSource, wm *mock.MockDownloadWorkManager) {
				wm.EXPECT().SummaryRequestURLs(gomock.Any()).Return(map[string]string{"Patient": "Patient?_summary=count"}, nil)
				ds.EXPECT().Download(gomock.Any(), gomock.Any()).Return(models.Resource{}, adapter.ErrBadRequest)
			},
		},
		{
			name: "summary without total",
			setup: func(ds *mock.MockDataSource, wm *mock.MockDownloadWorkManager) {
				wm.EXPECT().SummaryRequestURLs(gomock.Any()).Return(map[string]string{"Patient": "Patient?_summary=count"}, nil)
				ds.EXPECT().Download(gomock.Any(), gomock.Any()).Return(mustResource(t, `{"resourceType":"Bundle","type":"searchset"}`), nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ds, wm := newTestDownloader(t)
			tt.setup(ds, wm)
			p1 := mustResource(t, `{"resourceType":"Patient","id":"p1"}`)

			gomock.InOrder(
				wm.EXPECT().NextRequest(gomock.Any()).Return(&models.DownloadRequest{URL: "Patient/p1", ResourceTypeHint: "Patient"}, nil),
				ds.EXPECT().Download(gomock.Any(), models.DownloadRequest{URL: "Patient/p1", ResourceTypeHint: "Patient"}).Return(p1, nil),
				wm.EXPECT().ProcessResponse(gomock.Any(), p1).Return([]models.Resource{p1}, nil),
				wm.EXPECT().NextRequest(gomock.Any()).Return(nil, nil),
			)

			states := collectDownload(d)

			require.Len(t, states, 2)
			assert.Equal(t, models.TotalUnknown, states[0].Total)
			assert.Equal(t, models.TotalUnknown, states[1].Total)
			assert.Equal(t, 1, states[1].Completed)
		})
	}
}

func TestDownloader_FirstErrorStops(t *testing.T) {
	d, ds, wm := newTestDownloader(t)
	netErr := errors.New("connection reset by peer")

	wm.EXPECT().SummaryRequestURLs(gomock.Any()).Return(nil, nil)
	wm.EXPECT().NextRequest(gomock.Any()).Return(&models.DownloadRequest{URL: "Patient", ResourceTypeHint: "Patient"}, nil)
	ds.EXPECT().Download(gomock.Any(), gomock.Any()).Return(models.Resource{}, netErr)

	states := collectDownload(d)

	require.Len(t, states, 2)
	assert.Equal(t, models.DownloadFailure, states[1].Kind)
	assert.Equal(t, "Patient", states[1].Err.ResourceType)
	assert.ErrorIs(t, states[1].Err, netErr)
}

func TestDownloader_ProcessingErrorStops(t *testing.T) {
	d, ds, wm := newTestDownloader(t)
	outcome := mustResource(t, `{"resourceType":"OperationOutcome","issue":[{"severity":"error","diagnostics":"bad search"}]}`)

	wm.EXPECT().SummaryRequestURLs(gomock.Any()).Return(nil, nil)
	wm.EXPECT().NextRequest(gomock.Any()).Return(&models.DownloadRequest{URL: "Observation", ResourceTypeHint: "Observation"}, nil)
	ds.EXPECT().Download(gomock.Any(), gomock.Any()).Return(outcome, nil)
	wm.EXPECT().ProcessResponse(gomock.Any(), outcome).Return(nil, errors.New("bad search"))

	states := collectDownload(d)

	require.Len(t, states, 2)
	assert.Equal(t, models.DownloadFailure, states[1].Kind)
	assert.Equal(t, "Observation", states[1].Err.ResourceType)
}

func TestDownloader_ConsumerStops(t *testing.T) {
	d, ds, wm := newTestDownloader(t)
	p1 := mustResource(t, `{"resourceType":"Patient","id":"p1"}`)

	wm.EXPECT().SummaryRequestURLs(gomock.Any()).Return(nil, nil)
	wm.EXPECT().NextRequest(gomock.Any()).Return(&models.DownloadRequest{URL: "Patient"}, nil).Times(1)
	ds.EXPECT().Download(gomock.Any(), gomock.Any()).Return(p1, nil).Times(1)
	wm.EXPECT().ProcessResponse(gomock.Any(), p1).Return([]models.Resource{p1}, nil)

	for s := range d.Download(context.Background()) {
		if s.Kind == models.DownloadSuccess {
			break
		}
	}
}
