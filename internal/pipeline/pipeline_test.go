package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekaravadi/roam/client/internal/api"
	"github.com/ekaravadi/roam/client/internal/domain"
	"github.com/ekaravadi/roam/client/internal/media"
	"github.com/ekaravadi/roam/client/internal/pipeline"
)

// Test doubles in the local style: function fields, set only what the test needs.

type mockLoader struct {
	load func(ctx context.Context, paths []string, onItem func(done, total int)) ([]media.Payload, error)
}

func (m *mockLoader) Load(ctx context.Context, paths []string, onItem func(done, total int)) ([]media.Payload, error) {
	return m.load(ctx, paths, onItem)
}

type mockUploader struct {
	upload func(ctx context.Context, title string, photos []media.Payload) ([]api.UploadedPhoto, error)
}

func (m *mockUploader) UploadPhotos(ctx context.Context, title string, photos []media.Payload) ([]api.UploadedPhoto, error) {
	return m.upload(ctx, title, photos)
}

type mockGenerator struct {
	generate func(ctx context.Context, title string, photos []api.UploadedPhoto) (api.RawVacation, error)
}

func (m *mockGenerator) GenerateItinerary(ctx context.Context, title string, photos []api.UploadedPhoto) (api.RawVacation, error) {
	return m.generate(ctx, title, photos)
}

type mockSaver struct {
	save func(ctx context.Context, v domain.Vacation) error
}

func (m *mockSaver) Save(ctx context.Context, v domain.Vacation) error {
	return m.save(ctx, v)
}

var (
	_ pipeline.MediaLoader = (*mockLoader)(nil)
	_ pipeline.Uploader    = (*mockUploader)(nil)
	_ pipeline.Generator   = (*mockGenerator)(nil)
	_ pipeline.Saver       = (*mockSaver)(nil)
)

// ---- helpers ---------------------------------------------------------------

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func strPtr(s string) *string { return &s }

// happyStages returns doubles that drive a successful run: one photo, one
// location near the photo's coordinate.
func happyStages() (*mockLoader, *mockUploader, *mockGenerator) {
	loader := &mockLoader{
		load: func(_ context.Context, paths []string, onItem func(done, total int)) ([]media.Payload, error) {
			for i := range paths {
				if onItem != nil {
					onItem(i+1, len(paths))
				}
			}
			return []media.Payload{{Bytes: []byte("img")}}, nil
		},
	}
	uploader := &mockUploader{
		upload: func(_ context.Context, _ string, _ []media.Payload) ([]api.UploadedPhoto, error) {
			return []api.UploadedPhoto{
				{
					ID:       "8c5e9a1e-71c4-4f6b-9f38-0a54b8d2c0de",
					ImageURL: "https://cdn/p1.jpg",
					Location: &api.Coordinates{Latitude: 48.8590, Longitude: 2.2950},
				},
			}, nil
		},
	}
	generator := &mockGenerator{
		generate: func(_ context.Context, title string, _ []api.UploadedPhoto) (api.RawVacation, error) {
			return api.RawVacation{
				ID:        "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee",
				Title:     title,
				StartDate: strPtr("2025-07-14T00:00:00Z"),
				Locations: []api.RawLocation{
					{
						Name:       "Eiffel Tower",
						Coordinate: &api.Coordinates{Latitude: 48.8584, Longitude: 2.2945},
					},
				},
			}, nil
		},
	}
	return loader, uploader, generator
}

// ---- Run -------------------------------------------------------------------

func TestRun_success(t *testing.T) {
	loader, uploader, generator := happyStages()

	var saved *domain.Vacation
	saver := &mockSaver{save: func(_ context.Context, v domain.Vacation) error {
		saved = &v
		return nil
	}}

	var progress []float64
	r := pipeline.NewRunner(loader, uploader, generator, saver, func(p float64) {
		progress = append(progress, p)
	}, discardLogger())

	v, err := r.Run(context.Background(), "Paris Trip", []string{"a.jpg"})

	require.NoError(t, err)
	assert.Equal(t, pipeline.StateSucceeded, r.State())
	assert.Equal(t, "Paris Trip", v.Title)
	require.Len(t, v.Locations, 1)
	// Photo upload descriptors are re-attached to the nearby location.
	assert.Len(t, v.Locations[0].Photos, 1)

	require.NotNil(t, saved)
	assert.Equal(t, v.ID, saved.ID)

	// Progress only moves forward and finishes at exactly 1.0.
	require.NotEmpty(t, progress)
	for i := 1; i < len(progress); i++ {
		assert.GreaterOrEqual(t, progress[i], progress[i-1])
	}
	assert.Equal(t, 1.0, progress[len(progress)-1])
	assert.Equal(t, 1.0, r.Progress())
}

func TestRun_nilSaver(t *testing.T) {
	loader, uploader, generator := happyStages()
	r := pipeline.NewRunner(loader, uploader, generator, nil, nil, discardLogger())

	_, err := r.Run(context.Background(), "t", []string{"a.jpg"})

	require.NoError(t, err)
	assert.Equal(t, pipeline.StateSucceeded, r.State())
}

func TestRun_blankTitle(t *testing.T) {
	loader, uploader, generator := happyStages()
	r := pipeline.NewRunner(loader, uploader, generator, nil, nil, discardLogger())

	_, err := r.Run(context.Background(), "   ", []string{"a.jpg"})

	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, pipeline.StateFailed, r.State())
}

func TestRun_noPaths(t *testing.T) {
	loader, uploader, generator := happyStages()
	r := pipeline.NewRunner(loader, uploader, generator, nil, nil, discardLogger())

	_, err := r.Run(context.Background(), "t", nil)

	require.ErrorIs(t, err, pipeline.ErrNoPhotos)
	assert.Equal(t, pipeline.StateFailed, r.State())
}

// TestRun_allLoadsFailed verifies an empty load result stops the run before
// any network call.
func TestRun_allLoadsFailed(t *testing.T) {
	loader := &mockLoader{
		load: func(_ context.Context, _ []string, _ func(int, int)) ([]media.Payload, error) {
			return nil, nil
		},
	}
	uploaderCalled := false
	uploader := &mockUploader{
		upload: func(_ context.Context, _ string, _ []media.Payload) ([]api.UploadedPhoto, error) {
			uploaderCalled = true
			return nil, nil
		},
	}
	_, _, generator := happyStages()
	r := pipeline.NewRunner(loader, uploader, generator, nil, nil, discardLogger())

	_, err := r.Run(context.Background(), "t", []string{"a.jpg", "b.jpg"})

	require.ErrorIs(t, err, pipeline.ErrNoPhotos)
	assert.False(t, uploaderCalled)
}

// TestRun_uploadFailureLeavesProgress verifies a failed stage ends the run in
// StateFailed with progress left where the failure happened, not reset.
func TestRun_uploadFailureLeavesProgress(t *testing.T) {
	loader, _, generator := happyStages()
	uploader := &mockUploader{
		upload: func(_ context.Context, _ string, _ []media.Payload) ([]api.UploadedPhoto, error) {
			return nil, api.ErrUnauthorized
		},
	}
	r := pipeline.NewRunner(loader, uploader, generator, nil, nil, discardLogger())

	_, err := r.Run(context.Background(), "t", []string{"a.jpg"})

	require.ErrorIs(t, err, api.ErrUnauthorized)
	assert.Equal(t, pipeline.StateFailed, r.State())
	assert.Equal(t, 0.30, r.Progress())
}

func TestRun_generateFailure(t *testing.T) {
	loader, uploader, _ := happyStages()
	wantErr := &api.StatusError{StatusCode: 502, Body: "bad gateway"}
	generator := &mockGenerator{
		generate: func(_ context.Context, _ string, _ []api.UploadedPhoto) (api.RawVacation, error) {
			return api.RawVacation{}, wantErr
		},
	}
	r := pipeline.NewRunner(loader, uploader, generator, nil, nil, discardLogger())

	_, err := r.Run(context.Background(), "t", []string{"a.jpg"})

	var statusErr *api.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, pipeline.StateFailed, r.State())
	assert.Equal(t, 0.50, r.Progress())
}

func TestRun_saveFailure(t *testing.T) {
	loader, uploader, generator := happyStages()
	saver := &mockSaver{save: func(_ context.Context, _ domain.Vacation) error {
		return errors.New("disk full")
	}}
	r := pipeline.NewRunner(loader, uploader, generator, saver, nil, discardLogger())

	_, err := r.Run(context.Background(), "t", []string{"a.jpg"})

	require.ErrorContains(t, err, "disk full")
	assert.Equal(t, pipeline.StateFailed, r.State())
}

// TestRun_secondRunWhileBusy verifies the single-run guard: a Run issued
// while another is in flight fails fast with ErrBusy and does not disturb the
// first run.
func TestRun_secondRunWhileBusy(t *testing.T) {
	block := make(chan struct{})
	started := make(chan struct{})

	loader, _, generator := happyStages()
	uploader := &mockUploader{
		upload: func(_ context.Context, _ string, _ []media.Payload) ([]api.UploadedPhoto, error) {
			close(started)
			<-block
			return []api.UploadedPhoto{{ID: "p", ImageURL: "u"}}, nil
		},
	}
	r := pipeline.NewRunner(loader, uploader, generator, nil, nil, discardLogger())

	var wg sync.WaitGroup
	wg.Add(1)
	var firstErr error
	go func() {
		defer wg.Done()
		_, firstErr = r.Run(context.Background(), "t", []string{"a.jpg"})
	}()

	<-started
	_, err := r.Run(context.Background(), "t", []string{"a.jpg"})
	require.ErrorIs(t, err, pipeline.ErrBusy)

	close(block)
	wg.Wait()
	require.NoError(t, firstErr)
	assert.Equal(t, pipeline.StateSucceeded, r.State())
}

// TestRun_cancelledBetweenStages verifies cooperative cancellation: a context
// cancelled after loading stops the run before the upload goes out.
func TestRun_cancelledBetweenStages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	loader := &mockLoader{
		load: func(_ context.Context, _ []string, _ func(int, int)) ([]media.Payload, error) {
			cancel()
			return []media.Payload{{Bytes: []byte("img")}}, nil
		},
	}
	uploaderCalled := false
	uploader := &mockUploader{
		upload: func(_ context.Context, _ string, _ []media.Payload) ([]api.UploadedPhoto, error) {
			uploaderCalled = true
			return nil, nil
		},
	}
	_, _, generator := happyStages()
	r := pipeline.NewRunner(loader, uploader, generator, nil, nil, discardLogger())

	_, err := r.Run(ctx, "t", []string{"a.jpg"})

	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, uploaderCalled)
	assert.Equal(t, pipeline.StateFailed, r.State())
}

// TestRun_reusableAfterFailure verifies a Runner can start a fresh run after
// a failed one, with progress reset to zero at the start.
func TestRun_reusableAfterFailure(t *testing.T) {
	loader, uploader, generator := happyStages()
	r := pipeline.NewRunner(loader, uploader, generator, nil, nil, discardLogger())

	_, err := r.Run(context.Background(), "", []string{"a.jpg"})
	require.Error(t, err)

	_, err = r.Run(context.Background(), "t", []string{"a.jpg"})
	require.NoError(t, err)
	assert.Equal(t, pipeline.StateSucceeded, r.State())
	assert.Equal(t, 1.0, r.Progress())
}

func TestState_strings(t *testing.T) {
	assert.Equal(t, "idle", pipeline.StateIdle.String())
	assert.Equal(t, "loading_media", pipeline.StateLoadingMedia.String())
	assert.Equal(t, "uploading_photos", pipeline.StateUploadingPhotos.String())
	assert.Equal(t, "generating_itinerary", pipeline.StateGeneratingItinerary.String())
	assert.Equal(t, "succeeded", pipeline.StateSucceeded.String())
	assert.Equal(t, "failed", pipeline.StateFailed.String())
}
