// Package pipeline drives one end-to-end vacation creation: load photos,
// upload them, generate the itinerary, reconcile the response, and
// optionally persist the result. A single driver goroutine owns the run —
// stages return their results to it, and it alone advances state and
// progress, so out-of-order progress writes are impossible by construction.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/ekaravadi/roam/client/internal/api"
	"github.com/ekaravadi/roam/client/internal/domain"
	"github.com/ekaravadi/roam/client/internal/media"
	"github.com/ekaravadi/roam/client/internal/reconcile"
)

// ErrNoPhotos is returned when no photo in the batch could be loaded.
// It is raised before any network call — there is nothing to send.
var ErrNoPhotos = errors.New("no photos could be loaded")

// ErrBusy is returned by Run when a run is already in flight on this Runner.
// The pipeline supports exactly one run at a time, mirroring the UI that
// disables its create button while an upload is in progress.
var ErrBusy = errors.New("a pipeline run is already in progress")

// State is the pipeline's position in one run.
type State int32

const (
	StateIdle State = iota
	StateLoadingMedia
	StateUploadingPhotos
	StateGeneratingItinerary
	StateSucceeded
	StateFailed
)

// String returns the state name for logs.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoadingMedia:
		return "loading_media"
	case StateUploadingPhotos:
		return "uploading_photos"
	case StateGeneratingItinerary:
		return "generating_itinerary"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Progress phase boundaries. Loading owns the first 30%, the upload request
// the next 20%, itinerary generation the bulk after that, and the final 10%
// covers reconciliation and optional persistence.
const (
	loadPhaseEnd     = 0.30
	uploadPhaseEnd   = 0.50
	generatePhaseEnd = 0.90
)

// MediaLoader loads photo files and their metadata. Satisfied by *media.Loader.
type MediaLoader interface {
	Load(ctx context.Context, paths []string, onItem func(done, total int)) ([]media.Payload, error)
}

// Uploader performs the multipart photo upload. Satisfied by *api.Client.
type Uploader interface {
	UploadPhotos(ctx context.Context, title string, photos []media.Payload) ([]api.UploadedPhoto, error)
}

// Generator performs the AI itinerary call. Satisfied by *api.Client.
type Generator interface {
	GenerateItinerary(ctx context.Context, title string, photos []api.UploadedPhoto) (api.RawVacation, error)
}

// Saver persists a reconciled vacation. Satisfied by the Postgres store;
// optional — a nil Saver means the caller keeps the result in memory only.
type Saver interface {
	Save(ctx context.Context, v domain.Vacation) error
}

// Runner executes pipeline runs. Construct one per upload surface; its
// in-flight guard is what keeps concurrent runs out.
type Runner struct {
	loader    MediaLoader
	uploader  Uploader
	generator Generator
	saver     Saver

	progress *Progress
	state    atomic.Int32
	running  atomic.Bool
	logger   *slog.Logger
}

// NewRunner constructs a Runner. loader, uploader, and generator are
// required; saver may be nil. onProgress, if non-nil, observes every
// progress change from the driver goroutine.
func NewRunner(loader MediaLoader, uploader Uploader, generator Generator, saver Saver,
	onProgress func(float64), logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		loader:    loader,
		uploader:  uploader,
		generator: generator,
		saver:     saver,
		progress:  NewProgress(onProgress),
		logger:    logger,
	}
}

// State returns the pipeline's current state.
func (r *Runner) State() State {
	return State(r.state.Load())
}

// Progress returns the current progress value in [0, 1].
func (r *Runner) Progress() float64 {
	return r.progress.Value()
}

// Run executes one full pipeline run and returns the reconciled vacation.
//
// Failures are terminal for the run: no stage retries, progress is left
// wherever it got to, and the Runner ends in StateFailed. The caller decides
// whether to surface the error and re-invoke from scratch. Cancellation is
// cooperative — ctx is checked between stages and passed into each one.
func (r *Runner) Run(ctx context.Context, title string, paths []string) (domain.Vacation, error) {
	if !r.running.CompareAndSwap(false, true) {
		return domain.Vacation{}, fmt.Errorf("pipeline.Runner.Run: %w", ErrBusy)
	}
	defer r.running.Store(false)

	r.progress.reset()

	if strings.TrimSpace(title) == "" {
		return r.fail(fmt.Errorf("pipeline.Runner.Run: %w: title is required", domain.ErrValidation))
	}
	if len(paths) == 0 {
		return r.fail(fmt.Errorf("pipeline.Runner.Run: %w", ErrNoPhotos))
	}

	// --- Stage 1: load media ---------------------------------------------
	r.setState(StateLoadingMedia)
	payloads, err := r.loader.Load(ctx, paths, func(done, total int) {
		r.progress.set(loadPhaseEnd * float64(done) / float64(total))
	})
	if err != nil {
		return r.fail(fmt.Errorf("pipeline.Runner.Run: load media: %w", err))
	}
	if len(payloads) == 0 {
		return r.fail(fmt.Errorf("pipeline.Runner.Run: %w", ErrNoPhotos))
	}
	r.progress.set(loadPhaseEnd)

	// --- Stage 2: upload --------------------------------------------------
	if err := ctx.Err(); err != nil {
		return r.fail(fmt.Errorf("pipeline.Runner.Run: %w", err))
	}
	r.setState(StateUploadingPhotos)
	descriptors, err := r.uploader.UploadPhotos(ctx, title, payloads)
	if err != nil {
		return r.fail(fmt.Errorf("pipeline.Runner.Run: upload: %w", err))
	}
	r.progress.set(uploadPhaseEnd)

	// --- Stage 3: generate itinerary --------------------------------------
	if err := ctx.Err(); err != nil {
		return r.fail(fmt.Errorf("pipeline.Runner.Run: %w", err))
	}
	r.setState(StateGeneratingItinerary)
	raw, err := r.generator.GenerateItinerary(ctx, title, descriptors)
	if err != nil {
		return r.fail(fmt.Errorf("pipeline.Runner.Run: generate itinerary: %w", err))
	}
	r.progress.set(generatePhaseEnd)

	// --- Stage 4: reconcile and persist -----------------------------------
	vacation := reconcile.Vacation(raw)
	reconcile.AttachPhotos(&vacation, descriptors)

	if r.saver != nil {
		if err := ctx.Err(); err != nil {
			return r.fail(fmt.Errorf("pipeline.Runner.Run: %w", err))
		}
		if err := r.saver.Save(ctx, vacation); err != nil {
			return r.fail(fmt.Errorf("pipeline.Runner.Run: save: %w", err))
		}
	}

	r.progress.set(1.0)
	r.setState(StateSucceeded)
	r.logger.Info("pipeline run succeeded",
		"vacation_id", vacation.ID, "locations", len(vacation.Locations))
	return vacation, nil
}

// fail records the terminal failure state and passes the error through.
// Progress is deliberately left where it was — resetting it mid-failure
// would make the UI bar jump backwards.
func (r *Runner) fail(err error) (domain.Vacation, error) {
	r.setState(StateFailed)
	r.logger.Error("pipeline run failed", "error", err)
	return domain.Vacation{}, err
}

func (r *Runner) setState(s State) {
	r.state.Store(int32(s))
	r.logger.Debug("pipeline state", "state", s.String())
}
