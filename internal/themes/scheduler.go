package themes

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/HerbHall/hostpanel/internal/event"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultSyncSchedule re-resolves once a minute, which bounds how late a
// scheduled preset can start or stop taking effect.
const DefaultSyncSchedule = "@every 1m"

// Scheduler periodically re-resolves the palette so scheduled presets start
// and stop on time. On each run it refreshes the default email theme record
// and publishes TopicPaletteChanged when the active preset differs from the
// previous run.
type Scheduler struct {
	svc    *Service
	bus    event.Publisher
	spec   string
	logger *zap.Logger
	now    func() time.Time

	cron    *cron.Cron
	entryID cron.EntryID
	cancel  context.CancelFunc

	mu      sync.Mutex
	primed  bool
	lastKey string
}

// NewScheduler validates spec (standard cron or "@every" descriptor).
func NewScheduler(svc *Service, bus event.Publisher, spec string, logger *zap.Logger) (*Scheduler, error) {
	if spec == "" {
		spec = DefaultSyncSchedule
	}
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("invalid theme sync schedule %q: %w", spec, err)
	}
	return &Scheduler{
		svc:    svc,
		bus:    bus,
		spec:   spec,
		logger: logger,
		now:    time.Now,
		cron:   cron.New(),
	}, nil
}

// Start runs one sync immediately, then on every schedule tick.
func (s *Scheduler) Start(ctx context.Context) error {
	ctx, s.cancel = context.WithCancel(ctx)

	s.RunOnce(ctx)

	id, err := s.cron.AddFunc(s.spec, func() { s.RunOnce(ctx) })
	if err != nil {
		s.cancel()
		return fmt.Errorf("schedule theme sync: %w", err)
	}
	s.entryID = id
	s.cron.Start()
	s.logger.Info("theme scheduler started", zap.String("schedule", s.spec))
	return nil
}

// Stop cancels pending work and waits for a running sync to finish.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	<-s.cron.Stop().Done()
	s.logger.Info("theme scheduler stopped")
}

// RunOnce performs one sync. Failures are logged; the next tick retries.
func (s *Scheduler) RunOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	now := s.now()

	snap, err := s.svc.Snapshot(ctx, now)
	if err != nil {
		s.logger.Warn("theme sync failed", zap.Error(err))
		return
	}

	if _, err := s.svc.storeEmail(ctx, snap); err != nil && !errors.Is(err, errNoEmailStore) {
		s.logger.Warn("email theme sync failed", zap.Error(err))
	}

	key := snap.ActivePreset.Key

	s.mu.Lock()
	changed := s.primed && key != s.lastKey
	s.primed = true
	s.lastKey = key
	s.mu.Unlock()

	if !changed {
		return
	}

	reason := "preset.activated"
	if key == "" {
		reason = "preset.expired"
	}
	s.logger.Info("active preset changed", zap.String("preset", key), zap.String("reason", reason))
	if s.bus != nil {
		_ = s.bus.Publish(ctx, event.Event{
			Topic:   event.TopicPaletteChanged,
			Source:  "themes",
			Payload: event.PaletteChanged{Reason: reason, PresetKey: key},
		})
	}
}

// ActivePresetKey returns the preset key observed by the last run.
func (s *Scheduler) ActivePresetKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastKey
}
