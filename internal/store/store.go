package store

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/spacesedan/punchline/internal/clients"
	"github.com/spacesedan/punchline/internal/models"
	"github.com/spacesedan/punchline/internal/persist"
	"github.com/spacesedan/punchline/internal/processing"
)

// ErrSuperseded is returned by a Refresh whose results were discarded because
// a newer Refresh started after it.
var ErrSuperseded = errors.New("refresh superseded by a newer cycle")

type HeadlineFetcher interface {
	FetchHeadlines(ctx context.Context) ([]models.Headline, error)
}

type JokeArchive interface {
	Save(ctx context.Context, batchID string, jokes []models.Joke) error
	Load(ctx context.Context) ([]models.Joke, error)
}

type Publisher interface {
	Publish(ctx context.Context, batch models.JokeBatch) error
}

// Deps are built once at startup. Archive and Publisher may be nil.
type Deps struct {
	Headlines     HeadlineFetcher
	Generator     processing.Generator
	Archive       JokeArchive
	Publisher     Publisher
	ArticlesCount int
}

// Summary describes the batch currently shown.
type Summary struct {
	BatchID   string
	Total     int
	Generated int
	Failed    int
}

type Snapshot struct {
	Headlines       []models.Headline
	Jokes           []models.Joke
	HeadlinesStatus models.Status
	JokesStatus     models.Status
	LastBatch       Summary
}

func (s Snapshot) Loading() bool {
	return s.HeadlinesStatus.Loading || s.JokesStatus.Loading
}

// Idle reports that nothing is loading and neither collection holds an error.
func (s Snapshot) Idle() bool {
	return s.HeadlinesStatus.Idle() && s.JokesStatus.Idle()
}

// Error is the headlines error when set, otherwise the jokes error.
func (s Snapshot) Error() string {
	if s.HeadlinesStatus.Err != "" {
		return s.HeadlinesStatus.Err
	}
	return s.JokesStatus.Err
}

// View is what gets rendered: a feed or an error, never both.
type View struct {
	Loading bool
	Err     string
	Jokes   []models.Joke
	Summary Summary
}

type Store struct {
	deps Deps

	mu        sync.Mutex
	state     Snapshot
	epoch     uint64
	listeners []func(Snapshot)

	// persistMu orders archive writes so an older cycle can never land after
	// a newer one.
	persistMu sync.Mutex
}

func New(deps Deps) *Store {
	return &Store{deps: deps}
}

func (s *Store) Subscribe(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLocked()
}

func (s *Store) View() View {
	snap := s.Snapshot()
	v := View{Loading: snap.Loading(), Err: snap.Error()}
	if v.Err == "" {
		v.Jokes = snap.Jokes
		v.Summary = snap.LastBatch
	}
	return v
}

// Refresh runs one fetch-then-generate cycle. The returned error is the one
// already reflected in state; ErrSuperseded means a newer cycle owns state.
func (s *Store) Refresh(ctx context.Context) error {
	epoch := s.begin()
	slog.Info("[Store] Refresh started", slog.Uint64("epoch", epoch))

	headlines, err := s.deps.Headlines.FetchHeadlines(ctx)
	if err != nil {
		slog.Error("[Store] Failed to fetch headlines",
			slog.Uint64("epoch", epoch),
			slog.String("error", err.Error()))
		if !s.apply(epoch, func(st *Snapshot) {
			st.Headlines = nil
			st.HeadlinesStatus = models.Status{Err: UserMessage(err)}
		}) {
			return ErrSuperseded
		}
		return err
	}

	if n := s.deps.ArticlesCount; n > 0 && len(headlines) > n {
		headlines = headlines[:n]
	}

	if !s.apply(epoch, func(st *Snapshot) {
		st.Headlines = headlines
		st.HeadlinesStatus = models.Status{}
		st.JokesStatus = models.Status{Loading: true}
	}) {
		return ErrSuperseded
	}

	batch, err := processing.GenerateJokes(ctx, s.deps.Generator, headlines)
	if err != nil {
		slog.Error("[Store] Joke generation failed",
			slog.Uint64("epoch", epoch),
			slog.String("error", err.Error()))
		if !s.apply(epoch, func(st *Snapshot) {
			st.Jokes = nil
			st.JokesStatus = models.Status{Err: UserMessage(err)}
			st.LastBatch = Summary{}
		}) {
			return ErrSuperseded
		}
		return err
	}

	if !s.apply(epoch, func(st *Snapshot) {
		st.Jokes = batch.Jokes
		st.JokesStatus = models.Status{}
		st.LastBatch = Summary{
			BatchID:   batch.ID,
			Total:     batch.Total,
			Generated: len(batch.Jokes),
			Failed:    batch.Failed,
		}
	}) {
		return ErrSuperseded
	}

	s.persist(ctx, epoch, batch.ID, batch.Jokes)
	s.publish(ctx, epoch, batch)

	slog.Info("[Store] Refresh complete",
		slog.Uint64("epoch", epoch),
		slog.Int("jokes", len(batch.Jokes)),
		slog.Int("failed", batch.Failed))
	return nil
}

// ClearJokes empties the feed, including the persisted copy.
func (s *Store) ClearJokes() {
	var epoch uint64
	s.update(func(st *Snapshot) {
		st.Jokes = nil
		st.JokesStatus = models.Status{}
		st.LastBatch = Summary{}
	}, &epoch)
	s.persist(context.Background(), epoch, "", []models.Joke{})
}

func (s *Store) ClearError() {
	s.update(func(st *Snapshot) {
		st.HeadlinesStatus.Err = ""
		st.JokesStatus.Err = ""
	}, nil)
}

// Restore loads the persisted jokes. A missing or corrupt record leaves the
// feed empty and is not an error.
func (s *Store) Restore(ctx context.Context) error {
	if s.deps.Archive == nil {
		return nil
	}

	jokes, err := s.deps.Archive.Load(ctx)
	switch {
	case errors.Is(err, persist.ErrNotFound):
		slog.Info("[Store] No persisted jokes found")
		return nil
	case errors.Is(err, persist.ErrCorruptRecord):
		slog.Warn("[Store] Ignoring corrupt persisted jokes", slog.String("error", err.Error()))
		return nil
	case err != nil:
		slog.Error("[Store] Failed to load persisted jokes", slog.String("error", err.Error()))
		return err
	}

	s.update(func(st *Snapshot) {
		st.Jokes = jokes
		st.JokesStatus = models.Status{}
		st.LastBatch = Summary{}
	}, nil)

	slog.Info("[Store] Restored persisted jokes", slog.Int("count", len(jokes)))
	return nil
}

func (s *Store) begin() uint64 {
	var epoch uint64
	s.update(func(st *Snapshot) {
		s.epoch++
		epoch = s.epoch
		st.Jokes = nil
		st.LastBatch = Summary{}
		st.HeadlinesStatus = models.Status{Loading: true}
		st.JokesStatus = models.Status{}
	}, nil)
	return epoch
}

// apply mutates state only while epoch is still the newest cycle.
func (s *Store) apply(epoch uint64, fn func(*Snapshot)) bool {
	s.mu.Lock()
	if epoch != s.epoch {
		current := s.epoch
		s.mu.Unlock()
		slog.Warn("[Store] Discarding result of superseded refresh",
			slog.Uint64("epoch", epoch),
			slog.Uint64("current_epoch", current))
		return false
	}
	fn(&s.state)
	snap, listeners := s.copyLocked(), slices.Clone(s.listeners)
	s.mu.Unlock()

	notify(listeners, snap)
	return true
}

func (s *Store) update(fn func(*Snapshot), epoch *uint64) {
	s.mu.Lock()
	fn(&s.state)
	if epoch != nil {
		*epoch = s.epoch
	}
	snap, listeners := s.copyLocked(), slices.Clone(s.listeners)
	s.mu.Unlock()

	notify(listeners, snap)
}

func (s *Store) isCurrent(epoch uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return epoch == s.epoch
}

func (s *Store) persist(ctx context.Context, epoch uint64, batchID string, jokes []models.Joke) {
	if s.deps.Archive == nil {
		return
	}

	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	if !s.isCurrent(epoch) {
		slog.Warn("[Store] Skipping persistence of superseded jokes", slog.Uint64("epoch", epoch))
		return
	}
	if err := s.deps.Archive.Save(context.WithoutCancel(ctx), batchID, jokes); err != nil {
		slog.Error("[Store] Failed to persist jokes", slog.String("error", err.Error()))
	}
}

func (s *Store) publish(ctx context.Context, epoch uint64, batch models.JokeBatch) {
	if s.deps.Publisher == nil || !s.isCurrent(epoch) {
		return
	}
	if err := s.deps.Publisher.Publish(ctx, batch); err != nil {
		slog.Error("[Store] Failed to publish joke batch",
			slog.String("batch_id", batch.ID),
			slog.String("error", err.Error()))
	}
}

func (s *Store) copyLocked() Snapshot {
	snap := s.state
	snap.Headlines = slices.Clone(s.state.Headlines)
	snap.Jokes = slices.Clone(s.state.Jokes)
	return snap
}

func notify(listeners []func(Snapshot), snap Snapshot) {
	for _, fn := range listeners {
		fn(snap)
	}
}

// UserMessage is the single line shown for a failed refresh.
func UserMessage(err error) string {
	var batchErr *processing.BatchError
	if errors.As(err, &batchErr) {
		switch batchErr.Kind {
		case processing.KindNoInput:
			return "No articles provided for funny fact generation"
		default:
			return "Failed to generate any funny facts"
		}
	}
	return clients.UserMessage(err)
}
