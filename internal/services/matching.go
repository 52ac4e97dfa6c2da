package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abrezinsky/boutmatch/internal/engine"
	"github.com/abrezinsky/boutmatch/internal/errors"
	"github.com/abrezinsky/boutmatch/internal/logger"
	"github.com/abrezinsky/boutmatch/internal/metrics"
	"github.com/abrezinsky/boutmatch/internal/models"
	"github.com/abrezinsky/boutmatch/internal/repository"
	"github.com/abrezinsky/boutmatch/pkg/scoreboard"
)

// Outcome sources reported to metrics
const (
	sourceAPI        = "api"
	sourceScoreboard = "scoreboard"
)

// Broadcaster defines the interface for pushing match changes to clients
type Broadcaster interface {
	BroadcastBoutsUpdated(result *models.MatchResult)
	BroadcastStandingsUpdated(rows []models.StandingsRow)
}

// MatchingService owns the current match result. Runs, manual pairs and
// outcomes are serialized so every persisted aggregate is complete.
type MatchingService struct {
	log         logger.Logger
	repo        repository.FullRepository
	config      TournamentConfigProvider
	client      scoreboard.Client
	metrics     metrics.Recorder
	broadcaster Broadcaster

	mu sync.RWMutex
}

// NewMatchingService creates a new MatchingService
func NewMatchingService(log logger.Logger, repo repository.FullRepository, config TournamentConfigProvider, client scoreboard.Client, rec metrics.Recorder) *MatchingService {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &MatchingService{log: log, repo: repo, config: config, client: client, metrics: rec}
}

// SetBroadcaster sets the broadcaster for sending updates to clients
func (s *MatchingService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// RunLock returns the lock held while the match result is rewritten
func (s *MatchingService) RunLock() sync.Locker {
	return &s.mu
}

// SyncResult contains the result of pulling outcomes from the scoreboard
type SyncResult struct {
	Fetched   int `json:"fetched"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
	Pending   int `json:"pending"`
	Unknown   int `json:"unknown"`
	Rejected  int `json:"rejected"`
}

// RunMatching partitions the current roster, pairs the main subsets and
// replaces the stored match result with the new one.
func (s *MatchingService) RunMatching(ctx context.Context) (*models.MatchResult, error) {
	s.mu.Lock()
	result, err := s.runLocked(ctx)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	s.broadcastBouts(result)
	s.broadcastStandings(ctx, result.Bouts)
	return result, nil
}

func (s *MatchingService) runLocked(ctx context.Context) (*models.MatchResult, error) {
	start := time.Now()

	cfg, err := s.config.GetTournamentConfig(ctx)
	if err != nil {
		return nil, err
	}
	entrants, err := s.repo.ListEntrants(ctx)
	if err != nil {
		return nil, errors.Internal(err)
	}
	teams, exceptions, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	matched, err := engine.Match(entrants, teams, exceptions, cfg)
	if err != nil {
		return nil, err
	}
	result := &matched
	result.RunID = uuid.NewString()
	if err := s.repo.SaveMatchResult(ctx, *result); err != nil {
		return nil, errors.Internal(err)
	}

	for _, w := range result.Warnings {
		s.log.Warn("matching warning", "run_id", result.RunID, "warning", w)
	}
	elapsed := time.Since(start)
	s.metrics.MatchingRun(len(result.Bouts), len(result.Leftovers), elapsed)
	s.log.Info("matching run complete",
		"run_id", result.RunID,
		"entrants", len(entrants),
		"bouts", len(result.Bouts),
		"leftovers", len(result.Leftovers),
		"nothing_to_do", result.NothingToDo,
		"elapsed", elapsed)
	return result, nil
}

// CurrentResult returns the stored match result. Before the first run it
// returns an empty result with no run id.
func (s *MatchingService) CurrentResult(ctx context.Context) (*models.MatchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return &models.MatchResult{Bouts: []models.Bout{}, Leftovers: []models.Leftover{}}, nil
	}
	return result, nil
}

// load returns nil when matching has never run
func (s *MatchingService) load(ctx context.Context) (*models.MatchResult, error) {
	result, err := s.repo.LoadMatchResult(ctx)
	if err == repository.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Internal(err)
	}
	if result.RunID == "" {
		return nil, nil
	}
	if result.Bouts == nil {
		result.Bouts = []models.Bout{}
	}
	if result.Leftovers == nil {
		result.Leftovers = []models.Leftover{}
	}
	return result, nil
}

// ManualPair turns two leftovers into a bout chosen by an operator.
// A rule violation is returned as *engine.Rejection and changes nothing.
func (s *MatchingService) ManualPair(ctx context.Context, entrantA, entrantB int) (*models.Bout, error) {
	s.mu.Lock()
	result, bout, err := s.manualPairLocked(ctx, entrantA, entrantB)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	s.broadcastBouts(result)
	return bout, nil
}

func (s *MatchingService) manualPairLocked(ctx context.Context, entrantA, entrantB int) (*models.MatchResult, *models.Bout, error) {
	current, err := s.load(ctx)
	if err != nil {
		return nil, nil, err
	}
	if current == nil {
		return nil, nil, ErrNoMatchRun
	}
	teams, exceptions, err := s.snapshot(ctx)
	if err != nil {
		return nil, nil, err
	}

	bout, remaining, err := engine.ValidateManualPair(entrantA, entrantB, current.Leftovers, teams, exceptions, engine.NextSeq(current.Bouts))
	if err != nil {
		var rejection *engine.Rejection
		if stderrors.As(err, &rejection) {
			s.metrics.ManualPair(false, string(rejection.Reason))
			s.log.Info("manual pair rejected", "entrant_a", entrantA, "entrant_b", entrantB, "reason", rejection.Reason)
		}
		return nil, nil, err
	}

	if err := s.repo.ApplyManualPair(ctx, bout, remaining); err != nil {
		return nil, nil, errors.Internal(err)
	}
	s.metrics.ManualPair(true, "")
	s.log.Info("manual pair accepted", "seq", bout.Seq, "entrant_a", entrantA, "entrant_b", entrantB)

	current.Bouts = append(current.Bouts, bout)
	current.Leftovers = remaining
	return current, &bout, nil
}

// RecordOutcome decides the bout numbered seq. Recording over an existing
// outcome replaces it.
func (s *MatchingService) RecordOutcome(ctx context.Context, seq int, outcome models.Outcome, durationSeconds int) (*models.Bout, error) {
	s.mu.Lock()
	bouts, err := s.recordLocked(ctx, seq, outcome, durationSeconds, sourceAPI)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	s.broadcastStandings(ctx, bouts)

	for i := range bouts {
		if bouts[i].Seq == seq {
			return &bouts[i], nil
		}
	}
	return nil, errors.NotFoundf("bout %d not found", seq)
}

// recordLocked applies one outcome and returns the full updated bout list
func (s *MatchingService) recordLocked(ctx context.Context, seq int, outcome models.Outcome, durationSeconds int, source string) ([]models.Bout, error) {
	bouts, err := s.repo.ListBouts(ctx)
	if err != nil {
		return nil, errors.Internal(err)
	}
	updated, err := engine.ApplyOutcome(bouts, seq, outcome, durationSeconds)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateBoutOutcome(ctx, seq, outcome, &durationSeconds); err != nil {
		if err == repository.ErrNotFound {
			return nil, errors.NotFoundf("bout %d not found", seq)
		}
		return nil, errors.Internal(err)
	}
	s.metrics.OutcomeRecorded(string(outcome), source)
	s.log.Info("outcome recorded", "seq", seq, "outcome", outcome, "duration", durationSeconds, "source", source)
	return updated, nil
}

// SyncOutcomes pulls decided outcomes from the scoreboard and records every
// one that differs from what is stored. Rows the engine rejects are counted
// and skipped; only storage failures abort the sync. An empty url falls back
// to the stored scoreboard URL.
func (s *MatchingService) SyncOutcomes(ctx context.Context, url string) (*SyncResult, error) {
	if err := s.useScoreboard(ctx, url); err != nil {
		return nil, err
	}

	results, err := s.client.FetchResults(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to fetch scoreboard results")
	}
	s.log.Info("fetched scoreboard results", "count", len(results))

	s.mu.Lock()
	summary, bouts, err := s.syncLocked(ctx, results)
	s.mu.Unlock()
	if summary != nil && summary.Updated > 0 {
		s.broadcastStandings(ctx, bouts)
	}
	if err != nil {
		return nil, err
	}
	return summary, nil
}

func (s *MatchingService) syncLocked(ctx context.Context, results []scoreboard.Result) (*SyncResult, []models.Bout, error) {
	bouts, err := s.repo.ListBouts(ctx)
	if err != nil {
		return nil, nil, errors.Internal(err)
	}
	bySeq := make(map[int]models.Bout, len(bouts))
	for _, b := range bouts {
		bySeq[b.Seq] = b
	}

	summary := &SyncResult{Fetched: len(results)}
	for _, r := range results {
		b, ok := bySeq[r.Seq]
		if !ok {
			summary.Unknown++
			continue
		}
		if !r.Decided() {
			summary.Pending++
			continue
		}
		outcome := models.Outcome(r.Outcome)
		duration := r.DurationSeconds.Seconds()
		if b.Outcome == outcome && b.DurationSeconds != nil && *b.DurationSeconds == duration {
			summary.Unchanged++
			continue
		}
		updated, err := s.recordLocked(ctx, r.Seq, outcome, duration, sourceScoreboard)
		if errors.Is(err, errors.ErrInternal) {
			return summary, bouts, fmt.Errorf("bout %d: %w", r.Seq, err)
		}
		if err != nil {
			summary.Rejected++
			s.log.Warn("scoreboard result rejected", "seq", r.Seq, "outcome", r.Outcome, "duration", duration, "error", err)
			continue
		}
		bouts = updated
		summary.Updated++
	}
	return summary, bouts, nil
}

// PublishCards sends the current bout list to the scoreboard and returns the
// number of cards sent.
func (s *MatchingService) PublishCards(ctx context.Context, url string) (int, error) {
	if err := s.useScoreboard(ctx, url); err != nil {
		return 0, err
	}
	result, err := s.CurrentResult(ctx)
	if err != nil {
		return 0, err
	}
	if result.RunID == "" {
		return 0, ErrNoMatchRun
	}
	names, err := loadTeamNames(ctx, s.repo)
	if err != nil {
		return 0, err
	}

	cards := make([]scoreboard.Card, len(result.Bouts))
	for i, b := range result.Bouts {
		cards[i] = scoreboard.Card{
			Seq:      b.Seq,
			EntrantA: b.EntrantA.Name,
			TeamA:    names.Name(b.EntrantA.TeamID),
			EntrantB: b.EntrantB.Name,
			TeamB:    names.Name(b.EntrantB.TeamID),
		}
	}
	if err := s.client.PublishCards(ctx, cards); err != nil {
		return 0, errors.Wrap(err, errors.ErrInternal, "failed to publish bout cards")
	}
	s.log.Info("published bout cards", "count", len(cards))
	return len(cards), nil
}

// useScoreboard points the client at url, the stored URL, or whatever the
// client was built with, in that order.
func (s *MatchingService) useScoreboard(ctx context.Context, url string) error {
	if url != "" {
		if err := s.repo.SetSetting(ctx, settingScoreboardURL, url); err != nil {
			return errors.Internal(err)
		}
		s.client.SetBaseURL(url)
		return nil
	}
	stored, err := s.repo.GetSetting(ctx, settingScoreboardURL)
	if err != nil && err != repository.ErrNotFound {
		return errors.Internal(err)
	}
	if stored != "" {
		s.client.SetBaseURL(stored)
		return nil
	}
	if s.client.BaseURL() == "" {
		return ErrScoreboardNotConfigured
	}
	return nil
}

func (s *MatchingService) snapshot(ctx context.Context) (engine.Teams, engine.Exceptions, error) {
	teams, err := s.repo.ListTeams(ctx)
	if err != nil {
		return nil, nil, errors.Internal(err)
	}
	exceptions, err := s.repo.ListExceptions(ctx)
	if err != nil {
		return nil, nil, errors.Internal(err)
	}
	return engine.NewTeams(teams), engine.NewExceptions(exceptions), nil
}

func (s *MatchingService) broadcastBouts(result *models.MatchResult) {
	if s.broadcaster != nil {
		s.broadcaster.BroadcastBoutsUpdated(result)
	}
}

func (s *MatchingService) broadcastStandings(ctx context.Context, bouts []models.Bout) {
	if s.broadcaster == nil {
		return
	}
	teams, err := s.repo.ListTeams(ctx)
	if err != nil {
		s.log.Error("standings broadcast skipped", "error", err)
		return
	}
	cfg, err := s.config.GetTournamentConfig(ctx)
	if err != nil {
		s.log.Error("standings broadcast skipped", "error", err)
		return
	}
	rows := engine.ComputeStandings(bouts, engine.NewTeams(teams), cfg, engine.SortByPoints, engine.Descending)
	s.broadcaster.BroadcastStandingsUpdated(rows)
}
