package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/abrezinsky/boutmatch/internal/errors"
	"github.com/abrezinsky/boutmatch/internal/export"
	"github.com/abrezinsky/boutmatch/internal/logger"
	"github.com/abrezinsky/boutmatch/internal/models"
	"github.com/abrezinsky/boutmatch/internal/repository"
)

// BoutServiceRepository defines the repository methods needed by BoutService
type BoutServiceRepository interface {
	repository.TeamRepository
	repository.MatchRepository
}

// BoutService serves individual bouts and printable bout material
type BoutService struct {
	log      logger.Logger
	repo     BoutServiceRepository
	settings SettingsServicer
}

// NewBoutService creates a new BoutService
func NewBoutService(log logger.Logger, repo BoutServiceRepository, settings SettingsServicer) *BoutService {
	return &BoutService{log: log, repo: repo, settings: settings}
}

// GetBout returns the bout numbered seq
func (s *BoutService) GetBout(ctx context.Context, seq int) (*models.Bout, error) {
	bouts, err := s.repo.ListBouts(ctx)
	if err != nil {
		return nil, errors.Internal(err)
	}
	for i := range bouts {
		if bouts[i].Seq == seq {
			return &bouts[i], nil
		}
	}
	return nil, errors.NotFoundf("bout %d not found", seq)
}

// BoutQR returns a PNG QR code linking to the bout, for printing on bout cards
func (s *BoutService) BoutQR(ctx context.Context, seq int) ([]byte, error) {
	if _, err := s.GetBout(ctx, seq); err != nil {
		return nil, err
	}
	baseURL, err := s.settings.GetBaseURL(ctx)
	if err != nil {
		return nil, errors.Internal(err)
	}
	if baseURL == "" {
		return nil, ErrBaseURLNotConfigured
	}
	boutURL := fmt.Sprintf("%s/api/admin/bouts/%d", strings.TrimSuffix(baseURL, "/"), seq)
	return qrcode.Encode(boutURL, qrcode.Medium, 256)
}

// WriteBoutSheet writes the printable bout sheet for the current match to w
func (s *BoutService) WriteBoutSheet(ctx context.Context, w io.Writer) error {
	result, err := s.repo.LoadMatchResult(ctx)
	if err == repository.ErrNotFound || (err == nil && result.RunID == "") {
		return ErrNoMatchRun
	}
	if err != nil {
		return errors.Internal(err)
	}
	names, err := loadTeamNames(ctx, s.repo)
	if err != nil {
		return err
	}
	return export.WriteBoutSheet(w, *result, names)
}

func loadTeamNames(ctx context.Context, repo repository.TeamRepository) (export.TeamNames, error) {
	teams, err := repo.ListTeams(ctx)
	if err != nil {
		return nil, errors.Internal(err)
	}
	names := make(export.TeamNames, len(teams))
	for _, t := range teams {
		names[t.ID] = t.Name
	}
	return names, nil
}
