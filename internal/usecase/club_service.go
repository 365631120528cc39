package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/badminton-stats/internal/domain/club"
	"github.com/riskibarqy/badminton-stats/internal/domain/player"
)

const defaultClubSearchLimit = 25

type ClubService struct {
	clubs   club.Repository
	players player.Repository
}

func NewClubService(clubs club.Repository, players player.Repository) *ClubService {
	return &ClubService{
		clubs:   clubs,
		players: players,
	}
}

func (s *ClubService) Search(ctx context.Context, name string) ([]club.Club, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ClubService.Search")
	defer span.End()

	query := NameQuery(name)
	if query == "" {
		return nil, fmt.Errorf("%w: club name is required", ErrInvalidInput)
	}

	clubs, err := s.clubs.Search(ctx, query, defaultClubSearchLimit)
	if err != nil {
		recordSpanError(span, err)
		return nil, fmt.Errorf("search clubs: %w", err)
	}
	return clubs, nil
}

func (s *ClubService) Get(ctx context.Context, clubID int64) (club.Club, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ClubService.Get")
	defer span.End()

	if clubID <= 0 {
		return club.Club{}, fmt.Errorf("%w: club id must be positive", ErrInvalidInput)
	}

	c, exists, err := s.clubs.GetByID(ctx, clubID)
	if err != nil {
		recordSpanError(span, err)
		return club.Club{}, fmt.Errorf("get club: %w", err)
	}
	if !exists {
		return club.Club{}, fmt.Errorf("%w: club=%d", ErrNotFound, clubID)
	}
	c.Name = strings.TrimSpace(c.Name)
	return c, nil
}

// ListPlayers returns the club's stored players ordered by name.
func (s *ClubService) ListPlayers(ctx context.Context, clubID int64) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ClubService.ListPlayers")
	defer span.End()

	if _, err := s.Get(ctx, clubID); err != nil {
		return nil, err
	}

	players, err := s.players.ListByClub(ctx, clubID)
	if err != nil {
		recordSpanError(span, err)
		return nil, fmt.Errorf("list players by club: %w", err)
	}
	for i := range players {
		players[i] = players[i].Normalized()
	}
	return players, nil
}
