package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/badminton-stats/internal/domain/match"
	"github.com/riskibarqy/badminton-stats/internal/domain/player"
	"github.com/riskibarqy/badminton-stats/internal/domain/standing"
	"github.com/riskibarqy/badminton-stats/internal/domain/tournament"
	matchmock "github.com/riskibarqy/badminton-stats/internal/mocks/domain/match"
	playermock "github.com/riskibarqy/badminton-stats/internal/mocks/domain/player"
	standingmock "github.com/riskibarqy/badminton-stats/internal/mocks/domain/standing"
	tournamentmock "github.com/riskibarqy/badminton-stats/internal/mocks/domain/tournament"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const subjectID int64 = 76749

type profileFixture struct {
	playerRepo     *playermock.Repository
	standingRepo   *standingmock.Repository
	matchRepo      *matchmock.Repository
	tournamentRepo *tournamentmock.Repository
	gateway        *fakeGateway
	submitter      *inlineSubmitter
	discoverer     *recordingDiscoverer
	service        *ProfileService
	now            time.Time
}

func newProfileFixture(t *testing.T) *profileFixture {
	t.Helper()

	f := &profileFixture{
		playerRepo:     playermock.NewRepository(t),
		standingRepo:   standingmock.NewRepository(t),
		matchRepo:      matchmock.NewRepository(t),
		tournamentRepo: tournamentmock.NewRepository(t),
		gateway:        &fakeGateway{performance: map[int64]Performance{}, matches: map[int64]match.TeamMatch{}},
		submitter:      &inlineSubmitter{},
		discoverer:     &recordingDiscoverer{},
		now:            time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}
	persister := NewPersister(nil, f.playerRepo, f.matchRepo, f.tournamentRepo, f.submitter, nil)
	f.service = NewProfileService(
		ProfileServiceConfig{StandingsFreshness: 24 * time.Hour},
		f.playerRepo,
		f.standingRepo,
		f.matchRepo,
		f.gateway,
		NewClubAttributionService(f.playerRepo, nil),
		persister,
		f.discoverer,
		nil,
	)
	f.service.now = func() time.Time { return f.now }
	return f
}

func ptrTime(v time.Time) *time.Time { return &v }

func ptrInt(v int) *int { return &v }

func TestProfileService_BuildProfile(t *testing.T) {
	t.Parallel()

	f := newProfileFixture(t)
	ctx := context.Background()

	subject := player.Player{ID: subjectID, Name: "Anders Jensen ", ClubID: 1666, ClubName: "Vejlby IK"}
	storedDate := ptrTime(time.Date(2025, 10, 4, 13, 0, 0, 0, time.UTC))
	freshDate := ptrTime(time.Date(2025, 11, 8, 10, 0, 0, 0, time.UTC))

	f.gateway.performance[subjectID] = Performance{
		SeasonStartPoints: 1450,
		Standings:         []standing.Standing{{Category: "Rangliste Single", Points: ptrInt(1500), Rank: 12}},
		Matches: []match.MatchMeta{
			{ID: 100, Ordinal: 1, Date: storedDate, Division: " Serie 1 ", Team1: "Vejlby IK 2", Team2: "Skovshoved IF"},
			{ID: 200, Ordinal: 2, Date: freshDate, Division: "Serie 1", Team1: "Vejlby IK 2", Team2: "Højbjerg 3"},
		},
		Tournaments: []tournament.Tournament{
			{ID: 11, HostClub: "Vejlby IK", Level: "B", Date: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)},
			{ID: 12, HostClub: "Højbjerg", Level: "A", Date: time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)},
		},
	}
	f.gateway.matches[200] = match.TeamMatch{
		ID:       200,
		Date:     freshDate,
		Division: "Serie 1",
		HomeTeam: "Højbjerg 3",
		AwayTeam: "Vejlby IK 2",
		Games: []match.Game{
			{Date: freshDate, Category: "1. HS", HomePlayer1: "Emil Dahl", AwayPlayer1: "Anders Jensen", Sets: []match.Set{{Number: 1, HomePoints: 15, AwayPoints: 21}, {Number: 2, HomePoints: 17, AwayPoints: 21}}},
			{Date: freshDate, Category: "1. DS", HomePlayer1: "Ida Berg", AwayPlayer1: "Sofie Lund", Sets: []match.Set{{Number: 1, HomePoints: 21, AwayPoints: 10}, {Number: 2, HomePoints: 21, AwayPoints: 12}}},
		},
	}

	f.playerRepo.On("GetByID", mock.Anything, subjectID).Return(subject, true, nil).Once()

	// Fresh standings in the store mean the performance standings are never written.
	f.standingRepo.
		On("ListUpdatedSince", mock.Anything, subjectID, f.now.Add(-24*time.Hour)).
		Return([]standing.Standing{
			{PlayerID: subjectID, Category: "Rangliste Double", Rank: 3},
			{PlayerID: subjectID, Category: "Rangliste Single", Rank: 12},
			{PlayerID: subjectID, Category: "Rangliste Mix", Rank: standing.Unranked},
		}, nil).
		Once()

	f.matchRepo.
		On("ListGamesByMatch", mock.Anything, int64(100)).
		Return([]match.Game{
			{Date: storedDate, Category: "1. HS", HomePlayer1: "Anders Jensen", AwayPlayer1: "Jonas Holm"},
			{Date: storedDate, Category: "1. MD", HomePlayer1: "Mads Kjær", HomePlayer2: "Ida Lund", AwayPlayer1: "Oskar Ravn", AwayPlayer2: "Freja Bo"},
		}, nil).
		Once()
	f.matchRepo.On("ListGamesByMatch", mock.Anything, int64(200)).Return(nil, nil).Once()
	f.matchRepo.On("UpsertGame", mock.Anything, int64(200), mock.Anything).Return(nil).Twice()

	f.playerRepo.
		On("ListByNames", mock.Anything, mock.Anything).
		Return([]player.Player{{ID: 5, Name: "x", ClubName: "Skovshoved IF"}}, nil)

	f.tournamentRepo.
		On("Upsert", mock.Anything, mock.MatchedBy(func(items []tournament.Tournament) bool {
			return len(items) == 2 && items[0].PlayerID == subjectID && items[1].PlayerID == subjectID
		})).
		Return(nil).
		Once()

	profile, err := f.service.BuildProfile(ctx, subjectID)
	require.NoError(t, err)

	require.Equal(t, "Anders Jensen", profile.Player.Name)
	require.Equal(t, 1450, profile.SeasonStartPoints)

	require.Len(t, profile.Standings, 3)
	require.Equal(t, "Rangliste Single", profile.Standings[0].Category)
	require.Equal(t, "Rangliste Double", profile.Standings[2].Category)

	require.Len(t, profile.Matches, 2)
	fresh, stored := profile.Matches[0], profile.Matches[1]
	require.Equal(t, int64(200), fresh.ID)
	require.Equal(t, int64(100), stored.ID)

	// Stored games come back in federation category order.
	require.Equal(t, "1. MD", stored.Games[0].Category)
	require.Equal(t, "Serie 1", stored.Division)
	require.Equal(t, "Vejlby IK 2", stored.HomeTeam)
	require.Equal(t, "Vejlby IK", stored.HomeClub)
	require.Equal(t, "Skovshoved IF", stored.AwayClub)

	// The subject played away in the fresh match, so the teams swap.
	require.Equal(t, "Højbjerg 3", fresh.HomeTeam)
	require.Equal(t, "Vejlby IK 2", fresh.AwayTeam)
	require.Equal(t, "Vejlby IK", fresh.AwayClub)
	require.Equal(t, "Skovshoved IF", fresh.HomeClub)
	require.Equal(t, "1. HS", fresh.Games[0].Category)

	require.Len(t, profile.Games, 2)
	require.Equal(t, freshDate, profile.Games[0].Date)

	require.Len(t, profile.Tournaments, 2)
	require.Equal(t, int64(12), profile.Tournaments[0].ID)

	require.Equal(t, []int64{200}, f.gateway.matchCalls)
	require.Equal(t, []int64{200}, f.discoverer.matches)
	require.Equal(t, []string{"Anders Jensen"}, f.discoverer.excluded[0])
}

func TestProfileService_StaleStandingsAreRefreshed(t *testing.T) {
	t.Parallel()

	f := newProfileFixture(t)
	f.gateway.performance[subjectID] = Performance{
		SeasonStartPoints: NoSeasonStartPoints,
		Standings: []standing.Standing{
			{Category: "Rangliste Double", Tier: "A", Points: ptrInt(900), Matches: ptrInt(8), Rank: 40},
			{Category: "Rangliste Single", Tier: "A", Rank: standing.Unranked},
		},
	}

	f.playerRepo.On("GetByID", mock.Anything, subjectID).Return(player.Player{ID: subjectID, Name: "Anders Jensen"}, true, nil).Once()
	f.standingRepo.On("ListUpdatedSince", mock.Anything, subjectID, mock.Anything).Return(nil, nil).Once()
	f.standingRepo.
		On("Upsert", mock.Anything, mock.MatchedBy(func(items []standing.Standing) bool {
			if len(items) != 2 {
				return false
			}
			for _, it := range items {
				if it.PlayerID != subjectID || !it.UpdatedAt.Equal(f.now) {
					return false
				}
			}
			return true
		})).
		Return(nil).
		Once()

	profile, err := f.service.BuildProfile(context.Background(), subjectID)
	require.NoError(t, err)
	require.Len(t, profile.Standings, 2)
	require.Equal(t, "Rangliste Single", profile.Standings[0].Category)
	require.Empty(t, profile.Matches)
	require.Empty(t, profile.Tournaments)
}

func TestProfileService_PlayerFromFederationIsPersisted(t *testing.T) {
	t.Parallel()

	f := newProfileFixture(t)
	f.gateway.players = map[int64]player.Player{subjectID: {ID: subjectID, Name: " Anders Jensen", ClubID: 0}}
	f.gateway.performance[subjectID] = Performance{SeasonStartPoints: NoSeasonStartPoints}

	f.playerRepo.On("GetByID", mock.Anything, subjectID).Return(player.Player{}, false, nil).Once()
	f.standingRepo.On("ListUpdatedSince", mock.Anything, subjectID, mock.Anything).Return(nil, nil).Once()

	profile, err := f.service.BuildProfile(context.Background(), subjectID)
	require.NoError(t, err)
	require.Equal(t, "Anders Jensen", profile.Player.Name)
	require.Empty(t, f.submitter.names, "players without a club are not persisted")
}

func TestProfileService_NotFound(t *testing.T) {
	t.Parallel()

	t.Run("unknown player", func(t *testing.T) {
		t.Parallel()
		f := newProfileFixture(t)
		f.playerRepo.On("GetByID", mock.Anything, subjectID).Return(player.Player{}, false, nil).Once()

		_, err := f.service.BuildProfile(context.Background(), subjectID)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("missing performance page", func(t *testing.T) {
		t.Parallel()
		f := newProfileFixture(t)
		f.gateway.perfErr = errors.New("502")
		f.playerRepo.On("GetByID", mock.Anything, subjectID).Return(player.Player{ID: subjectID, Name: "A"}, true, nil).Once()

		_, err := f.service.BuildProfile(context.Background(), subjectID)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("invalid id", func(t *testing.T) {
		t.Parallel()
		f := newProfileFixture(t)
		if _, err := f.service.BuildProfile(context.Background(), 0); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestProfile_Groupings(t *testing.T) {
	t.Parallel()

	p := Profile{
		Games: []match.Game{{Category: "1. HS"}, {Category: "MD"}},
		Matches: []match.TeamMatch{
			{ID: 1, Division: "Serie 1"},
			{ID: 2, Division: "Serie 1"},
			{ID: 3, Division: "Serie 2"},
		},
	}
	require.Len(t, p.GamesByRankingList(), 2)
	require.Len(t, p.MatchesByDivision(), 2)
}
