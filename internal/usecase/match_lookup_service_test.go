package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/badminton-stats/internal/domain/player"
	playermock "github.com/riskibarqy/badminton-stats/internal/mocks/domain/player"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMatchLookupService_StoreFirstThenSearch(t *testing.T) {
	t.Parallel()

	playerRepo := playermock.NewRepository(t)
	gateway := &fakeGateway{
		searchResult: []player.Player{{ID: 42, Name: "Sofie Lund", ClubName: "Højbjerg"}},
	}
	search := NewPlayerSearchService(playerRepo, gateway, nil, nil)
	service := NewMatchLookupService(playerRepo, search, 2, nil)

	lookups := []player.Lookup{
		{Name: " Anders Jensen", Club: "Vejlby IK"},
		{Name: "Sofie Lund", Club: "Højbjerg"},
		{Name: "Anders Jensen", Club: "Vejlby IK"},
	}

	playerRepo.
		On("LookupIDs", mock.Anything, []player.Lookup{
			{Name: "Anders Jensen", Club: "Vejlby IK"},
			{Name: "Sofie Lund", Club: "Højbjerg"},
			{Name: "Anders Jensen", Club: "Vejlby IK"},
		}).
		Return([]player.LookupResult{{Name: "Anders Jensen", Club: "Vejlby IK", ID: 76749}}, nil).
		Once()
	playerRepo.On("SearchByName", mock.Anything, "sofie | lund", defaultSearchLimit).Return(nil, nil).Once()

	got, err := service.ResolvePlayerIDs(context.Background(), lookups)
	require.NoError(t, err)
	require.Equal(t, []player.LookupResult{
		{Name: "Anders Jensen", Club: "Vejlby IK", ID: 76749},
		{Name: "Sofie Lund", Club: "Højbjerg", ID: 42},
		{Name: "Anders Jensen", Club: "Vejlby IK", ID: 76749},
	}, got)
	require.Equal(t, []string{"Sofie Lund|Højbjerg"}, gateway.searchCalls)
}

func TestMatchLookupService_StoreFailureFallsBackToSearch(t *testing.T) {
	t.Parallel()

	playerRepo := playermock.NewRepository(t)
	search := NewPlayerSearchService(playerRepo, &fakeGateway{}, nil, nil)
	service := NewMatchLookupService(playerRepo, search, 0, nil)

	playerRepo.On("LookupIDs", mock.Anything, mock.Anything).Return(nil, errors.New("rpc missing")).Once()
	playerRepo.On("SearchByName", mock.Anything, "ghost", defaultSearchLimit).Return(nil, nil).Once()

	got, err := service.ResolvePlayerIDs(context.Background(), []player.Lookup{{Name: "Ghost"}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Zero(t, got[0].ID)
}

func TestMatchLookupService_ValidatesInput(t *testing.T) {
	t.Parallel()

	service := NewMatchLookupService(playermock.NewRepository(t), nil, 1, nil)

	if _, err := service.ResolvePlayerIDs(context.Background(), nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty input, got %v", err)
	}
	if _, err := service.ResolvePlayerIDs(context.Background(), []player.Lookup{{Name: " "}}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank name, got %v", err)
	}
}
