package store_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/departures-microservice/internal/domain"
	"github.com/departures-microservice/internal/store"
)

func departure(tripID, product, platform string, when time.Time) domain.Departure {
	return domain.Departure{
		TripID:   tripID,
		When:     when,
		Platform: platform,
		Line:     domain.Line{Product: product},
	}
}

func baseTime() time.Time {
	return time.Date(2025, 9, 10, 14, 0, 0, 0, time.UTC)
}

// TestStore_SetDeparturesReplaces tests that SetDepartures replaces the
// whole collection
func TestStore_SetDeparturesReplaces(t *testing.T) {
	s := store.New(zap.NewNop())

	s.SetDepartures([]domain.Departure{
		departure("a", "regional", "1", baseTime()),
		departure("b", "suburban", "2", baseTime().Add(time.Minute)),
	})
	require.Len(t, s.VisibleDepartures(), 2)

	s.SetDepartures([]domain.Departure{
		departure("c", "regional", "1", baseTime()),
	})

	visible := s.VisibleDepartures()
	require.Len(t, visible, 1)
	assert.Equal(t, "c", visible[0].TripID)
}

// TestStore_AddDeparturesMerges tests keyed merge semantics: same tripId
// overwrites, new tripId appends
func TestStore_AddDeparturesMerges(t *testing.T) {
	s := store.New(zap.NewNop())

	s.SetDepartures([]domain.Departure{
		departure("a", "regional", "1", baseTime()),
	})

	updated := departure("a", "regional", "5", baseTime())
	s.AddDepartures([]domain.Departure{
		updated,
		departure("b", "suburban", "2", baseTime().Add(time.Minute)),
	})

	visible := s.VisibleDepartures()
	require.Len(t, visible, 2)
	assert.Equal(t, "a", visible[0].TripID)
	assert.Equal(t, "5", visible[0].Platform)
	assert.Equal(t, "b", visible[1].TripID)
}

// TestStore_VisibleDeparturesSorted tests deterministic ordering by time
func TestStore_VisibleDeparturesSorted(t *testing.T) {
	s := store.New(zap.NewNop())

	s.SetDepartures([]domain.Departure{
		departure("late", "regional", "1", baseTime().Add(30*time.Minute)),
		departure("early", "regional", "1", baseTime()),
		departure("middle", "regional", "1", baseTime().Add(10*time.Minute)),
	})

	visible := s.VisibleDepartures()
	require.Len(t, visible, 3)
	assert.Equal(t, "early", visible[0].TripID)
	assert.Equal(t, "middle", visible[1].TripID)
	assert.Equal(t, "late", visible[2].TripID)
}

// TestStore_FilterToggles tests derived view recomputation on toggle and
// restoration after double toggle
func TestStore_FilterToggles(t *testing.T) {
	s := store.New(zap.NewNop())
	s.SetDepartures([]domain.Departure{
		departure("a", "Regional", "7A", baseTime()),
		departure("b", "suburban", "3", baseTime().Add(time.Minute)),
	})

	s.ToggleProductFilter("regional")
	visible := s.VisibleDepartures()
	require.Len(t, visible, 1)
	assert.Equal(t, "a", visible[0].TripID)

	// Double toggle restores the unfiltered view
	s.ToggleProductFilter("regional")
	assert.Len(t, s.VisibleDepartures(), 2)

	// Product AND platform
	s.ToggleProductFilter("regional")
	s.TogglePlatformFilter("3")
	assert.Empty(t, s.VisibleDepartures())

	s.ClearFilters()
	assert.Len(t, s.VisibleDepartures(), 2)
	assert.Empty(t, s.ProductFilters())
	assert.Empty(t, s.PlatformFilters())
}

// TestStore_RefreshMutualExclusion tests that an auto refresh tick is
// skipped while a manual refresh is in flight
func TestStore_RefreshMutualExclusion(t *testing.T) {
	s := store.New(zap.NewNop())

	require.True(t, s.BeginRefresh(true))
	assert.True(t, s.IsRefreshing())
	assert.True(t, s.IsDataLoading())

	// Auto refresh must skip while the manual one runs
	assert.False(t, s.BeginRefresh(false))
	// A second manual refresh is also rejected
	assert.False(t, s.BeginRefresh(true))

	s.EndRefresh(true)
	assert.False(t, s.IsRefreshing())

	// After completion the auto refresh may proceed
	require.True(t, s.BeginRefresh(false))
	assert.False(t, s.BeginRefresh(false))
	s.EndRefresh(false)
}

// TestStore_SuggestionSequence tests stale suggestion responses being
// discarded by sequence comparison regardless of completion order
func TestStore_SuggestionSequence(t *testing.T) {
	s := store.New(zap.NewNop())

	first := s.BeginSuggestionRequest()
	second := s.BeginSuggestionRequest()
	require.Greater(t, second, first)

	// The late completion of the first request must not overwrite
	applied := s.ApplySuggestions(first, []domain.Station{{ID: "stale"}})
	assert.False(t, applied)
	assert.Empty(t, s.Suggestions())

	applied = s.ApplySuggestions(second, []domain.Station{{ID: "fresh"}})
	assert.True(t, applied)
	require.Len(t, s.Suggestions(), 1)
	assert.Equal(t, "fresh", s.Suggestions()[0].ID)
	assert.False(t, s.IsLoadingSuggestions())
}

// TestStore_CancelSuggestions tests that cancellation invalidates requests
// already in flight
func TestStore_CancelSuggestions(t *testing.T) {
	s := store.New(zap.NewNop())

	seq := s.BeginSuggestionRequest()
	s.CancelSuggestions()

	assert.False(t, s.ApplySuggestions(seq, []domain.Station{{ID: "late"}}))
	assert.Empty(t, s.Suggestions())
	assert.False(t, s.IsLoadingSuggestions())
}

// TestStore_JourneyFormOperations tests form updates, swap and reset
func TestStore_JourneyFormOperations(t *testing.T) {
	s := store.New(zap.NewNop())

	s.UpdateForm(func(form *store.JourneyForm) {
		form.From = "Wien Hbf"
		form.To = "Salzburg Hbf"
	})

	form := s.JourneyForm()
	assert.Equal(t, "Wien Hbf", form.From)
	assert.Equal(t, "Salzburg Hbf", form.To)

	s.SwapStations()
	form = s.JourneyForm()
	assert.Equal(t, "Salzburg Hbf", form.From)
	assert.Equal(t, "Wien Hbf", form.To)

	s.ResetForm()
	form = s.JourneyForm()
	assert.Empty(t, form.From)
	assert.Empty(t, form.To)
}

// TestStore_FilteredJourneys tests the derived journey view under product
// and transfer filters
func TestStore_FilteredJourneys(t *testing.T) {
	s := store.New(zap.NewNop())

	direct := domain.JourneyOption{
		ID:        "direct",
		Transfers: 0,
		Products:  []string{"nationalexpress"},
		Legs:      []domain.JourneyLeg{{Line: domain.Line{Product: "nationalexpress"}}},
	}
	withChange := domain.JourneyOption{
		ID:        "change",
		Transfers: 1,
		Products:  []string{"regional", "suburban"},
		Legs: []domain.JourneyLeg{
			{Line: domain.Line{Product: "regional"}},
			{Line: domain.Line{Product: "suburban"}},
		},
	}

	s.SetJourneyResult(&domain.JourneySearchResult{
		Journeys: []domain.JourneyOption{direct, withChange},
	})
	assert.Len(t, s.FilteredJourneys(), 2)

	s.ToggleJourneyProductFilter("suburban")
	filtered := s.FilteredJourneys()
	require.Len(t, filtered, 1)
	assert.Equal(t, "change", filtered[0].ID)

	s.ClearJourneyFilters()
	zero := 0
	s.SetMaxTransfers(&zero)
	filtered = s.FilteredJourneys()
	require.Len(t, filtered, 1)
	assert.Equal(t, "direct", filtered[0].ID)

	// Reset clears results and filters
	s.SetJourneyResult(nil)
	assert.Empty(t, s.FilteredJourneys())
}

// TestStore_SubscribeNotifies tests that subscribers receive a consistent
// snapshot after a mutation and that unsubscribe works
func TestStore_SubscribeNotifies(t *testing.T) {
	s := store.New(zap.NewNop())

	snapshots := make(chan store.Snapshot, 4)
	unsubscribe := s.Subscribe(func(snap store.Snapshot) {
		snapshots <- snap
	})

	s.SetDepartures([]domain.Departure{
		departure("a", "regional", "1", baseTime()),
	})

	select {
	case snap := <-snapshots:
		require.Len(t, snap.VisibleDepartures, 1)
		assert.Equal(t, "a", snap.VisibleDepartures[0].TripID)
	case <-time.After(time.Second):
		t.Fatal("subscriber was not notified")
	}

	unsubscribe()
	s.ClearFilters()

	select {
	case <-snapshots:
		t.Fatal("unsubscribed subscriber was notified")
	case <-time.After(50 * time.Millisecond):
	}
}

// TestStore_NotificationsDeliveredInOrder tests that subscribers observe
// snapshots strictly in mutation order and that the last delivered snapshot
// reflects the final mutation
func TestStore_NotificationsDeliveredInOrder(t *testing.T) {
	st := store.New(zap.NewNop())
	t.Cleanup(st.Close)

	const mutations = 500

	var mu sync.Mutex
	sizes := make([]int, 0, mutations)
	done := make(chan struct{})

	st.Subscribe(func(snap store.Snapshot) {
		mu.Lock()
		sizes = append(sizes, len(snap.VisibleDepartures))
		if len(sizes) == mutations {
			close(done)
		}
		mu.Unlock()
	})

	for i := 1; i <= mutations; i++ {
		deps := make([]domain.Departure, 0, i)
		for j := 0; j < i; j++ {
			deps = append(deps, departure(
				fmt.Sprintf("t%04d", j), "regional", "1",
				baseTime().Add(time.Duration(j)*time.Minute)))
		}
		st.SetDepartures(deps)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("notifications never arrived")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, sizes, mutations)
	for i := 1; i < len(sizes); i++ {
		assert.Greater(t, sizes[i], sizes[i-1])
	}
	assert.Equal(t, mutations, sizes[len(sizes)-1])
}
