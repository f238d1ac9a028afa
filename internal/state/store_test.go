package state

import (
	"sync"
	"testing"

	"ratesync/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestStore_SnapshotReturnsCopy(t *testing.T) {
	s := NewStore(domain.RateState{CurrentCurrency: "usd", NativeCurrency: "eth"})

	snap := s.Snapshot()
	snap.CurrentCurrency = "eur"

	require.Equal(t, "usd", s.Snapshot().CurrentCurrency)
}

func TestStore_ApplyMutatesAndNotifies(t *testing.T) {
	s := NewStore(domain.RateState{CurrentCurrency: "usd", NativeCurrency: "eth"})

	var got []domain.RateState
	s.Subscribe(func(snap domain.RateState) { got = append(got, snap) })

	returned := s.Apply(func(st *domain.RateState) { st.PendingCurrentCurrency = "eur" })

	require.Equal(t, "eur", returned.PendingCurrentCurrency)
	require.Len(t, got, 1)
	require.Equal(t, returned, got[0])
	require.Equal(t, "usd", got[0].CurrentCurrency, "notification carries the full snapshot")
}

func TestStore_ReplaceSwapsWholeSnapshot(t *testing.T) {
	s := NewStore(domain.RateState{
		CurrentCurrency:        "usd",
		NativeCurrency:         "eth",
		PendingCurrentCurrency: "eur",
	})

	next := domain.RateState{
		ConversionDate:  1000,
		ConversionRate:  0.91,
		CurrentCurrency: "eur",
		NativeCurrency:  "eth",
	}
	s.Replace(next)

	got := s.Snapshot()
	require.Equal(t, next, got)
	require.Empty(t, got.PendingCurrentCurrency, "replace clears fields absent from the new snapshot")
}

func TestStore_SubscribersNotifiedInOrder(t *testing.T) {
	s := NewStore(domain.RateState{})

	var order []int
	s.Subscribe(func(domain.RateState) { order = append(order, 1) })
	s.Subscribe(func(domain.RateState) { order = append(order, 2) })

	s.Replace(domain.RateState{CurrentCurrency: "eur"})

	require.Equal(t, []int{1, 2}, order)
}

func TestStore_LastNotificationMatchesFinalState(t *testing.T) {
	for i := 0; i < 500; i++ {
		s := NewStore(domain.RateState{CurrentCurrency: "usd", NativeCurrency: "eth"})

		var mu sync.Mutex
		var last domain.RateState
		s.Subscribe(func(snap domain.RateState) {
			mu.Lock()
			last = snap
			mu.Unlock()
		})

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Apply(func(st *domain.RateState) { st.PendingCurrentCurrency = "gbp" })
		}()
		go func() {
			defer wg.Done()
			s.Replace(domain.RateState{
				ConversionRate:  0.91,
				CurrentCurrency: "eur",
				NativeCurrency:  "eth",
			})
		}()
		wg.Wait()

		mu.Lock()
		got := last
		mu.Unlock()
		require.Equal(t, s.Snapshot(), got, "last delivered notification must carry the final state")
	}
}

func TestStore_ConcurrentReadersAndWriters(t *testing.T) {
	s := NewStore(domain.RateState{CurrentCurrency: "usd"})
	s.Subscribe(func(domain.RateState) {})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = s.Snapshot()
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.Apply(func(st *domain.RateState) { st.ConversionDate++ })
			}
		}()
	}
	wg.Wait()

	require.Equal(t, int64(800), s.Snapshot().ConversionDate)
}
