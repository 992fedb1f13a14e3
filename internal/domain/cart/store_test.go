package cart

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/eventhub-storefront/internal/domain/event"
)

const testKey = "eventhub-cart:test-session"

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func openStore(t *testing.T, kv KV) *Store {
	t.Helper()
	store, err := Open(context.Background(), kv, testKey, quietLogger())
	require.NoError(t, err)
	return store
}

func TestStore_AddUpdateScenario(t *testing.T) {
	ctx := context.Background()
	store := openStore(t, NewMemoryKV())
	ev := event.Event{ID: "1", Title: "Tech Summit", Price: 10000}

	assert.Equal(t, 0, store.Count())
	assert.False(t, store.IsOpen())

	require.NoError(t, store.AddToCart(ctx, ev, 1))
	assert.Equal(t, 1, store.Count())
	assert.Equal(t, int64(10000), store.Total())
	assert.True(t, store.IsOpen())

	require.NoError(t, store.AddToCart(ctx, ev, 1))
	assert.Equal(t, 2, store.Count())
	assert.Equal(t, int64(20000), store.Total())
	assert.Len(t, store.Lines(), 1)

	require.NoError(t, store.UpdateQuantity(ctx, "1", 0))
	assert.Equal(t, 0, store.Count())
	assert.Empty(t, store.Lines())
}

func TestStore_AddMergesById(t *testing.T) {
	ctx := context.Background()
	store := openStore(t, NewMemoryKV())

	quantities := []int{1, 3, 2, 5}
	sum := 0
	for _, q := range quantities {
		require.NoError(t, store.AddToCart(ctx, event.Event{ID: "7", Price: 500}, q))
		sum += q
	}
	// Numeric ids compare by value
	require.NoError(t, store.AddToCart(ctx, event.Event{ID: "07", Price: 500}, 1))
	sum++

	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, sum, lines[0].Quantity)
}

func TestStore_AddKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := openStore(t, NewMemoryKV())

	for _, id := range []event.ID{"3", "1", "2"} {
		require.NoError(t, store.AddToCart(ctx, event.Event{ID: id}, 1))
	}
	require.NoError(t, store.AddToCart(ctx, event.Event{ID: "1"}, 1))

	lines := store.Lines()
	got := []event.ID{lines[0].ID, lines[1].ID, lines[2].ID}
	assert.Equal(t, []event.ID{"3", "1", "2"}, got)
}

func TestStore_UpdateNonPositiveEqualsRemove(t *testing.T) {
	ctx := context.Background()

	for _, q := range []int{0, -1, -10} {
		for _, id := range []event.ID{"1", "2", "missing"} {
			viaUpdate := openStore(t, NewMemoryKV())
			viaRemove := openStore(t, NewMemoryKV())
			for _, s := range []*Store{viaUpdate, viaRemove} {
				require.NoError(t, s.AddToCart(ctx, event.Event{ID: "1", Price: 100}, 2))
				require.NoError(t, s.AddToCart(ctx, event.Event{ID: "2", Price: 300}, 1))
			}

			require.NoError(t, viaUpdate.UpdateQuantity(ctx, id, q))
			require.NoError(t, viaRemove.RemoveFromCart(ctx, id))

			assert.Equal(t, viaRemove.View(), viaUpdate.View(), "id=%s q=%d", id, q)
		}
	}
}

func TestStore_UpdateQuantityPreservesFields(t *testing.T) {
	ctx := context.Background()
	store := openStore(t, NewMemoryKV())
	ev := event.Event{ID: "1", Title: "Jazz", Location: "Bellavista", Price: 1800}

	require.NoError(t, store.AddToCart(ctx, ev, 1))
	require.NoError(t, store.UpdateQuantity(ctx, "1", 4))

	line := store.Lines()[0]
	assert.Equal(t, 4, line.Quantity)
	assert.Equal(t, ev, line.Event)

	// Updating an absent id changes nothing
	require.NoError(t, store.UpdateQuantity(ctx, "9", 3))
	assert.Len(t, store.Lines(), 1)
}

func TestStore_RemoveAbsentIsNoop(t *testing.T) {
	store := openStore(t, NewMemoryKV())
	require.NoError(t, store.RemoveFromCart(context.Background(), "nope"))
	assert.Empty(t, store.Lines())
}

func TestStore_ClearLeavesOpenFlag(t *testing.T) {
	ctx := context.Background()
	store := openStore(t, NewMemoryKV())

	require.NoError(t, store.AddToCart(ctx, event.Event{ID: "1", Price: 10}, 1))
	require.True(t, store.IsOpen())

	require.NoError(t, store.ClearCart(ctx))
	assert.Empty(t, store.Lines())
	assert.True(t, store.IsOpen())
}

func TestStore_EmptyCartDropsSnapshot(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	store := openStore(t, kv)

	require.NoError(t, store.AddToCart(ctx, event.Event{ID: "1", Price: 10}, 1))
	require.NoError(t, store.AddToCart(ctx, event.Event{ID: "2", Price: 20}, 1))
	_, err := kv.Get(ctx, store.Key())
	require.NoError(t, err)

	require.NoError(t, store.ClearCart(ctx))
	_, err = kv.Get(ctx, store.Key())
	assert.ErrorIs(t, err, ErrSnapshotNotFound)

	// Removing the last line drops it too
	require.NoError(t, store.AddToCart(ctx, event.Event{ID: "1", Price: 10}, 1))
	require.NoError(t, store.RemoveFromCart(ctx, "1"))
	_, err = kv.Get(ctx, store.Key())
	assert.ErrorIs(t, err, ErrSnapshotNotFound)

	// The UI flag survives and the cart reopens empty
	reopened := openStore(t, kv)
	assert.Empty(t, reopened.Lines())
	assert.True(t, reopened.IsOpen())
}

func TestStore_ToggleAndSetOpen(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	store := openStore(t, kv)

	require.NoError(t, store.ToggleCart(ctx))
	assert.True(t, store.IsOpen())
	require.NoError(t, store.ToggleCart(ctx))
	assert.False(t, store.IsOpen())
	require.NoError(t, store.SetOpen(ctx, true))

	reopened := openStore(t, kv)
	assert.True(t, reopened.IsOpen())
	// UI state never enters the line snapshot
	assert.Empty(t, reopened.Lines())
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	store := openStore(t, kv)

	fixture, err := event.DefaultFixture()
	require.NoError(t, err)
	for i, ev := range fixture {
		require.NoError(t, store.AddToCart(ctx, ev, i+1))
	}

	before := store.Lines()
	rehydrated := openStore(t, kv)
	assert.Equal(t, before, rehydrated.Lines())
	assert.Equal(t, store.Total(), rehydrated.Total())
	assert.Equal(t, store.Count(), rehydrated.Count())
}

func TestOpen_CorruptSnapshotYieldsEmptyCart(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(ctx, testKey, []byte(`{not json`)))

	store := openStore(t, kv)
	assert.Empty(t, store.Lines())
	assert.Equal(t, int64(0), store.Total())

	// The next mutation overwrites the corrupt snapshot
	require.NoError(t, store.AddToCart(ctx, event.Event{ID: "1", Price: 5}, 1))
	assert.Len(t, openStore(t, kv).Lines(), 1)
}

func TestOpen_NullSnapshotYieldsEmptyCart(t *testing.T) {
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(context.Background(), testKey, []byte(`null`)))

	store := openStore(t, kv)
	assert.NotNil(t, store.Lines())
	assert.Empty(t, store.Lines())
}

type brokenKV struct {
	*MemoryKV
	failGet bool
}

func (b *brokenKV) Get(ctx context.Context, key string) ([]byte, error) {
	if b.failGet {
		return nil, errors.New("connection refused")
	}
	return b.MemoryKV.Get(ctx, key)
}

func (b *brokenKV) Set(context.Context, string, []byte) error {
	return errors.New("connection refused")
}

func TestOpen_StoreFailure(t *testing.T) {
	_, err := Open(context.Background(), &brokenKV{MemoryKV: NewMemoryKV(), failGet: true}, testKey, quietLogger())
	assert.ErrorContains(t, err, "failed to load cart snapshot")
}

func TestStore_WriteFailureKeepsMemoryState(t *testing.T) {
	store := openStore(t, &brokenKV{MemoryKV: NewMemoryKV()})

	err := store.AddToCart(context.Background(), event.Event{ID: "1", Price: 100}, 2)
	assert.ErrorContains(t, err, "failed to save cart snapshot")
	assert.Equal(t, 2, store.Count())
}

func TestStore_Subscribe(t *testing.T) {
	ctx := context.Background()
	store := openStore(t, NewMemoryKV())

	var views []View
	unsubscribe := store.Subscribe(func(v View) { views = append(views, v) })

	require.NoError(t, store.AddToCart(ctx, event.Event{ID: "1", Price: 100}, 2))
	require.NoError(t, store.ToggleCart(ctx))

	require.Len(t, views, 2)
	assert.Equal(t, 2, views[0].Count)
	assert.Equal(t, int64(200), views[0].Total)
	assert.True(t, views[0].Open)
	assert.False(t, views[1].Open)

	unsubscribe()
	require.NoError(t, store.ClearCart(ctx))
	assert.Len(t, views, 2)
}

func TestStore_LinesAreCopies(t *testing.T) {
	ctx := context.Background()
	store := openStore(t, NewMemoryKV())
	require.NoError(t, store.AddToCart(ctx, event.Event{ID: "1", Title: "A"}, 1))

	lines := store.Lines()
	lines[0].Title = "mutated"
	lines[0].Quantity = 99

	assert.Equal(t, "A", store.Lines()[0].Title)
	assert.Equal(t, 1, store.Count())
}

// referenceCart is a deliberately naive model of the cart used to check
// the store against random operation sequences
type referenceCart struct {
	order []event.ID
	qty   map[event.ID]int
	price map[event.ID]int64
}

func (r *referenceCart) add(id event.ID, price int64, q int) {
	if _, ok := r.qty[id]; !ok {
		r.order = append(r.order, id)
		r.price[id] = price
	}
	r.qty[id] += q
}

func (r *referenceCart) remove(id event.ID) {
	if _, ok := r.qty[id]; !ok {
		return
	}
	delete(r.qty, id)
	for i, o := range r.order {
		if o == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

func (r *referenceCart) totals() (int, int64) {
	count, total := 0, int64(0)
	for _, id := range r.order {
		count += r.qty[id]
		total += r.price[id] * int64(r.qty[id])
	}
	return count, total
}

func TestStore_MatchesReferenceReducer(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))
	catalog := []event.Event{
		{ID: "1", Price: 45000},
		{ID: "2", Price: 18000},
		{ID: "3", Price: 0},
		{ID: "4", Price: 25000},
	}

	for run := 0; run < 50; run++ {
		kv := NewMemoryKV()
		store := openStore(t, kv)
		ref := &referenceCart{qty: map[event.ID]int{}, price: map[event.ID]int64{}}

		for step := 0; step < 40; step++ {
			ev := catalog[rng.Intn(len(catalog))]
			switch rng.Intn(4) {
			case 0, 1:
				q := rng.Intn(5) + 1
				require.NoError(t, store.AddToCart(ctx, ev, q))
				ref.add(ev.ID, ev.Price, q)
			case 2:
				q := rng.Intn(7) - 2
				require.NoError(t, store.UpdateQuantity(ctx, ev.ID, q))
				if q <= 0 {
					ref.remove(ev.ID)
				} else if _, ok := ref.qty[ev.ID]; ok {
					ref.qty[ev.ID] = q
				}
			case 3:
				require.NoError(t, store.RemoveFromCart(ctx, ev.ID))
				ref.remove(ev.ID)
			}

			count, total := ref.totals()
			require.Equal(t, count, store.Count(), "run %d step %d", run, step)
			require.Equal(t, total, store.Total(), "run %d step %d", run, step)
		}

		lines := store.Lines()
		require.Len(t, lines, len(ref.order))
		for i, id := range ref.order {
			assert.Equal(t, id, lines[i].ID)
		}

		assert.Equal(t, lines, openStore(t, kv).Lines())
	}
}
