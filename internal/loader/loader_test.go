package loader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu      sync.Mutex
	rows    map[string]int64
	err     error
	batches [][]string
}

func (f *fakeSource) CreditsByUserIDs(_ context.Context, ids []string) (map[string]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	batch := append([]string(nil), ids...)
	sort.Strings(batch)
	f.batches = append(f.batches, batch)
	if f.err != nil {
		return nil, f.err
	}
	out := map[string]int64{}
	for _, id := range ids {
		if v, ok := f.rows[id]; ok {
			out[id] = v
		}
	}
	return out, nil
}

type recordingObserver struct {
	mu    sync.Mutex
	sizes []int
	errs  int
}

func (o *recordingObserver) ObserveCreditsBatch(size int, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sizes = append(o.sizes, size)
	if err != nil {
		o.errs++
	}
}

func TestCreditsBatchedAndDeduplicated(t *testing.T) {
	src := &fakeSource{rows: map[string]int64{"4": 42}}
	obs := &recordingObserver{}
	l := New(src, Options{Wait: 50 * time.Millisecond, Observer: obs})
	ctx := WithLoaders(context.Background(), l)

	four := l.Credits.Load(ctx, "4")
	five := l.Credits.Load(ctx, "5")
	fourAgain := l.Credits.Load(ctx, "4")

	v, err := four()
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, int64(42), *v)

	v, err = five()
	require.NoError(t, err)
	assert.Nil(t, v, "a user without a row has no credits, not zero")

	v, err = fourAgain()
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, int64(42), *v)

	assert.Equal(t, [][]string{{"4", "5"}}, src.batches)
	assert.Equal(t, []int{2}, obs.sizes)
}

func TestCreditsCachedForRequestOnly(t *testing.T) {
	src := &fakeSource{rows: map[string]int64{"1000": 7}}

	for i := 0; i < 2; i++ {
		ctx := WithLoaders(context.Background(), New(src, Options{}))
		v, err := LoadCredits(ctx, "1000")
		require.NoError(t, err)
		require.NotNil(t, v)
		assert.Equal(t, int64(7), *v)

		v, err = LoadCredits(ctx, "1000")
		require.NoError(t, err)
		assert.Equal(t, int64(7), *v)
	}

	// One fetch per request; the second request did not reuse the first cache.
	assert.Len(t, src.batches, 2)
}

func TestCreditsBatchError(t *testing.T) {
	src := &fakeSource{err: errors.New("db down")}
	obs := &recordingObserver{}
	ctx := WithLoaders(context.Background(), New(src, Options{Observer: obs}))

	v, err := LoadCredits(ctx, "1000")
	require.Error(t, err)
	assert.Nil(t, v)
	assert.Contains(t, err.Error(), "db down")
	assert.Equal(t, 1, obs.errs)
}

func TestLoadCreditsWithoutLoaders(t *testing.T) {
	_, err := LoadCredits(context.Background(), "1000")
	assert.Equal(t, ErrNoLoaders, err)
}

func TestMiddlewareInstallsFreshLoaders(t *testing.T) {
	src := &fakeSource{}
	var seen []*Loaders
	h := Middleware(src, Options{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l, ok := FromContext(r.Context())
		require.True(t, ok)
		seen = append(seen, l)
	}))

	for i := 0; i < 2; i++ {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/graphql", nil))
	}

	require.Len(t, seen, 2)
	assert.NotSame(t, seen[0], seen[1])
}
