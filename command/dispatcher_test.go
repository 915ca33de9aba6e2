package command_test

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/arnegrid/simidx/cache"
	"github.com/arnegrid/simidx/command"
	"github.com/arnegrid/simidx/core"
	"github.com/arnegrid/simidx/resource"
	"github.com/arnegrid/simidx/signature"
	"github.com/arnegrid/simidx/storage"
	"github.com/arnegrid/simidx/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// header builds the leading Configuration positional arguments shared by
// every scenario below: scope="s", bands=2, window=60, retention=1, and the
// given timestamp (120 in most scenarios).
func header(timestamp int) []string {
	return []string{"s", "2", "60", "1", strconv.Itoa(timestamp)}
}

// testClock pins the MemoryAdapter's clock at timestamp 120, so TTL
// deadlines derived from the request timestamps below are not already past.
func testClock() int64 { return 120 }

func recordArgv(timestamp int, key, featureIndex string, freqs string) []string {
	argv := header(timestamp)
	argv = append(argv, "RECORD", key, featureIndex)
	argv = append(argv, strings.Fields(freqs)...)
	return argv
}

func classifyArgv(timestamp int, strict bool, queries ...string) []string {
	argv := header(timestamp)
	argv = append(argv, "CLASSIFY")
	if strict {
		argv = append(argv, "STRICT")
	}
	for _, q := range queries {
		argv = append(argv, strings.Fields(q)...)
	}
	return argv
}

func TestE1RecordAndSelfRecall(t *testing.T) {
	ctx := context.Background()
	adapter := storage.NewMemoryAdapter(testClock)
	d := command.NewDispatcher(adapter)

	// RECORD key="a" feature_index="m" signature [{10:1}, {20:1}]
	_, err := d.Execute(ctx, recordArgv(120, "a", "m", "1 10 1 1 20 1"))
	require.NoError(t, err)

	res, err := d.Execute(ctx, classifyArgv(120, false, "m 1 1 10 1 1 20 1"))
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "a", res.Items[0].ItemKey)
	require.Len(t, res.Items[0].Scores, 1)
	assert.InDelta(t, 1.0, res.Items[0].Scores[0].Value, 1e-9)
}

func TestE2PartialOverlap(t *testing.T) {
	ctx := context.Background()
	adapter := storage.NewMemoryAdapter(testClock)
	d := command.NewDispatcher(adapter)

	// RECORD "b" with [{10:1,11:1}, {20:1}]
	_, err := d.Execute(ctx, recordArgv(120, "b", "m", "2 10 1 11 1 1 20 1"))
	require.NoError(t, err)

	res, err := d.Execute(ctx, classifyArgv(120, false, "m 1 1 10 1 1 20 1"))
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "b", res.Items[0].ItemKey)
	assert.InDelta(t, 0.75, res.Items[0].Scores[0].Value, 1e-9)
}

func TestE3ThresholdFilterExcludesLowCollisionCandidates(t *testing.T) {
	ctx := context.Background()
	adapter := storage.NewMemoryAdapter(testClock)
	d := command.NewDispatcher(adapter)

	_, err := d.Execute(ctx, recordArgv(120, "a", "m", "1 10 1 1 20 1"))
	require.NoError(t, err)
	_, err = d.Execute(ctx, recordArgv(120, "b", "m", "2 10 1 11 1 1 20 1"))
	require.NoError(t, err)

	// threshold=2, query only touches band 1 -> at most 1 collision.
	res, err := d.Execute(ctx, classifyArgv(120, false, "m 2 1 10 1 0"))
	require.NoError(t, err)
	assert.Empty(t, res.Items)
}

func TestE4StrictEmptinessMismatchRejectsCandidate(t *testing.T) {
	ctx := context.Background()
	adapter := storage.NewMemoryAdapter(testClock)
	d := command.NewDispatcher(adapter)

	// "a" collides on feature "m" (so it enters the candidate set at all)
	// and also has a non-empty stored signature under feature "n".
	_, err := d.Execute(ctx, recordArgv(120, "a", "m", "1 10 1 1 20 1"))
	require.NoError(t, err)
	_, err = d.Execute(ctx, recordArgv(120, "a", "n", "1 30 1 1 40 1"))
	require.NoError(t, err)

	// Query "m" matches "a" and clears its threshold; query "n" is an empty
	// STRICT query against "a"'s non-empty stored signature under "n" — the
	// per-query emptiness mismatch must reject the whole item.
	res, err := d.Execute(ctx, classifyArgv(120, true, "m 1 1 10 1 1 20 1", "n 0 0 0"))
	require.NoError(t, err)
	assert.Empty(t, res.Items)
}

func TestE4StrictBothEmptyYieldsSentinelScore(t *testing.T) {
	ctx := context.Background()
	adapter := storage.NewMemoryAdapter(testClock)
	d := command.NewDispatcher(adapter)

	// "a" collides on feature "m" only; it has no stored signature under
	// feature "n" at all.
	_, err := d.Execute(ctx, recordArgv(120, "a", "m", "1 10 1 1 20 1"))
	require.NoError(t, err)

	// Query "n" is an empty STRICT query against an item with no stored
	// signature under "n": both sides empty, so "a" survives with a
	// sentinel score for that query instead of being rejected.
	res, err := d.Execute(ctx, classifyArgv(120, true, "m 1 1 10 1 1 20 1", "n 0 0 0"))
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "a", res.Items[0].ItemKey)
	require.Len(t, res.Items[0].Scores, 2)
	assert.False(t, res.Items[0].Scores[0].Sentinel)
	assert.InDelta(t, 1.0, res.Items[0].Scores[0].Value, 1e-9)
	assert.True(t, res.Items[0].Scores[1].Sentinel)
}

func TestE5MultiFeatureLenientOr(t *testing.T) {
	ctx := context.Background()
	adapter := storage.NewMemoryAdapter(testClock)
	d := command.NewDispatcher(adapter)

	_, err := d.Execute(ctx, recordArgv(120, "c", "m", "1 10 1 1 20 1"))
	require.NoError(t, err)
	_, err = d.Execute(ctx, recordArgv(120, "c", "n", "1 99 1 1 98 1"))
	require.NoError(t, err)

	// query m matches, query n disjoint -> lenient OR still emits "c".
	res, err := d.Execute(ctx, classifyArgv(120, false, "m 1 1 10 1 1 20 1", "n 1 1 11 1 1 21 1"))
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "c", res.Items[0].ItemKey)
}

func TestE6SlidingExpiration(t *testing.T) {
	ctx := context.Background()
	adapter := storage.NewMemoryAdapter(testClock)
	d := command.NewDispatcher(adapter)

	_, err := d.Execute(ctx, recordArgv(0, "a", "m", "1 10 1 1 20 1"))
	require.NoError(t, err)

	// current_tb=3, window [2,3]; record was at tb=0, well outside.
	res, err := d.Execute(ctx, classifyArgv(180, false, "m 1 1 10 1 1 20 1"))
	require.NoError(t, err)
	assert.Empty(t, res.Items)
}

func TestUnknownCommandIsArgumentError(t *testing.T) {
	ctx := context.Background()
	adapter := storage.NewMemoryAdapter(testClock)
	d := command.NewDispatcher(adapter)

	_, err := d.Execute(ctx, []string{"s", "2", "60", "1", "120", "BOGUS"})
	require.Error(t, err)
	var argErr *core.ArgumentError
	require.ErrorAs(t, err, &argErr)
}

func TestReservedCommandsAreNotImplemented(t *testing.T) {
	ctx := context.Background()
	adapter := storage.NewMemoryAdapter(testClock)
	d := command.NewDispatcher(adapter)

	for _, cmd := range []string{"MERGE", "DELETE", "COMPARE"} {
		_, err := d.Execute(ctx, []string{"s", "2", "60", "1", "120", cmd})
		require.Error(t, err)
		var ni *core.NotImplemented
		require.ErrorAs(t, err, &ni)
		assert.Equal(t, cmd, ni.Command)
	}
}

func TestClassifyWithCacheOptionMatchesUncachedResult(t *testing.T) {
	ctx := context.Background()
	adapter := storage.NewMemoryAdapter(testClock)
	bc := cache.NewLRUBlockCache(1<<20, resource.NewController(resource.Config{MemoryLimitBytes: 1 << 20}))
	d := command.NewDispatcher(adapter, command.WithCache(bc))

	_, err := d.Execute(ctx, recordArgv(120, "a", "m", "1 10 1 1 20 1"))
	require.NoError(t, err)

	// First CLASSIFY primes the cache.
	res, err := d.Execute(ctx, classifyArgv(120, false, "m 1 1 10 1 1 20 1"))
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.InDelta(t, 1.0, res.Items[0].Scores[0].Value, 1e-9)

	// Second CLASSIFY is served through the same cache entry and must agree.
	res, err = d.Execute(ctx, classifyArgv(120, false, "m 1 1 10 1 1 20 1"))
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.InDelta(t, 1.0, res.Items[0].Scores[0].Value, 1e-9)
	assert.Equal(t, bc.Size() > 0, true)
}

func TestCacheInvalidatedOnRecordReflectsUpdatedSignature(t *testing.T) {
	ctx := context.Background()
	adapter := storage.NewMemoryAdapter(testClock)
	bc := cache.NewLRUBlockCache(1<<20, resource.NewController(resource.Config{MemoryLimitBytes: 1 << 20}))
	d := command.NewDispatcher(adapter, command.WithCache(bc))

	_, err := d.Execute(ctx, recordArgv(120, "a", "m", "1 10 1 1 20 1"))
	require.NoError(t, err)

	// Prime the cache with the original signature.
	res, err := d.Execute(ctx, classifyArgv(120, false, "m 1 1 10 1 1 20 1"))
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.InDelta(t, 1.0, res.Items[0].Scores[0].Value, 1e-9)

	// RECORD again on disjoint buckets. Counts accumulate, so "a" now holds
	// {10:1,30:1} and {20:1,40:1} and still sits in the old buckets' candidate
	// sets. The cached entry must be invalidated so the next CLASSIFY scores
	// the updated signature (0.5 per band) instead of the cached 1.0.
	_, err = d.Execute(ctx, recordArgv(120, "a", "m", "1 30 1 1 40 1"))
	require.NoError(t, err)

	res, err = d.Execute(ctx, classifyArgv(120, false, "m 1 1 10 1 1 20 1"))
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.InDelta(t, 0.5, res.Items[0].Scores[0].Value, 1e-9)
}

// freqArgs renders a Signature into the frequencies grammar's token form:
// for each band in order, a count followed by (bucket, count) pairs.
func freqArgs(sig signature.Signature) string {
	var tokens []string
	for _, band := range sig.Bands {
		tokens = append(tokens, strconv.Itoa(len(band)))
		for bucket, count := range band {
			tokens = append(tokens, strconv.Itoa(int(bucket)), strconv.FormatInt(count, 10))
		}
	}
	return strings.Join(tokens, " ")
}

// TestE2PartialOverlapAcrossRandomSignatures generalizes E2 beyond the one
// hand-picked example: for a spread of keepFraction values, RECORD a random
// base signature, derive an overlapping query signature from it, and check
// that CLASSIFY's reported score agrees with the Kernel computed directly
// over the two signatures.
func TestE2PartialOverlapAcrossRandomSignatures(t *testing.T) {
	rng := testutil.NewRNG(42)
	const bands = 2 // must match header()'s fixed Configuration bands
	const bucketSpace = 32

	for _, keepFraction := range []float64{0.0, 0.25, 0.5, 0.75, 1.0} {
		t.Run(fmt.Sprintf("keep=%.2f", keepFraction), func(t *testing.T) {
			ctx := context.Background()
			adapter := storage.NewMemoryAdapter(testClock)
			d := command.NewDispatcher(adapter)

			base := rng.RandomSignature(bands, bucketSpace, 3)
			query := rng.OverlapSignature(base, bucketSpace, keepFraction)

			_, err := d.Execute(ctx, recordArgv(120, "a", "m", freqArgs(base)))
			require.NoError(t, err)

			res, err := d.Execute(ctx, classifyArgv(120, false, "m 0 "+freqArgs(query)))
			require.NoError(t, err)

			want := signature.Kernel(query, base)
			if want.Sentinel || want.Value <= 0 {
				assert.Empty(t, res.Items)
				return
			}
			require.Len(t, res.Items, 1)
			assert.InDelta(t, want.Value, res.Items[0].Scores[0].Value, 1e-9)
		})
	}
}

func TestInvalidConfigRejected(t *testing.T) {
	ctx := context.Background()
	adapter := storage.NewMemoryAdapter(testClock)
	d := command.NewDispatcher(adapter)

	_, err := d.Execute(ctx, []string{"s", "0", "60", "1", "120", "RECORD"})
	require.Error(t, err)
	var argErr *core.ArgumentError
	require.ErrorAs(t, err, &argErr)
}
