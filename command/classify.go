package command

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/arnegrid/simidx/argdecode"
	"github.com/arnegrid/simidx/cache"
	"github.com/arnegrid/simidx/candidateindex"
	"github.com/arnegrid/simidx/core"
	"github.com/arnegrid/simidx/freqstore"
	"github.com/arnegrid/simidx/signature"
)

var classifyFlags = map[string]struct{}{"STRICT": {}}

// classifyQuery is one decoded CLASSIFY query: feature_index, threshold,
// frequencies.
type classifyQuery struct {
	featureIndex string
	threshold    int
	signature    signature.Signature
}

// ClassifyItem is one surviving candidate and its per-query scores, ordered
// to match the input query order.
type ClassifyItem struct {
	ItemKey string
	Scores  []signature.Score
}

// executeClassify decodes the optional STRICT flag and the variadic query
// list, runs candidate collection, filtering, and scoring, and returns the
// surviving items in deterministic ascending-by-ItemKey order, along with
// the number of queries decoded.
func (d *Dispatcher) executeClassify(ctx context.Context, cfg core.Config, c *argdecode.Cursor) ([]ClassifyItem, int, error) {
	flags := argdecode.FlagSet(c, classifyFlags)
	_, strict := flags["STRICT"]

	queries, err := argdecode.Variadic(c, func(c *argdecode.Cursor) (classifyQuery, error) {
		featureIndex, err := argdecode.String(c)
		if err != nil {
			return classifyQuery{}, err
		}
		threshold, err := argdecode.Int(c)
		if err != nil {
			return classifyQuery{}, err
		}
		sig, err := decodeFrequencies(c, cfg.Bands)
		if err != nil {
			return classifyQuery{}, err
		}
		return classifyQuery{featureIndex: featureIndex, threshold: threshold, signature: sig}, nil
	})
	if err != nil {
		return nil, 0, err
	}

	idx := candidateindex.New(d.adapter, cfg)
	freq := freqstore.New(d.adapter, cfg)

	// Stage 1: candidate collection. candidates[item][queryIdx] = collision count.
	candidates := make(map[string]map[int]int)
	var order []string
	for qi, q := range queries {
		collisions, err := idx.Query(ctx, q.featureIndex, q.signature)
		if err != nil {
			return nil, len(queries), err
		}
		for item, count := range collisions {
			byQuery, ok := candidates[item]
			if !ok {
				byQuery = make(map[int]int)
				candidates[item] = byQuery
				order = append(order, item)
			}
			byQuery[qi] = count
		}
	}

	// Stage 2: filter.
	var survivors []string
	for _, item := range order {
		if passesFilter(candidates[item], queries, strict) {
			survivors = append(survivors, item)
		}
	}

	// Stage 3: score.
	var results []ClassifyItem
	for _, item := range survivors {
		scores, ok, err := scoreItem(ctx, freq, d.opts.cache, cfg.Scope, item, queries, candidates[item], strict)
		if err != nil {
			return nil, len(queries), err
		}
		if ok {
			results = append(results, ClassifyItem{ItemKey: item, Scores: scores})
		}
	}

	sort.Slice(results, func(i, j int) bool { return results[i].ItemKey < results[j].ItemKey })
	return results, len(queries), nil
}

// passesFilter applies the lenient/strict threshold discipline: lenient
// passes if any query meets its threshold, strict requires every query to.
func passesFilter(byQuery map[int]int, queries []classifyQuery, strict bool) bool {
	if strict {
		for qi, q := range queries {
			if byQuery[qi] < q.threshold {
				return false
			}
		}
		return true
	}
	for qi, q := range queries {
		if byQuery[qi] >= q.threshold {
			return true
		}
	}
	return false
}

// scoreItem computes the per-query score list for one surviving candidate.
// Under STRICT, a per-query empty/non-empty mismatch rejects the candidate
// entirely (ok=false).
func scoreItem(ctx context.Context, freq *freqstore.Store, bc cache.BlockCache, scope, item string, queries []classifyQuery, byQuery map[int]int, strict bool) ([]signature.Score, bool, error) {
	scores := make([]signature.Score, len(queries))
	for qi, q := range queries {
		candidateSig, err := getCachedSignature(ctx, freq, bc, scope, q.featureIndex, item)
		if err != nil {
			return nil, false, err
		}

		queryEmpty := q.signature.Empty()
		candidateEmpty := candidateSig.Empty()

		if strict {
			if queryEmpty != candidateEmpty {
				return nil, false, nil
			}
			if queryEmpty && candidateEmpty {
				scores[qi] = signature.SentinelScore
				continue
			}
			scores[qi] = signature.Kernel(q.signature, candidateSig)
			continue
		}

		if queryEmpty || candidateEmpty {
			scores[qi] = signature.SentinelScore
			continue
		}
		scores[qi] = signature.Kernel(q.signature, candidateSig)
	}
	return scores, true, nil
}

// getCachedSignature reads a candidate's Frequency Store entry through bc
// (a long-lived, Dispatcher-scoped cache) before falling back to freq.Get.
// bc may be nil, in which case every call goes straight to freq.
func getCachedSignature(ctx context.Context, freq *freqstore.Store, bc cache.BlockCache, scope, featureIndex, item string) (signature.Signature, error) {
	if bc == nil {
		return freq.Get(ctx, featureIndex, item)
	}

	key := cache.CacheKey{Kind: cache.KindFrequency, Scope: scope, FeatureIndex: featureIndex, Item: item}
	if b, ok := bc.Get(ctx, key); ok {
		var sig signature.Signature
		if err := json.Unmarshal(b, &sig); err == nil {
			return sig, nil
		}
	}

	sig, err := freq.Get(ctx, featureIndex, item)
	if err != nil {
		return signature.Signature{}, err
	}
	if b, err := json.Marshal(sig); err == nil {
		bc.Set(ctx, key, b)
	}
	return sig, nil
}
