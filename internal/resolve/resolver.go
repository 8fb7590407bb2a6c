// Package resolve maps raw ingredient mentions onto canonical reference
// entries using a layered match strategy: exact, fuzzy, then ranked
// lexical. Resolution is a pure function over the reference store; results
// are memoized because batches repeat the same mentions heavily.
package resolve

import (
	"strings"

	gocache "github.com/patrickmn/go-cache"

	"github.com/adurasov/nutricode/internal/model"
	"github.com/adurasov/nutricode/internal/refdata"
)

// Resolver resolves raw ingredient names against the reference store.
type Resolver struct {
	entries []refdata.IngredientEntry
	rules   []refdata.Disambiguation

	// searchable holds the normalized canonical names plus keyword
	// variants; indexMap maps each searchable string back to its entry.
	searchable []string
	indexMap   []int
	exact      map[string]int
	ranked     *bm25Index

	fuzzyThreshold float64
	rankedFloor    float64

	cache *gocache.Cache
}

// New builds a resolver over the reference store's ingredient table.
func New(store *refdata.Store, cfg model.ResolverConfig) *Resolver {
	r := &Resolver{
		entries:        store.Ingredients,
		rules:          store.Rules.Disambiguations,
		exact:          make(map[string]int),
		fuzzyThreshold: cfg.FuzzyThreshold,
		rankedFloor:    cfg.RankedFloor,
		cache:          gocache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
	}

	for i, e := range store.Ingredients {
		r.addSearchable(normalize(e.Canonical), i)
		if kw := normalize(e.Keyword); kw != "" && kw != normalize(e.Canonical) {
			r.addSearchable(kw, i)
		}
	}

	docs := make([][]string, len(r.searchable))
	for i, s := range r.searchable {
		docs[i] = tokenize(s)
	}
	r.ranked = newBM25Index(docs)

	return r
}

func (r *Resolver) addSearchable(s string, entry int) {
	if s == "" {
		return
	}
	if _, dup := r.exact[s]; !dup {
		r.exact[s] = len(r.searchable)
	}
	r.searchable = append(r.searchable, s)
	r.indexMap = append(r.indexMap, entry)
}

// Resolve resolves one mention in the context of the full title. The
// title matters only for disambiguation rules; the match itself runs over
// the mention text (or the rule's compound query).
func (r *Resolver) Resolve(title string, mention model.IngredientMention) model.ResolvedIngredient {
	query := r.disambiguate(title, mention.RawName)

	if cached, ok := r.cache.Get(normalize(query)); ok {
		res := cached.(model.ResolvedIngredient)
		res.Mention = mention
		return res
	}

	res := r.resolveQuery(query)
	res.Mention = mention
	r.cache.Set(normalize(query), res, gocache.DefaultExpiration)
	return res
}

// disambiguate applies context-dependent rules: when every trigger term
// occurs in the title and the mention matches the rule, the compound query
// replaces the mention text. Rules take precedence over the strategies.
func (r *Resolver) disambiguate(title, rawName string) string {
	titleUpper := strings.ToUpper(title)
	nameUpper := strings.ToUpper(rawName)

	for _, rule := range r.rules {
		if !strings.Contains(nameUpper, strings.ToUpper(rule.ApplyTo)) {
			continue
		}
		all := true
		for _, term := range rule.TriggerTerms {
			if !strings.Contains(titleUpper, strings.ToUpper(term)) {
				all = false
				break
			}
		}
		if all {
			return rule.Query
		}
	}
	return rawName
}

func (r *Resolver) resolveQuery(query string) model.ResolvedIngredient {
	norm := normalize(query)
	if norm == "" {
		return notFound()
	}

	// Tier 1: exact.
	if idx, ok := r.exact[norm]; ok {
		return r.hit(idx, model.MatchExact, 1.0)
	}

	// Tier 2: fuzzy.
	if idx, score := r.bestFuzzy(norm); idx >= 0 && score >= r.fuzzyThreshold {
		if !numberVariantMismatch(norm, r.searchable[idx]) {
			return r.hit(idx, model.MatchFuzzy, score)
		}
	}

	// Tier 3: ranked lexical.
	if idx, score := r.ranked.best(tokenize(query)); idx >= 0 && score >= r.rankedFloor {
		return r.hit(idx, model.MatchRanked, rankConfidence(score))
	}

	return notFound()
}

func (r *Resolver) bestFuzzy(norm string) (int, float64) {
	bestIdx, bestScore := -1, 0.0
	for i, s := range r.searchable {
		if score := similarity(norm, s); score > bestScore {
			bestIdx, bestScore = i, score
		}
	}
	return bestIdx, bestScore
}

func (r *Resolver) hit(searchIdx int, strategy model.MatchStrategy, confidence float64) model.ResolvedIngredient {
	e := r.entries[r.indexMap[searchIdx]]
	return model.ResolvedIngredient{
		CanonicalName: e.Canonical,
		Category:      e.Category,
		Subcategory:   e.Subcategory,
		Strategy:      strategy,
		Confidence:    confidence,
	}
}

func notFound() model.ResolvedIngredient {
	return model.ResolvedIngredient{
		Category:    model.UnknownCategory,
		Subcategory: model.UnknownCategory,
		Strategy:    model.MatchNotFound,
	}
}
