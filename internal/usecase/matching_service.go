package usecase

import (
	"context"
	"log"
	"math"
	"regexp"
	"strings"

	"github.com/foodlens/backend/internal/domain"
)

// Package-level compiled regex pattern for performance.
// Tokens are runs of two or more word characters, matching how product names
// split into meaningful words ("2%" or "&" never form a token on their own).
var tokenRegex = regexp.MustCompile(`\w\w+`)

// tokenize splits a string into normalized lowercase tokens
func tokenize(s string) []string {
	return tokenRegex.FindAllString(strings.ToLower(s), -1)
}

// VectorModel is a TF-IDF weighting scheme fit over the full set of product
// names. Read-only after construction; rebuilt wholesale when the catalog
// reloads, never patched incrementally.
type VectorModel struct {
	vocabulary map[string]int // term -> dense index
	idf        []float64      // indexed by vocabulary position
	docCount   int
}

// BuildVectorModel fits term weights over the given product names.
// Names that are empty after trimming are skipped; if no usable names remain,
// ErrEmptyCorpus is returned and search is not possible.
func BuildVectorModel(names []string) (*VectorModel, error) {
	model := &VectorModel{
		vocabulary: make(map[string]int),
	}

	docFrequencies := make(map[string]int)
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		model.docCount++

		seen := make(map[string]bool)
		for _, token := range tokenize(name) {
			if _, exists := model.vocabulary[token]; !exists {
				model.vocabulary[token] = len(model.vocabulary)
			}
			if !seen[token] {
				docFrequencies[token]++
				seen[token] = true
			}
		}
	}

	if model.docCount == 0 {
		return nil, domain.ErrEmptyCorpus
	}

	// Smoothed IDF: ln((1+N)/(1+df)) + 1. The smoothing keeps weights positive
	// and finite even for terms present in every name.
	model.idf = make([]float64, len(model.vocabulary))
	for term, idx := range model.vocabulary {
		df := float64(docFrequencies[term])
		model.idf[idx] = math.Log((1+float64(model.docCount))/(1+df)) + 1
	}

	return model, nil
}

// VocabularySize returns the number of distinct terms in the model
func (m *VectorModel) VocabularySize() int {
	return len(m.vocabulary)
}

// Vectorize converts text into a sparse TF-IDF vector under the model's
// vocabulary. Terms the model has never seen contribute nothing.
func (m *VectorModel) Vectorize(text string) map[int]float64 {
	vector := make(map[int]float64)
	for _, token := range tokenize(text) {
		if idx, exists := m.vocabulary[token]; exists {
			vector[idx] += m.idf[idx]
		}
	}
	return vector
}

// cosineSimilarity computes the cosine of two sparse vectors.
// Returns 0 when either vector has zero magnitude; never divides by zero.
func cosineSimilarity(a, b map[int]float64) float64 {
	// Iterate the smaller vector for the dot product
	if len(b) < len(a) {
		a, b = b, a
	}

	dot := 0.0
	for idx, av := range a {
		if bv, exists := b[idx]; exists {
			dot += av * bv
		}
	}
	if dot == 0 {
		return 0
	}

	magA := 0.0
	for _, v := range a {
		magA += v * v
	}
	magB := 0.0
	for _, v := range b {
		magB += v * v
	}

	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

// MatchConfig holds configuration for the matching service
type MatchConfig struct {
	SimilarityThreshold float64
	EnableDebugLogging  bool
}

// MatchingService scores free-text queries against product names and picks
// the single best match above a confidence threshold
type MatchingService struct {
	similarityThreshold float64
	enableDebugLogging  bool
}

// NewMatchingService creates a new matching service with the given configuration
func NewMatchingService(config MatchConfig) *MatchingService {
	threshold := config.SimilarityThreshold
	if threshold <= 0 {
		threshold = 0.5 // Default: require better than coin-flip similarity
	}

	return &MatchingService{
		similarityThreshold: threshold,
		enableDebugLogging:  config.EnableDebugLogging,
	}
}

// FindBestMatch scores the query against every candidate's name and returns
// the highest-scoring product. Ties go to the earlier candidate, so results
// are deterministic for a given candidate order. The boolean is false when
// candidates is empty or the best similarity does not exceed the threshold;
// callers are expected to fall back to substring suggestions in that case.
func (s *MatchingService) FindBestMatch(
	ctx context.Context,
	query string,
	candidates []domain.Product,
	model *VectorModel,
) (*domain.MatchResult, bool, error) {
	if strings.TrimSpace(query) == "" {
		return nil, false, domain.ErrInvalidRequest
	}

	if len(candidates) == 0 {
		return nil, false, nil
	}

	queryVector := model.Vectorize(query)

	var best *domain.MatchResult
	highestScore := -1.0 // any score (including 0) beats the initial value

	for i := range candidates {
		select {
		case <-ctx.Done():
			return nil, false, ctx.Err()
		default:
		}

		score := cosineSimilarity(queryVector, model.Vectorize(candidates[i].Name))
		if score > 1 {
			score = 1 // guard against floating point drift
		}

		if s.enableDebugLogging {
			log.Printf("[MATCH] Candidate: %q | Score: %.3f", candidates[i].Name, score)
		}

		if score > highestScore {
			highestScore = score
			best = &domain.MatchResult{
				Product: candidates[i],
				Score:   score,
			}
		}
	}

	if s.enableDebugLogging {
		log.Printf("[MATCH] Best match: %q (score: %.3f, threshold: %.2f)",
			best.Product.Name, best.Score, s.similarityThreshold)
	}

	if best.Score <= s.similarityThreshold {
		return best, false, nil
	}

	return best, true, nil
}

// Suggest returns the candidates whose name contains the query as a
// case-insensitive substring, preserving candidate order. Used as the
// fallback when no candidate clears the similarity threshold.
func (s *MatchingService) Suggest(query string, candidates []domain.Product) []domain.Product {
	queryLower := strings.ToLower(strings.TrimSpace(query))
	if queryLower == "" {
		return nil
	}

	var suggestions []domain.Product
	for i := range candidates {
		if strings.Contains(strings.ToLower(candidates[i].Name), queryLower) {
			suggestions = append(suggestions, candidates[i])
		}
	}
	return suggestions
}
