package vectorizer

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"regexp"
	"sort"
	"strings"
)

var tokenPattern = regexp.MustCompile(`\b\w+\b`)

var ErrNotFitted = errors.New("tfidf vectorizer is not fitted")

// TFIDFVectorizer is a fitted bag-of-words model over playlist names.
// Fit selects up to MaxFeatures terms by corpus-wide term count (ties broken
// alphabetically), assigns vocabulary indices in alphabetical order and
// computes smoothed idf weights. Transform produces an l2-normalized dense
// vector, so the same artifact serves both cosine and l2 collections.
type TFIDFVectorizer struct {
	MaxFeatures int

	vocabulary map[string]int
	idf        []float64
}

func NewTFIDFVectorizer(maxFeatures int) *TFIDFVectorizer {
	return &TFIDFVectorizer{MaxFeatures: maxFeatures}
}

func (v *TFIDFVectorizer) tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	tokens := make([]string, 0, len(raw))
	for _, tok := range raw {
		if _, stop := englishStopWords[tok]; stop {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// Fit learns the vocabulary and idf weights from a corpus of playlist names.
// Fitting twice on the same corpus yields an identical model.
func (v *TFIDFVectorizer) Fit(docs []string) error {
	if len(docs) == 0 {
		return errors.New("cannot fit tfidf vectorizer on an empty corpus")
	}

	termCount := make(map[string]int)
	docFreq := make(map[string]int)

	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, tok := range v.tokenize(doc) {
			termCount[tok]++
			seen[tok] = struct{}{}
		}
		for tok := range seen {
			docFreq[tok]++
		}
	}

	if len(termCount) == 0 {
		return errors.New("corpus produced no terms after tokenization")
	}

	terms := make([]string, 0, len(termCount))
	for term := range termCount {
		terms = append(terms, term)
	}

	if v.MaxFeatures > 0 && len(terms) > v.MaxFeatures {
		sort.Slice(terms, func(i, j int) bool {
			if termCount[terms[i]] != termCount[terms[j]] {
				return termCount[terms[i]] > termCount[terms[j]]
			}
			return terms[i] < terms[j]
		})
		terms = terms[:v.MaxFeatures]
	}

	// Vocabulary indices are alphabetical over the selected terms.
	sort.Strings(terms)

	n := float64(len(docs))
	v.vocabulary = make(map[string]int, len(terms))
	v.idf = make([]float64, len(terms))
	for i, term := range terms {
		v.vocabulary[term] = i
		// Smoothed idf: every term behaves as if seen in one extra document.
		v.idf[i] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}

	return nil
}

// Transform maps a playlist name to its tf-idf vector. Text containing no
// vocabulary terms maps to the zero vector; blank input is the caller's
// problem and is rejected upstream.
func (v *TFIDFVectorizer) Transform(text string) ([]float32, error) {
	if v.vocabulary == nil {
		return nil, ErrNotFitted
	}

	counts := make(map[int]int)
	for _, tok := range v.tokenize(text) {
		if idx, ok := v.vocabulary[tok]; ok {
			counts[idx]++
		}
	}

	vec := make([]float32, len(v.idf))
	for idx, count := range counts {
		vec[idx] = float32(float64(count) * v.idf[idx])
	}

	return normalizeVector(vec), nil
}

func (v *TFIDFVectorizer) Dimension() int {
	return len(v.idf)
}

func (v *TFIDFVectorizer) Fitted() bool {
	return v.vocabulary != nil
}

// tfidfArtifact is the on-disk shape of a fitted model.
type tfidfArtifact struct {
	MaxFeatures int            `json:"max_features"`
	Vocabulary  map[string]int `json:"vocabulary"`
	Idf         []float64      `json:"idf"`
}

// Save writes the fitted model so the REST process can load exactly the
// model the index was built with.
func (v *TFIDFVectorizer) Save(path string) error {
	if v.vocabulary == nil {
		return ErrNotFitted
	}

	data, err := json.Marshal(tfidfArtifact{
		MaxFeatures: v.MaxFeatures,
		Vocabulary:  v.vocabulary,
		Idf:         v.idf,
	})
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

func LoadTFIDF(path string) (*TFIDFVectorizer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var artifact tfidfArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("invalid tfidf artifact %s: %w", path, err)
	}
	if len(artifact.Vocabulary) != len(artifact.Idf) {
		return nil, fmt.Errorf("corrupt tfidf artifact %s: %d vocabulary terms, %d idf weights",
			path, len(artifact.Vocabulary), len(artifact.Idf))
	}

	return &TFIDFVectorizer{
		MaxFeatures: artifact.MaxFeatures,
		vocabulary:  artifact.Vocabulary,
		idf:         artifact.Idf,
	}, nil
}
