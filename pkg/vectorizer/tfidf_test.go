package vectorizer

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fitFixture(t *testing.T) *TFIDFVectorizer {
	t.Helper()
	v := NewTFIDFVectorizer(0)
	err := v.Fit([]string{
		"summer road trip",
		"summer chill",
		"workout mix",
		"chill summer nights",
	})
	require.NoError(t, err)
	return v
}

func TestFitBuildsVocabulary(t *testing.T) {
	v := fitFixture(t)

	assert.True(t, v.Fitted())
	// chill, mix, nights, road, summer, trip, workout
	assert.Equal(t, 7, v.Dimension())
}

func TestFitIsDeterministic(t *testing.T) {
	docs := []string{"summer road trip", "summer chill", "workout mix"}

	a := NewTFIDFVectorizer(0)
	require.NoError(t, a.Fit(docs))
	b := NewTFIDFVectorizer(0)
	require.NoError(t, b.Fit(docs))

	vecA, err := a.Transform("summer trip")
	require.NoError(t, err)
	vecB, err := b.Transform("summer trip")
	require.NoError(t, err)
	assert.Equal(t, vecA, vecB)
}

func TestMaxFeaturesKeepsMostFrequentTerms(t *testing.T) {
	v := NewTFIDFVectorizer(2)
	require.NoError(t, v.Fit([]string{
		"summer summer summer chill chill rare",
	}))

	assert.Equal(t, 2, v.Dimension())
	// "rare" is pruned: transforming it alone yields the zero vector.
	vec, err := v.Transform("rare")
	require.NoError(t, err)
	for _, x := range vec {
		assert.Zero(t, x)
	}
	// "summer" survives.
	vec, err = v.Transform("summer")
	require.NoError(t, err)
	var norm float64
	for _, x := range vec {
		norm += float64(x) * float64(x)
	}
	assert.Greater(t, norm, 0.0)
}

func TestTransformIsNormalized(t *testing.T) {
	v := fitFixture(t)

	vec, err := v.Transform("summer chill nights")
	require.NoError(t, err)

	var norm float64
	for _, x := range vec {
		norm += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-5)
}

func TestTransformIgnoresStopWordsAndCase(t *testing.T) {
	v := fitFixture(t)

	withStops, err := v.Transform("the SUMMER and the CHILL")
	require.NoError(t, err)
	without, err := v.Transform("summer chill")
	require.NoError(t, err)

	assert.Equal(t, without, withStops)
}

func TestTransformUnknownTextIsZeroVector(t *testing.T) {
	v := fitFixture(t)

	vec, err := v.Transform("polka accordion")
	require.NoError(t, err)
	assert.Len(t, vec, v.Dimension())
	for _, x := range vec {
		assert.Zero(t, x)
	}
}

func TestTransformUnfittedFails(t *testing.T) {
	v := NewTFIDFVectorizer(100)

	vec, err := v.Transform("summer")
	assert.Nil(t, vec)
	assert.ErrorIs(t, err, ErrNotFitted)
}

func TestArtifactRoundTrip(t *testing.T) {
	v := fitFixture(t)
	path := filepath.Join(t.TempDir(), "vectorizer.json")

	require.NoError(t, v.Save(path))

	loaded, err := LoadTFIDF(path)
	require.NoError(t, err)
	assert.Equal(t, v.Dimension(), loaded.Dimension())

	want, err := v.Transform("summer nights")
	require.NoError(t, err)
	got, err := loaded.Transform("summer nights")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadRejectsCorruptArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectorizer.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"vocabulary":{"a":0},"idf":[]}`), 0o644))

	loaded, err := LoadTFIDF(path)
	assert.Nil(t, loaded)
	assert.Error(t, err)
}

func TestFitEmptyCorpusFails(t *testing.T) {
	v := NewTFIDFVectorizer(10)
	assert.Error(t, v.Fit(nil))
	assert.Error(t, v.Fit([]string{"", "the and"}))
}
