package vectorizer

// Provider turns a playlist name into a fixed-dimension dense vector.
// Implementations must be deterministic for identical input and model version,
// so callers may cache results keyed by the input text.
type Provider interface {
	Transform(text string) ([]float32, error)
	Dimension() int
}
