package entities

import "errors"

// Domain errors represent pipeline stage failures.
// Every failure surfaces immediately; the only silent degradation in the
// system is per-field numeric coercion during catalog loading.
var (
	// ErrLoad indicates the source catalog is missing or malformed.
	ErrLoad = errors.New("catalog load failed")

	// ErrIndex indicates the persisted vector index is corrupt or was built
	// with an incompatible embedding dimensionality.
	ErrIndex = errors.New("vector index invalid")

	// ErrEmbedding indicates the embedding service is unreachable or
	// returned malformed output.
	ErrEmbedding = errors.New("embedding failed")

	// ErrGeneration indicates the generative model is unreachable or errored.
	ErrGeneration = errors.New("generation failed")
)
