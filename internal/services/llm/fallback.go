package llm

import (
	"crypto/md5"
)

// HashEmbedding derives a deterministic low-quality embedding from the text
// content itself. It is the degraded-mode substitute used when the real
// embedding backend is unavailable: retrieval quality drops, but ingestion
// keeps working and identical text always maps to the identical vector.
//
// The MD5 digest bytes are scaled into [0,1] and cycled to fill the
// configured dimension.
func HashEmbedding(text string, dimension int) []float32 {
	if dimension <= 0 {
		return nil
	}

	digest := md5.Sum([]byte(text))

	vector := make([]float32, dimension)
	for i := 0; i < dimension; i++ {
		vector[i] = float32(digest[i%len(digest)]) / 255.0
	}
	return vector
}
