package imaging

import (
	"bytes"
	"fmt"
	"image"
	"math/bits"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/corona10/goimagehash"

	"github.com/arbiscout/backend/internal/domain"
)

// PHasher computes 64-bit perceptual hashes. Visually similar images yield
// hashes with small Hamming distance; the comparison is approximate, not
// cryptographic.
type PHasher struct{}

// NewPHasher creates a perceptual hasher.
func NewPHasher() *PHasher {
	return &PHasher{}
}

// Hash decodes the image in memory and returns its perception-hash bits.
func (h *PHasher) Hash(data []byte) (uint64, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("%w: decode: %v", domain.ErrImageFetch, err)
	}

	hash, err := goimagehash.PerceptionHash(img)
	if err != nil {
		return 0, fmt.Errorf("%w: hash: %v", domain.ErrImageFetch, err)
	}
	return hash.GetHash(), nil
}

// Distance returns the Hamming distance between two signatures, 0-64.
func (h *PHasher) Distance(a, b uint64) int {
	return bits.OnesCount64(a ^ b)
}
