// Package palette extracts the dominant, average and vibrant colors
// from a selfie. It is the local, in-process color extractor; the exact
// extraction algorithm is deliberately simple since downstream scoring
// only consumes three representative RGB triples.
package palette

import (
	"bytes"
	"context"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"

	"github.com/glowlab/dermalyze/internal/domain"
)

const (
	// bucketSize quantizes channels for the dominant-color histogram.
	bucketSize = 32
	// maxSamplesPerAxis caps the pixel grid walked per image.
	maxSamplesPerAxis = 128
)

// Extractor implements provider.ColorExtractor over stdlib image decoding.
type Extractor struct{}

// NewExtractor creates a palette extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

type bucketStats struct {
	count   int
	r, g, b int64
}

// ExtractColors decodes the image and derives the three samples. An
// undecodable or empty image yields empty samples and no error: the
// engine substitutes the neutral default and confidence absorbs the
// degradation.
func (e *Extractor) ExtractColors(_ context.Context, data []byte) (domain.ColorSamples, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return domain.ColorSamples{}, nil
	}

	bounds := img.Bounds()
	if bounds.Empty() {
		return domain.ColorSamples{}, nil
	}

	strideX := (bounds.Dx() + maxSamplesPerAxis - 1) / maxSamplesPerAxis
	strideY := (bounds.Dy() + maxSamplesPerAxis - 1) / maxSamplesPerAxis
	if strideX < 1 {
		strideX = 1
	}
	if strideY < 1 {
		strideY = 1
	}

	var (
		total            int64
		rSum, gSum, bSum int64
		buckets          = make(map[[3]uint8]*bucketStats)
		vibrant          domain.RGB
		bestVibrancy     float64
	)

	for y := bounds.Min.Y; y < bounds.Max.Y; y += strideY {
		for x := bounds.Min.X; x < bounds.Max.X; x += strideX {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			r, g, b := int(c.R), int(c.G), int(c.B)

			total++
			rSum += int64(r)
			gSum += int64(g)
			bSum += int64(b)

			key := [3]uint8{uint8(r / bucketSize), uint8(g / bucketSize), uint8(b / bucketSize)}
			stats := buckets[key]
			if stats == nil {
				stats = &bucketStats{}
				buckets[key] = stats
			}
			stats.count++
			stats.r += int64(r)
			stats.g += int64(g)
			stats.b += int64(b)

			if v := vibrancy(r, g, b); v > bestVibrancy {
				bestVibrancy = v
				vibrant = domain.NewRGB(r, g, b)
			}
		}
	}

	if total == 0 {
		return domain.ColorSamples{}, nil
	}

	average := domain.NewRGB(int(rSum/total), int(gSum/total), int(bSum/total))
	dominant := dominantFromBuckets(buckets)

	return domain.ColorSamples{
		Dominant: &dominant,
		Average:  &average,
		Vibrant:  &vibrant,
	}, nil
}

// dominantFromBuckets picks the most populated quantization bucket and
// returns its mean color.
func dominantFromBuckets(buckets map[[3]uint8]*bucketStats) domain.RGB {
	var best *bucketStats
	for _, stats := range buckets {
		if best == nil || stats.count > best.count {
			best = stats
		}
	}
	n := int64(best.count)
	return domain.NewRGB(int(best.r/n), int(best.g/n), int(best.b/n))
}

// vibrancy ranks a pixel by saturation times brightness, so washed-out
// and near-black pixels never win the vibrant slot.
func vibrancy(r, g, b int) float64 {
	maxC := max3(r, g, b)
	minC := min3(r, g, b)
	if maxC == 0 {
		return 0
	}
	saturation := float64(maxC-minC) / float64(maxC)
	value := float64(maxC) / 255
	return saturation * value
}

func max3(a, b, c int) int {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
