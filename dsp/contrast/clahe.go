package contrast

import (
	"fmt"
)

// Equalizer applies contrast-limited adaptive histogram equalization
// to a 2-D matrix of values in [0, 1].
//
// The matrix is divided into a grid of tiles. Each tile gets its own
// clipped histogram and equalization mapping; per-pixel output blends
// the mappings of the four surrounding tiles bilinearly, which removes
// the blocking artifacts of naive tile-wise equalization. Clipping the
// histogram at a fraction of the tile's pixel count bounds how much
// any single gray level can be stretched, limiting noise amplification
// in flat regions.
type Equalizer struct {
	clipLimit float64
	numBins   int
	tilesX    int
	tilesY    int
}

// NewEqualizer creates an equalizer with the given clip limit, using
// 256 histogram bins and an 8x8 tile grid. The clip limit is a
// fraction of each tile's pixel count and must lie in (0, 1].
func NewEqualizer(clipLimit float64) (*Equalizer, error) {
	return NewEqualizerWithGrid(clipLimit, 256, 8, 8)
}

// NewEqualizerWithGrid creates an equalizer with explicit histogram
// and tile grid geometry.
func NewEqualizerWithGrid(clipLimit float64, numBins, tilesX, tilesY int) (*Equalizer, error) {
	if clipLimit <= 0 || clipLimit > 1 {
		return nil, fmt.Errorf("clip limit must be in (0, 1], got %g", clipLimit)
	}

	if numBins <= 1 {
		return nil, fmt.Errorf("histogram bin count must be greater than 1, got %d", numBins)
	}

	if tilesX <= 0 || tilesY <= 0 {
		return nil, fmt.Errorf("tile grid must be positive, got %dx%d", tilesX, tilesY)
	}

	return &Equalizer{
		clipLimit: clipLimit,
		numBins:   numBins,
		tilesX:    tilesX,
		tilesY:    tilesY,
	}, nil
}

// Equalize returns a new matrix of the same shape with locally
// equalized contrast. Input values outside [0, 1] are clamped into
// range before binning; output values stay in [0, 1].
func (e *Equalizer) Equalize(matrix [][]float64) ([][]float64, error) {
	rows := len(matrix)
	if rows == 0 || len(matrix[0]) == 0 {
		return nil, fmt.Errorf("empty matrix")
	}
	cols := len(matrix[0])

	// Shrink the grid for small inputs so no tile is empty
	tilesY := min(e.tilesY, rows)
	tilesX := min(e.tilesX, cols)

	tileH := (rows + tilesY - 1) / tilesY
	tileW := (cols + tilesX - 1) / tilesX
	tilesY = (rows + tileH - 1) / tileH
	tilesX = (cols + tileW - 1) / tileW

	mappings := e.tileMappings(matrix, rows, cols, tilesX, tilesY, tileW, tileH)

	output := make([][]float64, rows)
	for r := range output {
		output[r] = make([]float64, cols)

		// Position in tile-center coordinates
		gy := (float64(r)+0.5)/float64(tileH) - 0.5
		y0 := int(gy)
		if gy < 0 {
			y0 = 0
		}
		y1 := min(y0+1, tilesY-1)
		fy := clamp01(gy - float64(y0))

		for c := range output[r] {
			gx := (float64(c)+0.5)/float64(tileW) - 0.5
			x0 := int(gx)
			if gx < 0 {
				x0 = 0
			}
			x1 := min(x0+1, tilesX-1)
			fx := clamp01(gx - float64(x0))

			bin := e.binFor(matrix[r][c])

			top := (1-fx)*mappings[y0][x0][bin] + fx*mappings[y0][x1][bin]
			bottom := (1-fx)*mappings[y1][x0][bin] + fx*mappings[y1][x1][bin]
			output[r][c] = (1-fy)*top + fy*bottom
		}
	}

	return output, nil
}

// tileMappings builds the clipped-histogram equalization mapping for
// every tile.
func (e *Equalizer) tileMappings(matrix [][]float64, rows, cols, tilesX, tilesY, tileW, tileH int) [][][]float64 {
	mappings := make([][][]float64, tilesY)

	for ty := range mappings {
		mappings[ty] = make([][]float64, tilesX)

		rowStart := ty * tileH
		rowEnd := min(rowStart+tileH, rows)

		for tx := range mappings[ty] {
			colStart := tx * tileW
			colEnd := min(colStart+tileW, cols)

			hist := make([]float64, e.numBins)
			pixels := 0
			for r := rowStart; r < rowEnd; r++ {
				for c := colStart; c < colEnd; c++ {
					hist[e.binFor(matrix[r][c])]++
					pixels++
				}
			}

			mappings[ty][tx] = e.equalizeHistogram(hist, pixels)
		}
	}

	return mappings
}

// equalizeHistogram clips the histogram, redistributes the excess
// uniformly, and returns the resulting CDF as a [0, 1] mapping.
func (e *Equalizer) equalizeHistogram(hist []float64, pixels int) []float64 {
	clip := e.clipLimit * float64(pixels)
	if clip < 1 {
		clip = 1
	}

	excess := 0.0
	for b, count := range hist {
		if count > clip {
			excess += count - clip
			hist[b] = clip
		}
	}

	share := excess / float64(len(hist))
	for b := range hist {
		hist[b] += share
	}

	mapping := make([]float64, len(hist))
	cum := 0.0
	for b, count := range hist {
		cum += count
		mapping[b] = cum / float64(pixels)
	}

	return mapping
}

func (e *Equalizer) binFor(value float64) int {
	v := clamp01(value)
	bin := int(v * float64(e.numBins))
	return min(bin, e.numBins-1)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
