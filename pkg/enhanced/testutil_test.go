package enhanced

import (
	"encoding/binary"

	"github.com/suyashkumar/dicom/pkg/tag"
)

// fakeItem is an in-memory Item used to drive the pipeline without a
// real file.
type fakeItem struct {
	scalars map[tag.Tag]string
	floats  map[tag.Tag][]float64
	ints    map[tag.Tag][]int
	items   map[tag.Tag][]Item
}

func (it *fakeItem) Scalar(t tag.Tag) string {
	return it.scalars[t]
}

func (it *fakeItem) Floats(t tag.Tag) []float64 {
	return it.floats[t]
}

func (it *fakeItem) Ints(t tag.Tag) []int {
	return it.ints[t]
}

func (it *fakeItem) Items(t tag.Tag) []Item {
	return it.items[t]
}

// fakeReader is an in-memory Reader.
type fakeReader struct {
	fakeItem
	path   string
	pixels []byte
	pixErr error
}

func (r *fakeReader) Path() string {
	return r.path
}

func (r *fakeReader) PixelBuffer() ([]byte, error) {
	if r.pixErr != nil {
		return nil, r.pixErr
	}
	return r.pixels, nil
}

// parserFor returns a Parser whose reader factory always yields r.
func parserFor(r Reader, opts ...Option) *Parser {
	p := NewParser(opts...)
	p.open = func(string) (Reader, error) { return r, nil }
	return p
}

// uint16Buf packs samples into a little-endian 16-bit pixel buffer.
func uint16Buf(samples ...int) []byte {
	buf := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[2*i:], uint16(s))
	}
	return buf
}

// flatFrames packs per-frame constant samples: frame i is filled with
// values[i], each frame being samplesPerFrame samples of 16 bits.
func flatFrames(samplesPerFrame int, values ...int) []byte {
	var all []int
	for _, v := range values {
		for s := 0; s < samplesPerFrame; s++ {
			all = append(all, v)
		}
	}
	return uint16Buf(all...)
}

// testSeries builds a minimal 16-bit unsigned series with n frames of
// the given raster, default-initialized frame records, and a file
// path that fakeReader-backed parsers ignore.
func testSeries(n, rows, cols int) *SeriesRecord {
	return &SeriesRecord{
		FilePath:       "test.dcm",
		NumberOfFrames: n,
		Rows:           rows,
		Columns:        cols,
		BitsAllocated:  16,
		BitsStored:     16,
		PixelSpacing:   [2]float64{1.0, 1.0},
		Frames:         allocateFrames(n),
	}
}

// dimFrame builds a frame record carrying the given dimension index
// values.
func dimFrame(index int, dims map[tag.Tag]int) FrameRecord {
	f := newFrameRecord(index)
	for k, v := range dims {
		f.DimensionIndices[k] = v
	}
	return f
}
