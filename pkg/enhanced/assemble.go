package enhanced

import (
	"encoding/binary"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// throughPlaneEps is the minimum projected inter-frame distance (mm)
// accepted as a computed through-plane spacing. Below it, the first
// frame's declared slice thickness is used instead.
const throughPlaneEps = 0.001

// sampleDecoder converts one raw little-endian sample to a float.
// The variant is selected once per series from bits allocated and
// pixel representation, keeping the numeric paths testable in
// isolation.
type sampleDecoder func(buf []byte) float64

func newSampleDecoder(bitsAllocated, pixelRepresentation int) (sampleDecoder, error) {
	switch {
	case bitsAllocated == 8 && pixelRepresentation == 0:
		return func(buf []byte) float64 { return float64(buf[0]) }, nil
	case bitsAllocated == 8 && pixelRepresentation == 1:
		return func(buf []byte) float64 { return float64(int8(buf[0])) }, nil
	case bitsAllocated == 16 && pixelRepresentation == 0:
		return func(buf []byte) float64 { return float64(binary.LittleEndian.Uint16(buf)) }, nil
	case bitsAllocated == 16 && pixelRepresentation == 1:
		return func(buf []byte) float64 { return float64(int16(binary.LittleEndian.Uint16(buf))) }, nil
	}
	return nil, Errorf(CodeUnsupportedPixelFormat,
		"%d bits allocated with pixel representation %d", bitsAllocated, pixelRepresentation)
}

// AssembleVolume assembles a volume from every frame of the series in
// raw on-disk order. Callers wanting display order sort first and use
// AssembleVolumeFromFrames.
func (p *Parser) AssembleVolume(series *SeriesRecord) (*Volume, error) {
	if series == nil {
		return nil, Errorf(CodeInvalidInput, "nil series record")
	}
	indices := make([]int, series.NumberOfFrames)
	for i := range indices {
		indices[i] = i
	}
	return p.AssembleVolumeFromFrames(series, indices)
}

// AssembleVolumeFromFrames assembles a volume from an explicit frame
// subset. The indices must already be in the desired slice order;
// this method never re-sorts. The underlying file is opened, read
// fully, and released before returning.
func (p *Parser) AssembleVolumeFromFrames(series *SeriesRecord, indices []int) (*Volume, error) {
	if series == nil {
		return nil, Errorf(CodeInvalidInput, "nil series record")
	}
	r, err := p.open(series.FilePath)
	if err != nil {
		return nil, err
	}
	return assembleVolumeFromReader(r, series, indices)
}

// assembleVolumeFromReader is the assembly core. A frame's bytes are
// always located at Index*bytesPerFrame in the shared pixel buffer
// regardless of assembly order; the order of indices only controls
// where each frame's samples land in the output grid.
func assembleVolumeFromReader(r Reader, series *SeriesRecord, indices []int) (*Volume, error) {
	if len(indices) == 0 {
		return nil, Errorf(CodeInvalidInput, "empty frame index list")
	}
	maxIdx := 0
	for _, idx := range indices {
		if idx < 0 || idx >= series.NumberOfFrames {
			return nil, Errorf(CodeInvalidInput,
				"frame index %d outside [0, %d)", idx, series.NumberOfFrames)
		}
		if idx > maxIdx {
			maxIdx = idx
		}
	}
	if series.Rows <= 0 || series.Columns <= 0 {
		return nil, Errorf(CodeInconsistentData,
			"raster %dx%d", series.Rows, series.Columns)
	}

	decode, err := newSampleDecoder(series.BitsAllocated, series.PixelRepresentation)
	if err != nil {
		return nil, err
	}

	buf, err := r.PixelBuffer()
	if err != nil {
		return nil, err
	}

	bytesPerSample := series.BitsAllocated / 8
	samplesPerFrame := series.Rows * series.Columns
	bytesPerFrame := samplesPerFrame * bytesPerSample
	if need := (maxIdx + 1) * bytesPerFrame; len(buf) < need {
		return nil, Errorf(CodeFrameExtractionFailed,
			"pixel buffer holds %d bytes, frame %d needs %d", len(buf), maxIdx, need)
	}

	data := make([]float64, samplesPerFrame*len(indices))
	for z, idx := range indices {
		frame := &series.Frames[idx]
		off := idx * bytesPerFrame
		dst := z * samplesPerFrame
		for s := 0; s < samplesPerFrame; s++ {
			raw := decode(buf[off+s*bytesPerSample:])
			// Calibration is per frame, not per series: frames within
			// one file may carry different slopes and intercepts.
			data[dst+s] = raw*frame.RescaleSlope + frame.RescaleIntercept
		}
	}

	first := &series.Frames[indices[0]]
	cross := r3.Cross(first.RowDir, first.ColDir)
	if r3.Norm(cross) == 0 {
		return nil, Errorf(CodeInconsistentData,
			"frame %d has degenerate orientation cosines", first.Index)
	}
	normal := r3.Unit(cross)

	spacing := first.SliceThickness
	if len(indices) >= 2 {
		second := &series.Frames[indices[1]]
		d := math.Abs(r3.Dot(r3.Sub(second.Position, first.Position), normal))
		if d > throughPlaneEps {
			spacing = d
		}
	}

	return &Volume{
		Data:      data,
		Rows:      series.Rows,
		Columns:   series.Columns,
		NumSlices: len(indices),
		Spacing:   [3]float64{series.PixelSpacing[0], series.PixelSpacing[1], spacing},
		Origin:    first.Position,
		RowDir:    first.RowDir,
		ColDir:    first.ColDir,
		Normal:    normal,
	}, nil
}
