// Package enhanced reconstructs ordered, spatially calibrated voxel
// volumes from enhanced multi-frame DICOM files: single files that
// bundle many 2D frames plus shared and per-frame metadata organized
// along one or more logical dimensions (stack position, temporal or
// cardiac phase, echo number, and so on).
//
// The pipeline runs in three stages. The functional group extractor
// populates one FrameRecord per frame from the shared and per-frame
// metadata groups. The dimension index sorter orders and groups the
// frames by the file's declared dimension organization, falling back
// to spatial position when none is declared. The volume assembler
// decodes each frame's samples from the shared pixel buffer, applies
// that frame's own intensity calibration, and builds a Volume with
// correct origin, spacing, and direction cosines.
package enhanced

import (
	"github.com/suyashkumar/dicom/pkg/tag"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// FrameRecord holds the geometric and intensity metadata of one 2D
// frame. Records are allocated with defaults, filled from the shared
// functional groups, then overwritten by per-frame values when
// present. Once extraction returns, a record is read-only.
type FrameRecord struct {
	// Index is the stable zero-based identity of the frame, equal to
	// its position in the on-disk frame order. It is assigned at parse
	// time and never reassigned; display order is decided later by the
	// sorter.
	Index int

	// Position is the physical location of the frame's first
	// (top-left) sample, in mm.
	Position r3.Vec

	// RowDir and ColDir are the unit direction cosines of the frame's
	// row and column axes in physical space.
	RowDir r3.Vec
	ColDir r3.Vec

	// SliceThickness is the declared through-plane extent in mm.
	SliceThickness float64

	// RescaleSlope and RescaleIntercept define the affine transform
	// from raw stored sample values to calibrated intensities.
	// Defaults are 1 and 0.
	RescaleSlope     float64
	RescaleIntercept float64

	// TriggerTime is the delay from the cardiac reference event in ms.
	// Valid only when HasTriggerTime is set.
	TriggerTime    float64
	HasTriggerTime bool

	// TemporalPosition is the frame's one-based temporal index. Valid
	// only when HasTemporalPosition is set.
	TemporalPosition    int
	HasTemporalPosition bool

	// DimensionIndices maps a dimension index pointer to this frame's
	// integer index along that axis. Keys are the resolved pointers
	// from the file's dimension organization; a missing key reads as
	// index 0 via DimensionIndex.
	DimensionIndices map[tag.Tag]int
}

// DimensionIndex returns the frame's index along the axis identified
// by ptr. A frame that does not participate in the axis reports 0;
// this is the documented fallback, not an error.
func (f *FrameRecord) DimensionIndex(ptr tag.Tag) int {
	return f.DimensionIndices[ptr]
}

// newFrameRecord allocates a record with the documented defaults:
// identity-like orientation, unit thickness, and identity intensity
// calibration.
func newFrameRecord(index int) FrameRecord {
	return FrameRecord{
		Index:            index,
		RowDir:           r3.Vec{X: 1},
		ColDir:           r3.Vec{Y: 1},
		SliceThickness:   1.0,
		RescaleSlope:     1.0,
		RescaleIntercept: 0.0,
		DimensionIndices: make(map[tag.Tag]int),
	}
}

// SeriesRecord is the parse result for one enhanced multi-frame file.
// The sorter and assembler borrow it read-only.
type SeriesRecord struct {
	// File identity.
	FilePath       string
	SOPClassUID    string
	SOPInstanceUID string

	// Descriptive identifiers.
	PatientName       string
	PatientID         string
	StudyInstanceUID  string
	SeriesInstanceUID string
	StudyDescription  string
	SeriesDescription string
	Modality          string

	// Raster geometry shared by every frame.
	NumberOfFrames      int
	Rows                int
	Columns             int
	BitsAllocated       int
	BitsStored          int
	PixelRepresentation int // 0 unsigned, 1 two's complement

	// PixelSpacing is the shared in-plane spacing in mm: row spacing
	// (between rows) first, then column spacing.
	PixelSpacing [2]float64

	// Frames in raw on-disk order. Frames[i].Index == i.
	Frames []FrameRecord

	// Organization is the declared dimension organization, possibly
	// empty (meaning: sort spatially).
	Organization DimensionOrganization

	// Warnings records every graceful degradation applied during
	// extraction, such as a missing per-frame group sequence.
	Warnings []string
}

// DimensionDefinition describes one logical sort/group axis declared
// by the file.
type DimensionDefinition struct {
	// IndexPointer is the attribute tag that frames' DimensionIndices
	// maps are keyed by for this axis.
	IndexPointer tag.Tag

	// FunctionalGroupPointer names the functional group sequence that
	// carries the pointed-to attribute.
	FunctionalGroupPointer tag.Tag

	// OrganizationUID and Label are optional descriptive fields.
	OrganizationUID string
	Label           string
}

// DimensionOrganization is the ordered list of declared axes. Order
// encodes sort priority: the first (outer) axis varies slowest, the
// last (inner) axis fastest. Pointers are unique within one
// organization. An empty organization means no declared ordering.
type DimensionOrganization struct {
	Definitions []DimensionDefinition
}

// IsEmpty reports whether no usable axis was declared.
func (o DimensionOrganization) IsEmpty() bool {
	return len(o.Definitions) == 0
}

// Volume is an ordered voxel grid with physical calibration. Each
// reconstruction call yields a new, independently owned Volume.
type Volume struct {
	// Data holds calibrated samples in x + y*Columns + z*Rows*Columns
	// order. Slice z corresponds to the z-th frame of the ordered
	// subset the volume was assembled from.
	Data []float64

	// Grid dimensions.
	Rows      int
	Columns   int
	NumSlices int

	// Spacing is the physical voxel size in mm: row, column, then
	// through-plane.
	Spacing [3]float64

	// Origin is the position of the first assembled frame.
	Origin r3.Vec

	// RowDir, ColDir, and Normal form the right-handed direction
	// basis. Normal is the cross product of RowDir and ColDir even
	// when the file never declares a through-plane direction.
	RowDir r3.Vec
	ColDir r3.Vec
	Normal r3.Vec
}

// At returns the calibrated sample at voxel (x, y, z).
func (v *Volume) At(x, y, z int) float64 {
	return v.Data[z*v.Rows*v.Columns+y*v.Columns+x]
}

// SliceCount returns the number of slices in the volume, which equals
// the number of frame indices supplied to assembly.
func (v *Volume) SliceCount() int {
	return v.NumSlices
}

// DirectionMatrix returns the 3x3 direction cosine matrix. Columns
// are, in order, the row axis, the column axis, and the through-plane
// normal.
func (v *Volume) DirectionMatrix() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		v.RowDir.X, v.ColDir.X, v.Normal.X,
		v.RowDir.Y, v.ColDir.Y, v.Normal.Y,
		v.RowDir.Z, v.ColDir.Z, v.Normal.Z,
	})
}
