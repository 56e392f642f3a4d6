package enhanced

import (
	"fmt"
	"math"
	"sort"

	"github.com/suyashkumar/dicom/pkg/tag"
	"gonum.org/v1/gonum/spatial/r3"
)

// spatialTieEps is the projection tolerance under which two frames are
// considered coplanar and ordered by frame index instead.
const spatialTieEps = 1e-6

// ParseDimensionOrganization reads the dimension index sequence into
// an ordered organization. Items whose index pointer resolves to
// zero/unset are skipped: such an axis could never be matched against
// any frame's dimension indices. An organization with zero surviving
// definitions is equivalent to "no declared organization".
func ParseDimensionOrganization(r Reader) DimensionOrganization {
	var org DimensionOrganization
	for _, item := range r.Items(tagDimensionIndexSequence) {
		def := DimensionDefinition{
			IndexPointer:           pointerValue(item, tagDimensionIndexPointer),
			FunctionalGroupPointer: pointerValue(item, tagFunctionalGroupPointer),
			OrganizationUID:        item.Scalar(tagDimensionOrganizationUID),
			Label:                  item.Scalar(tagDimensionDescription),
		}
		if def.IndexPointer == (tag.Tag{}) {
			continue
		}
		org.Definitions = append(org.Definitions, def)
	}
	return org
}

// pointerValue decodes an attribute-tag value. Writers emit either a
// (group, element) pair or a single packed 32-bit value.
func pointerValue(it Item, t tag.Tag) tag.Tag {
	vals := it.Ints(t)
	switch {
	case len(vals) >= 2:
		return tag.Tag{Group: uint16(vals[0]), Element: uint16(vals[1])}
	case len(vals) == 1:
		v := uint32(vals[0])
		return tag.Tag{Group: uint16(v >> 16), Element: uint16(v & 0xFFFF)}
	}
	return tag.Tag{}
}

// SortFrames orders frames by stable lexicographic comparison over the
// organization's definitions in declared order: the first (outer)
// definition is compared first, later definitions break ties, and
// frames identical along every axis keep ascending frame index order.
// Sorting an already-sorted sequence is a no-op. The input is not
// mutated.
func SortFrames(frames []FrameRecord, org DimensionOrganization) []FrameRecord {
	out := make([]FrameRecord, len(frames))
	copy(out, frames)
	sort.SliceStable(out, func(i, j int) bool {
		return compareByDimensions(&out[i], &out[j], org.Definitions) < 0
	})
	return out
}

func compareByDimensions(a, b *FrameRecord, defs []DimensionDefinition) int {
	for _, def := range defs {
		av := a.DimensionIndex(def.IndexPointer)
		bv := b.DimensionIndex(def.IndexPointer)
		if av != bv {
			return av - bv
		}
	}
	return a.Index - b.Index
}

// SortFramesBySpatialPosition orders frames by projecting each frame's
// position onto the slice-plane normal of the first frame (the cross
// product of its row and column direction cosines) and sorting the
// projections ascending. Projections are quantized to spatialTieEps
// steps before comparison, which keeps the comparator a strict weak
// ordering; frames whose quantized projections coincide keep ascending
// frame index order. Used when a file declares no dimension
// organization.
func SortFramesBySpatialPosition(frames []FrameRecord) []FrameRecord {
	out := make([]FrameRecord, len(frames))
	copy(out, frames)
	if len(out) < 2 {
		return out
	}

	normal := r3.Cross(out[0].RowDir, out[0].ColDir)
	proj := make(map[int]float64, len(out))
	for _, f := range out {
		proj[f.Index] = math.Round(r3.Dot(f.Position, normal) / spatialTieEps)
	}

	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := proj[out[i].Index], proj[out[j].Index]
		if pi == pj {
			return out[i].Index < out[j].Index
		}
		return pi < pj
	})
	return out
}

// GroupByDimension partitions frames by their integer index along one
// dimension pointer. Frames missing the pointer land in group 0.
func GroupByDimension(frames []FrameRecord, ptr tag.Tag) map[int][]FrameRecord {
	groups := make(map[int][]FrameRecord)
	for _, f := range frames {
		v := f.DimensionIndex(ptr)
		groups[v] = append(groups[v], f)
	}
	return groups
}

// ReconstructVolumes reconstructs one volume per outer-dimension
// value. With one declared axis or none, the whole series is treated
// as a single spatial volume under group key 0. With two or more
// axes, frames are grouped by the outermost definition's pointer and
// each group is ordered by the remaining inner definitions before
// assembly.
//
// Reconstruction is all-or-nothing: a failure assembling any one
// group aborts the call and no partial map is returned, since a
// partial multi-phase result is worse than an explicit failure for
// clinical consumers.
func (p *Parser) ReconstructVolumes(series *SeriesRecord) (map[int]*Volume, error) {
	if series == nil || len(series.Frames) == 0 {
		return nil, Errorf(CodeInvalidInput, "series has no frames")
	}

	r, err := p.open(series.FilePath)
	if err != nil {
		return nil, err
	}

	org := series.Organization
	if len(org.Definitions) <= 1 {
		var sorted []FrameRecord
		if org.IsEmpty() {
			sorted = SortFramesBySpatialPosition(series.Frames)
		} else {
			sorted = SortFrames(series.Frames, org)
		}
		vol, err := assembleVolumeFromReader(r, series, frameIndices(sorted))
		if err != nil {
			return nil, err
		}
		return map[int]*Volume{0: vol}, nil
	}

	outer := org.Definitions[0]
	inner := DimensionOrganization{Definitions: org.Definitions[1:]}

	out := make(map[int]*Volume)
	for value, group := range GroupByDimension(series.Frames, outer.IndexPointer) {
		ordered := SortFrames(group, inner)
		vol, err := assembleVolumeFromReader(r, series, frameIndices(ordered))
		if err != nil {
			return nil, WrapError(CodeVolumeAssemblyFailed, err,
				fmt.Sprintf("assembling outer dimension value %d", value))
		}
		out[value] = vol
	}
	return out, nil
}

func frameIndices(frames []FrameRecord) []int {
	idx := make([]int, len(frames))
	for i, f := range frames {
		idx[i] = f.Index
	}
	return idx
}
