package enhanced

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Functional group extraction. The shared group is read once and its
// values broadcast to every frame as defaults; the per-frame group is
// then read item by item, overriding those defaults where a frame
// carries its own values. Missing groups degrade to the documented
// defaults and are recorded as warnings, never raised as errors, so
// that assembly can still attempt a best-effort reconstruction.

// allocateFrames creates the dense frame record set for a series.
func allocateFrames(n int) []FrameRecord {
	frames := make([]FrameRecord, n)
	for i := range frames {
		frames[i] = newFrameRecord(i)
	}
	return frames
}

// extractSharedGroups reads the shared functional group sequence and
// broadcasts each present sub-group to every frame. Absent sub-groups
// leave the allocation defaults untouched.
func extractSharedGroups(r Reader, series *SeriesRecord) {
	shared := firstItem(r, tagSharedFunctionalGroups)
	if shared == nil {
		series.Warnings = append(series.Warnings,
			"shared functional group sequence absent; using defaults")
		return
	}

	if pm := firstItem(shared, tagPixelMeasuresSequence); pm != nil {
		if sp := pm.Floats(tagPixelSpacing); len(sp) >= 2 {
			series.PixelSpacing = [2]float64{sp[0], sp[1]}
		}
		if th := pm.Floats(tagSliceThickness); len(th) >= 1 {
			for i := range series.Frames {
				series.Frames[i].SliceThickness = th[0]
			}
		}
	}

	if pvt := firstItem(shared, tagPixelValueTransformation); pvt != nil {
		slope, intercept, hasSlope, hasIntercept := rescaleValues(pvt)
		for i := range series.Frames {
			if hasSlope {
				series.Frames[i].RescaleSlope = slope
			}
			if hasIntercept {
				series.Frames[i].RescaleIntercept = intercept
			}
		}
	}

	if po := firstItem(shared, tagPlaneOrientationSequence); po != nil {
		if row, col, ok := orientationPair(po); ok {
			for i := range series.Frames {
				series.Frames[i].RowDir = row
				series.Frames[i].ColDir = col
			}
		}
	}
}

// extractPerFrameGroups reads the per-frame functional group sequence
// in declared order and overrides the shared defaults frame by frame.
// Dimension index values are re-keyed from their ordinal position to
// the resolved pointer of the matching organization definition, so
// downstream comparisons never depend on emission order.
func extractPerFrameGroups(r Reader, series *SeriesRecord, org DimensionOrganization) {
	items := r.Items(tagPerFrameFunctionalGroups)
	if len(items) < series.NumberOfFrames {
		series.Warnings = append(series.Warnings, fmt.Sprintf(
			"per-frame functional groups cover %d of %d frames; remaining frames keep shared defaults",
			len(items), series.NumberOfFrames))
	}

	for i, item := range items {
		if i >= series.NumberOfFrames {
			break
		}
		frame := &series.Frames[i]

		if pp := firstItem(item, tagPlanePositionSequence); pp != nil {
			if pos := pp.Floats(tagImagePositionPatient); len(pos) >= 3 {
				frame.Position = r3.Vec{X: pos[0], Y: pos[1], Z: pos[2]}
			}
		}

		if po := firstItem(item, tagPlaneOrientationSequence); po != nil {
			if row, col, ok := orientationPair(po); ok {
				frame.RowDir = row
				frame.ColDir = col
			}
		}

		if pvt := firstItem(item, tagPixelValueTransformation); pvt != nil {
			slope, intercept, hasSlope, hasIntercept := rescaleValues(pvt)
			if hasSlope {
				frame.RescaleSlope = slope
			}
			if hasIntercept {
				frame.RescaleIntercept = intercept
			}
		}

		if cs := firstItem(item, tagCardiacSynchronization); cs != nil {
			if tt := cs.Floats(tagNominalCardiacTriggerDelay); len(tt) >= 1 {
				frame.TriggerTime = tt[0]
				frame.HasTriggerTime = true
			}
		}

		if fc := firstItem(item, tagFrameContentSequence); fc != nil {
			if tp := fc.Ints(TagTemporalPositionIndex); len(tp) >= 1 {
				frame.TemporalPosition = tp[0]
				frame.HasTemporalPosition = true
			}
			if sp := fc.Ints(TagInStackPositionNumber); len(sp) >= 1 {
				frame.DimensionIndices[TagInStackPositionNumber] = sp[0]
			}
			for j, v := range fc.Ints(tagDimensionIndexValues) {
				if j >= len(org.Definitions) {
					// Values past the declared axes cannot be matched
					// against any definition.
					break
				}
				frame.DimensionIndices[org.Definitions[j].IndexPointer] = v
			}
		}
	}
}

// rescaleValues reads a pixel value transformation sub-group. Each
// value is meaningful only when its flag is set; a field absent at
// this granularity must keep whatever value the frame already
// carries, so callers override the two fields independently.
func rescaleValues(it Item) (slope, intercept float64, hasSlope, hasIntercept bool) {
	if s := it.Floats(tagRescaleSlope); len(s) >= 1 {
		slope, hasSlope = s[0], true
	}
	if c := it.Floats(tagRescaleIntercept); len(c) >= 1 {
		intercept, hasIntercept = c[0], true
	}
	return slope, intercept, hasSlope, hasIntercept
}

// orientationPair reads the six direction cosines of a plane
// orientation sub-group.
func orientationPair(it Item) (row, col r3.Vec, ok bool) {
	o := it.Floats(tagImageOrientationPatient)
	if len(o) < 6 {
		return r3.Vec{}, r3.Vec{}, false
	}
	row = r3.Vec{X: o[0], Y: o[1], Z: o[2]}
	col = r3.Vec{X: o[3], Y: o[4], Z: o[5]}
	return row, col, true
}
