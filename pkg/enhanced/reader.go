package enhanced

import "github.com/suyashkumar/dicom/pkg/tag"

// Item is one metadata container: either a whole dataset or a single
// item inside a sequence. The extractor walks shared-then-per-frame
// groups purely through this interface, so the underlying binary
// reader can be swapped or mocked in tests.
type Item interface {
	// Scalar returns the first value of the attribute as a string, or
	// "" when the attribute is absent or empty.
	Scalar(t tag.Tag) string

	// Floats returns the attribute's values parsed as floating point.
	// Multi-valued attributes arrive from the wire as delimited
	// strings; the implementation splits and parses them. Absent or
	// unparseable attributes return nil.
	Floats(t tag.Tag) []float64

	// Ints returns the attribute's values as integers, nil when
	// absent.
	Ints(t tag.Tag) []int

	// Items returns the nested items of a sequence attribute, nil
	// when absent or not a sequence.
	Items(t tag.Tag) []Item
}

// Reader is the file-level capability the pipeline consumes. It is
// the boundary to the external binary reader: the pipeline never
// touches the wire format directly.
type Reader interface {
	Item

	// Path returns the identity of the underlying file.
	Path() string

	// PixelBuffer returns the decoded, contiguous sample bytes for
	// the whole series: NumberOfFrames consecutive frames, each
	// Rows*Columns samples at BitsAllocated width, little-endian.
	PixelBuffer() ([]byte, error)
}

// firstItem returns the first nested item of a sequence attribute,
// or nil when the sequence is absent or empty.
func firstItem(it Item, t tag.Tag) Item {
	items := it.Items(t)
	if len(items) == 0 {
		return nil
	}
	return items[0]
}
