package enhanced

import (
	"github.com/rs/zerolog"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// Supported multi-frame SOP classes. Anything else is rejected as
// NotEnhancedIOD before any metadata extraction happens.
var enhancedSOPClasses = map[string]string{
	"1.2.840.10008.5.1.4.1.1.2.1":    "Enhanced CT Image Storage",
	"1.2.840.10008.5.1.4.1.1.4.1":    "Enhanced MR Image Storage",
	"1.2.840.10008.5.1.4.1.1.12.1.1": "Enhanced XA Image Storage",
}

// IsSupportedSOPClass reports whether uid names one of the enhanced
// multi-frame kinds this package can reconstruct.
func IsSupportedSOPClass(uid string) bool {
	_, ok := enhancedSOPClasses[uid]
	return ok
}

// IsEnhanced is a cheap pre-check: it reports whether the file at
// path declares a supported enhanced multi-frame SOP class, without
// producing a SeriesRecord.
func IsEnhanced(path string) bool {
	r, err := OpenFile(path)
	if err != nil {
		return false
	}
	return IsSupportedSOPClass(r.Scalar(tagSOPClassUID))
}

// ProgressFunc receives a monotonically increasing fraction in [0,1]
// at fixed checkpoints of a parse. It runs synchronously on the
// calling goroutine and must not block.
type ProgressFunc func(fraction float64)

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger used to flag graceful-degradation events
// and parse summaries. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(p *Parser) { p.log = log }
}

// WithProgress sets the progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(p *Parser) { p.progress = fn }
}

// Parser drives the pipeline: validate the file kind, populate the
// series record, extract functional groups, then hand off to the
// sorter and assembler. A Parser carries no shared mutable state, so
// distinct instances may run concurrently on different files.
type Parser struct {
	log      zerolog.Logger
	progress ProgressFunc

	// open is the reader factory; tests substitute an in-memory one.
	open func(path string) (Reader, error)
}

// NewParser returns a Parser with the given options applied.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		log:  zerolog.Nop(),
		open: OpenFile,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Parser) report(fraction float64) {
	if p.progress != nil {
		p.progress(fraction)
	}
}

// ParseFile opens the file at path and extracts its series and frame
// metadata. The returned record is a self-contained snapshot; the
// underlying file handle is released before ParseFile returns.
func (p *Parser) ParseFile(path string) (*SeriesRecord, error) {
	r, err := p.open(path)
	if err != nil {
		return nil, err
	}
	return p.parseReader(r)
}

func (p *Parser) parseReader(r Reader) (*SeriesRecord, error) {
	uid := r.Scalar(tagSOPClassUID)
	if !IsSupportedSOPClass(uid) {
		return nil, Errorf(CodeNotEnhancedIOD,
			"%s: SOP class %q is not a supported multi-frame kind", r.Path(), uid)
	}

	series := &SeriesRecord{
		FilePath:          r.Path(),
		SOPClassUID:       uid,
		SOPInstanceUID:    r.Scalar(tagSOPInstanceUID),
		PatientName:       r.Scalar(tagPatientName),
		PatientID:         r.Scalar(tagPatientID),
		StudyInstanceUID:  r.Scalar(tagStudyInstanceUID),
		SeriesInstanceUID: r.Scalar(tagSeriesInstanceUID),
		StudyDescription:  r.Scalar(tagStudyDescription),
		SeriesDescription: r.Scalar(tagSeriesDescription),
		Modality:          r.Scalar(tagModality),
		PixelSpacing:      [2]float64{1.0, 1.0},
	}

	n := firstInt(r, tagNumberOfFrames)
	if n <= 0 {
		return nil, Errorf(CodeInconsistentData,
			"%s declares %d frames", r.Path(), n)
	}
	series.NumberOfFrames = n

	series.Rows = firstInt(r, tagRows)
	series.Columns = firstInt(r, tagColumns)
	series.BitsAllocated = firstInt(r, tagBitsAllocated)
	series.BitsStored = firstInt(r, tagBitsStored)
	series.PixelRepresentation = firstInt(r, tagPixelRepresentation)
	if series.Rows <= 0 || series.Columns <= 0 || series.BitsAllocated <= 0 {
		return nil, Errorf(CodeMissingTag,
			"%s lacks raster attributes (rows=%d columns=%d bitsAllocated=%d)",
			r.Path(), series.Rows, series.Columns, series.BitsAllocated)
	}
	p.report(0.10)

	series.Organization = ParseDimensionOrganization(r)
	p.report(0.35)

	series.Frames = allocateFrames(n)
	extractSharedGroups(r, series)
	p.report(0.55)

	extractPerFrameGroups(r, series, series.Organization)
	p.report(0.90)

	for _, w := range series.Warnings {
		p.log.Warn().Str("file", series.FilePath).Msg(w)
	}
	p.log.Debug().
		Str("file", series.FilePath).
		Str("sopClass", enhancedSOPClasses[uid]).
		Int("frames", n).
		Int("dimensions", len(series.Organization.Definitions)).
		Msg("parsed enhanced series")

	p.report(1.0)
	return series, nil
}

func firstInt(it Item, t tag.Tag) int {
	vals := it.Ints(t)
	if len(vals) == 0 {
		return 0
	}
	return vals[0]
}
