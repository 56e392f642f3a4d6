package enhanced

import (
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// dcmItem adapts a flat element list (the whole dataset or one
// sequence item) to the Item interface.
type dcmItem struct {
	elems []*dicom.Element
}

func (it dcmItem) find(t tag.Tag) *dicom.Element {
	for _, e := range it.elems {
		if e.Tag == t {
			return e
		}
	}
	return nil
}

func (it dcmItem) Scalar(t tag.Tag) string {
	e := it.find(t)
	if e == nil {
		return ""
	}
	switch e.Value.ValueType() {
	case dicom.Strings:
		vals, _ := e.Value.GetValue().([]string)
		if len(vals) > 0 {
			return strings.TrimSpace(vals[0])
		}
	case dicom.Ints:
		vals, _ := e.Value.GetValue().([]int)
		if len(vals) > 0 {
			return strconv.Itoa(vals[0])
		}
	case dicom.Floats:
		vals, _ := e.Value.GetValue().([]float64)
		if len(vals) > 0 {
			return strconv.FormatFloat(vals[0], 'g', -1, 64)
		}
	}
	return ""
}

func (it dcmItem) Floats(t tag.Tag) []float64 {
	e := it.find(t)
	if e == nil {
		return nil
	}
	switch e.Value.ValueType() {
	case dicom.Floats:
		vals, _ := e.Value.GetValue().([]float64)
		return vals
	case dicom.Ints:
		ints, _ := e.Value.GetValue().([]int)
		out := make([]float64, len(ints))
		for i, v := range ints {
			out[i] = float64(v)
		}
		return out
	case dicom.Strings:
		strs, _ := e.Value.GetValue().([]string)
		var out []float64
		for _, s := range strs {
			// Decimal strings may still carry the wire delimiter when
			// a writer stored the multivalue unsplit.
			for _, part := range strings.Split(s, `\`) {
				part = strings.TrimSpace(part)
				if part == "" {
					continue
				}
				v, err := strconv.ParseFloat(part, 64)
				if err != nil {
					return nil
				}
				out = append(out, v)
			}
		}
		return out
	}
	return nil
}

func (it dcmItem) Ints(t tag.Tag) []int {
	e := it.find(t)
	if e == nil {
		return nil
	}
	switch e.Value.ValueType() {
	case dicom.Ints:
		vals, _ := e.Value.GetValue().([]int)
		return vals
	case dicom.Strings:
		strs, _ := e.Value.GetValue().([]string)
		var out []int
		for _, s := range strs {
			for _, part := range strings.Split(s, `\`) {
				part = strings.TrimSpace(part)
				if part == "" {
					continue
				}
				v, err := strconv.Atoi(part)
				if err != nil {
					return nil
				}
				out = append(out, v)
			}
		}
		return out
	case dicom.Bytes:
		// Attribute-tag values surface as raw bytes from some writers:
		// pairs of little-endian uint16 (group, element).
		raw, _ := e.Value.GetValue().([]byte)
		if len(raw)%2 != 0 {
			return nil
		}
		out := make([]int, 0, len(raw)/2)
		for i := 0; i+1 < len(raw); i += 2 {
			out = append(out, int(binary.LittleEndian.Uint16(raw[i:])))
		}
		return out
	}
	return nil
}

func (it dcmItem) Items(t tag.Tag) []Item {
	e := it.find(t)
	if e == nil || e.Value.ValueType() != dicom.Sequences {
		return nil
	}
	seq, ok := e.Value.GetValue().([]*dicom.SequenceItemValue)
	if !ok {
		return nil
	}
	out := make([]Item, 0, len(seq))
	for _, si := range seq {
		elems, ok := si.GetValue().([]*dicom.Element)
		if !ok {
			continue
		}
		out = append(out, dcmItem{elems: elems})
	}
	return out
}

// dcmFile is the production Reader, backed by the external DICOM
// parser. The underlying OS handle is opened, read fully, and
// released inside OpenFile; nothing survives past the call.
type dcmFile struct {
	dcmItem
	path string

	// pixbuf caches the flattened sample bytes so that multi-volume
	// reconstruction decodes the pixel data element once.
	pixbuf []byte
}

// OpenFile opens path with the external DICOM reader and wraps the
// decoded dataset as a Reader.
func OpenFile(path string) (Reader, error) {
	ds, err := dicom.ParseFile(path, nil)
	if err != nil {
		return nil, WrapError(CodeParseFailed, err, "parsing "+path)
	}
	return &dcmFile{dcmItem: dcmItem{elems: ds.Elements}, path: path}, nil
}

func (f *dcmFile) Path() string {
	return f.path
}

// PixelBuffer flattens all native frames into one contiguous
// little-endian sample buffer, frame 0 first. Encapsulated
// (compressed) pixel data is out of scope and reported as
// UnsupportedPixelFormat.
func (f *dcmFile) PixelBuffer() ([]byte, error) {
	if f.pixbuf != nil {
		return f.pixbuf, nil
	}
	e := f.find(tagPixelData)
	if e == nil {
		return nil, Errorf(CodeMissingTag, "%s has no pixel data element", f.path)
	}
	if e.Value.ValueType() != dicom.PixelData {
		return nil, Errorf(CodeUnsupportedPixelFormat, "%s: pixel data element has unexpected value type", f.path)
	}
	info := dicom.MustGetPixelDataInfo(e.Value)
	if info.IsEncapsulated {
		return nil, Errorf(CodeUnsupportedPixelFormat, "%s: encapsulated pixel data is not supported", f.path)
	}

	var buf []byte
	for i := range info.Frames {
		native, err := info.Frames[i].GetNativeFrame()
		if err != nil {
			return nil, WrapError(CodeFrameExtractionFailed, err, "decoding frame "+strconv.Itoa(i))
		}
		bytesPerSample := native.BitsPerSample / 8
		if bytesPerSample != 1 && bytesPerSample != 2 {
			return nil, Errorf(CodeUnsupportedPixelFormat, "%s: %d bits per sample", f.path, native.BitsPerSample)
		}
		if buf == nil {
			buf = make([]byte, 0, len(info.Frames)*len(native.Data)*bytesPerSample)
		}
		for _, px := range native.Data {
			// First channel only; enhanced CT/MR/XA rasters are
			// single-sample grayscale.
			v := 0
			if len(px) > 0 {
				v = px[0]
			}
			if bytesPerSample == 1 {
				buf = append(buf, byte(v))
			} else {
				buf = append(buf, byte(v), byte(v>>8))
			}
		}
	}
	f.pixbuf = buf
	return buf, nil
}
