package enhanced

import "github.com/suyashkumar/dicom/pkg/tag"

// Well-known dimension index pointers. Files declare their own
// pointers in the dimension index sequence; these two are exported
// because frames also carry them as standalone attributes and callers
// commonly group on them.
var (
	// TagInStackPositionNumber identifies the spatial in-stack axis.
	TagInStackPositionNumber = tag.Tag{Group: 0x0020, Element: 0x9057}

	// TagTemporalPositionIndex identifies the temporal axis.
	TagTemporalPositionIndex = tag.Tag{Group: 0x0020, Element: 0x9128}

	// TagStackID distinguishes multiple stacks within one series.
	TagStackID = tag.Tag{Group: 0x0020, Element: 0x9056}
)

// Attributes consumed from the top-level dataset.
var (
	tagSOPClassUID         = tag.Tag{Group: 0x0008, Element: 0x0016}
	tagSOPInstanceUID      = tag.Tag{Group: 0x0008, Element: 0x0018}
	tagModality            = tag.Tag{Group: 0x0008, Element: 0x0060}
	tagStudyDescription    = tag.Tag{Group: 0x0008, Element: 0x1030}
	tagSeriesDescription   = tag.Tag{Group: 0x0008, Element: 0x103E}
	tagPatientName         = tag.Tag{Group: 0x0010, Element: 0x0010}
	tagPatientID           = tag.Tag{Group: 0x0010, Element: 0x0020}
	tagStudyInstanceUID    = tag.Tag{Group: 0x0020, Element: 0x000D}
	tagSeriesInstanceUID   = tag.Tag{Group: 0x0020, Element: 0x000E}
	tagNumberOfFrames      = tag.Tag{Group: 0x0028, Element: 0x0008}
	tagRows                = tag.Tag{Group: 0x0028, Element: 0x0010}
	tagColumns             = tag.Tag{Group: 0x0028, Element: 0x0011}
	tagBitsAllocated       = tag.Tag{Group: 0x0028, Element: 0x0100}
	tagBitsStored          = tag.Tag{Group: 0x0028, Element: 0x0101}
	tagPixelRepresentation = tag.Tag{Group: 0x0028, Element: 0x0103}
	tagPixelData           = tag.Tag{Group: 0x7FE0, Element: 0x0010}
)

// Functional group containers and their members.
var (
	tagSharedFunctionalGroups   = tag.Tag{Group: 0x5200, Element: 0x9229}
	tagPerFrameFunctionalGroups = tag.Tag{Group: 0x5200, Element: 0x9230}

	tagPixelMeasuresSequence        = tag.Tag{Group: 0x0028, Element: 0x9110}
	tagPixelValueTransformation     = tag.Tag{Group: 0x0028, Element: 0x9145}
	tagPlanePositionSequence        = tag.Tag{Group: 0x0020, Element: 0x9113}
	tagPlaneOrientationSequence     = tag.Tag{Group: 0x0020, Element: 0x9116}
	tagFrameContentSequence         = tag.Tag{Group: 0x0020, Element: 0x9111}
	tagCardiacSynchronization       = tag.Tag{Group: 0x0018, Element: 0x9118}
	tagNominalCardiacTriggerDelay   = tag.Tag{Group: 0x0020, Element: 0x9153}
	tagPixelSpacing                 = tag.Tag{Group: 0x0028, Element: 0x0030}
	tagSliceThickness               = tag.Tag{Group: 0x0018, Element: 0x0050}
	tagRescaleIntercept             = tag.Tag{Group: 0x0028, Element: 0x1052}
	tagRescaleSlope                 = tag.Tag{Group: 0x0028, Element: 0x1053}
	tagImagePositionPatient         = tag.Tag{Group: 0x0020, Element: 0x0032}
	tagImageOrientationPatient      = tag.Tag{Group: 0x0020, Element: 0x0037}
	tagDimensionIndexValues         = tag.Tag{Group: 0x0020, Element: 0x9157}
)

// Dimension index declaration.
var (
	tagDimensionIndexSequence   = tag.Tag{Group: 0x0020, Element: 0x9222}
	tagDimensionIndexPointer    = tag.Tag{Group: 0x0020, Element: 0x9165}
	tagFunctionalGroupPointer   = tag.Tag{Group: 0x0020, Element: 0x9167}
	tagDimensionOrganizationUID = tag.Tag{Group: 0x0020, Element: 0x9164}
	tagDimensionDescription     = tag.Tag{Group: 0x0020, Element: 0x9421}
)
