// Package visualization renders 2D views of reconstructed voxel
// volumes. Slices can be extracted along any principal axis and saved
// as grayscale JPEG images.
package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"math"
	"os"
	"path/filepath"

	"dicomto3d/pkg/enhanced"
)

// Viewer extracts and exports 2D slices from a reconstructed volume.
// Voxel values are stored in modality units (e.g. Hounsfield units for
// CT), so the viewer windows them to the volume's observed min/max
// range before quantizing to 16-bit grayscale.
type Viewer struct {
	volume *enhanced.Volume

	// windowing range, precomputed from the voxel data
	min float64
	max float64
}

// NewViewer creates a viewer for the given volume.
func NewViewer(volume *enhanced.Volume) *Viewer {
	v := &Viewer{volume: volume, min: math.Inf(1), max: math.Inf(-1)}
	for _, val := range volume.Data {
		if val < v.min {
			v.min = val
		}
		if val > v.max {
			v.max = val
		}
	}
	if len(volume.Data) == 0 || v.min == v.max {
		v.min, v.max = 0, 1
	}
	return v
}

// gray quantizes a voxel value into the viewer's window.
func (v *Viewer) gray(value float64) color.Gray16 {
	scaled := (value - v.min) / (v.max - v.min) * 65535
	return color.Gray16{Y: uint16(math.Max(0, math.Min(65535, scaled)))}
}

// ExtractSlice extracts a 2D slice from the volume along the specified
// axis. "x" yields a depth-by-rows image, "y" a columns-by-depth image,
// and "z" a columns-by-rows image.
func (v *Viewer) ExtractSlice(axis string, position int) (image.Image, error) {
	if position < 0 {
		return nil, fmt.Errorf("position must be non-negative")
	}

	vol := v.volume
	var img *image.Gray16

	switch axis {
	case "x", "X":
		if position >= vol.Columns {
			return nil, fmt.Errorf("position %d exceeds columns %d", position, vol.Columns)
		}
		img = image.NewGray16(image.Rect(0, 0, vol.NumSlices, vol.Rows))
		for y := 0; y < vol.Rows; y++ {
			for z := 0; z < vol.NumSlices; z++ {
				img.SetGray16(z, y, v.gray(vol.At(position, y, z)))
			}
		}

	case "y", "Y":
		if position >= vol.Rows {
			return nil, fmt.Errorf("position %d exceeds rows %d", position, vol.Rows)
		}
		img = image.NewGray16(image.Rect(0, 0, vol.Columns, vol.NumSlices))
		for z := 0; z < vol.NumSlices; z++ {
			for x := 0; x < vol.Columns; x++ {
				img.SetGray16(x, z, v.gray(vol.At(x, position, z)))
			}
		}

	case "z", "Z":
		if position >= vol.NumSlices {
			return nil, fmt.Errorf("position %d exceeds slices %d", position, vol.NumSlices)
		}
		img = image.NewGray16(image.Rect(0, 0, vol.Columns, vol.Rows))
		for y := 0; y < vol.Rows; y++ {
			for x := 0; x < vol.Columns; x++ {
				img.SetGray16(x, y, v.gray(vol.At(x, y, position)))
			}
		}

	default:
		return nil, fmt.Errorf("invalid axis: %s (must be x, y, or z)", axis)
	}

	return img, nil
}

// ExtractRegion extracts a 3D subregion of raw voxel values. The
// result is laid out x-fastest, matching the volume itself.
func (v *Viewer) ExtractRegion(startX, startY, startZ, sizeX, sizeY, sizeZ int) ([]float64, error) {
	if startX < 0 || startY < 0 || startZ < 0 {
		return nil, fmt.Errorf("start coordinates must be non-negative")
	}
	if sizeX <= 0 || sizeY <= 0 || sizeZ <= 0 {
		return nil, fmt.Errorf("size dimensions must be positive")
	}

	vol := v.volume
	if startX+sizeX > vol.Columns || startY+sizeY > vol.Rows || startZ+sizeZ > vol.NumSlices {
		return nil, fmt.Errorf("region extends beyond volume boundaries")
	}

	region := make([]float64, sizeX*sizeY*sizeZ)
	for z := 0; z < sizeZ; z++ {
		for y := 0; y < sizeY; y++ {
			for x := 0; x < sizeX; x++ {
				region[z*sizeX*sizeY+y*sizeX+x] = vol.At(startX+x, startY+y, startZ+z)
			}
		}
	}

	return region, nil
}

// SaveSlice saves an extracted slice as a JPEG image.
func (v *Viewer) SaveSlice(img image.Image, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return jpeg.Encode(file, img, &jpeg.Options{Quality: 90})
}

// SaveSliceSequence extracts and saves every slice along the specified
// axis into outputDir.
func (v *Viewer) SaveSliceSequence(axis string, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	var maxPos int
	switch axis {
	case "x", "X":
		maxPos = v.volume.Columns
	case "y", "Y":
		maxPos = v.volume.Rows
	case "z", "Z":
		maxPos = v.volume.NumSlices
	default:
		return fmt.Errorf("invalid axis: %s (must be x, y, or z)", axis)
	}

	for pos := 0; pos < maxPos; pos++ {
		img, err := v.ExtractSlice(axis, pos)
		if err != nil {
			return err
		}

		filename := filepath.Join(outputDir, fmt.Sprintf("slice_%s_%03d.jpg", axis, pos))
		if err := v.SaveSlice(img, filename); err != nil {
			return err
		}
	}

	return nil
}
