package visualization

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"testing"

	"dicomto3d/pkg/enhanced"
)

// testVolume builds a volume whose voxel value equals its slice index,
// in modality units well outside [0,1].
func testVolume(columns, rows, slices int) *enhanced.Volume {
	data := make([]float64, columns*rows*slices)
	for z := 0; z < slices; z++ {
		for y := 0; y < rows; y++ {
			for x := 0; x < columns; x++ {
				data[z*columns*rows+y*columns+x] = float64(z)*100 - 1000
			}
		}
	}
	return &enhanced.Volume{
		Data:      data,
		Rows:      rows,
		Columns:   columns,
		NumSlices: slices,
		Spacing:   [3]float64{1, 1, 1},
	}
}

// TestNewViewerWindow verifies that the viewer derives its windowing
// range from the voxel data.
func TestNewViewerWindow(t *testing.T) {
	viewer := NewViewer(testVolume(4, 4, 5))

	if viewer.min != -1000 {
		t.Errorf("Expected window min -1000, got %f", viewer.min)
	}
	if viewer.max != -600 {
		t.Errorf("Expected window max -600, got %f", viewer.max)
	}
}

// TestNewViewerFlatVolume verifies that a constant-valued volume does
// not produce a degenerate window.
func TestNewViewerFlatVolume(t *testing.T) {
	vol := testVolume(2, 2, 1)
	viewer := NewViewer(vol)

	if viewer.min == viewer.max {
		t.Errorf("Expected non-degenerate window, got [%f %f]", viewer.min, viewer.max)
	}

	img, err := viewer.ExtractSlice("z", 0)
	if err != nil {
		t.Fatalf("Failed to extract slice: %v", err)
	}
	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 2 {
		t.Errorf("Expected 2x2 slice, got %v", img.Bounds())
	}
}

// TestExtractSlice verifies that slices are correctly extracted and
// windowed along each axis.
func TestExtractSlice(t *testing.T) {
	columns, rows, slices := 10, 8, 5
	viewer := NewViewer(testVolume(columns, rows, slices))

	for z := 0; z < slices; z++ {
		img, err := viewer.ExtractSlice("z", z)
		if err != nil {
			t.Fatalf("Failed to extract Z slice at position %d: %v", z, err)
		}

		bounds := img.Bounds()
		if bounds.Dx() != columns || bounds.Dy() != rows {
			t.Errorf("Expected Z slice dimensions %dx%d, got %dx%d",
				columns, rows, bounds.Dx(), bounds.Dy())
		}

		gray16Img, ok := img.(*image.Gray16)
		if !ok {
			t.Fatalf("Expected *image.Gray16, got %T", img)
		}

		// Slice z maps to z/(slices-1) of the full window.
		expected := uint16(float64(z) / float64(slices-1) * 65535)
		got := gray16Img.Gray16At(columns/2, rows/2).Y
		if got != expected {
			t.Errorf("Z slice %d: expected value %d, got %d", z, expected, got)
		}
	}

	imgX, err := viewer.ExtractSlice("x", columns/2)
	if err != nil {
		t.Fatalf("Failed to extract X slice: %v", err)
	}
	if imgX.Bounds().Dx() != slices || imgX.Bounds().Dy() != rows {
		t.Errorf("Expected X slice dimensions %dx%d, got %dx%d",
			slices, rows, imgX.Bounds().Dx(), imgX.Bounds().Dy())
	}

	imgY, err := viewer.ExtractSlice("y", rows/2)
	if err != nil {
		t.Fatalf("Failed to extract Y slice: %v", err)
	}
	if imgY.Bounds().Dx() != columns || imgY.Bounds().Dy() != slices {
		t.Errorf("Expected Y slice dimensions %dx%d, got %dx%d",
			columns, slices, imgY.Bounds().Dx(), imgY.Bounds().Dy())
	}
}

// TestExtractSliceInvalid verifies parameter validation.
func TestExtractSliceInvalid(t *testing.T) {
	viewer := NewViewer(testVolume(4, 4, 2))

	if _, err := viewer.ExtractSlice("z", -1); err == nil {
		t.Error("Expected error for negative position")
	}
	if _, err := viewer.ExtractSlice("z", 2); err == nil {
		t.Error("Expected error for out-of-range position")
	}
	if _, err := viewer.ExtractSlice("w", 0); err == nil {
		t.Error("Expected error for invalid axis")
	}
}

// TestExtractRegion verifies raw subregion extraction.
func TestExtractRegion(t *testing.T) {
	viewer := NewViewer(testVolume(6, 6, 4))

	region, err := viewer.ExtractRegion(1, 2, 1, 3, 2, 2)
	if err != nil {
		t.Fatalf("Failed to extract region: %v", err)
	}
	if len(region) != 3*2*2 {
		t.Fatalf("Expected region length 12, got %d", len(region))
	}

	// Values depend only on z: first z-layer of the region is slice 1.
	if region[0] != -900 {
		t.Errorf("Expected first region voxel -900, got %f", region[0])
	}
	if region[len(region)-1] != -800 {
		t.Errorf("Expected last region voxel -800, got %f", region[len(region)-1])
	}

	if _, err := viewer.ExtractRegion(4, 0, 0, 3, 1, 1); err == nil {
		t.Error("Expected error for region beyond boundaries")
	}
	if _, err := viewer.ExtractRegion(0, 0, 0, 0, 1, 1); err == nil {
		t.Error("Expected error for non-positive size")
	}
}

// TestSaveSliceSequence verifies that one file per slice is written.
func TestSaveSliceSequence(t *testing.T) {
	dir := t.TempDir()
	viewer := NewViewer(testVolume(4, 4, 3))

	if err := viewer.SaveSliceSequence("z", dir); err != nil {
		t.Fatalf("Failed to save slice sequence: %v", err)
	}

	for pos := 0; pos < 3; pos++ {
		name := filepath.Join(dir, fmt.Sprintf("slice_z_%03d.jpg", pos))
		if _, err := os.Stat(name); err != nil {
			t.Errorf("Expected slice file %s: %v", name, err)
		}
	}
}
