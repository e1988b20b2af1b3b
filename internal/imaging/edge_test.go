package imaging

import (
	"image"
	"image/color"
	"testing"
)

func countEdges(edges *image.Gray) int {
	n := 0
	for _, v := range edges.Pix {
		if v == EdgeValue {
			n++
		}
	}
	return n
}

func TestCanny_BlankImage(t *testing.T) {
	edges := Canny(Gray(createTestImage(50, 50, color.White)), 50, 150)
	if edges.Bounds().Dx() != 50 || edges.Bounds().Dy() != 50 {
		t.Errorf("dimensions: got %dx%d, want 50x50", edges.Bounds().Dx(), edges.Bounds().Dy())
	}
	if n := countEdges(edges); n != 0 {
		t.Errorf("blank image produced %d edge pixels", n)
	}
}

func TestCanny_Rectangle(t *testing.T) {
	img := createTestImage(100, 100, color.White)
	fillRect(img, image.Rect(25, 25, 75, 75), color.Black)

	edges := Canny(Gray(img), 50, 150)
	if countEdges(edges) == 0 {
		t.Fatal("expected edges around the rectangle")
	}

	// The interior of the rectangle and the far background are flat.
	if Luma(edges, 50, 50) != 0 {
		t.Error("interior pixel marked as edge")
	}
	if Luma(edges, 5, 5) != 0 {
		t.Error("background pixel marked as edge")
	}

	// Some pixel on the top border row band must be an edge.
	found := false
	for y := 22; y <= 27 && !found; y++ {
		if Luma(edges, 50, y) == EdgeValue {
			found = true
		}
	}
	if !found {
		t.Error("no edge found near the top border of the rectangle")
	}
}

func TestCanny_TinyImage(t *testing.T) {
	edges := Canny(Gray(createTestImage(2, 2, color.Black)), 50, 150)
	if countEdges(edges) != 0 {
		t.Error("tiny image should yield an empty edge map")
	}
}

func TestCanny_SubImage(t *testing.T) {
	img := createTestImage(60, 60, color.White)
	fillRect(img, image.Rect(0, 30, 60, 34), color.Black)
	gray := Gray(img)

	sub := gray.SubImage(image.Rect(20, 0, 40, 60)).(*image.Gray)
	edges := Canny(sub, 50, 150)
	if edges.Bounds().Dx() != 20 || edges.Bounds().Dy() != 60 {
		t.Fatalf("dimensions: got %dx%d, want 20x60", edges.Bounds().Dx(), edges.Bounds().Dy())
	}
	if countEdges(edges) == 0 {
		t.Error("expected edges along the horizontal bar")
	}
}

func TestRowEdgeEnergy(t *testing.T) {
	edges := image.NewGray(image.Rect(0, 0, 10, 3))
	for x := 0; x < 10; x++ {
		edges.Pix[1*edges.Stride+x] = EdgeValue
	}
	edges.Pix[2*edges.Stride+4] = EdgeValue

	energy := RowEdgeEnergy(edges, 0, 10)
	want := []float64{0, 255, 25.5}
	for i := range want {
		if energy[i] != want[i] {
			t.Errorf("row %d: got %v, want %v", i, energy[i], want[i])
		}
	}

	if e := RowEdgeEnergy(edges, 5, 5); e[1] != 0 {
		t.Errorf("empty column range: got %v, want 0", e[1])
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, want int
	}{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{11, 0, 10, 10},
	}
	for _, tt := range tests {
		if got := clamp(tt.val, tt.min, tt.max); got != tt.want {
			t.Errorf("clamp(%d,%d,%d) = %d, want %d", tt.val, tt.min, tt.max, got, tt.want)
		}
	}
}
