package floorplan

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"
)

func writeTestPlan(t *testing.T, width, height int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(40 * x), G: uint8(40 * y), B: 200, A: 255})
		}
	}
	fn := filepath.Join(t.TempDir(), "floor.png")
	f, err := os.Create(fn)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, png.Encode(f, img), test.ShouldBeNil)
	test.That(t, f.Close(), test.ShouldBeNil)
	return fn
}

func TestLoad(t *testing.T) {
	fn := writeTestPlan(t, 4, 3)
	plan, err := Load(fn)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, plan.Bounds().Dx(), test.ShouldEqual, 4)
	test.That(t, plan.Bounds().Dy(), test.ShouldEqual, 3)
	test.That(t, plan.Image(), test.ShouldNotBeNil)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.png"))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "nope.png")
}

func TestLoadUndecodable(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "floor.png")
	test.That(t, os.WriteFile(fn, []byte("not an image"), 0o644), test.ShouldBeNil)
	_, err := Load(fn)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestGray(t *testing.T) {
	fn := writeTestPlan(t, 5, 5)
	plan, err := Load(fn)
	test.That(t, err, test.ShouldBeNil)

	gray := plan.Gray()
	test.That(t, gray.Bounds(), test.ShouldResemble, plan.Bounds())
	// every channel equal means the copy really is grayscale
	c := gray.NRGBAAt(2, 3)
	test.That(t, c.R, test.ShouldEqual, c.G)
	test.That(t, c.G, test.ShouldEqual, c.B)
}
