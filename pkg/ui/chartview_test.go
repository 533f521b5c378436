package ui

import (
	"strings"
	"testing"

	"github.com/vanderheijden86/healthscatter/pkg/chart"
	"github.com/vanderheijden86/healthscatter/pkg/model"
	"github.com/vanderheijden86/healthscatter/pkg/testutil"
)

func testScene(t *testing.T) chart.Scene {
	t.Helper()
	s, err := chart.NewSession(testutil.TwoStates(), chart.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	return s.Scene()
}

func TestCanvasText(t *testing.T) {
	c := newCanvas(6, 2)
	if n := c.text(1, 0, "abc", paintLabel); n != 3 {
		t.Errorf("text wrote %d cells, want 3", n)
	}
	if n := c.text(4, 1, "xyz", paintLabel); n != 2 {
		t.Errorf("clipped text wrote %d cells, want 2", n)
	}
	c.set(-1, 0, 'q', paintAxis)
	c.set(0, 5, 'q', paintAxis)
	if got, want := c.String(), " abc  \n    xy"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestCanvasWideRunes(t *testing.T) {
	c := newCanvas(4, 1)
	if n := c.text(0, 0, "日本", paintLabel); n != 4 {
		t.Fatalf("wide text wrote %d cells, want 4", n)
	}
	if got := c.String(); got != "日本" {
		t.Errorf("String() = %q, want 日本", got)
	}
	if c.at(1, 0).r != 0 {
		t.Error("continuation cell should be empty")
	}
}

func TestCanvasAlignment(t *testing.T) {
	c := newCanvas(7, 2)
	if start := c.textRight(6, 0, "ab", paintTick); start != 5 {
		t.Errorf("textRight start = %d, want 5", start)
	}
	if start := c.textCenter(3, 1, "xyz", paintTick); start != 2 {
		t.Errorf("textCenter start = %d, want 2", start)
	}
	if got, want := c.String(), "     ab\n  xyz  "; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestGeometryRoundTrip(t *testing.T) {
	g := newGeometry(testScene(t), 120, 38)
	if g.tooSmall() {
		t.Fatal("120x38 should fit")
	}
	if c := g.col(0); c != g.plotLeft {
		t.Errorf("col(0) = %d, want %d", c, g.plotLeft)
	}
	if c := g.col(g.pxWidth); c != g.plotLeft+g.plotCols-1 {
		t.Errorf("col(width) = %d, want right edge", c)
	}
	if r := g.row(g.pxHeight); r != g.axisRow()-1 {
		t.Errorf("row(height) = %d, want last plot row", r)
	}
	if c := g.col(-500); c != g.plotLeft {
		t.Errorf("col clamps to plot, got %d", c)
	}
	x, y, ok := g.toPlot(g.plotLeft, g.plotTop)
	if !ok || x != 0 || y != 0 {
		t.Errorf("toPlot(origin) = %v, %v, %v", x, y, ok)
	}
	if _, _, ok := g.toPlot(0, 0); ok {
		t.Error("gutter cell should not map into the plot")
	}
}

func TestRenderFrameSelectors(t *testing.T) {
	f := renderFrame(testScene(t), 120, 38, true, "", nil)
	if len(f.selectors) != 6 {
		t.Fatalf("selectors = %d, want 6", len(f.selectors))
	}
	tags := map[string]selectorHit{}
	for _, s := range f.selectors {
		tags[s.tag] = s
	}
	for _, c := range model.Columns() {
		hit, ok := tags[c.Tag()]
		if !ok {
			t.Errorf("missing selector %s", c.Tag())
			continue
		}
		got, ok := f.selectorAt(hit.col0, hit.row)
		if !ok || got != c.Tag() {
			t.Errorf("selectorAt(%d,%d) = %q, want %q", hit.col0, hit.row, got, c.Tag())
		}
	}
	// X selectors stack downward in slot order, Y selectors upward.
	if !(tags["poverty"].row < tags["age"].row && tags["age"].row < tags["income"].row) {
		t.Error("x selectors out of order")
	}
	if !(tags["healthcare"].row > tags["smokes"].row && tags["smokes"].row > tags["obesity"].row) {
		t.Error("y selectors out of order")
	}
}

func TestRenderFrameMarkers(t *testing.T) {
	scene := testScene(t)
	f := renderFrame(scene, 120, 38, true, "", nil)
	if len(f.markers) != len(scene.Markers) {
		t.Fatalf("markers = %d, want %d", len(f.markers), len(scene.Markers))
	}
	ca, tx := f.markers[0], f.markers[1]
	if ca.col0 >= tx.col0 {
		t.Error("CA has lower poverty and should sit left of TX")
	}
	if ca.row <= tx.row {
		t.Error("CA has lower uninsured share and should sit below TX")
	}
	if f.canvas.at(ca.col0, ca.row).r != '●' {
		t.Error("marker glyph not drawn")
	}
	if id, ok := f.markerAt(ca.col0+1, ca.row); !ok || id != "CA" {
		t.Errorf("label cell should hover CA, got %q", id)
	}
}

func TestRenderFrameTooltip(t *testing.T) {
	scene := testScene(t)
	tip := []string{"California", "Poverty: 10%", "Lacks Healthcare: 12.1%"}
	out := renderFrame(scene, 120, 38, true, "CA", tip).canvas.String()
	testutil.AssertContainsAll(t, out, "╭", "╯", "California", "Poverty: 10%", "Lacks Healthcare: 12.1%")

	plain := renderFrame(scene, 120, 38, true, "CA", nil).canvas.String()
	if strings.Contains(plain, "California") {
		t.Error("tooltip drawn without content")
	}
}

func TestRenderFrameTooSmall(t *testing.T) {
	f := renderFrame(testScene(t), 30, 8, true, "", nil)
	if !strings.Contains(f.canvas.String(), "terminal too small") {
		t.Error("expected size warning")
	}
	if len(f.selectors) != 0 || len(f.markers) != 0 {
		t.Error("no hit targets expected on a too-small frame")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		w    int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello world", 6, "hello…"},
		{"hello", 1, "…"},
		{"hello", 0, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.w); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.w, got, tt.want)
		}
	}
}
