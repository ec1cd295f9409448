package material

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-gallery/common"
)

func TestNewMaterialDefaults(t *testing.T) {
	m := NewMaterial(WithName("plane"))

	if u, v := m.HoverPoint(); u != 0.5 || v != 0.5 {
		t.Fatalf("HoverPoint() = (%v, %v), want (0.5, 0.5)", u, v)
	}
	if m.HoverState() != 0 {
		t.Fatalf("HoverState() = %v, want 0", m.HoverState())
	}
}

func TestCloneIsIndependent(t *testing.T) {
	tmpl := NewMaterial(WithName("plane"), WithPipelineKey("gallery_plane"), WithHoverTiming(0.5, nil))
	a := tmpl.Clone()
	b := tmpl.Clone()

	a.SetTexture(common.TextureStagingData{Pixels: make([]byte, 4), Width: 1, Height: 1})
	a.SetHoverPoint(0.3, 0.7)
	a.Hover(1)
	a.AdvanceHover(1)

	if b.HoverState() != 0 || !b.Texture().Empty() {
		t.Fatalf("clone b affected by a: hover = %v, texture empty = %v", b.HoverState(), b.Texture().Empty())
	}
	if u, v := b.HoverPoint(); u != 0.5 || v != 0.5 {
		t.Fatalf("clone b hover point = (%v, %v)", u, v)
	}
	if a.HoverState() != 1 {
		t.Fatalf("a.HoverState() = %v, want 1 after full duration", a.HoverState())
	}
	if b.PipelineKey() != "gallery_plane" {
		t.Fatalf("clone pipeline key = %q", b.PipelineKey())
	}
}

func TestUniformSnapshot(t *testing.T) {
	m := NewMaterial()
	m.SetTime(1.05)
	m.SetHoverPoint(0.3, 0.7)

	u := m.Uniform()
	if u.Time != float32(1.05) || u.HoverPoint != [2]float32{0.3, 0.7} || u.HoverState != 0 {
		t.Fatalf("Uniform() = %+v", u)
	}
	if len(u.Marshal()) != u.Size() {
		t.Fatalf("Marshal() length %d != Size() %d", len(u.Marshal()), u.Size())
	}
}

func TestSetHoverPointClamps(t *testing.T) {
	m := NewMaterial()
	m.SetHoverPoint(-1, 2)
	if u, v := m.HoverPoint(); u != 0 || v != 1 {
		t.Fatalf("HoverPoint() = (%v, %v), want (0, 1)", u, v)
	}
}
