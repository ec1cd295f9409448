package layout

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-gallery/common"
)

func TestRelayoutColumn(t *testing.T) {
	doc := NewDocument([]Element{
		{Name: "a", NaturalWidth: 1000, NaturalHeight: 500},
		{Name: "b", NaturalWidth: 200, NaturalHeight: 300},
	}, WithWidthFraction(0.5), WithGap(20), WithPadding(10))

	doc.Relayout(800)

	want := []common.Rect{
		{Top: 10, Left: 200, Width: 400, Height: 200},
		{Top: 230, Left: 300, Width: 200, Height: 300},
	}
	for i, w := range want {
		if got := doc.Bounds(i); got != w {
			t.Fatalf("Bounds(%d) = %+v, want %+v", i, got, w)
		}
	}
	if doc.Height() != 540 {
		t.Fatalf("Height() = %v, want 540", doc.Height())
	}

	doc.Relayout(400)
	if got := doc.Bounds(0); got.Width != 200 || got.Height != 100 || got.Left != 100 {
		t.Fatalf("Bounds(0) after relayout = %+v", got)
	}
}

func TestFixedRectAndDegenerate(t *testing.T) {
	fixed := common.Rect{Top: 100, Left: 50, Width: 200, Height: 150}
	doc := NewDocument([]Element{
		{Name: "fixed", Fixed: &fixed},
		{Name: "unloaded"},
	})
	doc.Relayout(800)

	if doc.Bounds(0) != fixed {
		t.Fatalf("Bounds(0) = %+v, want %+v", doc.Bounds(0), fixed)
	}
	if !doc.Bounds(1).Degenerate() {
		t.Fatalf("Bounds(1) = %+v, want degenerate", doc.Bounds(1))
	}
	if doc.Bounds(5) != (common.Rect{}) {
		t.Fatal("out-of-range Bounds should be zero")
	}
}

func TestPointerEnterLeave(t *testing.T) {
	fixedA := common.Rect{Top: 0, Left: 0, Width: 100, Height: 100}
	fixedB := common.Rect{Top: 200, Left: 0, Width: 100, Height: 100}
	doc := NewDocument([]Element{{Fixed: &fixedA}, {Fixed: &fixedB}})
	doc.Relayout(800)

	var events []string
	doc.OnPointerEnter(0, func() { events = append(events, "enter a") })
	doc.OnPointerLeave(0, func() { events = append(events, "leave a") })
	doc.OnPointerEnter(1, func() { events = append(events, "enter b") })
	doc.OnPointerLeave(1, func() { events = append(events, "leave b") })

	doc.PointerMove(50, 50, 0)
	doc.PointerMove(60, 60, 0)
	// Scrolled by 200, element b now occupies the viewport top.
	doc.PointerMove(50, 50, 200)
	doc.PointerMove(500, 50, 200)
	doc.PointerMove(50, 50, 200)
	doc.PointerLeaveWindow()

	want := []string{"enter a", "leave a", "enter b", "leave b", "enter b", "leave b"}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("events = %v, want %v", events, want)
		}
	}
	if doc.Hovered() != -1 {
		t.Fatalf("Hovered() = %d, want -1", doc.Hovered())
	}
}
