package layout

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-gallery/common"
)

// Element is one image placed on the document.
type Element struct {
	// Name identifies the element, usually the image path.
	Name string
	// NaturalWidth and NaturalHeight are the intrinsic image size in pixels.
	NaturalWidth  float64
	NaturalHeight float64
	// Fixed, when set, pins the element to an explicit document rectangle instead of the auto column.
	Fixed *common.Rect
}

type documentImpl struct {
	mu *sync.Mutex

	elements []Element
	rects    []common.Rect
	height   float64
	width    float64

	widthFraction float64
	gap           float64
	padding       float64

	enter   [][]func()
	leave   [][]func()
	hovered int
}

// Document is the virtual page the gallery renders: an ordered list of image elements laid out in a
// centered column of the container. Rectangles are document-relative (top-left origin, not shifted by
// scroll). The document also dispatches per-element pointer enter and leave notifications.
type Document interface {
	// Len returns the number of elements.
	Len() int

	// Element returns the element at index i.
	Element(i int) Element

	// Relayout recomputes every element rectangle for a new container width.
	//
	// Parameters:
	//   - containerWidth: container width in pixels
	Relayout(containerWidth float64)

	// Bounds returns the document rectangle of element i. Out-of-range indices return a zero Rect.
	Bounds(i int) common.Rect

	// ClientBounds returns the rectangle of element i relative to the viewport at the given scroll offset.
	ClientBounds(i int, scroll float64) common.Rect

	// Height returns the total document height including bottom padding.
	Height() float64

	// OnPointerEnter registers fn to run when the pointer enters element i.
	OnPointerEnter(i int, fn func())

	// OnPointerLeave registers fn to run when the pointer leaves element i.
	OnPointerLeave(i int, fn func())

	// PointerMove hit-tests the viewport position against the client rectangles and fires
	// enter and leave handlers when the hovered element changes. Later elements are on top.
	//
	// Parameters:
	//   - x, y: pointer position in viewport pixels
	//   - scroll: current scroll offset
	PointerMove(x, y, scroll float64)

	// PointerLeaveWindow fires the leave handlers of the hovered element, if any.
	PointerLeaveWindow()

	// Hovered returns the index of the hovered element or -1.
	Hovered() int
}

var _ Document = &documentImpl{}

// NewDocument creates a Document holding the given elements. Call Relayout before reading bounds.
// Defaults: column width 60% of the container, 80px gap, 120px top and bottom padding.
//
// Parameters:
//   - elements: the image elements in document order
//   - options: variadic list of DocumentBuilderOption functions
//
// Returns:
//   - Document: the configured document
func NewDocument(elements []Element, options ...DocumentBuilderOption) Document {
	d := &documentImpl{
		mu:            &sync.Mutex{},
		elements:      append([]Element(nil), elements...),
		rects:         make([]common.Rect, len(elements)),
		widthFraction: 0.6,
		gap:           80,
		padding:       120,
		enter:         make([][]func(), len(elements)),
		leave:         make([][]func(), len(elements)),
		hovered:       -1,
	}
	for _, opt := range options {
		opt(d)
	}
	return d
}

func (d *documentImpl) Len() int {
	return len(d.elements)
}

func (d *documentImpl) Element(i int) Element {
	if i < 0 || i >= len(d.elements) {
		return Element{}
	}
	return d.elements[i]
}

func (d *documentImpl) Relayout(containerWidth float64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.width = max(containerWidth, 0)
	column := d.width * d.widthFraction
	top := d.padding
	bottom := 0.0

	for i, el := range d.elements {
		if el.Fixed != nil {
			d.rects[i] = *el.Fixed
			bottom = max(bottom, el.Fixed.Top+el.Fixed.Height)
			continue
		}

		w := min(column, el.NaturalWidth)
		h := 0.0
		if el.NaturalWidth > 0 {
			h = w * el.NaturalHeight / el.NaturalWidth
		}
		d.rects[i] = common.Rect{
			Top:    top,
			Left:   (d.width - w) / 2,
			Width:  w,
			Height: h,
		}
		bottom = max(bottom, top+h)
		top += h + d.gap
	}

	d.height = bottom + d.padding
}

func (d *documentImpl) Bounds(i int) common.Rect {
	d.mu.Lock()
	defer d.mu.Unlock()

	if i < 0 || i >= len(d.rects) {
		return common.Rect{}
	}
	return d.rects[i]
}

func (d *documentImpl) ClientBounds(i int, scroll float64) common.Rect {
	return d.Bounds(i).Offset(0, -scroll)
}

func (d *documentImpl) Height() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.height
}

func (d *documentImpl) OnPointerEnter(i int, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if i < 0 || i >= len(d.enter) || fn == nil {
		return
	}
	d.enter[i] = append(d.enter[i], fn)
}

func (d *documentImpl) OnPointerLeave(i int, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if i < 0 || i >= len(d.leave) || fn == nil {
		return
	}
	d.leave[i] = append(d.leave[i], fn)
}

func (d *documentImpl) PointerMove(x, y, scroll float64) {
	d.mu.Lock()
	next := -1
	for i := len(d.rects) - 1; i >= 0; i-- {
		if d.rects[i].Offset(0, -scroll).Contains(x, y) {
			next = i
			break
		}
	}
	fire := d.transition(next)
	d.mu.Unlock()

	for _, fn := range fire {
		fn()
	}
}

func (d *documentImpl) PointerLeaveWindow() {
	d.mu.Lock()
	fire := d.transition(-1)
	d.mu.Unlock()

	for _, fn := range fire {
		fn()
	}
}

func (d *documentImpl) Hovered() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.hovered
}

// transition switches the hovered element and returns the handlers to run, leave before enter.
// Caller must hold the lock; handlers run after it is released.
func (d *documentImpl) transition(next int) []func() {
	if next == d.hovered {
		return nil
	}

	var fire []func()
	if d.hovered >= 0 {
		fire = append(fire, d.leave[d.hovered]...)
	}
	if next >= 0 {
		fire = append(fire, d.enter[next]...)
	}
	d.hovered = next
	return fire
}
