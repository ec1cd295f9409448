package layout

type DocumentBuilderOption func(*documentImpl)

// WithWidthFraction sets the auto column width as a fraction of the container width, in (0, 1].
//
// Parameters:
//   - fraction: column width fraction
//
// Returns:
//   - DocumentBuilderOption: a function that sets the column fraction
func WithWidthFraction(fraction float64) DocumentBuilderOption {
	return func(d *documentImpl) {
		if fraction > 0 && fraction <= 1 {
			d.widthFraction = fraction
		}
	}
}

// WithGap sets the vertical gap between auto-placed elements.
//
// Parameters:
//   - gap: gap in pixels
//
// Returns:
//   - DocumentBuilderOption: a function that sets the gap
func WithGap(gap float64) DocumentBuilderOption {
	return func(d *documentImpl) {
		d.gap = max(gap, 0)
	}
}

// WithPadding sets the document padding above the first and below the last element.
//
// Parameters:
//   - padding: padding in pixels
//
// Returns:
//   - DocumentBuilderOption: a function that sets the padding
func WithPadding(padding float64) DocumentBuilderOption {
	return func(d *documentImpl) {
		d.padding = max(padding, 0)
	}
}
