// Package pagination computes the numbered, elided page window shown under
// listing views and the slice bounds of a page.
package pagination

import "strconv"

// EllipsisLabel is the label rendered for elided page ranges.
const EllipsisLabel = "..."

// maxUnelided is the largest page count shown without ellipses.
const maxUnelided = 5

// Item is one entry of a page window: a page number or an ellipsis marker.
type Item struct {
	Page     int
	Ellipsis bool
}

// Label is the page number as text, or EllipsisLabel.
func (i Item) Label() string {
	if i.Ellipsis {
		return EllipsisLabel
	}
	return strconv.Itoa(i.Page)
}

func pages(from, to int) []Item {
	items := make([]Item, 0, to-from+1)
	for p := from; p <= to; p++ {
		items = append(items, Item{Page: p})
	}
	return items
}

var gap = Item{Ellipsis: true}

// ComputePageWindow returns the page labels for current out of total pages.
// ok is false when total <= 1 and no pagination should be rendered.
//
//	total <= 5            1 .. total
//	current <= 3          1 2 3 4 … total
//	current >= total-2    1 … total-3 total-2 total-1 total
//	otherwise             1 … current-1 current current+1 … total
func ComputePageWindow(current, total int) (items []Item, ok bool) {
	switch {
	case total <= 1:
		return nil, false
	case total <= maxUnelided:
		return pages(1, total), true
	case current <= 3:
		return append(pages(1, 4), gap, Item{Page: total}), true
	case current >= total-2:
		return append([]Item{{Page: 1}, gap}, pages(total-3, total)...), true
	default:
		items = append([]Item{{Page: 1}, gap}, pages(current-1, current+1)...)
		return append(items, gap, Item{Page: total}), true
	}
}

// Window is the render state of a pagination control.
type Window struct {
	Items   []Item
	Current int
	Total   int
	HasPrev bool // false on the first page
	HasNext bool // false on the last page
}

// Prev returns the previous page number; only meaningful when HasPrev.
func (w Window) Prev() int { return w.Current - 1 }

// Next returns the next page number; only meaningful when HasNext.
func (w Window) Next() int { return w.Current + 1 }

// IsCurrent reports whether it is the active page.
func (w Window) IsCurrent(it Item) bool { return !it.Ellipsis && it.Page == w.Current }

// NewWindow clamps current into [1,total] and computes the window.
// ok is false when there is nothing to render.
func NewWindow(current, total int) (Window, bool) {
	current = Clamp(current, total)
	items, ok := ComputePageWindow(current, total)
	if !ok {
		return Window{Current: current, Total: max(total, 1)}, false
	}
	return Window{
		Items:   items,
		Current: current,
		Total:   total,
		HasPrev: current > 1,
		HasNext: current < total,
	}, true
}

// Clamp limits page to [1,total]; total below 1 is treated as 1.
func Clamp(page, total int) int {
	return min(max(page, 1), max(total, 1))
}

// PageCount returns the number of pages needed for n items.
func PageCount(n, size int) int {
	if size <= 0 || n <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// Paginate returns the half-open bounds [start,end) of page (1-indexed, clamped)
// for n items of the given size, and the total page count.
func Paginate(n, page, size int) (start, end, totalPages int) {
	totalPages = PageCount(n, size)
	if totalPages == 0 {
		return 0, 0, 0
	}
	page = Clamp(page, totalPages)
	start = (page - 1) * size
	end = min(start+size, n)
	return start, end, totalPages
}
