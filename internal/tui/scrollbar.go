package tui

import "strings"

const (
	scrollbarThumb = "█" // Solid block for thumb
	scrollbarTrack = "│" // Thin vertical line for track
)

// renderScrollbar creates a vertical scrollbar indicator.
// height: viewport height in lines
// totalLines: total content lines
// scrollOffset: current scroll position (line number at top of viewport)
// Returns a multi-line string with one character per line.
func renderScrollbar(height, totalLines, scrollOffset int, s *Styles) string {
	if height <= 0 {
		return ""
	}

	lines := make([]string, height)

	// Content fits: empty track
	if totalLines <= height {
		for i := range lines {
			lines[i] = s.scrollTrack.Render(scrollbarTrack)
		}
		return strings.Join(lines, "\n")
	}

	// Thumb size is proportional to viewport/content ratio, minimum 1 line
	thumbSize := (height * height) / totalLines
	if thumbSize < 1 {
		thumbSize = 1
	}
	if thumbSize > height {
		thumbSize = height
	}

	scrollRatio := float64(scrollOffset) / float64(totalLines-height)
	if scrollRatio < 0 {
		scrollRatio = 0
	}
	if scrollRatio > 1 {
		scrollRatio = 1
	}

	maxThumbPos := height - thumbSize
	thumbPos := int(scrollRatio * float64(maxThumbPos))

	for i := range lines {
		if i >= thumbPos && i < thumbPos+thumbSize {
			lines[i] = s.scrollThumb.Render(scrollbarThumb)
		} else {
			lines[i] = s.scrollTrack.Render(scrollbarTrack)
		}
	}

	return strings.Join(lines, "\n")
}
