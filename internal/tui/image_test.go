package tui

import (
	"image"
	"image/color"
	"strings"
	"testing"
)

func TestRenderImageHalfBlocks(t *testing.T) {
	// 6x6 modules of 2px each
	img := image.NewGray(image.Rect(0, 0, 12, 12))

	out := renderImage(img, 2, 80, 40)
	lines := strings.Split(out, "\n")
	AssertModelField(t, "rows", len(lines), 3)
	AssertModelField(t, "cells", strings.Count(lines[0], upperHalfBlock), 6)
}

func TestRenderImageShrinksToFit(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 100, 100))

	out := renderImage(img, 1, 20, 20)
	for _, line := range strings.Split(out, "\n") {
		if n := strings.Count(line, upperHalfBlock); n > 20 {
			t.Errorf("line has %d cells, want at most 20", n)
		}
	}
}

func TestRenderImageEmpty(t *testing.T) {
	AssertModelField(t, "nil image", renderImage(nil, 1, 10, 10), "")
	AssertModelField(t, "no room", renderImage(image.NewGray(image.Rect(0, 0, 2, 2)), 1, 0, 10), "")
}

func TestColorHex(t *testing.T) {
	AssertModelField(t, "white", colorHex(color.White), "#ffffff")
	AssertModelField(t, "black", colorHex(color.Black), "#000000")
	AssertModelField(t, "transparent", colorHex(color.Transparent), "#ffffff")
}

func TestCycle(t *testing.T) {
	values := []string{"a", "b", "c"}
	AssertModelField(t, "forward", cycle(values, "c", 1), "a")
	AssertModelField(t, "backward", cycle(values, "a", -1), "c")
	AssertModelField(t, "unknown", cycle(values, "z", 1), "a")
}
