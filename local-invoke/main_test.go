package main

import (
	"path/filepath"
	"testing"
)

func TestDefaultOutPath(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"cat.jpg":            "cat_thumbnail.png",
		"../pics/cat":        filepath.Join("..", "pics", "cat_thumbnail.png"),
		"../pics/cat.tar.gz": filepath.Join("..", "pics", "cat.tar_thumbnail.png"),
		"./a.b/photo":        filepath.Join("a.b", "photo_thumbnail.png"),
		"/tmp/x/holiday.png": filepath.Join("/tmp", "x", "holiday_thumbnail.png"),
	}
	for in, want := range cases {
		if got := defaultOutPath(in); got != want {
			t.Errorf("defaultOutPath(%q) = %q, want %q", in, got, want)
		}
	}
}
