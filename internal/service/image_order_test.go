package service

import (
	"slices"
	"testing"
)

func TestResolveImages(t *testing.T) {
	tests := []struct {
		name  string
		input ImageInput
		want  []string
	}{
		{
			name:  "nothing submitted",
			input: ImageInput{},
			want:  nil,
		},
		{
			name:  "uploads only",
			input: ImageInput{Uploaded: []string{"/images/blog/a.png", "/images/blog/b.png"}},
			want:  []string{"/images/blog/a.png", "/images/blog/b.png"},
		},
		{
			name: "cover index two of three",
			input: ImageInput{
				Uploaded:   []string{"x", "y", "z"},
				CoverOrder: `[{"isCoverPhoto":false},{"isCoverPhoto":false},{"isCoverPhoto":true}]`,
			},
			want: []string{"z", "x", "y"},
		},
		{
			name: "existing before uploads",
			input: ImageInput{
				Existing: `["/images/blog/old.png"]`,
				Uploaded: []string{"/images/blog/new.png"},
			},
			want: []string{"/images/blog/old.png", "/images/blog/new.png"},
		},
		{
			name: "cover spans existing and uploads",
			input: ImageInput{
				Existing:   `["old-1","old-2"]`,
				Uploaded:   []string{"new-1"},
				CoverOrder: `[{},{},{"isCoverPhoto":true}]`,
			},
			want: []string{"new-1", "old-1", "old-2"},
		},
		{
			name:  "comma separated existing",
			input: ImageInput{Existing: "a.png, b.png,, c.png "},
			want:  []string{"a.png", "b.png", "c.png"},
		},
		{
			name:  "single existing path",
			input: ImageInput{Existing: "/images/blog/only.png"},
			want:  []string{"/images/blog/only.png"},
		},
		{
			name:  "json non-array existing",
			input: ImageInput{Existing: `{"a":1}`, Previous: []string{"prev.png"}},
			want:  []string{"prev.png"},
		},
		{
			name: "malformed cover order keeps order",
			input: ImageInput{
				Uploaded:   []string{"x", "y"},
				CoverOrder: `[{"isCoverPhoto":tru`,
			},
			want: []string{"x", "y"},
		},
		{
			name: "cover index out of bounds",
			input: ImageInput{
				Uploaded:   []string{"x"},
				CoverOrder: `[{},{"isCoverPhoto":true}]`,
			},
			want: []string{"x"},
		},
		{
			name:  "falls back to previous",
			input: ImageInput{Previous: []string{"p1", "p2"}},
			want:  []string{"p1", "p2"},
		},
		{
			name: "new images replace previous",
			input: ImageInput{
				Previous: []string{"p1"},
				Uploaded: []string{"n1"},
			},
			want: []string{"n1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveImages(tt.input)
			if !slices.Equal(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestResolveImagesDoesNotAliasPrevious(t *testing.T) {
	previous := []string{"p1", "p2"}
	got := ResolveImages(ImageInput{Previous: previous})
	got[0] = "changed"
	if previous[0] != "p1" {
		t.Fatalf("expected previous slice to be untouched")
	}
}
