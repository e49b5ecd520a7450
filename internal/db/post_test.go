package db

import (
	"encoding/json"
	"testing"
)

func TestPostIsPublic(t *testing.T) {
	tests := []struct {
		name   string
		status string
		want   bool
	}{
		{name: "unset", status: "", want: true},
		{name: "published", status: "published", want: true},
		{name: "padded", status: " published ", want: true},
		{name: "scheduled", status: "scheduled", want: false},
		{name: "draft", status: "draft", want: false},
		{name: "unknown", status: "archived", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Post{Status: tt.status}.IsPublic()
			if got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestPostCover(t *testing.T) {
	if cover := (Post{}).Cover(); cover != "" {
		t.Fatalf("expected empty cover, got %q", cover)
	}

	post := Post{Images: []string{"/images/blog/a.png", "/images/blog/b.png"}}
	if cover := post.Cover(); cover != "/images/blog/a.png" {
		t.Fatalf("expected first image as cover, got %q", cover)
	}
}

func TestEventFlyerPath(t *testing.T) {
	if path := (Event{}).FlyerPath(); path != "" {
		t.Fatalf("expected empty flyer path, got %q", path)
	}

	flyer := "/images/events/flyer-1.png"
	if path := (Event{Flyer: &flyer}).FlyerPath(); path != flyer {
		t.Fatalf("expected %q, got %q", flyer, path)
	}
}

func TestPostKeepsUndeclaredFields(t *testing.T) {
	raw := []byte(`{"slug":"a","title":"First","date":"2024-01-01","excerpt":"e","content":"c","author":"Ada","tags":["x","y"]}`)

	var post Post
	if err := json.Unmarshal(raw, &post); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if post.Title != "First" || len(post.Extra) != 2 {
		t.Fatalf("unexpected post %+v", post)
	}
	if _, ok := post.Extra["slug"]; ok {
		t.Fatalf("declared field leaked into Extra")
	}

	post.Status = PostStatusPublished
	encoded, err := json.Marshal(post)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var members map[string]any
	if err := json.Unmarshal(encoded, &members); err != nil {
		t.Fatalf("encoded post is not valid JSON: %v\n%s", err, encoded)
	}
	if members["author"] != "Ada" || members["status"] != "published" {
		t.Fatalf("unexpected encoded post: %s", encoded)
	}
	if tags, _ := members["tags"].([]any); len(tags) != 2 {
		t.Fatalf("expected tags to survive, got %s", encoded)
	}
}

func TestEventKeepsUndeclaredFields(t *testing.T) {
	raw := []byte(`{"id":"ev-1","title":"Fair","date":"2024-05-04","location":"Hall","summary":"s","flyer":null,"time":"10:00","registrationLink":"https://example.com/r"}`)

	var event Event
	if err := json.Unmarshal(raw, &event); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if event.Flyer != nil || len(event.Extra) != 2 {
		t.Fatalf("unexpected event %+v", event)
	}

	encoded, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"id":"ev-1","title":"Fair","date":"2024-05-04","location":"Hall","summary":"s","flyer":null,"registrationLink":"https://example.com/r","time":"10:00"}`
	if string(encoded) != want {
		t.Fatalf("unexpected encoding:\n%s\nwant\n%s", encoded, want)
	}
}

func TestEventWithoutExtraEncodesDeclaredFieldsOnly(t *testing.T) {
	encoded, err := json.Marshal(Event{ID: "ev-2"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"id":"ev-2","title":"","date":"","location":"","summary":"","flyer":null}`
	if string(encoded) != want {
		t.Fatalf("unexpected encoding %s", encoded)
	}
}
