package service

import (
	"encoding/json"
	"strings"

	"github.com/rs/zerolog/log"
)

// ImageInput describes the image state submitted with a post form.
type ImageInput struct {
	// Previous is the image list already stored for the post.
	Previous []string
	// Existing is the raw existingImages field resubmitted by the editor.
	Existing string
	// Uploaded holds public paths of files saved for this request.
	Uploaded []string
	// CoverOrder is the raw coverPhotoOrder field.
	CoverOrder string
}

type coverOrderEntry struct {
	IsCoverPhoto bool `json:"isCoverPhoto"`
}

// ResolveImages merges resubmitted and uploaded images and moves the chosen
// cover to the front. When nothing was submitted the previous list is kept.
func ResolveImages(input ImageInput) []string {
	images := parseExistingImages(input.Existing)
	images = append(images, input.Uploaded...)
	images = moveCoverFirst(images, input.CoverOrder)

	if len(images) == 0 && len(input.Previous) > 0 {
		return append([]string(nil), input.Previous...)
	}
	return images
}

// parseExistingImages accepts a JSON array, a comma separated list or a single path.
func parseExistingImages(raw string) []string {
	if raw == "" {
		return nil
	}

	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err == nil {
		items, ok := decoded.([]any)
		if !ok {
			return nil
		}
		images := make([]string, 0, len(items))
		for _, item := range items {
			if path, ok := item.(string); ok {
				images = append(images, path)
			}
		}
		return images
	}

	if strings.Contains(raw, ",") {
		parts := strings.Split(raw, ",")
		images := make([]string, 0, len(parts))
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				images = append(images, trimmed)
			}
		}
		return images
	}

	return []string{raw}
}

func moveCoverFirst(images []string, rawOrder string) []string {
	if rawOrder == "" || len(images) == 0 {
		return images
	}

	var order []coverOrderEntry
	if err := json.Unmarshal([]byte(rawOrder), &order); err != nil {
		log.Debug().Err(err).Msg("ignoring malformed cover photo order")
		return images
	}

	index := -1
	for i, entry := range order {
		if entry.IsCoverPhoto {
			index = i
			break
		}
	}
	if index <= 0 || index >= len(images) {
		return images
	}

	reordered := make([]string, 0, len(images))
	reordered = append(reordered, images[index])
	reordered = append(reordered, images[:index]...)
	reordered = append(reordered, images[index+1:]...)
	return reordered
}
