package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/gwalsh/redsift/internal/domain"
)

// WriteJSON writes posts as an indented JSON array.
func WriteJSON(w io.Writer, posts []domain.Post) error {
	if posts == nil {
		posts = []domain.Post{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(posts); err != nil {
		return fmt.Errorf("%w: encode json: %v", domain.ErrSerialization, err)
	}
	return nil
}

// ReadJSON parses an array written by WriteJSON.
func ReadJSON(r io.Reader) ([]domain.Post, error) {
	var posts []domain.Post
	if err := json.NewDecoder(r).Decode(&posts); err != nil {
		return nil, fmt.Errorf("%w: decode json: %v", domain.ErrSerialization, err)
	}
	return posts, nil
}
