// Package fixture ships the built-in post catalogue.
package fixture

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"

	"github.com/anonto42/nano-midea/postdir/internal/models"
)

//go:embed posts.json
var postsJSON []byte

// Posts decodes the built-in catalogue. Each call returns fresh values.
func Posts() ([]models.PostRecord, error) {
	var records []models.PostRecord
	if err := json.Unmarshal(postsJSON, &records); err != nil {
		return nil, fmt.Errorf("decode built-in posts: %w", err)
	}
	return records, nil
}

// Decode reads post records in the fixture's JSON shape from r.
func Decode(r io.Reader) ([]models.PostRecord, error) {
	var records []models.PostRecord
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	return records, nil
}
