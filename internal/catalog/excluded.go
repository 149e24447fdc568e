package catalog

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"time"
)

// ExcludedListings is the content of an exclude file: listings the user dismissed.
type ExcludedListings struct {
	Items []*ExcludedListing
}

type ExcludedListing struct {
	ID         string
	Title      string
	Company    string
	ExcludedAt time.Time
}

// ReadExcludedFile reads an exclude file. A missing or empty file yields an empty list.
func ReadExcludedFile(path string) (*ExcludedListings, error) {
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &ExcludedListings{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &ExcludedListings{}, nil
	}

	var excluded ExcludedListings
	if err := json.NewDecoder(file).Decode(&excluded); err != nil {
		return nil, err
	}
	return &excluded, nil
}

func (e *ExcludedListings) Append(other *ExcludedListings) {
	if other == nil {
		return
	}
	e.Items = append(e.Items, other.Items...)
}

func (e *ExcludedListings) IDs() []string {
	ids := make([]string, 0, len(e.Items))
	for _, listing := range e.Items {
		ids = append(ids, listing.ID)
	}
	return ids
}

func (e *ExcludedListings) WriteFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}
