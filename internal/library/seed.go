package library

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Record is the import shape of an item, as written in seed files.
type Record struct {
	ID       int       `yaml:"id"`
	Title    string    `yaml:"title"`
	Authors  []string  `yaml:"authors"`
	Tags     []string  `yaml:"tags"`
	Notes    string    `yaml:"notes"`
	FileSize int64     `yaml:"file_size"`
	Added    time.Time `yaml:"added"`
}

type seedFile struct {
	Items []Record `yaml:"items"`
}

func (r Record) validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("library: record title is required")
	}
	if r.ID < 0 {
		return fmt.Errorf("library: record %q has negative id %d", r.Title, r.ID)
	}
	if r.FileSize < 0 {
		return fmt.Errorf("library: record %q has negative file size", r.Title)
	}
	return nil
}

// LoadRecords decodes a YAML seed document of the form `items: [...]`.
func LoadRecords(r io.Reader) ([]Record, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc seedFile
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return []Record{}, nil
		}
		return nil, fmt.Errorf("library: decode seed: %w", err)
	}
	for _, rec := range doc.Items {
		if err := rec.validate(); err != nil {
			return nil, err
		}
	}
	if doc.Items == nil {
		doc.Items = []Record{}
	}
	return doc.Items, nil
}
