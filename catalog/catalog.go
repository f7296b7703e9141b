// Package catalog loads clip inventories from CSV files and exports
// generated sequences back to CSV. The expected inventory columns are
// "clip name", "category", "color" and "video link".
package catalog

import (
	"fmt"
	"os"
	"strings"

	"github.com/gocarina/gocsv"

	"clipmix/sequence"
)

type inventoryRow struct {
	Name     string `csv:"clip name"`
	Category string `csv:"category"`
	Color    string `csv:"color"`
	Link     string `csv:"video link"`
}

// Load reads a clip inventory CSV into catalog records. Rows missing a clip
// name or category are skipped; surrounding whitespace is trimmed.
func Load(path string) ([]sequence.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog %s: %w", path, err)
	}
	defer f.Close()

	var rows []*inventoryRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}

	records := make([]sequence.Record, 0, len(rows))
	for _, row := range rows {
		rec := sequence.Record{
			Name:     strings.TrimSpace(row.Name),
			Category: strings.TrimSpace(row.Category),
			Color:    strings.TrimSpace(row.Color),
			Link:     strings.TrimSpace(row.Link),
		}
		if rec.Name == "" || rec.Category == "" {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

type sequenceRow struct {
	ItemNo   int    `csv:"item_no"`
	Name     string `csv:"name"`
	Link     string `csv:"link"`
	Category string `csv:"category"`
	Color    string `csv:"color"`
}

// WriteSequence exports a generated sequence as an ordered CSV of
// item_no, name, link, category, color.
func WriteSequence(path string, items []sequence.Item) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	rows := make([]*sequenceRow, len(items))
	for i, it := range items {
		rows[i] = &sequenceRow{
			ItemNo:   it.ItemNumber,
			Name:     it.Record.Name,
			Link:     it.Record.Link,
			Category: it.Record.Category,
			Color:    it.Record.Color,
		}
	}
	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return fmt.Errorf("failed to write sequence CSV: %w", err)
	}
	return nil
}

// ReadSequence loads a previously exported sequence CSV, for rendering a
// sequence that was generated in an earlier run.
func ReadSequence(path string) ([]sequence.Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sequence %s: %w", path, err)
	}
	defer f.Close()

	var rows []*sequenceRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse sequence %s: %w", path, err)
	}

	items := make([]sequence.Item, len(rows))
	for i, row := range rows {
		items[i] = sequence.Item{
			ItemNumber: row.ItemNo,
			Record: sequence.Record{
				Name:     row.Name,
				Category: row.Category,
				Color:    row.Color,
				Link:     row.Link,
			},
		}
	}
	return items, nil
}
