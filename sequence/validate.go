package sequence

// Validate scans a finished sequence and reports every pair of same-category
// clips separated by fewer than minSpacing other clips. An empty report
// means the sequence is valid. Works on caller-supplied sequences as well as
// builder output.
func Validate(items []Item, minSpacing int) ViolationReport {
	records := make([]Record, len(items))
	for i, it := range items {
		records[i] = it.Record
	}
	return findViolations(records, minSpacing)
}

func findViolations(records []Record, minSpacing int) ViolationReport {
	last := make(map[string]int, 8)
	var report ViolationReport
	for i, rec := range records {
		if prev, seen := last[rec.Category]; seen {
			if between := i - prev - 1; between < minSpacing {
				report = append(report, Violation{
					Position:     i + 1,
					Category:     rec.Category,
					SpacingFound: between,
				})
			}
		}
		last[rec.Category] = i
	}
	return report
}
