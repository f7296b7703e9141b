package sequence

// Filter selects the catalog records matching the requested categories and
// colors and buckets them by category. An empty categories or colors slice
// leaves that axis unrestricted. Records keep catalog order within each
// bucket; randomization happens later, in Generate.
func Filter(catalog []Record, categories, colors []string) Pool {
	wantCategory := toSet(categories)
	wantColor := toSet(colors)

	buckets := make(map[string][]Record)
	for _, rec := range catalog {
		if len(wantCategory) > 0 {
			if _, ok := wantCategory[rec.Category]; !ok {
				continue
			}
		}
		if len(wantColor) > 0 {
			if _, ok := wantColor[rec.Color]; !ok {
				continue
			}
		}
		buckets[rec.Category] = append(buckets[rec.Category], rec)
	}
	return newPool(buckets)
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
