package pagination

// EntriesInfo summarizes which slice of a collection a page shows, e.g.
// "items 21 - 40 of 95".
type EntriesInfo struct {
	First      int  // 1-based number of the first entry on the page, 0 when empty
	Last       int  // 1-based number of the last entry on the page, 0 when empty
	Total      int  // size of the whole collection
	SinglePage bool // the whole collection fits on one page
}

// Info computes the EntriesInfo of page current. A perPage of zero or less
// means the collection is not split.
func Info(current, perPage, total int) EntriesInfo {
	info := EntriesInfo{Total: max(total, 0)}
	if info.Total == 0 {
		info.SinglePage = true
		return info
	}
	if perPage <= 0 || info.Total <= perPage {
		info.First = 1
		info.Last = info.Total
		info.SinglePage = true
		return info
	}

	current = max(current, 1)
	if current-1 > (info.Total-1)/perPage {
		return info
	}
	offset := (current - 1) * perPage
	info.First = offset + 1
	info.Last = offset + min(perPage, info.Total-offset)
	return info
}

// Empty reports whether the page shows no entries.
func (i EntriesInfo) Empty() bool {
	return i.First == 0
}
