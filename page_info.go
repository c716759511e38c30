package paging

// PageInfo is the pagination envelope returned with every listing.
//
// Offset pages fill Page and TotalPages. Keyset pages fill the cursors that
// exist. Total is the filtered row count in both modes.
type PageInfo struct {
	Total      int64   `json:"total"`
	Page       *int    `json:"page,omitempty"`
	TotalPages *int    `json:"total_pages,omitempty"`
	HasNext    bool    `json:"has_next"`
	HasPrev    bool    `json:"has_prev"`
	NextCursor *string `json:"next_cursor,omitempty"`
	PrevCursor *string `json:"prev_cursor,omitempty"`
}

// NewOffsetPageInfo builds the envelope for an offset page:
// total_pages = ceil(total/page_size), has_next = page < total_pages and
// has_prev = page > 1.
func NewOffsetPageInfo(total int64, page, pageSize int) PageInfo {
	if pageSize < 1 {
		pageSize = 1
	}
	if page < 1 {
		page = 1
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	return PageInfo{
		Total:      total,
		Page:       &page,
		TotalPages: &totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// NewEmptyPageInfo returns the envelope of a listing with no rows.
func NewEmptyPageInfo() PageInfo {
	page, totalPages := 1, 0
	return PageInfo{Page: &page, TotalPages: &totalPages}
}

// Sorting echoes the sort that was applied, after whitelist resolution.
type Sorting struct {
	SortBy    string `json:"sort_by"`
	SortOrder string `json:"sort_order"`
}
