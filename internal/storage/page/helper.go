package page

import (
	util "github.com/bietkhonhungvandi212/array-db/internal/utils"
)

// CreateTestPage builds a Page for pageID from data, truncating to fit.
// Test-only: production callers go through New, which never truncates.
func CreateTestPage(pageID util.PageID, data []byte) *Page {
	p := &Page{
		Header: PageHeader{
			PageID: pageID,
			Flags:  0,
		},
	}
	if len(data) > len(p.Data) {
		data = data[:len(p.Data)] // Truncate to fit
	}
	copy(p.Data[:], data)
	return p
}
