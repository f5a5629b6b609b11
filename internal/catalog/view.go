package catalog

import "github.com/cobbinma/portfolio/internal/model"

// Page is one rendered page of the project catalog.
type Page struct {
	// Projects is the slice of matching projects shown on this page.
	Projects []model.Project `json:"projects"`
	// Technologies is the full set of filterable tags.
	Technologies []model.Technology `json:"technologies"`
	Selected     []model.Technology `json:"selected"`
	Page         int                `json:"page"`
	PageSize     int                `json:"pageSize"`
	PageCount    int                `json:"pageCount"`
	// Total is the number of projects matching the selection, across all pages.
	Total int `json:"total"`
}

// View computes the page shown for a selection and page number.
func View(page model.ProjectsPage, selected []model.Technology, pageNum int) Page {
	matching := Filter(page.Projects, selected)

	if selected == nil {
		selected = []model.Technology{}
	}

	return Page{
		Projects:     PageSlice(matching, pageNum, PageSize),
		Technologies: page.Technologies,
		Selected:     selected,
		Page:         pageNum,
		PageSize:     PageSize,
		PageCount:    PageCount(matching, PageSize),
		Total:        len(matching),
	}
}

// ViewportResetter scrolls the host view back to the top. It is called
// whenever the page number changes and returns nothing.
type ViewportResetter func()

// Browser holds the selection and page number a UI would own and derives the
// visible page from them.
//
// A Browser is not safe for concurrent use.
type Browser struct {
	content       model.ProjectsPage
	selected      []model.Technology
	page          int
	resetViewport ViewportResetter
}

// NewBrowser starts with no technologies selected on page 1. reset may be nil.
func NewBrowser(content model.ProjectsPage, reset ViewportResetter) *Browser {
	return &Browser{
		content:       content,
		selected:      []model.Technology{},
		page:          1,
		resetViewport: reset,
	}
}

// Select replaces the selected technologies and goes back to page 1, so a
// narrower selection never leaves the view on a page that no longer exists.
func (b *Browser) Select(techs []model.Technology) {
	b.selected = append([]model.Technology{}, techs...)
	b.page = 1
}

// SetPage moves to page n and resets the viewport.
func (b *Browser) SetPage(n int) {
	b.page = n
	if b.resetViewport != nil {
		b.resetViewport()
	}
}

// CurrentPage returns the current 1-indexed page number.
func (b *Browser) CurrentPage() int {
	return b.page
}

// View returns the page for the current state.
func (b *Browser) View() Page {
	return View(b.content, b.selected, b.page)
}
