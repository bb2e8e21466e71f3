package schemas

// Listing views accepted by GET /posts.
const (
	ViewList    = "list"
	ViewSummary = "summary"
)

// ListPostsQuery holds the offset pagination parameters of GET /posts.
type ListPostsQuery struct {
	Skip  int    `form:"skip,default=0" binding:"min=0"`
	Limit int    `form:"limit,default=10" binding:"min=1,max=100"`
	View  string `form:"view,default=list" binding:"oneof=list summary"`
}

// PageQuery holds page-number pagination parameters.
type PageQuery struct {
	Page int `form:"page,default=1" binding:"min=1"`
	Size int `form:"size,default=10" binding:"min=1,max=100"`
}

// Offset is the number of rows to skip for this page.
func (q PageQuery) Offset() int {
	return (q.Page - 1) * q.Size
}

// PaginationResponse wraps one page of post summaries with totals.
type PaginationResponse struct {
	Items []PostSummary `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Size  int           `json:"size"`
	Pages int           `json:"pages"`
}

// NewPaginationResponse fills in the page count from total and size.
func NewPaginationResponse(items []PostSummary, total int64, q PageQuery) PaginationResponse {
	if items == nil {
		items = []PostSummary{}
	}
	pages := 0
	if q.Size > 0 {
		pages = int((total + int64(q.Size) - 1) / int64(q.Size))
	}
	return PaginationResponse{Items: items, Total: total, Page: q.Page, Size: q.Size, Pages: pages}
}
