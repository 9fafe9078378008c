package dto

// CreateBookRequest HTTP创建图书请求
// multipart时可附带coverImage文件（由Handler单独读取）
type CreateBookRequest struct {
	Title  string `form:"title" json:"title" binding:"max=200" example:"The Go Programming Language"`
	Author string `form:"author" json:"author" binding:"max=100" example:"Alan Donovan"`
	Genre  string `form:"genre" json:"genre" binding:"max=50" example:"Programming"`
}

// ListBooksQuery 图书列表查询参数
// order为asc（不区分大小写）时升序，其它值降序
// orderBy取值见book.SortFields，未知字段按createdAt排序
type ListBooksQuery struct {
	Search  string `form:"search" example:"go"`
	Author  string `form:"author" example:"Donovan"`
	Genre   string `form:"genre" example:"Programming"`
	Page    int    `form:"page" example:"1"`
	Limit   int    `form:"limit" example:"10"`
	Order   string `form:"order" example:"desc"`
	OrderBy string `form:"orderBy" example:"createdAt"`
}

// BookDetailQuery 图书详情中评论的分页参数
type BookDetailQuery struct {
	Page  int `form:"page" example:"1"`
	Limit int `form:"limit" example:"5"`
}
