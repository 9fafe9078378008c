package pagination

import "strings"

// MaxLimit 单页最大数量
const MaxLimit = 100

// Page 分页参数（page从1开始）
type Page struct {
	Page  int
	Limit int
}

// New 规范化分页参数
// page<1时取1；limit<1时取默认值；limit超过MaxLimit时截断
func New(page, limit, defaultLimit int) Page {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Page{Page: page, Limit: limit}
}

// Offset 计算偏移量
func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Sort 排序参数
type Sort struct {
	Field string
	Desc  bool
}

// NewSort 从白名单中选择排序字段，未知字段回退到fallback
// order为asc时升序，其它值（包括空）一律降序
func NewSort(field, order string, allowed map[string]string, fallback string) Sort {
	column, ok := allowed[field]
	if !ok {
		column = allowed[fallback]
	}
	return Sort{
		Field: column,
		Desc:  !strings.EqualFold(order, "asc"),
	}
}

// Clause 返回ORDER BY子句（字段来自白名单，可以直接拼接）
func (s Sort) Clause() string {
	if s.Desc {
		return s.Field + " DESC"
	}
	return s.Field + " ASC"
}
