package utils

// DefaultPageSize 固定页大小
const DefaultPageSize = 10

// PageInfo 分页窗口描述
type PageInfo struct {
	Number     int // 当前页码（从 1 开始，已钳位）
	TotalPages int
	TotalItems int64
	Size       int
	Offset     int
	Limit      int
}

// Paginate 计算分页窗口。页码越界时钳位到首页或末页，不报错
func Paginate(total int64, page, size int) PageInfo {
	if size <= 0 {
		size = DefaultPageSize
	}

	totalPages := int((total + int64(size) - 1) / int64(size))
	if totalPages < 1 {
		totalPages = 1
	}

	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	return PageInfo{
		Number:     page,
		TotalPages: totalPages,
		TotalItems: total,
		Size:       size,
		Offset:     (page - 1) * size,
		Limit:      size,
	}
}

// HasPrev 是否有上一页
func (p PageInfo) HasPrev() bool {
	return p.Number > 1
}

// HasNext 是否有下一页
func (p PageInfo) HasNext() bool {
	return p.Number < p.TotalPages
}
