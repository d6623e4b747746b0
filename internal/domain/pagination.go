package domain

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// PageQuery нормализует параметры пагинации из запроса.
type PageQuery struct {
	Page  int
	Limit int
}

// Normalize приводит page/limit к допустимым границам:
// page >= 1, 1 <= limit <= 100, значения по умолчанию 1/10.
func (q PageQuery) Normalize() PageQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = defaultPageLimit
	}
	if q.Limit > maxPageLimit {
		q.Limit = maxPageLimit
	}
	return q
}

// Offset возвращает смещение выборки для нормализованного запроса.
func (q PageQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// PageMeta — метаданные страницы для ответов со списками.
type PageMeta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// NewPageMeta вычисляет метаданные по общему количеству записей.
func NewPageMeta(total int, q PageQuery) PageMeta {
	totalPages := 0
	if q.Limit > 0 {
		totalPages = (total + q.Limit - 1) / q.Limit
	}
	return PageMeta{Total: total, Page: q.Page, Limit: q.Limit, TotalPages: totalPages}
}
