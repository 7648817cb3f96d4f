package archive

import (
	"strings"

	"gorm.io/gorm"
)

type SortType string

const (
	SortTypeAscending  SortType = "asc"
	SortTypeDescending SortType = "desc"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// ListOptions filters and paginates List results. Zero values mean no filter.
type ListOptions struct {
	PrimaryType string
	Signer      string
	Offset      uint32
	Limit       uint32
	Sort        *SortType
}

func (o *ListOptions) apply(db *gorm.DB) *gorm.DB {
	if o == nil {
		o = &ListOptions{}
	}
	if o.PrimaryType != "" {
		db = db.Where("primary_type = ?", o.PrimaryType)
	}
	if o.Signer != "" {
		db = db.Where("signer = ?", o.Signer)
	}

	sort := SortTypeDescending
	if o.Sort != nil {
		sort = *o.Sort
	}
	db = db.Order("created_at " + strings.ToUpper(string(sort)))

	limit := int(o.Limit)
	if limit == 0 {
		limit = DefaultLimit
	} else if limit > MaxLimit {
		limit = MaxLimit
	}
	return db.Offset(int(o.Offset)).Limit(limit)
}
