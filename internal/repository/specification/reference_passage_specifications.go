package specification

import "gorm.io/gorm"

// BySource filters reference passages by their corpus source name.
type BySource struct {
	Source string
}

func (s BySource) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("source = ?", s.Source)
}
