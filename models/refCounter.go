package models

// RefCounter backs the reference number generator: one row per
// "{type}-{period}" counter name, bumped with an atomic upsert.
type RefCounter struct {
	Id   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"size:64;not null;uniqueIndex"`
	Seq  int64  `json:"seq" gorm:"not null;default:0"`
}
