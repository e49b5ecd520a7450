package db

import "time"

// Document 以 JSON 文本形式保存一个完整集合（posts、events 等）。
type Document struct {
	Name      string `gorm:"primaryKey;size:100"`
	Body      string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

// TableName 自定义表名以保持命名一致。
func (Document) TableName() string {
	return "documents"
}
