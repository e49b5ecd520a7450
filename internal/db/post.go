package db

import (
	"encoding/json"
	"reflect"
	"strings"
)

const (
	PostStatusPublished = "published"
	PostStatusScheduled = "scheduled"
	PostStatusDraft     = "draft"
)

// Post 定义了博客文章模型，集合中以 Slug 为键。
// 未声明的字段保存在 Extra 中，重新写回时不会丢失。
type Post struct {
	Slug         string   `json:"slug"`
	Title        string   `json:"title"`
	Date         string   `json:"date"`
	Status       string   `json:"status,omitempty"`
	Excerpt      string   `json:"excerpt"`
	Content      string   `json:"content"`
	Images       []string `json:"images,omitempty"`
	ScheduleDate string   `json:"scheduleDate,omitempty"`
	ScheduledAt  string   `json:"scheduledAt,omitempty"`
	CreatedAt    string   `json:"createdAt,omitempty"`
	UpdatedAt    string   `json:"updatedAt,omitempty"`
	Extra        Extra    `json:"-"`
}

type postJSON Post

var postKeys = jsonKeys(reflect.TypeFor[postJSON]())

// UnmarshalJSON 解析已知字段，其余字段放入 Extra。
func (p *Post) UnmarshalJSON(data []byte) error {
	var fields postJSON
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	extra, err := splitExtra(data, postKeys)
	if err != nil {
		return err
	}
	*p = Post(fields)
	p.Extra = extra
	return nil
}

// MarshalJSON 先输出已知字段，再追加 Extra。
func (p Post) MarshalJSON() ([]byte, error) {
	encoded, err := json.Marshal(postJSON(p))
	if err != nil {
		return nil, err
	}
	return appendExtra(encoded, p.Extra)
}

// IsPublic 判断文章能否在前台展示；没有状态的旧文章视为已发布。
func (p Post) IsPublic() bool {
	status := strings.TrimSpace(p.Status)
	return status == "" || status == PostStatusPublished
}

// Cover 返回封面图路径，没有图片时为空。
func (p Post) Cover() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
