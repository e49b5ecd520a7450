package db

import (
	"encoding/json"
	"reflect"
)

// Event 定义活动模型。Flyer 为 nil 时序列化为 null。
// 未声明的字段（如 time、registrationLink）保存在 Extra 中。
type Event struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Date     string  `json:"date"`
	Location string  `json:"location"`
	Summary  string  `json:"summary"`
	Flyer    *string `json:"flyer"`
	Extra    Extra   `json:"-"`
}

type eventJSON Event

var eventKeys = jsonKeys(reflect.TypeFor[eventJSON]())

// UnmarshalJSON 解析已知字段，其余字段放入 Extra。
func (e *Event) UnmarshalJSON(data []byte) error {
	var fields eventJSON
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	extra, err := splitExtra(data, eventKeys)
	if err != nil {
		return err
	}
	*e = Event(fields)
	e.Extra = extra
	return nil
}

// MarshalJSON 先输出已知字段，再追加 Extra。
func (e Event) MarshalJSON() ([]byte, error) {
	encoded, err := json.Marshal(eventJSON(e))
	if err != nil {
		return nil, err
	}
	return appendExtra(encoded, e.Extra)
}

// FlyerPath 返回宣传图路径，没有时为空。
func (e Event) FlyerPath() string {
	if e.Flyer == nil {
		return ""
	}
	return *e.Flyer
}
