package db

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
)

// Extra 保存记录中模型未声明的 JSON 字段，读改写时原样写回。
type Extra map[string]json.RawMessage

// jsonKeys 返回结构体各字段序列化后的键名。
func jsonKeys(t reflect.Type) map[string]struct{} {
	keys := make(map[string]struct{}, t.NumField())
	for i := range t.NumField() {
		field := t.Field(i)
		tag := field.Tag.Get("json")
		if !field.IsExported() || tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if name == "" {
			name = field.Name
		}
		keys[name] = struct{}{}
	}
	return keys
}

// splitExtra 取出对象中不属于 known 的字段。
func splitExtra(data []byte, known map[string]struct{}) (Extra, error) {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return nil, err
	}

	var extra Extra
	for key, value := range members {
		if _, ok := known[key]; ok {
			continue
		}
		if extra == nil {
			extra = Extra{}
		}
		extra[key] = value
	}
	return extra, nil
}

// appendExtra 把 extra 按键名排序追加到已编码对象的末尾。
func appendExtra(encoded []byte, extra Extra) ([]byte, error) {
	if len(extra) == 0 {
		return encoded, nil
	}
	encoded = bytes.TrimSpace(encoded)
	if len(encoded) < 2 || encoded[len(encoded)-1] != '}' {
		return nil, fmt.Errorf("cannot append fields to %s", encoded)
	}

	var buf bytes.Buffer
	buf.Write(encoded[:len(encoded)-1])
	hasMembers := len(bytes.TrimSpace(encoded[1:len(encoded)-1])) > 0
	for _, key := range slices.Sorted(maps.Keys(extra)) {
		name, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		if hasMembers {
			buf.WriteByte(',')
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(extra[key])
		hasMembers = true
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
