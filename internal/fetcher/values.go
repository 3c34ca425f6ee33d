package fetcher

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	simplejson "github.com/bitly/go-simplejson"
)

// numeric 读取数字或数字字符串，返回数值与原始文本，字段为空时 present=false
func numeric(js *simplejson.Json) (value float64, text string, present bool, err error) {
	switch v := js.Interface().(type) {
	case nil:
		return 0, "", false, nil
	case json.Number:
		f, err := v.Float64()
		return f, v.String(), true, err
	case float64:
		return v, strconv.FormatFloat(v, 'f', -1, 64), true, nil
	case string:
		s := strings.TrimSpace(v)
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, "", true, fmt.Errorf("could not convert string to float: %q", v)
		}
		return f, s, true, nil
	default:
		return 0, "", true, fmt.Errorf("unexpected numeric type %T", v)
	}
}

// text 读取字符串或数字字段的文本
func text(js *simplejson.Json, key string) (string, error) {
	switch v := js.Get(key).Interface().(type) {
	case string:
		return strings.TrimSpace(v), nil
	case json.Number:
		return v.String(), nil
	case nil:
		return "", fmt.Errorf("missing field %q", key)
	default:
		return "", fmt.Errorf("unexpected type %T for field %q", v, key)
	}
}

// truthy 按 JSON 值的真值判断
func truthy(js *simplejson.Json) bool {
	switch v := js.Interface().(type) {
	case bool:
		return v
	case json.Number:
		f, err := v.Float64()
		return err == nil && f != 0
	case string:
		return v != ""
	case []interface{}:
		return len(v) > 0
	case map[string]interface{}:
		return len(v) > 0
	default:
		return false
	}
}

// present 字段存在且不为 null
func present(js *simplejson.Json, key string) bool {
	v, ok := js.CheckGet(key)
	return ok && v.Interface() != nil
}
