package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// 请求体宽松解析：字段类型不符时只返回 false，由调用方给出校验信息

// IsNullRaw 字段缺省或为 null
func IsNullRaw(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// rawScalar 取数字或字符串的文本，其他 JSON 类型返回 false
func rawScalar(raw json.RawMessage) (string, bool) {
	if IsNullRaw(raw) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s), true
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), true
	}
	return "", false
}

// ParseRawID 正整数或正整数字符串
func ParseRawID(raw json.RawMessage) (uint, bool) {
	s, ok := rawScalar(raw)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil || v == 0 {
		return 0, false
	}
	return uint(v), true
}

// ParseRawInt 整数或整数字符串，不接受小数
func ParseRawInt(raw json.RawMessage) (int, bool) {
	s, ok := rawScalar(raw)
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseRawMoney 数字或数字字符串，空字符串视为缺省
func ParseRawMoney(raw json.RawMessage) (Money, bool) {
	s, ok := rawScalar(raw)
	if !ok || s == "" {
		return Money{}, false
	}
	m, err := NewMoneyFromString(s)
	if err != nil {
		return Money{}, false
	}
	return m, true
}

// ParseRawString 缺省或 null 返回空串；非字符串返回 false
func ParseRawString(raw json.RawMessage) (string, bool) {
	if IsNullRaw(raw) {
		return "", true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}
