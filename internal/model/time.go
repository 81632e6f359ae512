package model

import "time"

// DateLayout 是日历天粒度字段使用的日期格式。
const DateLayout = "2006-01-02"

// DateStamp 将时间格式化为日历天粒度的日期字符串（UTC）。
func DateStamp(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// Timestamp 将时间格式化为完整的 RFC3339 时间戳（UTC），用于备注历史。
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
