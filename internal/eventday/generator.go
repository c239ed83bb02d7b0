package eventday

import "time"

// DateLayout 日历日期格式
const DateLayout = "2006-01-02"

// Day 活动日：序号从 1 开始，日期为 YYYY-MM-DD
type Day struct {
	Number int    `json:"day_number"`
	Date   string `json:"day_date"`
}

// NormalizeDate 截取任意日期文本的前 10 个字符（YYYY-MM-DD）。
// 兼容 "2026-03-16"、"2026-03-16 00:00:00"、"2026-03-16T00:00:00Z" 等形式。
func NormalizeDate(s string) string {
	if len(s) > len(DateLayout) {
		return s[:len(DateLayout)]
	}
	return s
}

// ParseDate 解析日期并固定到 UTC 正午，避免跨时区/夏令时导致的日期偏移
func ParseDate(s string) (time.Time, bool) {
	s = NormalizeDate(s)
	if len(s) != len(DateLayout) {
		return time.Time{}, false
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, time.UTC), true
}

// Generate 将 [start, end] 展开为逐日序列。
// 任一日期无法解析或 end < start 时返回空切片，不报错。
func Generate(start, end string) []Day {
	s, ok := ParseDate(start)
	if !ok {
		return []Day{}
	}
	e, ok := ParseDate(end)
	if !ok || e.Before(s) {
		return []Day{}
	}

	days := make([]Day, 0, int(e.Sub(s).Hours()/24)+1)
	for d, n := s, 1; !d.After(e); d, n = d.AddDate(0, 0, 1), n+1 {
		days = append(days, Day{Number: n, Date: d.Format(DateLayout)})
	}
	return days
}
