package eventday

import (
	"reflect"
	"testing"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		want       []Day
	}{
		{
			"四天区间",
			"2026-02-16", "2026-02-19",
			[]Day{{1, "2026-02-16"}, {2, "2026-02-17"}, {3, "2026-02-18"}, {4, "2026-02-19"}},
		},
		{"结束早于开始", "2026-02-19", "2026-02-16", []Day{}},
		{"单日", "2026-02-16", "2026-02-16", []Day{{1, "2026-02-16"}}},
		{
			"带时间的输入截取前 10 位",
			"2026-03-16 00:00:00", "2026-03-17T23:30:00+05:30",
			[]Day{{1, "2026-03-16"}, {2, "2026-03-17"}},
		},
		{
			"跨月",
			"2026-02-27", "2026-03-02",
			[]Day{{1, "2026-02-27"}, {2, "2026-02-28"}, {3, "2026-03-01"}, {4, "2026-03-02"}},
		},
		{
			"闰年二月",
			"2028-02-28", "2028-03-01",
			[]Day{{1, "2028-02-28"}, {2, "2028-02-29"}, {3, "2028-03-01"}},
		},
		{
			"跨夏令时切换",
			"2026-03-28", "2026-03-30",
			[]Day{{1, "2026-03-28"}, {2, "2026-03-29"}, {3, "2026-03-30"}},
		},
		{"开始无法解析", "not-a-date", "2026-02-16", []Day{}},
		{"结束无法解析", "2026-02-16", "2026-13-01", []Day{}},
		{"过短", "2026-2-1", "2026-02-16", []Day{}},
		{"空串", "", "", []Day{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Generate(tt.start, tt.end)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Generate(%q, %q) 期望 %v，实际 %v", tt.start, tt.end, tt.want, got)
			}
		})
	}
}

func TestGenerate_Idempotent(t *testing.T) {
	a := Generate("2026-02-16", "2026-02-19")
	b := Generate("2026-02-16", "2026-02-19")
	if !reflect.DeepEqual(a, b) {
		t.Errorf("相同区间两次生成结果应一致: %v vs %v", a, b)
	}
}

func TestGenerate_LongRangeHasNoGapsOrRepeats(t *testing.T) {
	days := Generate("2025-01-01", "2026-12-31")
	if len(days) != 730 {
		t.Fatalf("期望 730 天，实际 %d", len(days))
	}
	seen := make(map[string]bool, len(days))
	for i, d := range days {
		if d.Number != i+1 {
			t.Fatalf("序号应连续，第 %d 项为 %d", i, d.Number)
		}
		if seen[d.Date] {
			t.Fatalf("日期重复: %s", d.Date)
		}
		seen[d.Date] = true
	}
	if days[len(days)-1].Date != "2026-12-31" {
		t.Errorf("最后一天期望 2026-12-31，实际 %s", days[len(days)-1].Date)
	}
}

func TestNormalizeDate(t *testing.T) {
	cases := map[string]string{
		"2026-03-16":           "2026-03-16",
		"2026-03-16T00:00:00Z": "2026-03-16",
		"2026-03":              "2026-03",
		"":                     "",
	}
	for in, want := range cases {
		if got := NormalizeDate(in); got != want {
			t.Errorf("NormalizeDate(%q) 期望 %q，实际 %q", in, want, got)
		}
	}
}
