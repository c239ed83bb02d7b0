package visibility

import (
	"sort"
	"strings"
)

// Descriptor 场次可见性描述（sessions 表的四个可见性字段）
type Descriptor struct {
	IsGeneric     bool
	Department    *string
	IsDeptGeneric bool
	Team          *string
}

// Viewer 查看者：解析后的部门范围 + 小组
type Viewer struct {
	Scope Scope
	Team  *string
}

// NewViewer 由存储层原始字段构造查看者。空白小组视为未设置。
func NewViewer(department, team *string) Viewer {
	return Viewer{Scope: ParseScope(department), Team: normalizeTeam(team)}
}

func normalizeTeam(team *string) *string {
	if team == nil {
		return nil
	}
	t := strings.TrimSpace(*team)
	if t == "" {
		return nil
	}
	return &t
}

// CanSee 判断场次对查看者是否可见，按顺序首个命中生效：
//  1. 通用场次 → 可见
//  2. 查看者为 ALL → 可见
//  3. 查看者未设置部门 → 不可见
//  4. 显式范围：部门命中，且（部门通用 或 小组相同）
//
// 任何一侧小组为 NULL 时视为不相等，与 SQL 的 NULL 比较语义保持一致。
func (v Viewer) CanSee(d Descriptor) bool {
	if d.IsGeneric {
		return true
	}
	switch v.Scope.Kind() {
	case ScopeUnrestricted:
		return true
	case ScopeEmpty:
		return false
	}
	if d.Department == nil || !v.Scope.Contains(*d.Department) {
		return false
	}
	if d.IsDeptGeneric {
		return true
	}
	return v.Team != nil && d.Team != nil && *v.Team == *d.Team
}

// ── 录入检查 ──

// Describe 返回可见性字段组合中可疑的录入问题（仅用于告警，不改变判定结果）。
func Describe(d Descriptor) []string {
	if d.IsGeneric {
		return nil
	}
	var warnings []string
	if d.Department == nil || strings.TrimSpace(*d.Department) == "" {
		warnings = append(warnings, "非通用场次未指定部门，仅 ALL 用户可见")
	}
	if !d.IsDeptGeneric && (d.Team == nil || strings.TrimSpace(*d.Team) == "") {
		warnings = append(warnings, "小组场次未指定小组，仅 ALL 用户可见")
	}
	return warnings
}

// ── 日期投影 ──

// DatedDescriptor 带日期的可见性描述
type DatedDescriptor struct {
	Date string // YYYY-MM-DD
	Descriptor
}

// VisibleDates 返回至少有一个可见场次的日期（去重、升序）
func VisibleDates(v Viewer, items []DatedDescriptor) []string {
	seen := make(map[string]struct{})
	dates := make([]string, 0)
	for _, it := range items {
		if !v.CanSee(it.Descriptor) {
			continue
		}
		if _, ok := seen[it.Date]; ok {
			continue
		}
		seen[it.Date] = struct{}{}
		dates = append(dates, it.Date)
	}
	sort.Strings(dates)
	return dates
}
