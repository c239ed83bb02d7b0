package visibility

import (
	"strings"
)

// ScopeKind 部门范围类型
type ScopeKind int

const (
	// ScopeEmpty 未设置部门：只能看到通用场次
	ScopeEmpty ScopeKind = iota
	// ScopeUnrestricted "ALL"：可看到所有部门的场次
	ScopeUnrestricted
	// ScopeExplicit 显式部门列表
	ScopeExplicit
)

// AllDepartments 不区分大小写的"全部部门"标记
const AllDepartments = "ALL"

// Scope 用户部门范围（已解析）。
// department 字段在存储层是一列文本，同时承载"未设置 / 全部 / 列表"三种含义，
// 读取后立即解析为 Scope，下游逻辑只使用解析后的值。
type Scope struct {
	kind        ScopeKind
	departments []string
	set         map[string]struct{}
}

// EmptyScope 返回空范围
func EmptyScope() Scope { return Scope{kind: ScopeEmpty} }

// UnrestrictedScope 返回全部范围
func UnrestrictedScope() Scope { return Scope{kind: ScopeUnrestricted} }

// ExplicitScope 由部门名构造显式范围；去空白、去空项、去重。
// 没有任何有效项时退化为 EmptyScope。
func ExplicitScope(departments ...string) Scope {
	set := make(map[string]struct{}, len(departments))
	list := make([]string, 0, len(departments))
	for _, d := range departments {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		if _, dup := set[d]; dup {
			continue
		}
		set[d] = struct{}{}
		list = append(list, d)
	}
	if len(list) == 0 {
		return EmptyScope()
	}
	return Scope{kind: ScopeExplicit, departments: list, set: set}
}

// ParseScope 解析 department 原始文本。纯函数，永不失败：
//   - nil / 空串        → Empty
//   - "ALL"（忽略大小写）→ Unrestricted
//   - "A, B ,,C"        → Explicit{A, B, C}
func ParseScope(raw *string) Scope {
	if raw == nil {
		return EmptyScope()
	}
	s := strings.TrimSpace(*raw)
	if s == "" {
		return EmptyScope()
	}
	if strings.EqualFold(s, AllDepartments) {
		return UnrestrictedScope()
	}
	return ExplicitScope(strings.Split(s, ",")...)
}

// ParseScopeString 便捷版本，空串视为未设置
func ParseScopeString(raw string) Scope {
	return ParseScope(&raw)
}

// Kind 返回范围类型
func (s Scope) Kind() ScopeKind { return s.kind }

// IsEmpty 是否为空范围
func (s Scope) IsEmpty() bool { return s.kind == ScopeEmpty }

// IsUnrestricted 是否为全部范围
func (s Scope) IsUnrestricted() bool { return s.kind == ScopeUnrestricted }

// Contains 显式范围是否包含指定部门（大小写敏感，与数据库比较一致）。
// 非显式范围一律返回 false。
func (s Scope) Contains(department string) bool {
	if s.kind != ScopeExplicit {
		return false
	}
	_, ok := s.set[department]
	return ok
}

// Departments 返回显式部门列表的副本（保持输入顺序）
func (s Scope) Departments() []string {
	if s.kind != ScopeExplicit {
		return nil
	}
	out := make([]string, len(s.departments))
	copy(out, s.departments)
	return out
}

// String 还原为存储格式；Empty 返回空串
func (s Scope) String() string {
	switch s.kind {
	case ScopeUnrestricted:
		return AllDepartments
	case ScopeExplicit:
		return strings.Join(s.departments, ",")
	default:
		return ""
	}
}

// Stored 还原为可空的存储值，Empty 对应 NULL
func (s Scope) Stored() *string {
	if s.kind == ScopeEmpty {
		return nil
	}
	v := s.String()
	return &v
}
