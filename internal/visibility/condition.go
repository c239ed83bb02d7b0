package visibility

import (
	"strings"

	"gorm.io/gorm"
)

// Condition 可见性规则的 SQL 形式。
// SQL 使用 "?" 占位符，可直接交给 GORM（自动转换为 $n），也可用于 database/sql。
// SQL 为空表示不过滤。
type Condition struct {
	SQL  string
	Args []interface{}
}

// Condition 生成与 CanSee 等价的批量过滤条件。
// table 为 sessions 表在查询中的别名（如 "s"），为空时使用裸列名。
//
//	Unrestricted → 无条件
//	Empty        → t.is_generic
//	Explicit     → (t.is_generic OR (t.department IN (...) AND (t.is_dept_generic OR t.team = ?)))
func (v Viewer) Condition(table string) Condition {
	col := func(name string) string {
		if table == "" {
			return name
		}
		return table + "." + name
	}

	switch v.Scope.Kind() {
	case ScopeUnrestricted:
		return Condition{}
	case ScopeEmpty:
		return Condition{SQL: col("is_generic")}
	}

	depts := v.Scope.Departments()
	args := make([]interface{}, 0, len(depts)+1)
	placeholders := make([]string, 0, len(depts))
	for _, d := range depts {
		placeholders = append(placeholders, "?")
		args = append(args, d)
	}

	teamClause := col("is_dept_generic")
	if v.Team != nil {
		teamClause = "(" + col("is_dept_generic") + " OR " + col("team") + " = ?)"
		args = append(args, *v.Team)
	}

	var b strings.Builder
	b.WriteString("(")
	b.WriteString(col("is_generic"))
	b.WriteString(" OR (")
	b.WriteString(col("department"))
	b.WriteString(" IN (")
	b.WriteString(strings.Join(placeholders, ", "))
	b.WriteString(") AND ")
	b.WriteString(teamClause)
	b.WriteString("))")

	return Condition{SQL: b.String(), Args: args}
}

// IsEmpty 条件是否为空（不过滤）
func (c Condition) IsEmpty() bool { return c.SQL == "" }

// Where 返回可直接拼接到 WHERE 后的表达式；空条件返回恒真式
func (c Condition) Where() string {
	if c.SQL == "" {
		return "1 = 1"
	}
	return c.SQL
}

// Apply 作为 GORM Scope 使用：db.Scopes(cond.Apply)
func (c Condition) Apply(db *gorm.DB) *gorm.DB {
	if c.SQL == "" {
		return db
	}
	return db.Where(c.SQL, c.Args...)
}
