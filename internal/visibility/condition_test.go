package visibility

import (
	"database/sql"
	"math/rand"
	"testing"

	_ "modernc.org/sqlite"
)

func TestCondition_Rendering(t *testing.T) {
	tests := []struct {
		name     string
		v        Viewer
		wantSQL  string
		wantArgs []interface{}
	}{
		{"ALL 不过滤", viewer("ALL", nil), "", nil},
		{"空范围", viewer("<nil>", nil), "s.is_generic", nil},
		{
			"显式无小组",
			viewer("A,B", nil),
			"(s.is_generic OR (s.department IN (?, ?) AND s.is_dept_generic))",
			[]interface{}{"A", "B"},
		},
		{
			"显式有小组",
			viewer("A", strPtr("T1")),
			"(s.is_generic OR (s.department IN (?) AND (s.is_dept_generic OR s.team = ?)))",
			[]interface{}{"A", "T1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.v.Condition("s")
			if c.SQL != tt.wantSQL {
				t.Errorf("SQL 期望 %q，实际 %q", tt.wantSQL, c.SQL)
			}
			if len(c.Args) != len(tt.wantArgs) {
				t.Fatalf("参数个数期望 %d，实际 %d", len(tt.wantArgs), len(c.Args))
			}
			for i := range c.Args {
				if c.Args[i] != tt.wantArgs[i] {
					t.Errorf("参数[%d] 期望 %v，实际 %v", i, tt.wantArgs[i], c.Args[i])
				}
			}
		})
	}

	if got := viewer("ALL", nil).Condition("").Where(); got != "1 = 1" {
		t.Errorf("空条件应返回恒真式，实际 %q", got)
	}
	if got := viewer("<nil>", nil).Condition("").SQL; got != "is_generic" {
		t.Errorf("无别名时应使用裸列名，实际 %q", got)
	}
}

// ── 单条判定与批量条件一致性（随机化） ──

var (
	deptPool  = []*string{nil, strPtr("A"), strPtr("B"), strPtr("C"), strPtr("LUNG"), strPtr("")}
	teamPool  = []*string{nil, strPtr("T1"), strPtr("T2"), strPtr("")}
	scopePool = []*string{
		nil, strPtr(""), strPtr("ALL"), strPtr("all"), strPtr("A"), strPtr("B"),
		strPtr("A,B"), strPtr(" B , C ,,"), strPtr("LUNG,A"), strPtr(","), strPtr("D"),
	}
)

func pick[T any](r *rand.Rand, pool []T) T { return pool[r.Intn(len(pool))] }

func openSessionsDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("打开 sqlite 失败: %v", err)
	}
	// :memory: 数据库按连接隔离，固定为单连接
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE sessions (
		id              INTEGER PRIMARY KEY,
		is_generic      INTEGER NOT NULL,
		department      TEXT,
		is_dept_generic INTEGER NOT NULL,
		team            TEXT
	)`)
	if err != nil {
		t.Fatalf("建表失败: %v", err)
	}
	return db
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullable(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func TestCondition_AgreesWithCanSee(t *testing.T) {
	r := rand.New(rand.NewSource(20260216))
	db := openSessionsDB(t)

	const sessionCount = 300
	sessions := make(map[int64]Descriptor, sessionCount)
	for i := 1; i <= sessionCount; i++ {
		d := Descriptor{
			IsGeneric:     r.Intn(4) == 0,
			Department:    pick(r, deptPool),
			IsDeptGeneric: r.Intn(2) == 0,
			Team:          pick(r, teamPool),
		}
		_, err := db.Exec(
			`INSERT INTO sessions (id, is_generic, department, is_dept_generic, team) VALUES (?, ?, ?, ?, ?)`,
			i, boolInt(d.IsGeneric), nullable(d.Department), boolInt(d.IsDeptGeneric), nullable(d.Team),
		)
		if err != nil {
			t.Fatalf("插入场次失败: %v", err)
		}
		sessions[int64(i)] = d
	}

	for round := 0; round < 200; round++ {
		v := NewViewer(pick(r, scopePool), pick(r, teamPool))
		cond := v.Condition("s")

		rows, err := db.Query("SELECT s.id FROM sessions s WHERE "+cond.Where(), cond.Args...)
		if err != nil {
			t.Fatalf("执行条件失败 (%s): %v", cond.SQL, err)
		}
		fromSQL := make(map[int64]bool)
		for rows.Next() {
			var id int64
			if err := rows.Scan(&id); err != nil {
				t.Fatalf("读取结果失败: %v", err)
			}
			fromSQL[id] = true
		}
		rows.Close()

		for id, d := range sessions {
			if got := v.CanSee(d); got != fromSQL[id] {
				t.Fatalf("第 %d 轮判定不一致: scope=%q team=%v session=%+v CanSee=%v SQL=%v (%s)",
					round, v.Scope.String(), v.Team, d, got, fromSQL[id], cond.SQL)
			}
		}
	}
}
