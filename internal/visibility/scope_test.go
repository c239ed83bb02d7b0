package visibility

import (
	"reflect"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestParseScope(t *testing.T) {
	tests := []struct {
		name  string
		raw   *string
		kind  ScopeKind
		depts []string
	}{
		{"nil", nil, ScopeEmpty, nil},
		{"空串", strPtr(""), ScopeEmpty, nil},
		{"空白", strPtr("   "), ScopeEmpty, nil},
		{"ALL", strPtr("ALL"), ScopeUnrestricted, nil},
		{"小写 all", strPtr("all"), ScopeUnrestricted, nil},
		{"混合大小写带空白", strPtr(" All "), ScopeUnrestricted, nil},
		{"单个部门", strPtr("BREAST"), ScopeExplicit, []string{"BREAST"}},
		{"多个部门含空项", strPtr("A, B ,,C"), ScopeExplicit, []string{"A", "B", "C"}},
		{"结尾逗号", strPtr("LUNG,"), ScopeExplicit, []string{"LUNG"}},
		{"重复项", strPtr("A,A, A"), ScopeExplicit, []string{"A"}},
		{"只有逗号", strPtr(" , ,"), ScopeEmpty, nil},
		{"ALL 出现在列表中按普通部门处理", strPtr("ALL,B"), ScopeExplicit, []string{"ALL", "B"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ParseScope(tt.raw)
			if s.Kind() != tt.kind {
				t.Fatalf("期望 kind=%v，实际=%v", tt.kind, s.Kind())
			}
			if !reflect.DeepEqual(s.Departments(), tt.depts) {
				t.Errorf("期望部门=%v，实际=%v", tt.depts, s.Departments())
			}
		})
	}
}

func TestScope_Contains(t *testing.T) {
	s := ParseScopeString("A, B ,,C")
	for _, d := range []string{"A", "B", "C"} {
		if !s.Contains(d) {
			t.Errorf("期望包含 %s", d)
		}
	}
	if s.Contains("a") {
		t.Error("部门比较应区分大小写")
	}
	if s.Contains(" B ") {
		t.Error("不应包含未裁剪的名称")
	}

	if UnrestrictedScope().Contains("A") {
		t.Error("Unrestricted 不走显式成员判断")
	}
	if EmptyScope().Contains("A") {
		t.Error("Empty 不包含任何部门")
	}
}

func TestScope_StringRoundTrip(t *testing.T) {
	cases := map[string]string{
		"all":      "ALL",
		"A, B ,,C": "A,B,C",
		"":         "",
	}
	for in, want := range cases {
		if got := ParseScopeString(in).String(); got != want {
			t.Errorf("ParseScope(%q).String() 期望 %q，实际 %q", in, want, got)
		}
	}

	if EmptyScope().Stored() != nil {
		t.Error("Empty 应存储为 NULL")
	}
	if v := ParseScopeString("A,B").Stored(); v == nil || *v != "A,B" {
		t.Errorf("期望存储为 A,B，实际 %v", v)
	}
}

func TestScope_DepartmentsIsCopy(t *testing.T) {
	s := ExplicitScope("A", "B")
	d := s.Departments()
	d[0] = "X"
	if !s.Contains("A") || s.Departments()[0] != "A" {
		t.Error("修改返回的切片不应影响 Scope")
	}
}
