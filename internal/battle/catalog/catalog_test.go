package catalog

import "testing"

func TestKinds_固定顺序(t *testing.T) {
	want := []UnitKind{Swordsman, Archer, Berserker, Spearman, Shield}
	got := Kinds()
	if len(got) != len(want) {
		t.Fatalf("len=%d", len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("kinds[%d]=%s, want %s", i, got[i], want[i])
		}
	}
	got[0] = "mutated"
	if Kinds()[0] != Swordsman {
		t.Fatalf("Kinds 应返回副本")
	}
}

func TestLookup_数值表(t *testing.T) {
	tests := []struct {
		kind UnitKind
		want Stats
	}{
		{Swordsman, Stats{"剑士", "剑", 100, 5, 10, 1, 10}},
		{Archer, Stats{"弓箭手", "弓", 20, 10, 1, 5, 15}},
		{Berserker, Stats{"狂战士", "狂", 150, 20, 1, 1, 15}},
		{Spearman, Stats{"长枪兵", "枪", 100, 5, 5, 2, 10}},
		{Shield, Stats{"盾牌手", "盾", 200, 0, 20, 1, 15}},
	}
	for _, tt := range tests {
		got, ok := Lookup(tt.kind)
		if !ok || got != tt.want {
			t.Fatalf("Lookup(%s)=%+v ok=%v, want %+v", tt.kind, got, ok, tt.want)
		}
	}
	if _, ok := Lookup("dragon"); ok {
		t.Fatalf("未知兵种不应命中")
	}
}

func TestMustLookup_未知兵种panic(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("期望 panic")
		}
	}()
	MustLookup("dragon")
}

func TestAll_返回副本(t *testing.T) {
	all := All()
	all[Swordsman] = Stats{}
	if MustLookup(Swordsman).HP != 100 {
		t.Fatalf("修改副本影响了静态表")
	}
	if _, ok := ParseKind("archer"); !ok {
		t.Fatalf("ParseKind(archer) 失败")
	}
	if _, ok := ParseKind("Archer"); ok {
		t.Fatalf("ParseKind 应区分大小写")
	}
}
