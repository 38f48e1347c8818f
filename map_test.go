package tact

import (
	"sort"
	"testing"
)

// TestMapOrderedIteration 保序核按插入顺序遍历
func TestMapOrderedIteration(t *testing.T) {
	m := newMap(false)
	m.Set("c", NewInt(1))
	m.Set("a", NewInt(2))
	m.Set("b", NewInt(3))

	want := []string{"c", "a", "b"}
	var got []string
	m.Range(func(k string, v *Value) bool {
		got = append(got, k)
		return true
	})
	if len(got) != len(want) {
		t.Fatalf("ranged %d keys, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("key[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

// TestMapReplaceKeepsPosition 重复 Set 覆盖值但不动位置
func TestMapReplaceKeepsPosition(t *testing.T) {
	m := newMap(false)
	m.Set("x", NewInt(1))
	m.Set("y", NewInt(2))
	m.Set("x", NewInt(9))

	if m.Len() != 2 {
		t.Fatalf("Len = %d, want 2", m.Len())
	}
	keys := m.Keys()
	if keys[0] != "x" || keys[1] != "y" {
		t.Errorf("keys = %v, want [x y]", keys)
	}
	v, _ := m.Get("x")
	if got := v.GetInt64(); got != 9 {
		t.Errorf("x = %d, want 9", got)
	}
}

// TestMapDeletePreservesOrder 删除中间键不打乱其余顺序
func TestMapDeletePreservesOrder(t *testing.T) {
	m := newMap(false)
	for _, k := range []string{"a", "b", "c", "d"} {
		m.Set(k, NewNull())
	}
	old, ok := m.Delete("b")
	if !ok || old == nil {
		t.Fatal("Delete(b) should return the removed value")
	}
	keys := m.Keys()
	want := []string{"a", "c", "d"}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("keys = %v, want %v", keys, want)
		}
	}
	if _, ok := m.Delete("zz"); ok {
		t.Error("Delete(missing) reported ok")
	}
}

// TestMapSwap 返回旧值与替换标记
func TestMapSwap(t *testing.T) {
	m := newMap(false)
	if old, replaced := m.Swap("k", NewInt(1)); replaced || old != nil {
		t.Error("first Swap should not report replacement")
	}
	old, replaced := m.Swap("k", NewInt(2))
	if !replaced || old.GetInt64() != 1 {
		t.Errorf("Swap old = %v replaced = %v", old, replaced)
	}
}

// TestMapHashCore 哈希核容量齐全,顺序不作保证
func TestMapHashCore(t *testing.T) {
	m := newMap(true)
	keys := []string{"k0", "k1", "k2", "k3", "k4"}
	for i, k := range keys {
		m.Set(k, NewInt(int64(i)))
	}
	if m.Len() != len(keys) {
		t.Fatalf("Len = %d, want %d", m.Len(), len(keys))
	}
	got := m.Keys()
	sort.Strings(got)
	for i, k := range keys {
		if got[i] != k {
			t.Fatalf("sorted keys = %v", got)
		}
	}
	for i, k := range keys {
		v, ok := m.Get(k)
		if !ok || v.GetInt64() != int64(i) {
			t.Errorf("Get(%q) = %v ok=%v", k, v, ok)
		}
	}
}

// TestMapNilSafe nil 容器的读接口全部安全
func TestMapNilSafe(t *testing.T) {
	var m *Map
	if m.Len() != 0 {
		t.Error("nil Len should be 0")
	}
	if m.Has("k") {
		t.Error("nil Has should be false")
	}
	if _, ok := m.Get("k"); ok {
		t.Error("nil Get should miss")
	}
	m.Range(func(string, *Value) bool {
		t.Error("nil Range should not call fn")
		return true
	})
	if m.Keys() != nil {
		t.Error("nil Keys should be nil")
	}
}

// TestMapCloneIndependent 克隆与原容器互不影响,核类型保持
func TestMapCloneIndependent(t *testing.T) {
	m := newMap(false)
	m.Set("a", NewInt(1))
	m.Set("b", NewString("s"))

	c := m.clone()
	c.Set("a", NewInt(99))
	c.Set("new", NewNull())

	if v, _ := m.Get("a"); v.GetInt64() != 1 {
		t.Error("clone mutation leaked into original")
	}
	if m.Has("new") {
		t.Error("clone insertion leaked into original")
	}
	if c.Len() != 3 || m.Len() != 2 {
		t.Errorf("Len clone=%d original=%d", c.Len(), m.Len())
	}
}

// TestMapEqualOrderInsensitive 相等比较不看成员顺序
func TestMapEqualOrderInsensitive(t *testing.T) {
	a := newMap(false)
	a.Set("x", NewInt(1))
	a.Set("y", NewInt(2))

	b := newMap(false)
	b.Set("y", NewInt(2))
	b.Set("x", NewInt(1))

	if !a.equal(b) {
		t.Error("same members in different order should be equal")
	}

	b.Set("y", NewInt(3))
	if a.equal(b) {
		t.Error("different member values should not be equal")
	}

	// 保序核与哈希核之间也可比较
	h := newMap(true)
	h.Set("x", NewInt(1))
	h.Set("y", NewInt(2))
	if !a.equal(h) {
		t.Error("ordered and hash cores with same members should be equal")
	}
}
