package tact

import "strings"

// ─── 对象容器 ───

// mapCore 是对象存储的能力接口。
// 保序核按键的首次插入顺序遍历,覆盖写保留原位置;
// 哈希核提供 O(1) 访问,遍历顺序不定但完整。
// 一个容器实例只绑定一种核,由构造时的配置决定。
type mapCore interface {
	get(k string) (*Value, bool)
	put(k string, v *Value) *Value
	del(k string) (*Value, bool)
	size() int
	each(fn func(k string, v *Value) bool)
	keys(dst []string) []string
}

// ─── 保序核 ───

type kvEnt struct {
	k string
	v *Value
}

// orderedCore 用键值切片维护插入顺序。
// 查找是线性扫描,大对象请换哈希核。
type orderedCore struct {
	ents []kvEnt
}

func (c *orderedCore) get(k string) (*Value, bool) {
	for i := range c.ents {
		if c.ents[i].k == k {
			return c.ents[i].v, true
		}
	}
	return nil, false
}

func (c *orderedCore) put(k string, v *Value) *Value {
	for i := range c.ents {
		if c.ents[i].k == k {
			old := c.ents[i].v
			c.ents[i].v = v
			return old
		}
	}
	c.ents = append(c.ents, kvEnt{k: k, v: v})
	return nil
}

func (c *orderedCore) del(k string) (*Value, bool) {
	for i := range c.ents {
		if c.ents[i].k == k {
			old := c.ents[i].v
			c.ents = append(c.ents[:i], c.ents[i+1:]...)
			return old, true
		}
	}
	return nil, false
}

func (c *orderedCore) size() int { return len(c.ents) }

func (c *orderedCore) each(fn func(k string, v *Value) bool) {
	for i := range c.ents {
		if !fn(c.ents[i].k, c.ents[i].v) {
			return
		}
	}
}

func (c *orderedCore) keys(dst []string) []string {
	for i := range c.ents {
		dst = append(dst, c.ents[i].k)
	}
	return dst
}

// ─── 哈希核 ───

type hashCore map[string]*Value

func (c hashCore) get(k string) (*Value, bool) {
	v, ok := c[k]
	return v, ok
}

func (c hashCore) put(k string, v *Value) *Value {
	old := c[k]
	c[k] = v
	return old
}

func (c hashCore) del(k string) (*Value, bool) {
	old, ok := c[k]
	if ok {
		delete(c, k)
	}
	return old, ok
}

func (c hashCore) size() int { return len(c) }

func (c hashCore) each(fn func(k string, v *Value) bool) {
	for k, v := range c {
		if !fn(k, v) {
			return
		}
	}
}

func (c hashCore) keys(dst []string) []string {
	for k := range c {
		dst = append(dst, k)
	}
	return dst
}

// ─── Map ───

// Map 是对象的键值容器。读方法对 nil 接收者安全。
// 序列化按 Range 的遍历顺序输出键,不做排序。
type Map struct {
	core mapCore
}

// newMap 按配置选核。
func newMap(hash bool) *Map {
	if hash {
		return &Map{core: hashCore{}}
	}
	return &Map{core: &orderedCore{}}
}

// Get 返回键对应的值。
func (m *Map) Get(k string) (*Value, bool) {
	if m == nil || m.core == nil {
		return nil, false
	}
	return m.core.get(k)
}

// Has 报告键是否存在。
func (m *Map) Has(k string) bool {
	_, ok := m.Get(k)
	return ok
}

// Set 写入键值,已存在时覆盖。保序核下覆盖保留键的原位置。
func (m *Map) Set(k string, v *Value) {
	m.core.put(k, v)
}

// Swap 写入键值并返回被替换的旧值,键原先不存在时 replaced 为 false。
func (m *Map) Swap(k string, v *Value) (old *Value, replaced bool) {
	old = m.core.put(k, v)
	return old, old != nil
}

// Delete 删除键并返回其值。保序核下其余键的相对顺序不变。
func (m *Map) Delete(k string) (*Value, bool) {
	if m == nil || m.core == nil {
		return nil, false
	}
	return m.core.del(k)
}

// Len 返回键数量。
func (m *Map) Len() int {
	if m == nil || m.core == nil {
		return 0
	}
	return m.core.size()
}

// Range 按容器顺序遍历,fn 返回 false 时提前结束。
func (m *Map) Range(fn func(k string, v *Value) bool) {
	if m == nil || m.core == nil {
		return
	}
	m.core.each(fn)
}

// Keys 返回全部键。保序核下即插入顺序,哈希核下顺序不定。
func (m *Map) Keys() []string {
	if m == nil || m.core == nil {
		return nil
	}
	return m.core.keys(make([]string, 0, m.core.size()))
}

// clone 深拷贝容器,核类型保持不变。
func (m *Map) clone() *Map {
	if m == nil || m.core == nil {
		return nil
	}
	var out *Map
	if _, ok := m.core.(hashCore); ok {
		out = newMap(true)
	} else {
		out = newMap(false)
	}
	m.core.each(func(k string, v *Value) bool {
		out.core.put(strings.Clone(k), v.Clone())
		return true
	})
	return out
}

// equal 判定两个容器键值相同,与遍历顺序和核类型无关。
func (m *Map) equal(o *Map) bool {
	if m.Len() != o.Len() {
		return false
	}
	eq := true
	m.Range(func(k string, v *Value) bool {
		ov, ok := o.Get(k)
		if !ok || !v.Equal(ov) {
			eq = false
			return false
		}
		return true
	})
	return eq
}
