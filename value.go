package tact

import (
	"math"
	"strings"
	"unsafe"
)

// ─── 类型标签 ───

// Type 标识 Value 持有的 JSON 类型。
type Type uint8

const (
	TypeNull Type = iota
	TypeBool
	TypeNumber
	TypeString
	TypeArray
	TypeObject
)

// String 返回类型名。
func (t Type) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeBool:
		return "bool"
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeArray:
		return "array"
	case TypeObject:
		return "object"
	default:
		return "unknown"
	}
}

// ─── Value ───

// Value 是一棵 JSON 树的节点,六种类型共用一个结构。
// 读方法对 nil 接收者安全,返回零值。
//
// 树是严格的:一个节点至多挂在一个父容器下,把节点挂到
// 自身或自身的后代会破坏树形,序列化时由嵌套上限拦截。
// 解析得到的字符串可能借用输入文本,树的存活期内输入
// 不可改写;需要独立副本时用 Clone。
//
// 字段按大小降序排列,减少 padding。
type Value struct {
	num Number
	a   []*Value
	s   string
	m   *Map
	t   Type
	b   bool
}

// ─── 构造 ───

// NewNull 构造 null 节点。
func NewNull() *Value { return &Value{t: TypeNull} }

// NewBool 构造布尔节点。
func NewBool(b bool) *Value { return &Value{t: TypeBool, b: b} }

// NewString 构造字符串节点。
func NewString(s string) *Value { return &Value{t: TypeString, s: s} }

// NewNumber 构造数字节点。
func NewNumber(n Number) *Value { return &Value{t: TypeNumber, num: n} }

// NewInt 构造整数节点。
func NewInt(i int64) *Value { return NewNumber(IntNumber(i)) }

// NewUint 构造无符号整数节点。
func NewUint(u uint64) *Value { return NewNumber(UintNumber(u)) }

// NewFloat 构造浮点节点,NaN 与 ±Inf 报数据错误。
func NewFloat(f float64) (*Value, error) {
	n, err := FloatNumber(f)
	if err != nil {
		return nil, err
	}
	return NewNumber(n), nil
}

// NewArray 构造数组节点。
func NewArray(elems ...*Value) *Value {
	return &Value{t: TypeArray, a: elems}
}

// NewObject 构造保序对象节点。哈希核对象经 Codec.NewObject 构造。
func NewObject() *Value {
	return &Value{t: TypeObject, m: newMap(false)}
}

// ─── 类型判定 ───

// Type 返回节点类型,nil 节点视为 null。
func (v *Value) Type() Type {
	if v == nil {
		return TypeNull
	}
	return v.t
}

// IsNull 报告节点是否为 null。
func (v *Value) IsNull() bool { return v == nil || v.t == TypeNull }

// IsObject 报告节点是否为对象。
func (v *Value) IsObject() bool { return v != nil && v.t == TypeObject }

// IsArray 报告节点是否为数组。
func (v *Value) IsArray() bool { return v != nil && v.t == TypeArray }

// ─── 读取 ───

// Get 沿键路径向下取节点,对象按键、数组按十进制下标。
// 路径不存在时返回 nil,可与各 GetXxx 串接。
func (v *Value) Get(keys ...string) *Value {
	for _, k := range keys {
		if v == nil {
			return nil
		}
		switch v.t {
		case TypeObject:
			c, ok := v.m.Get(k)
			if !ok {
				return nil
			}
			v = c
		case TypeArray:
			idx := parseIdx(k)
			if idx < 0 || idx >= len(v.a) {
				return nil
			}
			v = v.a[idx]
		default:
			return nil
		}
	}
	return v
}

// Exists 报告键路径是否存在。
func (v *Value) Exists(keys ...string) bool { return v.Get(keys...) != nil }

// GetString 取路径上的字符串,类型不符时返回空串。
func (v *Value) GetString(keys ...string) string {
	c := v.Get(keys...)
	if c == nil || c.t != TypeString {
		return ""
	}
	return c.s
}

// GetStringBytes 以零拷贝视图取字符串字节,底层不可修改。
func (v *Value) GetStringBytes(keys ...string) []byte {
	c := v.Get(keys...)
	if c == nil || c.t != TypeString {
		return nil
	}
	return s2b(c.s)
}

// GetInt 取路径上的整数,类型不符或超界时返回 0。
func (v *Value) GetInt(keys ...string) int {
	return int(v.GetInt64(keys...))
}

// GetInt64 取路径上的 int64,类型不符或超界时返回 0。
func (v *Value) GetInt64(keys ...string) int64 {
	c := v.Get(keys...)
	if c == nil || c.t != TypeNumber {
		return 0
	}
	i, ok := c.num.Int64()
	if !ok {
		return 0
	}
	return i
}

// GetUint64 取路径上的 uint64,类型不符或为负时返回 0。
func (v *Value) GetUint64(keys ...string) uint64 {
	c := v.Get(keys...)
	if c == nil || c.t != TypeNumber {
		return 0
	}
	u, ok := c.num.Uint64()
	if !ok {
		return 0
	}
	return u
}

// GetFloat64 取路径上的浮点值,整数形态做有损转换。
func (v *Value) GetFloat64(keys ...string) float64 {
	c := v.Get(keys...)
	if c == nil || c.t != TypeNumber {
		return 0
	}
	f, ok := c.num.Float64()
	if !ok {
		return 0
	}
	return f
}

// GetBool 取路径上的布尔值,类型不符时返回 false。
func (v *Value) GetBool(keys ...string) bool {
	c := v.Get(keys...)
	return c != nil && c.t == TypeBool && c.b
}

// Number 返回数字节点的数值,类型不符时返回零值。
func (v *Value) Number() Number {
	if v == nil || v.t != TypeNumber {
		return Number{}
	}
	return v.num
}

// Bool 返回布尔节点的值与类型判定。
func (v *Value) Bool() (bool, bool) {
	if v == nil || v.t != TypeBool {
		return false, false
	}
	return v.b, true
}

// StringValue 返回字符串节点的内容与类型判定。
func (v *Value) StringValue() (string, bool) {
	if v == nil || v.t != TypeString {
		return "", false
	}
	return v.s, true
}

// Items 返回数组节点的元素切片,类型不符时返回 nil。
// 切片与节点共享底层,可原地改元素。
func (v *Value) Items() []*Value {
	if v == nil || v.t != TypeArray {
		return nil
	}
	return v.a
}

// Map 返回对象节点的键值容器,类型不符时返回 nil。
// Map 的读方法对 nil 安全,可直接串接。
func (v *Value) Map() *Map {
	if v == nil || v.t != TypeObject {
		return nil
	}
	return v.m
}

// Len 返回容器节点的元素个数,字符串返回字节长,其余为 0。
func (v *Value) Len() int {
	if v == nil {
		return 0
	}
	switch v.t {
	case TypeArray:
		return len(v.a)
	case TypeObject:
		return v.m.Len()
	case TypeString:
		return len(v.s)
	default:
		return 0
	}
}

// ArrayEach 遍历数组元素,fn 返回 false 时提前结束。
func (v *Value) ArrayEach(fn func(i int, item *Value) bool) {
	if v == nil || v.t != TypeArray {
		return
	}
	for i, item := range v.a {
		if !fn(i, item) {
			return
		}
	}
}

// ObjectEach 按容器顺序遍历对象键值,fn 返回 false 时提前结束。
func (v *Value) ObjectEach(fn func(k string, item *Value) bool) {
	if v == nil || v.t != TypeObject {
		return
	}
	v.m.Range(fn)
}

// ─── 修改 ───

// reset 清空全部负载字段,morph 前调用。
func (v *Value) reset() {
	v.num = Number{}
	v.a = nil
	v.s = ""
	v.m = nil
	v.b = false
}

// SetNull 把节点改写为 null。
func (v *Value) SetNull() {
	v.reset()
	v.t = TypeNull
}

// SetBool 把节点改写为布尔。
func (v *Value) SetBool(b bool) {
	v.reset()
	v.t = TypeBool
	v.b = b
}

// SetString 把节点改写为字符串。
func (v *Value) SetString(s string) {
	v.reset()
	v.t = TypeString
	v.s = s
}

// SetNumber 把节点改写为数字。
func (v *Value) SetNumber(n Number) {
	v.reset()
	v.t = TypeNumber
	v.num = n
}

// SetInt 把节点改写为整数。
func (v *Value) SetInt(i int64) { v.SetNumber(IntNumber(i)) }

// SetUint 把节点改写为无符号整数。
func (v *Value) SetUint(u uint64) { v.SetNumber(UintNumber(u)) }

// SetFloat 把节点改写为浮点数,NaN 与 ±Inf 报数据错误。
func (v *Value) SetFloat(f float64) error {
	n, err := FloatNumber(f)
	if err != nil {
		return err
	}
	v.SetNumber(n)
	return nil
}

// SetKey 在对象节点上写键值,已存在时覆盖并保留位置。
// 非对象节点上是空操作。
func (v *Value) SetKey(k string, child *Value) {
	if v == nil || v.t != TypeObject {
		return
	}
	v.m.Set(k, child)
}

// DeleteKey 删除对象节点上的键。
func (v *Value) DeleteKey(k string) bool {
	if v == nil || v.t != TypeObject {
		return false
	}
	_, ok := v.m.Delete(k)
	return ok
}

// Append 向数组节点追加元素,非数组节点上是空操作。
func (v *Value) Append(child *Value) {
	if v == nil || v.t != TypeArray {
		return
	}
	v.a = append(v.a, child)
}

// SetIndex 覆盖数组节点的下标元素,越界时是空操作。
func (v *Value) SetIndex(i int, child *Value) {
	if v == nil || v.t != TypeArray || i < 0 || i >= len(v.a) {
		return
	}
	v.a[i] = child
}

// Take 取走节点当前内容,原节点留作 null。
// 用于把子树挪到别处而不破坏单亲约束。
func (v *Value) Take() *Value {
	out := &Value{num: v.num, a: v.a, s: v.s, m: v.m, t: v.t, b: v.b}
	v.reset()
	v.t = TypeNull
	return out
}

// Clone 深拷贝子树。字符串一并复制,副本不再借用输入文本。
func (v *Value) Clone() *Value {
	if v == nil {
		return nil
	}
	switch v.t {
	case TypeObject:
		return &Value{t: TypeObject, m: v.m.clone()}
	case TypeArray:
		a := make([]*Value, len(v.a))
		for i, item := range v.a {
			a[i] = item.Clone()
		}
		return &Value{t: TypeArray, a: a}
	case TypeString:
		return &Value{t: TypeString, s: strings.Clone(v.s)}
	case TypeNumber:
		n := v.num
		n.raw = strings.Clone(n.raw)
		return &Value{t: TypeNumber, num: n}
	default:
		return &Value{t: v.t, b: v.b}
	}
}

// Equal 深比较两棵子树。对象与遍历顺序无关,
// 数字按形态严格比较。
func (v *Value) Equal(o *Value) bool {
	if v == nil || o == nil {
		return v.IsNull() && o.IsNull()
	}
	if v.t != o.t {
		return false
	}
	switch v.t {
	case TypeObject:
		return v.m.equal(o.m)
	case TypeArray:
		if len(v.a) != len(o.a) {
			return false
		}
		for i := range v.a {
			if !v.a[i].Equal(o.a[i]) {
				return false
			}
		}
		return true
	case TypeString:
		return v.s == o.s
	case TypeNumber:
		return v.num.Equal(o.num)
	case TypeBool:
		return v.b == o.b
	default:
		return true
	}
}

// ─── 辅助 ───

// parseIdx 把路径段解析为数组下标,非数字或超界时返回 -1。
func parseIdx(s string) int {
	if len(s) == 0 || len(s) > 10 {
		return -1
	}
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return -1
		}
		n = n*10 + int(c-'0')
	}
	if n > math.MaxInt32 {
		return -1
	}
	return n
}

// s2b 把 string 转为 []byte 视图,零拷贝,底层只读。
func s2b(s string) []byte {
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

// b2s 把 []byte 转为 string 视图,调用方保证底层不再改写。
func b2s(b []byte) string {
	return unsafe.String(unsafe.SliceData(b), len(b))
}
