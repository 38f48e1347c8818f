package tact

import (
	"math"
	"strings"
)

// ─── 消费接口 ───

// Sink 是解析器的事件出口。解析器按文档顺序推送事件:
// 数组是 BeginArray、逐元素、EndArray;
// 对象是 BeginObject、逐对 Key 加值、EndObject。
// 任何方法返回非 nil 错误都会立刻终止解析并原样透传给调用方。
//
// Str 与 Key 的 owned 为 false 时,字符串借用输入文本,
// 只在本次回调内有效;需要留存时自行拷贝。owned 为 true
// 时字符串已是独立副本,可以直接留存。
type Sink interface {
	Null() error
	Bool(v bool) error
	Int(v int64) error
	Uint(v uint64) error
	Float(v float64) error
	Str(s string, owned bool) error
	BeginArray() error
	EndArray() error
	BeginObject() error
	Key(k string, owned bool) error
	EndObject() error
}

// BigNumberSink 由需要精确数位的 Sink 额外实现。
// 任意精度配置下,数字以原始字面量经 BigNumber 推送,
// 不再走 Int/Uint/Float;未实现此接口时退回定宽分类。
type BigNumberSink interface {
	BigNumber(raw string) error
}

// RawSink 由需要推迟解析的 Sink 额外实现。
// 每个值开始前解析器先问 WantRaw,答 true 则只做语法校验,
// 把精确的原文片段经 Raw 推送,不再展开该子树。
// 片段借用输入文本,留存时自行拷贝。
type RawSink interface {
	WantRaw() bool
	Raw(span string) error
}

// ─── 丢弃 ───

// Discard 丢弃全部事件,驱动纯语法校验时使用。
var Discard Sink = discardSink{}

type discardSink struct{}

func (discardSink) Null() error            { return nil }
func (discardSink) Bool(bool) error        { return nil }
func (discardSink) Int(int64) error        { return nil }
func (discardSink) Uint(uint64) error      { return nil }
func (discardSink) Float(float64) error    { return nil }
func (discardSink) Str(string, bool) error { return nil }
func (discardSink) BeginArray() error      { return nil }
func (discardSink) EndArray() error        { return nil }
func (discardSink) BeginObject() error     { return nil }
func (discardSink) Key(string, bool) error { return nil }
func (discardSink) EndObject() error       { return nil }

// ─── 建树 ───

// TreeSink 把事件流装配成 Value 树,是消费接口的默认实现。
// 节点从内部池分配,Reset 后池复用,此前取走的树随之失效。
//
// 字段按大小降序排列,减少 padding。
type TreeSink struct {
	c     cache
	stack []*Value
	keys  []string
	root  *Value
	hash  bool
	own   bool
}

// NewTreeSink 构造默认配置的建树 Sink:保序对象,字符串按需借用。
// 与特定配置绑定的实例经 Codec.NewTreeSink 构造。
func NewTreeSink() *TreeSink {
	return &TreeSink{}
}

// Reset 复位并回收节点池。
func (ts *TreeSink) Reset() {
	ts.c.reset()
	ts.stack = ts.stack[:0]
	ts.keys = ts.keys[:0]
	ts.root = nil
}

// Root 返回装配完成的树根,事件流不完整时为 nil。
func (ts *TreeSink) Root() *Value {
	if len(ts.stack) != 0 {
		return nil
	}
	return ts.root
}

// attach 把新节点挂到当前容器,栈空时记为根。
func (ts *TreeSink) attach(v *Value) error {
	if len(ts.stack) == 0 {
		ts.root = v
		return nil
	}
	top := ts.stack[len(ts.stack)-1]
	if top.t == TypeArray {
		top.a = append(top.a, v)
		return nil
	}
	if len(ts.keys) == 0 {
		return dataErr("sink protocol violation", "value before key in object")
	}
	k := ts.keys[len(ts.keys)-1]
	ts.keys = ts.keys[:len(ts.keys)-1]
	top.m.Set(k, v)
	return nil
}

func (ts *TreeSink) Null() error {
	v := ts.c.getVal()
	v.t = TypeNull
	return ts.attach(v)
}

func (ts *TreeSink) Bool(b bool) error {
	v := ts.c.getVal()
	v.t = TypeBool
	v.b = b
	return ts.attach(v)
}

func (ts *TreeSink) Int(i int64) error {
	v := ts.c.getVal()
	v.t = TypeNumber
	v.num = IntNumber(i)
	return ts.attach(v)
}

func (ts *TreeSink) Uint(u uint64) error {
	v := ts.c.getVal()
	v.t = TypeNumber
	v.num = UintNumber(u)
	return ts.attach(v)
}

func (ts *TreeSink) Float(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return dataErr(msgNonFinite, "")
	}
	v := ts.c.getVal()
	v.t = TypeNumber
	v.num = Number{bits: math.Float64bits(f), kind: numFloat}
	return ts.attach(v)
}

func (ts *TreeSink) BigNumber(raw string) error {
	if ts.own {
		raw = strings.Clone(raw)
	}
	v := ts.c.getVal()
	v.t = TypeNumber
	v.num = Number{raw: raw, kind: numBig}
	return ts.attach(v)
}

func (ts *TreeSink) Str(s string, owned bool) error {
	if !owned && ts.own {
		s = strings.Clone(s)
	}
	v := ts.c.getVal()
	v.t = TypeString
	v.s = s
	return ts.attach(v)
}

func (ts *TreeSink) BeginArray() error {
	v := ts.c.getVal()
	v.t = TypeArray
	if err := ts.attach(v); err != nil {
		return err
	}
	ts.stack = append(ts.stack, v)
	return nil
}

func (ts *TreeSink) EndArray() error {
	if len(ts.stack) == 0 {
		return dataErr("sink protocol violation", "end without begin")
	}
	ts.stack = ts.stack[:len(ts.stack)-1]
	return nil
}

func (ts *TreeSink) BeginObject() error {
	v := ts.c.getVal()
	v.t = TypeObject
	v.m = newMap(ts.hash)
	if err := ts.attach(v); err != nil {
		return err
	}
	ts.stack = append(ts.stack, v)
	return nil
}

func (ts *TreeSink) Key(k string, owned bool) error {
	if !owned && ts.own {
		k = strings.Clone(k)
	}
	ts.keys = append(ts.keys, k)
	return nil
}

func (ts *TreeSink) EndObject() error {
	if len(ts.stack) == 0 {
		return dataErr("sink protocol violation", "end without begin")
	}
	ts.stack = ts.stack[:len(ts.stack)-1]
	return nil
}

// ─── 节点池 ───

// cache 是解析期的节点池,整片分配摊薄单节点开销。
// 扩容换片后旧节点经树内指针继续存活,内容不再改动。
type cache struct {
	vs []Value
}

// getVal 取一个清零的节点。
func (c *cache) getVal() *Value {
	if cap(c.vs) > len(c.vs) {
		c.vs = c.vs[:len(c.vs)+1]
	} else {
		c.vs = append(c.vs, Value{})
	}
	v := &c.vs[len(c.vs)-1]
	*v = Value{}
	return v
}

func (c *cache) reset() {
	c.vs = c.vs[:0]
}

// detach 放弃当前片不再复用,已产出的节点随树独立存活。
// 流式解析逐值调用,避免长流把所有节点钉在一个池里。
func (c *cache) detach() {
	c.vs = nil
}
