// Package tact 高性能 JSON 编解码库
//
// 设计原则（综合 fastjson、jsonparser、gjson、encoding/json 最佳实践）:
//   - 零分配解析: 默认配置下字符串借用原始输入，节点从内部池批量分配
//   - 池化复用: Parser/Writer 通过 sync.Pool 复用，并发安全
//   - 事件流水线: 解析器驱动 Sink 接口，建树、校验、转码走同一台引擎
//   - 严格校验: UTF-8、代理对、嵌套深度全量检查，畸形输入不出树
//   - 配置定格: Codec 一次装配处处只读，保序/哈希对象核按场景切换
//
// 致谢 (Acknowledgments):
//
//	本库的部分设计模式和优化技巧受以下优秀开源项目启发：
//	- valyala/fastjson (MIT License): Parser+cache 缓存池架构、Value 结构体布局、
//	  kv 有序键值对设计、Get() 链式查询 API
//	- tidwall/gjson (MIT License): 8 字节批量字符串扫描技巧
//	- buger/jsonparser (MIT License): 栈上 [64]byte 缓冲避免小字符串堆分配
//	所有代码均为独立重写，核心创新包括：索引模式解析引擎、借用/自有双态字符串、
//	数字四形态标签（uint/int/float/精确字面量）、Sink 事件接口与 Writer 直通转码、
//	窗口滚动的增量流解析。
//
// 用法:
//
//	// 解析
//	v, err := tact.Parse(`{"name":"yak","version":1}`)
//	name := v.GetString("name")    // "yak"
//	ver  := v.GetInt("version")    // 1
//
//	// 构建与序列化
//	w := tact.AcquireWriter()
//	w.Object(func(w *tact.Writer) {
//	    w.Field("name", "yak")
//	    w.FieldInt("version", 1)
//	})
//	data := w.Bytes()  // {"name":"yak","version":1}
//	tact.ReleaseWriter(w)
//
//	// 场景化配置
//	c := tact.ForFidelity()
//	v, err = c.Parse(`{"amount":0.300000000000000004}`)
//	out, _ := c.Marshal(v)  // 数字逐字节还原
package tact

// DefaultMaxDepth 解析嵌套深度的默认上限（防栈溢出攻击）
const DefaultMaxDepth = 512

// MaxMarshalDepth 编码递归深度上限（防环引用栈溢出）
const MaxMarshalDepth = 1000

// ─── 兼容接口 ───

// RawMessage 原始 JSON 消息（兼容 encoding/json.RawMessage）
//
// 它同时实现标准库的 Marshaler/Unmarshaler 与本库的 Appender,
// 可用于延迟解码或预计算编码。
type RawMessage []byte

// MarshalJSON 返回 m 的 JSON 编码。
func (m RawMessage) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	return m, nil
}

// UnmarshalJSON 设置 *m 为 data 的副本。
func (m *RawMessage) UnmarshalJSON(data []byte) error {
	if m == nil {
		return dataErr("RawMessage: UnmarshalJSON on nil pointer", "")
	}
	*m = append((*m)[:0], data...)
	return nil
}

// AppendJSON 把原文原样编码进 w。
// 内容的语法合法性由构造方保证,Codec.Raw 的产物天然满足。
func (m RawMessage) AppendJSON(w *Writer) error {
	if m == nil {
		return w.Null()
	}
	return w.Raw(b2s(m))
}

// ownedCodec 供标准库回调使用,树必须与 data 缓冲解耦。
var ownedCodec = Options(WithCopyStrings())

// MarshalJSON 返回树的紧凑编码,嵌入标准库结构体时生效。
func (v *Value) MarshalJSON() ([]byte, error) {
	return defaultCodec.Marshal(v)
}

// UnmarshalJSON 把 data 解析进 v。
// 标准库可能复用 data 缓冲,这里总是持有字符串副本。
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := ownedCodec.ParseBytes(data)
	if err != nil {
		return err
	}
	*v = *parsed
	return nil
}
