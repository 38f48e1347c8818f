package tact

import (
	"io"
	"strconv"
)

// Codec 一套定格配置下的编解码入口。
// 实例只含只读配置,可被任意多个 goroutine 同时使用,
// 解析器与写入器都经包级池复用。
type Codec struct {
	cfg Config
}

// ═══════════════════════════════════════════════════════════════════
// 第零层:New() 零配置入口
// ═══════════════════════════════════════════════════════════════════

// New 零配置创建 Codec(保序对象、借用字符串、512 层嵌套上限)
//
// 用法:
//
//	c := tact.New()
//	v, _ := c.Parse(`{"name":"yak","version":1}`)
//	name := v.GetString("name")
func New() *Codec {
	return Options()
}

// ═══════════════════════════════════════════════════════════════════
// 第一层:ForXxx() 三大场景(推荐使用)
// ═══════════════════════════════════════════════════════════════════

// ForSpeed 吞吐优先的 Codec(对象用哈希核,不保成员顺序)
// 用途: 热路径取字段、网关过滤、指标抽取
func ForSpeed() *Codec {
	return &Codec{cfg: speedConfig()}
}

// ForFidelity 保真优先的 Codec(数字保留字面量,字符串自有)
// 用途: 配置文件改写、金额与高精度计数、审计回写
// 重编码时数字逐字节还原,成员顺序保持输入顺序
func ForFidelity() *Codec {
	return &Codec{cfg: fidelityConfig()}
}

// ForTransport 传输优先的 Codec(输出纯 ASCII,树与输入解耦)
// 用途: 日志落盘、跨系统只认 ASCII 的老旧通道
func ForTransport() *Codec {
	return &Codec{cfg: transportConfig()}
}

// ═══════════════════════════════════════════════════════════════════
// 第二层:Scenario() 字符串配置
// ═══════════════════════════════════════════════════════════════════

// Scenario 预设场景快速创建
// name: "default", "speed", "fidelity", "transport"
func Scenario(name string) (*Codec, error) {
	f, ok := scenarios[name]
	if !ok {
		return nil, dataErr("unknown scenario", strconv.Quote(name))
	}
	return &Codec{cfg: f()}, nil
}

// ═══════════════════════════════════════════════════════════════════
// 第三层:Options() 完全控制
// ═══════════════════════════════════════════════════════════════════

// Options 按选项组合创建 Codec(完全控制)
//
// 用法:
//
//	c := tact.Options(tact.WithBigNumbers(), tact.WithMaxDepth(64))
func Options(opts ...Option) *Codec {
	var cfg Config
	for _, o := range opts {
		o(&cfg)
	}
	return &Codec{cfg: cfg.normalize()}
}

// ─── 配置与构造 ───

// Config 返回生效的完整配置。
func (c *Codec) Config() Config {
	return c.cfg
}

// NewParser 构造绑定本配置的解析器,复用由调用方自管。
func (c *Codec) NewParser() *Parser {
	return newParser(c.cfg)
}

// NewObject 按本配置的对象核新建空对象。
func (c *Codec) NewObject() *Value {
	return &Value{t: TypeObject, m: newMap(c.cfg.HashMaps)}
}

// ─── 解析 ───

// Parse 解析单个 JSON 值并返回独立的树,值前后只允许空白。
// 树的存活期不受后续调用影响;默认配置下字符串借用 s,
// 树存活期内别释放对 s 的引用,要隔离就开字符串拷贝。
func (c *Codec) Parse(s string) (*Value, error) {
	p := AcquireParser()
	p.cfg = c.cfg
	v, err := p.Parse(s)
	if err == nil {
		p.ts.c.detach()
		p.ts.root = nil
	}
	ReleaseParser(p)
	return v, err
}

// ParseBytes 等价于 Parse,零拷贝复用 b 的底层字节。
// 树的存活期内 b 不可改写;需要隔离时开启字符串拷贝配置。
func (c *Codec) ParseBytes(b []byte) (*Value, error) {
	return c.Parse(b2s(b))
}

// ParseWith 用调用方的 Sink 消费单个 JSON 值,不建树。
// Sink 的错误原样透传;实现 RawSink 可逐值拿原文,
// 任意精度配置下实现 BigNumberSink 可拿精确字面量。
func (c *Codec) ParseWith(s string, sk Sink) error {
	p := AcquireParser()
	p.cfg = c.cfg
	err := p.ParseWith(s, sk)
	ReleaseParser(p)
	return err
}

// Valid 报告 s 是否为语法合法的单个 JSON 值。
func (c *Codec) Valid(s string) bool {
	p := AcquireParser()
	p.cfg = c.cfg
	ok := p.Valid(s)
	ReleaseParser(p)
	return ok
}

// ValidBytes 等价于 Valid,零拷贝。
func (c *Codec) ValidBytes(b []byte) bool {
	return c.Valid(b2s(b))
}

// Raw 校验单个 JSON 值并返回其精确原文的独立副本,
// 空白不算原文,数字与字符串保持输入写法。
func (c *Codec) Raw(s string) (RawMessage, error) {
	p := AcquireParser()
	p.cfg = c.cfg
	raw, err := p.Raw(s)
	ReleaseParser(p)
	return raw, err
}

// ─── 流式 ───

// Stream 在 s 上开一条惰性序列,逐值解析任意多个首尾相接的顶层值。
// 序列错误即终态,已产出的树在流存活期内一直有效。
func (c *Codec) Stream(s string) *Stream {
	return newStream(c.cfg, s, nil)
}

// StreamBytes 等价于 Stream,零拷贝。
func (c *Codec) StreamBytes(b []byte) *Stream {
	return newStream(c.cfg, b2s(b), nil)
}

// StreamReader 从 r 增量读取并逐值解析。
// 内部窗口随值滚动,字符串一律拷贝,树与缓冲解耦。
func (c *Codec) StreamReader(r io.Reader) *Stream {
	return newStream(c.cfg, "", r)
}

// ─── 编码 ───

// Marshal 返回 a 的紧凑编码。
// 对象成员按容器自身顺序输出,不排序。
func (c *Codec) Marshal(a Appender) ([]byte, error) {
	return marshalAppender(a, c.cfg, false)
}

// MarshalPretty 返回 a 的缩进编码,缩进单位见 WithIndent。
func (c *Codec) MarshalPretty(a Appender) ([]byte, error) {
	return marshalAppender(a, c.cfg, true)
}

// MarshalWrite 把紧凑编码整段写给 out。
// 编码完成后只触发一次 Write,失败的编码不会写出半截。
func (c *Codec) MarshalWrite(out io.Writer, a Appender) error {
	return marshalWrite(out, a, c.cfg, false)
}

// MarshalWritePretty 把缩进编码整段写给 out。
func (c *Codec) MarshalWritePretty(out io.Writer, a Appender) error {
	return marshalWrite(out, a, c.cfg, true)
}

// Writer 取一个绑定本配置的紧凑 Writer,用毕 ReleaseWriter 归还。
func (c *Codec) Writer() *Writer {
	return acquireWriter(c.cfg, false)
}

// PrettyWriter 取一个绑定本配置的缩进 Writer,用毕 ReleaseWriter 归还。
func (c *Codec) PrettyWriter() *Writer {
	return acquireWriter(c.cfg, true)
}

// ─── 转码 ───

// Minify 把 s 重排为紧凑编码,解析事件直通 Writer,不建树。
// 任意精度配置下数字逐字节还原。
func (c *Codec) Minify(s string) ([]byte, error) {
	return c.transcode(s, false)
}

// Reformat 把 s 重排为缩进编码,不建树。
func (c *Codec) Reformat(s string) ([]byte, error) {
	return c.transcode(s, true)
}

func (c *Codec) transcode(s string, pretty bool) ([]byte, error) {
	w := acquireWriter(c.cfg, pretty)
	defer ReleaseWriter(w)
	p := AcquireParser()
	p.cfg = c.cfg
	err := p.ParseWith(s, w)
	ReleaseParser(p)
	if err != nil {
		return nil, err
	}
	if err := w.Err(); err != nil {
		return nil, err
	}
	return append([]byte(nil), w.buf...), nil
}

// ═══════════════════════════════════════════════════════════════════
// 包级便捷 API(默认配置,并发安全)
// ═══════════════════════════════════════════════════════════════════

// defaultCodec 包级默认 Codec(只读配置,无后台状态,天然适合全局单例)
var defaultCodec = New()

// Default 返回包级默认 Codec 实例
// 适用于需要把 Codec 作为参数传递但又想使用全局默认配置的场景。
func Default() *Codec {
	return defaultCodec
}

// Parse 包级解析(默认配置)
//
// 用法:
//
//	v, err := tact.Parse(`{"name":"yak"}`)
func Parse(s string) (*Value, error) {
	return defaultCodec.Parse(s)
}

// ParseBytes 包级解析,零拷贝复用 b
func ParseBytes(b []byte) (*Value, error) {
	return defaultCodec.ParseBytes(b)
}

// ParseWith 包级 Sink 解析,不建树
func ParseWith(s string, sk Sink) error {
	return defaultCodec.ParseWith(s, sk)
}

// Valid 包级语法校验
func Valid(s string) bool {
	return defaultCodec.Valid(s)
}

// ValidBytes 包级语法校验,零拷贝
func ValidBytes(b []byte) bool {
	return defaultCodec.ValidBytes(b)
}

// Raw 包级原文截取
func Raw(s string) (RawMessage, error) {
	return defaultCodec.Raw(s)
}

// Marshal 包级紧凑编码
//
// 用法:
//
//	data, err := tact.Marshal(v)
func Marshal(a Appender) ([]byte, error) {
	return defaultCodec.Marshal(a)
}

// MarshalPretty 包级缩进编码
func MarshalPretty(a Appender) ([]byte, error) {
	return defaultCodec.MarshalPretty(a)
}

// MarshalWrite 包级编码直写
func MarshalWrite(out io.Writer, a Appender) error {
	return defaultCodec.MarshalWrite(out, a)
}

// Minify 包级紧凑转码
func Minify(s string) ([]byte, error) {
	return defaultCodec.Minify(s)
}

// Reformat 包级缩进转码
func Reformat(s string) ([]byte, error) {
	return defaultCodec.Reformat(s)
}
