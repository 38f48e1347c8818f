package tact

import (
	"math"
	"sync"
	"unicode/utf8"
)

// ─── Writer ───

// 层级标志位。
const (
	lvObj  uint8 = 1 << 0 // 本层是对象
	lvSome uint8 = 1 << 1 // 本层已有成员
	lvKey  uint8 = 1 << 2 // 键已写好,等值
)

// Writer 把 JSON 追加进内部缓冲。
// 紧凑或缩进模式在取得实例时定死,中途不可切换。
// Writer 实现 Sink 与 BigNumberSink,可由解析器直接驱动,
// 转码、压缩、重排版都不用建树。
//
// 首个错误置为终态,之后的写入全部短路;
// 链式构建完毕后用 Err 统一检查。
// 实例可复用不可并发,配合 AcquireWriter/ReleaseWriter 池化。
//
// 字段按大小降序排列,减少 padding。
type Writer struct {
	buf    []byte
	stack  []uint8
	indent string
	err    error
	prec   int
	escU   bool
}

// NewWriter 构造默认配置的紧凑 Writer。
// 与特定配置绑定的实例经 Codec.Writer 或 Codec.PrettyWriter 取得。
func NewWriter() *Writer {
	return &Writer{buf: make([]byte, 0, 256), prec: -1}
}

// Bytes 返回已写入的内容,与内部缓冲共享底层。
// 构建期间出过错时内容不完整,先查 Err。
func (w *Writer) Bytes() []byte { return w.buf }

// String 返回已写入内容的独立副本。
func (w *Writer) String() string { return string(w.buf) }

// Len 返回已写入的字节数。
func (w *Writer) Len() int { return len(w.buf) }

// Err 返回首个写入错误。
func (w *Writer) Err() error { return w.err }

// Reset 清空内容与错误,保留配置与容量。
func (w *Writer) Reset() {
	w.buf = w.buf[:0]
	w.stack = w.stack[:0]
	w.err = nil
}

// AppendTo 把已写入的内容追加到 dst。
func (w *Writer) AppendTo(dst []byte) []byte {
	return append(dst, w.buf...)
}

// fail 记下终态错误。
func (w *Writer) fail(e *Error) error {
	w.err = e
	return e
}

// beginValue 在写值前落好逗号与缩进,并推进对象层的键值节拍。
func (w *Writer) beginValue() error {
	if len(w.stack) == 0 {
		return nil
	}
	top := &w.stack[len(w.stack)-1]
	if *top&lvObj != 0 {
		if *top&lvKey == 0 {
			return w.fail(dataErr("sink protocol violation", "value before key in object"))
		}
		*top &^= lvKey
		return nil
	}
	if *top&lvSome != 0 {
		w.buf = append(w.buf, ',')
	}
	if w.indent != "" {
		w.nl(len(w.stack))
	}
	*top |= lvSome
	return nil
}

// nl 换行并缩进到指定层级。
func (w *Writer) nl(level int) {
	w.buf = append(w.buf, '\n')
	for k := 0; k < level; k++ {
		w.buf = append(w.buf, w.indent...)
	}
}

// ─── Sink 原语 ───

// Null 写 null。
func (w *Writer) Null() error {
	if w.err != nil {
		return w.err
	}
	if err := w.beginValue(); err != nil {
		return err
	}
	w.buf = append(w.buf, "null"...)
	return nil
}

// Bool 写布尔。
func (w *Writer) Bool(v bool) error {
	if w.err != nil {
		return w.err
	}
	if err := w.beginValue(); err != nil {
		return err
	}
	if v {
		w.buf = append(w.buf, "true"...)
	} else {
		w.buf = append(w.buf, "false"...)
	}
	return nil
}

// Int 写有符号整数。
func (w *Writer) Int(v int64) error {
	if w.err != nil {
		return w.err
	}
	if err := w.beginValue(); err != nil {
		return err
	}
	w.buf = appendIntDec(w.buf, v)
	return nil
}

// Uint 写无符号整数。
func (w *Writer) Uint(v uint64) error {
	if w.err != nil {
		return w.err
	}
	if err := w.beginValue(); err != nil {
		return err
	}
	w.buf = appendUint(w.buf, v)
	return nil
}

// Float 写浮点,NaN 与 ±Inf 报数据错误。
func (w *Writer) Float(v float64) error {
	if w.err != nil {
		return w.err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return w.fail(dataErr(msgNonFinite, ""))
	}
	if err := w.beginValue(); err != nil {
		return err
	}
	w.buf = appendFloat(w.buf, v, w.prec)
	return nil
}

// Number 按形态写数字,任意精度形态原样落字面量。
func (w *Writer) Number(n Number) error {
	if w.err != nil {
		return w.err
	}
	if err := w.beginValue(); err != nil {
		return err
	}
	switch n.kind {
	case numBig:
		w.buf = append(w.buf, n.raw...)
	case numFloat:
		w.buf = appendFloat(w.buf, math.Float64frombits(n.bits), w.prec)
	case numInt:
		w.buf = appendIntDec(w.buf, int64(n.bits))
	default:
		w.buf = appendUint(w.buf, n.bits)
	}
	return nil
}

// BigNumber 原样写精确字面量,解析器在任意精度配置下直接驱动。
func (w *Writer) BigNumber(raw string) error {
	return w.Number(Number{raw: raw, kind: numBig})
}

// Str 写字符串,owned 标志只为满足 Sink 签名。
func (w *Writer) Str(s string, _ bool) error {
	if w.err != nil {
		return w.err
	}
	if err := w.beginValue(); err != nil {
		return err
	}
	w.buf = appendQuoted(w.buf, s, w.escU)
	return nil
}

// Raw 原样写一段预先校验过的 JSON 原文。
func (w *Writer) Raw(span string) error {
	if w.err != nil {
		return w.err
	}
	if err := w.beginValue(); err != nil {
		return err
	}
	w.buf = append(w.buf, span...)
	return nil
}

// BeginArray 开数组。嵌套超出上限报资源错误,环引用到此为止。
func (w *Writer) BeginArray() error {
	if w.err != nil {
		return w.err
	}
	if len(w.stack) >= MaxMarshalDepth {
		return w.fail(&Error{msg: msgMarshalDepth, Category: CategoryLimit})
	}
	if err := w.beginValue(); err != nil {
		return err
	}
	w.stack = append(w.stack, 0)
	w.buf = append(w.buf, '[')
	return nil
}

// EndArray 关数组,非空时缩进模式下闭括号独占一行。
func (w *Writer) EndArray() error {
	if w.err != nil {
		return w.err
	}
	if len(w.stack) == 0 || w.stack[len(w.stack)-1]&lvObj != 0 {
		return w.fail(dataErr("sink protocol violation", "end without begin"))
	}
	had := w.stack[len(w.stack)-1]&lvSome != 0
	w.stack = w.stack[:len(w.stack)-1]
	if had && w.indent != "" {
		w.nl(len(w.stack))
	}
	w.buf = append(w.buf, ']')
	return nil
}

// BeginObject 开对象。
func (w *Writer) BeginObject() error {
	if w.err != nil {
		return w.err
	}
	if len(w.stack) >= MaxMarshalDepth {
		return w.fail(&Error{msg: msgMarshalDepth, Category: CategoryLimit})
	}
	if err := w.beginValue(); err != nil {
		return err
	}
	w.stack = append(w.stack, lvObj)
	w.buf = append(w.buf, '{')
	return nil
}

// Key 写对象键与冒号,缩进模式下冒号后带一个空格。
func (w *Writer) Key(k string, _ bool) error {
	if w.err != nil {
		return w.err
	}
	if len(w.stack) == 0 {
		return w.fail(dataErr("sink protocol violation", "key outside object"))
	}
	top := &w.stack[len(w.stack)-1]
	if *top&lvObj == 0 || *top&lvKey != 0 {
		return w.fail(dataErr("sink protocol violation", "key outside object"))
	}
	if *top&lvSome != 0 {
		w.buf = append(w.buf, ',')
	}
	if w.indent != "" {
		w.nl(len(w.stack))
	}
	w.buf = appendQuoted(w.buf, k, w.escU)
	w.buf = append(w.buf, ':')
	if w.indent != "" {
		w.buf = append(w.buf, ' ')
	}
	*top |= lvSome | lvKey
	return nil
}

// EndObject 关对象,挂着没配值的键时报协议错误。
func (w *Writer) EndObject() error {
	if w.err != nil {
		return w.err
	}
	if len(w.stack) == 0 || w.stack[len(w.stack)-1]&lvObj == 0 {
		return w.fail(dataErr("sink protocol violation", "end without begin"))
	}
	if w.stack[len(w.stack)-1]&lvKey != 0 {
		return w.fail(dataErr("sink protocol violation", "dangling key"))
	}
	had := w.stack[len(w.stack)-1]&lvSome != 0
	w.stack = w.stack[:len(w.stack)-1]
	if had && w.indent != "" {
		w.nl(len(w.stack))
	}
	w.buf = append(w.buf, '}')
	return nil
}

// ─── 链式构建 ───

// Object 写一个对象,fn 内用 Field 系列填成员。
func (w *Writer) Object(fn func(w *Writer)) {
	if w.BeginObject() != nil {
		return
	}
	fn(w)
	w.EndObject()
}

// Array 写一个数组,fn 内用 Item 系列填元素。
func (w *Writer) Array(fn func(w *Writer)) {
	if w.BeginArray() != nil {
		return
	}
	fn(w)
	w.EndArray()
}

// Field 写字符串成员。
func (w *Writer) Field(k, v string) {
	if w.Key(k, false) != nil {
		return
	}
	w.Str(v, false)
}

// FieldBytes 写字节串成员,按 UTF-8 文本处理。
func (w *Writer) FieldBytes(k string, v []byte) {
	w.Field(k, b2s(v))
}

// FieldInt 写整数成员。
func (w *Writer) FieldInt(k string, v int) {
	w.FieldInt64(k, int64(v))
}

// FieldInt64 写 int64 成员。
func (w *Writer) FieldInt64(k string, v int64) {
	if w.Key(k, false) != nil {
		return
	}
	w.Int(v)
}

// FieldUint64 写 uint64 成员。
func (w *Writer) FieldUint64(k string, v uint64) {
	if w.Key(k, false) != nil {
		return
	}
	w.Uint(v)
}

// FieldFloat 写浮点成员。
func (w *Writer) FieldFloat(k string, v float64) {
	if w.Key(k, false) != nil {
		return
	}
	w.Float(v)
}

// FieldBool 写布尔成员。
func (w *Writer) FieldBool(k string, v bool) {
	if w.Key(k, false) != nil {
		return
	}
	w.Bool(v)
}

// FieldNull 写 null 成员。
func (w *Writer) FieldNull(k string) {
	if w.Key(k, false) != nil {
		return
	}
	w.Null()
}

// FieldNumber 写数字成员。
func (w *Writer) FieldNumber(k string, n Number) {
	if w.Key(k, false) != nil {
		return
	}
	w.Number(n)
}

// FieldRaw 写预编码成员。
func (w *Writer) FieldRaw(k, span string) {
	if w.Key(k, false) != nil {
		return
	}
	w.Raw(span)
}

// FieldObject 写对象成员。
func (w *Writer) FieldObject(k string, fn func(w *Writer)) {
	if w.Key(k, false) != nil {
		return
	}
	w.Object(fn)
}

// FieldArray 写数组成员。
func (w *Writer) FieldArray(k string, fn func(w *Writer)) {
	if w.Key(k, false) != nil {
		return
	}
	w.Array(fn)
}

// Item 写字符串元素。
func (w *Writer) Item(v string) { w.Str(v, false) }

// ItemInt 写整数元素。
func (w *Writer) ItemInt(v int) { w.Int(int64(v)) }

// ItemInt64 写 int64 元素。
func (w *Writer) ItemInt64(v int64) { w.Int(v) }

// ItemUint64 写 uint64 元素。
func (w *Writer) ItemUint64(v uint64) { w.Uint(v) }

// ItemFloat 写浮点元素。
func (w *Writer) ItemFloat(v float64) { w.Float(v) }

// ItemBool 写布尔元素。
func (w *Writer) ItemBool(v bool) { w.Bool(v) }

// ItemNull 写 null 元素。
func (w *Writer) ItemNull() { w.Null() }

// ItemNumber 写数字元素。
func (w *Writer) ItemNumber(n Number) { w.Number(n) }

// ItemRaw 写预编码元素。
func (w *Writer) ItemRaw(span string) { w.Raw(span) }

// ItemObject 写对象元素。
func (w *Writer) ItemObject(fn func(w *Writer)) { w.Object(fn) }

// ItemArray 写数组元素。
func (w *Writer) ItemArray(fn func(w *Writer)) { w.Array(fn) }

// ─── 字符串转义 ───

// appendQuoted 写带引号的字符串。
// 控制字节、引号、反斜杠永远转义:\n \r \t 用命名转义,
// 其余控制字节用 \u00XX;斜杠不转义。
// escU 开启后非 ASCII 全部转成 \uXXXX,
// 补充平面用代理对,非法序列以替换符落地。
func appendQuoted(dst []byte, s string, escU bool) []byte {
	dst = append(dst, '"')
	if escU {
		dst = appendEscapedAll(dst, s)
		return append(dst, '"')
	}
	needs := false
	for i := 0; i < len(s); i++ {
		if c := s[i]; c < 0x20 || c == '"' || c == '\\' {
			needs = true
			break
		}
	}
	if !needs {
		dst = append(dst, s...)
		return append(dst, '"')
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			dst = append(dst, '\\', '"')
		case c == '\\':
			dst = append(dst, '\\', '\\')
		case c >= 0x20:
			dst = append(dst, c)
		case c == '\n':
			dst = append(dst, '\\', 'n')
		case c == '\r':
			dst = append(dst, '\\', 'r')
		case c == '\t':
			dst = append(dst, '\\', 't')
		default:
			dst = append(dst, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xF])
		}
	}
	return append(dst, '"')
}

// appendEscapedAll 按 7 位安全模式写字符串内容。
func appendEscapedAll(dst []byte, s string) []byte {
	for i := 0; i < len(s); {
		c := s[i]
		if c < 0x80 {
			switch {
			case c == '"':
				dst = append(dst, '\\', '"')
			case c == '\\':
				dst = append(dst, '\\', '\\')
			case c >= 0x20:
				dst = append(dst, c)
			case c == '\n':
				dst = append(dst, '\\', 'n')
			case c == '\r':
				dst = append(dst, '\\', 'r')
			case c == '\t':
				dst = append(dst, '\\', 't')
			default:
				dst = append(dst, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xF])
			}
			i++
			continue
		}
		// 非法序列解码得替换符,照常落地
		r, size := utf8.DecodeRuneInString(s[i:])
		if r <= 0xFFFF {
			dst = appendU16(dst, uint16(r))
		} else {
			r -= 0x10000
			dst = appendU16(dst, uint16(0xD800+(r>>10)))
			dst = appendU16(dst, uint16(0xDC00+(r&0x3FF)))
		}
		i += size
	}
	return dst
}

// appendU16 写一个 \uXXXX 转义。
func appendU16(dst []byte, u uint16) []byte {
	return append(dst, '\\', 'u',
		hexDigits[u>>12&0xF], hexDigits[u>>8&0xF], hexDigits[u>>4&0xF], hexDigits[u&0xF])
}

// ─── 复用池 ───

var writerPool = sync.Pool{
	New: func() any { return NewWriter() },
}

// AcquireWriter 从包级池取一个默认配置的紧凑 Writer。
func AcquireWriter() *Writer {
	w := writerPool.Get().(*Writer)
	w.Reset()
	w.indent = ""
	w.prec = -1
	w.escU = false
	return w
}

// ReleaseWriter 归还 Writer,超大缓冲直接丢弃防止池内囤积。
func ReleaseWriter(w *Writer) {
	if cap(w.buf) > 1<<16 {
		return
	}
	writerPool.Put(w)
}

// acquireWriter 取一个按配置装配的 Writer。
func acquireWriter(cfg Config, pretty bool) *Writer {
	w := writerPool.Get().(*Writer)
	w.Reset()
	w.indent = ""
	if pretty {
		w.indent = cfg.Indent
	}
	w.prec = cfg.FloatPrecision
	w.escU = cfg.EscapeNonASCII
	return w
}
