package tact

import (
	"errors"
	"strconv"
)

// ─── 错误分类 ───

// Category 是错误的顶层分类。
// 解析与序列化产生的每一个 *Error 恰好属于其中一类。
type Category uint8

const (
	// CategorySyntax 表示输入不是合法的 JSON 文本,错误携带精确位置。
	CategorySyntax Category = iota + 1
	// CategoryData 表示数据在 JSON 中没有对应表示(如 NaN/Inf)。
	CategoryData
	// CategoryIO 表示底层读或写失败,原始错误可经 Unwrap 获取。
	CategoryIO
	// CategoryLimit 表示触发了嵌套深度防护上限。
	CategoryLimit
)

// String 返回分类名。
func (c Category) String() string {
	switch c {
	case CategorySyntax:
		return "syntax"
	case CategoryData:
		return "data"
	case CategoryIO:
		return "io"
	case CategoryLimit:
		return "limit"
	default:
		return "unknown"
	}
}

// ─── 错误文案 ───
//
// 同一失败模式永远对应同一段文案,上下文细节单独拼接,
// 便于调用方按前缀匹配。

const (
	msgEmptyInput         = "empty input"
	msgEOFValue           = "unexpected end of input while parsing a value"
	msgEOFArray           = "unexpected end of input while parsing an array"
	msgEOFObject          = "unexpected end of input while parsing an object"
	msgUnterminatedString = "unterminated string"
	msgUnterminatedEscape = "unterminated escape sequence"
	msgExpectedValue      = "expected a value"
	msgExpectedColon      = "missing ':' after object key"
	msgArrayComma         = "expected ',' or ']' in array"
	msgObjectComma        = "expected ',' or '}' in object"
	msgKeyNotString       = "object key must be a string"
	msgTrailingComma      = "trailing comma"
	msgTrailingData       = "unexpected trailing data"
	msgControlChar        = "invalid control character in string"
	msgInvalidEscape      = "invalid escape character"
	msgLoneSurrogate      = "lone surrogate in \\u escape"
	msgInvalidUTF8        = "invalid unicode code point"
	msgInvalidNumber      = "invalid number"
	msgNumberRange        = "number out of range"
	msgDepthExceeded      = "recursion limit exceeded"
	msgMarshalDepth       = "value nesting exceeds marshal limit"
	msgNonFinite          = "NaN and Infinity are not valid JSON numbers"
	msgReadFailed         = "error reading input"
	msgWriteFailed        = "error writing output"
)

// ─── Error ───

// Error 是编解码全部操作的统一错误类型。
// 语法类错误携带出错字节的位置:Offset 为 0 起始的字节下标,
// Line 从 1 计数,Column 为行内 1 起始的字节列。
// Line 为 0 表示错误与输入位置无关。
//
// 字段按大小降序排列,减少 padding。
type Error struct {
	err      error  // 被包装的底层错误,仅 IO 类与 sink 透传使用
	msg      string // 稳定文案
	detail   string // 现场细节,可为空
	Offset   int64
	Line     int
	Column   int
	Category Category
}

// Error 渲染为 "tact: <文案>[: <细节>][ at line L column C]"。
func (e *Error) Error() string {
	buf := make([]byte, 0, 64)
	buf = append(buf, "tact: "...)
	buf = append(buf, e.msg...)
	if e.detail != "" {
		buf = append(buf, ": "...)
		buf = append(buf, e.detail...)
	}
	if e.err != nil {
		buf = append(buf, ": "...)
		buf = append(buf, e.err.Error()...)
	}
	if e.Line > 0 {
		buf = append(buf, " at line "...)
		buf = strconv.AppendInt(buf, int64(e.Line), 10)
		buf = append(buf, " column "...)
		buf = strconv.AppendInt(buf, int64(e.Column), 10)
	}
	return string(buf)
}

// Unwrap 暴露底层错误,支持 errors.Is/As 链式匹配。
func (e *Error) Unwrap() error { return e.err }

// IsSyntax 报告错误是否为语法类。
func (e *Error) IsSyntax() bool { return e.Category == CategorySyntax }

// IsData 报告错误是否为数据类。
func (e *Error) IsData() bool { return e.Category == CategoryData }

// IsIO 报告错误是否为读写类。
func (e *Error) IsIO() bool { return e.Category == CategoryIO }

// IsLimit 报告错误是否为资源上限类。
func (e *Error) IsLimit() bool { return e.Category == CategoryLimit }

// ─── 包级判别 ───

func categoryOf(err error) Category {
	var e *Error
	if errors.As(err, &e) {
		return e.Category
	}
	return 0
}

// IsSyntax 报告 err 是否为语法类编解码错误。
func IsSyntax(err error) bool { return categoryOf(err) == CategorySyntax }

// IsData 报告 err 是否为数据类编解码错误。
func IsData(err error) bool { return categoryOf(err) == CategoryData }

// IsIO 报告 err 是否为读写类编解码错误。
func IsIO(err error) bool { return categoryOf(err) == CategoryIO }

// IsLimit 报告 err 是否为资源上限类编解码错误。
func IsLimit(err error) bool { return categoryOf(err) == CategoryLimit }

// ─── 构造 ───

// lineCol 把字节偏移换算成 1 起始的行列。
// 只在构造错误时调用,正常路径不维护行列计数。
func lineCol(s string, off int) (line, col int) {
	if off > len(s) {
		off = len(s)
	}
	line, start := 1, 0
	for i := 0; i < off; i++ {
		if s[i] == '\n' {
			line++
			start = i + 1
		}
	}
	return line, off - start + 1
}

// syntaxErr 构造带位置的语法错误。
func syntaxErr(msg, detail, src string, off int) *Error {
	line, col := lineCol(src, off)
	return &Error{
		msg:      msg,
		detail:   detail,
		Offset:   int64(off),
		Line:     line,
		Column:   col,
		Category: CategorySyntax,
	}
}

// syntaxErrNoPos 构造与输入位置无关的语法错误,如字面量校验。
func syntaxErrNoPos(msg, detail string) *Error {
	return &Error{msg: msg, detail: detail, Category: CategorySyntax}
}

// limitErr 构造深度上限错误。
func limitErr(src string, off int) *Error {
	line, col := lineCol(src, off)
	return &Error{
		msg:      msgDepthExceeded,
		Offset:   int64(off),
		Line:     line,
		Column:   col,
		Category: CategoryLimit,
	}
}

// dataErr 构造数据类错误。
func dataErr(msg, detail string) *Error {
	return &Error{msg: msg, detail: detail, Category: CategoryData}
}

// readErr 包装底层读失败。
func readErr(err error) *Error {
	return &Error{msg: msgReadFailed, err: err, Category: CategoryIO}
}

// writeErr 包装底层写失败。
func writeErr(err error) *Error {
	return &Error{msg: msgWriteFailed, err: err, Category: CategoryIO}
}

// rebase 把窗口内的局部位置换算到整个输入流的全局位置。
// 流式解析按窗口解析出错后调用。
func (e *Error) rebase(off int64, line, col int) {
	if e.Line == 0 {
		return
	}
	if e.Line == 1 {
		e.Column += col - 1
	}
	e.Line += line - 1
	e.Offset += off
}
