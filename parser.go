package tact

import (
	"math"
	"strconv"
	"sync"
	"unicode/utf8"
)

// ─── Parser ───

// Parser 把 JSON 文本推给 Sink,本身不持有任何解析结果。
// 实例可跨多次解析复用,不可并发使用;并发场景每个
// goroutine 各取一个实例,或经 ParserPool 复用。
type Parser struct {
	ts  TreeSink
	rs  RawSink
	bns BigNumberSink
	cfg Config
}

// NewParser 构造默认配置的解析器。
// 与特定配置绑定的实例经 Codec.NewParser 构造。
func NewParser() *Parser {
	return newParser(defaultConfig())
}

func newParser(cfg Config) *Parser {
	return &Parser{cfg: cfg}
}

// Parse 解析单个 JSON 值并建树,值前后只允许空白。
// 返回的树从解析器内部池分配,在下一次 Parse 前有效;
// 字符串可能借用 s,树的存活期内不要释放对 s 的引用。
func (p *Parser) Parse(s string) (*Value, error) {
	p.ts.Reset()
	p.ts.hash = p.cfg.HashMaps
	p.ts.own = p.cfg.CopyStrings
	if err := p.parseWith(s, &p.ts); err != nil {
		return nil, err
	}
	return p.ts.root, nil
}

// ParseBytes 等价于 Parse(b2s(b)),零拷贝。
// 树的存活期内 b 不可改写;需要隔离时开启字符串拷贝配置。
func (p *Parser) ParseBytes(b []byte) (*Value, error) {
	return p.Parse(b2s(b))
}

// ParseWith 用调用方的 Sink 消费单个 JSON 值。
// Sink 返回的错误原样透传;实现 RawSink 可逐值推迟解析,
// 任意精度配置下实现 BigNumberSink 可拿到精确字面量。
func (p *Parser) ParseWith(s string, sk Sink) error {
	return p.parseWith(s, sk)
}

// Valid 报告 s 是否为语法合法的单个 JSON 值,不产出任何事件。
func (p *Parser) Valid(s string) bool {
	i := skipWS(s, 0)
	if i >= len(s) {
		return false
	}
	end, err := p.skipValue(s, i, 0)
	if err != nil {
		return false
	}
	return skipWS(s, end) >= len(s)
}

// Raw 校验单个 JSON 值并返回其精确原文的独立副本。
func (p *Parser) Raw(s string) (RawMessage, error) {
	i := skipWS(s, 0)
	if i >= len(s) {
		return nil, syntaxErr(msgEmptyInput, "", s, 0)
	}
	end, err := p.skipValue(s, i, 0)
	if err != nil {
		return nil, err
	}
	if rest := skipWS(s, end); rest < len(s) {
		return nil, syntaxErr(msgTrailingData, snippet(s, rest), s, rest)
	}
	return RawMessage(s[i:end]), nil
}

// parseWith 驱动一次完整的单值解析,值后出现非空白即报错。
func (p *Parser) parseWith(s string, sk Sink) error {
	p.rs, _ = sk.(RawSink)
	if p.cfg.BigNumbers {
		p.bns, _ = sk.(BigNumberSink)
	} else {
		p.bns = nil
	}
	i := skipWS(s, 0)
	if i >= len(s) {
		return syntaxErr(msgEmptyInput, "", s, 0)
	}
	end, err := p.parseValue(s, i, 0, sk)
	if err != nil {
		return err
	}
	if end = skipWS(s, end); end < len(s) {
		return syntaxErr(msgTrailingData, snippet(s, end), s, end)
	}
	return nil
}

// ─── 递归下降 ───

// parseValue 调度 i 处的一个完整值,i 已指向非空白字节。
// depth 是当前嵌套层数,进入容器前判上限。
func (p *Parser) parseValue(s string, i, depth int, sk Sink) (int, error) {
	if p.rs != nil && p.rs.WantRaw() {
		end, err := p.skipValue(s, i, depth)
		if err != nil {
			return 0, err
		}
		if serr := p.rs.Raw(s[i:end]); serr != nil {
			return 0, serr
		}
		return end, nil
	}
	switch c := s[i]; {
	case c == '{':
		if p.cfg.MaxDepth >= 0 && depth >= p.cfg.MaxDepth {
			return 0, limitErr(s, i)
		}
		return p.parseObject(s, i+1, depth+1, sk)
	case c == '[':
		if p.cfg.MaxDepth >= 0 && depth >= p.cfg.MaxDepth {
			return 0, limitErr(s, i)
		}
		return p.parseArray(s, i+1, depth+1, sk)
	case c == '"':
		content, owned, next, serr := scanStr(s, i+1)
		if serr != nil {
			return 0, serr
		}
		if err := sk.Str(content, owned); err != nil {
			return 0, err
		}
		return next, nil
	case c == 't':
		if len(s)-i >= 4 && s[i:i+4] == "true" {
			if err := sk.Bool(true); err != nil {
				return 0, err
			}
			return i + 4, nil
		}
		return 0, p.litErr(s, i)
	case c == 'f':
		if len(s)-i >= 5 && s[i:i+5] == "false" {
			if err := sk.Bool(false); err != nil {
				return 0, err
			}
			return i + 5, nil
		}
		return 0, p.litErr(s, i)
	case c == 'n':
		if len(s)-i >= 4 && s[i:i+4] == "null" {
			if err := sk.Null(); err != nil {
				return 0, err
			}
			return i + 4, nil
		}
		return 0, p.litErr(s, i)
	case c == '-' || (c >= '0' && c <= '9'):
		return p.parseNumber(s, i, sk)
	default:
		return 0, syntaxErr(msgExpectedValue, quoteByte(c), s, i)
	}
}

// litErr 区分字面量中途截断与字面量写错。
func (p *Parser) litErr(s string, i int) error {
	rest := s[i:]
	for _, lit := range [...]string{"true", "false", "null"} {
		if len(rest) < len(lit) && lit[:len(rest)] == rest {
			return syntaxErr(msgEOFValue, "", s, len(s))
		}
	}
	return syntaxErr(msgExpectedValue, snippet(s, i), s, i)
}

// parseNumber 划出并分类数字字面量,按形态推送。
func (p *Parser) parseNumber(s string, i int, sk Sink) (int, error) {
	end, serr := scanNum(s, i)
	if serr != nil {
		return 0, serr
	}
	lit := s[i:end]
	if p.bns != nil {
		if err := p.bns.BigNumber(lit); err != nil {
			return 0, err
		}
		return end, nil
	}
	num, ok := classifyNum(lit)
	if !ok {
		return 0, syntaxErr(msgNumberRange, strconv.Quote(lit), s, i)
	}
	var err error
	switch num.kind {
	case numUint:
		err = sk.Uint(num.bits)
	case numInt:
		err = sk.Int(int64(num.bits))
	default:
		err = sk.Float(math.Float64frombits(num.bits))
	}
	if err != nil {
		return 0, err
	}
	return end, nil
}

// parseObject 处理对象体,i 指向开括号之后。
func (p *Parser) parseObject(s string, i, depth int, sk Sink) (int, error) {
	if err := sk.BeginObject(); err != nil {
		return 0, err
	}
	n := len(s)
	i = skipWS(s, i)
	if i >= n {
		return 0, syntaxErr(msgEOFObject, "", s, n)
	}
	if s[i] == '}' {
		if err := sk.EndObject(); err != nil {
			return 0, err
		}
		return i + 1, nil
	}
	for {
		if s[i] != '"' {
			return 0, syntaxErr(msgKeyNotString, quoteByte(s[i]), s, i)
		}
		key, owned, next, serr := scanStr(s, i+1)
		if serr != nil {
			return 0, serr
		}
		if err := sk.Key(key, owned); err != nil {
			return 0, err
		}
		i = skipWS(s, next)
		if i >= n {
			return 0, syntaxErr(msgEOFObject, "", s, n)
		}
		if s[i] != ':' {
			return 0, syntaxErr(msgExpectedColon, quoteByte(s[i]), s, i)
		}
		i = skipWS(s, i+1)
		if i >= n {
			return 0, syntaxErr(msgEOFValue, "", s, n)
		}
		end, err := p.parseValue(s, i, depth, sk)
		if err != nil {
			return 0, err
		}
		i = skipWS(s, end)
		if i >= n {
			return 0, syntaxErr(msgEOFObject, "", s, n)
		}
		switch s[i] {
		case ',':
			i = skipWS(s, i+1)
			if i >= n {
				return 0, syntaxErr(msgEOFObject, "", s, n)
			}
			if s[i] == '}' {
				return 0, syntaxErr(msgTrailingComma, "", s, i)
			}
		case '}':
			if err := sk.EndObject(); err != nil {
				return 0, err
			}
			return i + 1, nil
		default:
			return 0, syntaxErr(msgObjectComma, quoteByte(s[i]), s, i)
		}
	}
}

// parseArray 处理数组体,i 指向开括号之后。
func (p *Parser) parseArray(s string, i, depth int, sk Sink) (int, error) {
	if err := sk.BeginArray(); err != nil {
		return 0, err
	}
	n := len(s)
	i = skipWS(s, i)
	if i >= n {
		return 0, syntaxErr(msgEOFArray, "", s, n)
	}
	if s[i] == ']' {
		if err := sk.EndArray(); err != nil {
			return 0, err
		}
		return i + 1, nil
	}
	for {
		end, err := p.parseValue(s, i, depth, sk)
		if err != nil {
			return 0, err
		}
		i = skipWS(s, end)
		if i >= n {
			return 0, syntaxErr(msgEOFArray, "", s, n)
		}
		switch s[i] {
		case ',':
			i = skipWS(s, i+1)
			if i >= n {
				return 0, syntaxErr(msgEOFArray, "", s, n)
			}
			if s[i] == ']' {
				return 0, syntaxErr(msgTrailingComma, "", s, i)
			}
		case ']':
			if err := sk.EndArray(); err != nil {
				return 0, err
			}
			return i + 1, nil
		default:
			return 0, syntaxErr(msgArrayComma, quoteByte(s[i]), s, i)
		}
	}
}

// ─── 纯校验 ───

// skipValue 只做语法校验并返回值末尾之后的下标,不产出事件。
// 原文截取与 Valid 都走这条路径,深度上限照常生效。
func (p *Parser) skipValue(s string, i, depth int) (int, error) {
	n := len(s)
	switch c := s[i]; {
	case c == '{':
		if p.cfg.MaxDepth >= 0 && depth >= p.cfg.MaxDepth {
			return 0, limitErr(s, i)
		}
		i = skipWS(s, i+1)
		if i >= n {
			return 0, syntaxErr(msgEOFObject, "", s, n)
		}
		if s[i] == '}' {
			return i + 1, nil
		}
		for {
			if s[i] != '"' {
				return 0, syntaxErr(msgKeyNotString, quoteByte(s[i]), s, i)
			}
			next, serr := skipStr(s, i+1)
			if serr != nil {
				return 0, serr
			}
			i = skipWS(s, next)
			if i >= n {
				return 0, syntaxErr(msgEOFObject, "", s, n)
			}
			if s[i] != ':' {
				return 0, syntaxErr(msgExpectedColon, quoteByte(s[i]), s, i)
			}
			i = skipWS(s, i+1)
			if i >= n {
				return 0, syntaxErr(msgEOFValue, "", s, n)
			}
			end, err := p.skipValue(s, i, depth+1)
			if err != nil {
				return 0, err
			}
			i = skipWS(s, end)
			if i >= n {
				return 0, syntaxErr(msgEOFObject, "", s, n)
			}
			switch s[i] {
			case ',':
				i = skipWS(s, i+1)
				if i >= n {
					return 0, syntaxErr(msgEOFObject, "", s, n)
				}
				if s[i] == '}' {
					return 0, syntaxErr(msgTrailingComma, "", s, i)
				}
			case '}':
				return i + 1, nil
			default:
				return 0, syntaxErr(msgObjectComma, quoteByte(s[i]), s, i)
			}
		}
	case c == '[':
		if p.cfg.MaxDepth >= 0 && depth >= p.cfg.MaxDepth {
			return 0, limitErr(s, i)
		}
		i = skipWS(s, i+1)
		if i >= n {
			return 0, syntaxErr(msgEOFArray, "", s, n)
		}
		if s[i] == ']' {
			return i + 1, nil
		}
		for {
			end, err := p.skipValue(s, i, depth+1)
			if err != nil {
				return 0, err
			}
			i = skipWS(s, end)
			if i >= n {
				return 0, syntaxErr(msgEOFArray, "", s, n)
			}
			switch s[i] {
			case ',':
				i = skipWS(s, i+1)
				if i >= n {
					return 0, syntaxErr(msgEOFArray, "", s, n)
				}
				if s[i] == ']' {
					return 0, syntaxErr(msgTrailingComma, "", s, i)
				}
			case ']':
				return i + 1, nil
			default:
				return 0, syntaxErr(msgArrayComma, quoteByte(s[i]), s, i)
			}
		}
	case c == '"':
		return skipStr(s, i+1)
	case c == 't':
		if len(s)-i >= 4 && s[i:i+4] == "true" {
			return i + 4, nil
		}
		return 0, p.litErr(s, i)
	case c == 'f':
		if len(s)-i >= 5 && s[i:i+5] == "false" {
			return i + 5, nil
		}
		return 0, p.litErr(s, i)
	case c == 'n':
		if len(s)-i >= 4 && s[i:i+4] == "null" {
			return i + 4, nil
		}
		return 0, p.litErr(s, i)
	case c == '-' || (c >= '0' && c <= '9'):
		return scanNumErr(s, i)
	default:
		return 0, syntaxErr(msgExpectedValue, quoteByte(c), s, i)
	}
}

// scanNumErr 适配 scanNum 的返回给 error 接口。
func scanNumErr(s string, i int) (int, error) {
	end, err := scanNum(s, i)
	if err != nil {
		return 0, err
	}
	return end, nil
}

// skipStr 校验字符串而不解码,i 指向开引号之后。
// 转义合法性、代理项配对和 UTF-8 一并检查。
func skipStr(s string, i int) (int, error) {
	start := i
	n := len(s)
	for {
		for i+8 <= n {
			if s[i] <= '\\' || s[i+1] <= '\\' || s[i+2] <= '\\' || s[i+3] <= '\\' ||
				s[i+4] <= '\\' || s[i+5] <= '\\' || s[i+6] <= '\\' || s[i+7] <= '\\' {
				break
			}
			i += 8
		}
		if i >= n {
			return 0, syntaxErr(msgUnterminatedString, "", s, start-1)
		}
		c := s[i]
		if c > '\\' {
			i++
			continue
		}
		if c == '"' {
			if span := s[start:i]; !utf8.ValidString(span) {
				return 0, syntaxErr(msgInvalidUTF8, "", s, start+badRuneAt(span))
			}
			return i + 1, nil
		}
		if c == '\\' {
			if i+1 >= n {
				return 0, syntaxErr(msgUnterminatedEscape, "", s, i)
			}
			switch s[i+1] {
			case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
				i += 2
			case 'u':
				_, size, uerr := hexRune(s, i)
				if uerr != nil {
					return 0, uerr
				}
				i += size
			default:
				return 0, syntaxErr(msgInvalidEscape, quoteByte(s[i+1]), s, i+1)
			}
			continue
		}
		if c < 0x20 {
			return 0, syntaxErr(msgControlChar, hexByte(c), s, i)
		}
		i++
	}
}

// snippet 截取现场附近至多 32 字节作细节。
func snippet(s string, i int) string {
	end := i + 32
	if end > len(s) {
		end = len(s)
	}
	return strconv.Quote(s[i:end])
}

// ─── 复用池 ───

// ParserPool 是 Parser 的并发安全复用池。
type ParserPool struct {
	pool sync.Pool
}

// Get 取出或新建一个默认配置的解析器。
// 归还前的配置改动不跟随实例,每次取出都回到默认。
func (pp *ParserPool) Get() *Parser {
	if v := pp.pool.Get(); v != nil {
		p := v.(*Parser)
		p.cfg = defaultConfig()
		return p
	}
	return NewParser()
}

// Put 归还解析器。此前解析出的树随之失效。
func (pp *ParserPool) Put(p *Parser) {
	pp.pool.Put(p)
}

var defaultParserPool ParserPool

// AcquireParser 从包级池取一个默认配置的解析器。
func AcquireParser() *Parser {
	return defaultParserPool.Get()
}

// ReleaseParser 把解析器归还包级池,配对 AcquireParser 使用。
func ReleaseParser(p *Parser) {
	defaultParserPool.Put(p)
}
