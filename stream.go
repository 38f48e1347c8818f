package tact

import "io"

// ─── Stream ───

// Stream 惰性解码输入中的一串顶层 JSON 值,只进不退。
// 值之间以空白或值边界分隔,Next 逐个产出,
// 干净结束时返回 io.EOF;任何解码错误都是终态,
// 之后的 Next 原样重复该错误。
//
// 产出的树共享流内部的解析器,在流的存活期内一直有效。
// 读取器模式下窗口缓冲会复用,字符串一律独立成副本。
type Stream struct {
	p   *Parser
	f   *feed
	s   string
	i   int
	err error
}

// newStream 构造与配置绑定的流,r 为 nil 时走内存模式。
func newStream(cfg Config, s string, r io.Reader) *Stream {
	p := newParser(cfg)
	p.ts.hash = cfg.HashMaps
	p.ts.own = cfg.CopyStrings
	if cfg.BigNumbers {
		p.bns = &p.ts
	}
	st := &Stream{p: p, s: s}
	if r != nil {
		p.ts.own = true
		st.f = &feed{r: r, line: 1, col: 1}
	}
	return st
}

// Next 产出下一个值。输入耗尽时返回 io.EOF。
func (st *Stream) Next() (*Value, error) {
	if st.err != nil {
		return nil, st.err
	}
	if st.f != nil {
		return st.nextReader()
	}
	i := skipWS(st.s, st.i)
	if i >= len(st.s) {
		st.err = io.EOF
		return nil, io.EOF
	}
	st.p.ts.c.detach()
	end, err := st.p.parseValue(st.s, i, 0, &st.p.ts)
	if err != nil {
		st.err = err
		return nil, err
	}
	st.i = end
	return st.p.ts.root, nil
}

// NextRaw 校验并产出下一个值的精确原文副本,不建树。
func (st *Stream) NextRaw() (RawMessage, error) {
	if st.err != nil {
		return nil, st.err
	}
	if st.f != nil {
		win, err := st.f.nextWindow()
		if err != nil {
			st.err = err
			return nil, err
		}
		return st.rawWindow(win)
	}
	i := skipWS(st.s, st.i)
	if i >= len(st.s) {
		st.err = io.EOF
		return nil, io.EOF
	}
	end, err := st.p.skipValue(st.s, i, 0)
	if err != nil {
		st.err = err
		return nil, err
	}
	st.i = end
	return RawMessage(st.s[i:end]), nil
}

// More 报告是否还有待解码的值。
// 读取器模式下可能触发一次底层读;读失败时仍返回 true,
// 让错误从下一次 Next 浮出。
func (st *Stream) More() bool {
	if st.err != nil {
		return false
	}
	if st.f != nil {
		_, err := st.f.peek()
		return err != io.EOF
	}
	return skipWS(st.s, st.i) < len(st.s)
}

// InputOffset 返回已消费输入的字节偏移。
func (st *Stream) InputOffset() int64 {
	if st.f != nil {
		return st.f.base + int64(st.f.pos)
	}
	return int64(st.i)
}

// Err 返回终态错误,干净结束与尚未结束都返回 nil。
func (st *Stream) Err() error {
	if st.err == io.EOF {
		return nil
	}
	return st.err
}

// nextReader 取一个窗口并在窗口内建树。
func (st *Stream) nextReader() (*Value, error) {
	f := st.f
	win, err := f.nextWindow()
	if err != nil {
		st.err = err
		return nil, err
	}
	st.p.ts.c.detach()
	baseOff := f.base + int64(f.pos)
	baseLine, baseCol := f.line, f.col
	if _, perr := st.p.parseValue(b2s(win), 0, 0, &st.p.ts); perr != nil {
		if e, ok := perr.(*Error); ok {
			e.rebase(baseOff, baseLine, baseCol)
		}
		st.err = perr
		return nil, perr
	}
	f.advance(len(win))
	return st.p.ts.root, nil
}

// rawWindow 校验窗口并产出独立副本。
func (st *Stream) rawWindow(win []byte) (RawMessage, error) {
	f := st.f
	baseOff := f.base + int64(f.pos)
	baseLine, baseCol := f.line, f.col
	end, err := st.p.skipValue(b2s(win), 0, 0)
	if err != nil {
		if e, ok := err.(*Error); ok {
			e.rebase(baseOff, baseLine, baseCol)
		}
		st.err = err
		return nil, err
	}
	raw := make(RawMessage, end)
	copy(raw, win[:end])
	f.advance(len(win))
	return raw, nil
}

// ─── 读取器供料 ───

// feed 从 io.Reader 聚出完整的顶层值窗口。
// 窗口缓冲随值大小增长并跨值复用;消费掉的前缀
// 按字节维护全局偏移与行列,错误位置据此换算。
type feed struct {
	r    io.Reader
	buf  []byte
	rerr error
	base int64
	pos  int
	line int
	col  int
}

// peek 跳过值间空白并返回下一个字节,不消费。
func (f *feed) peek() (byte, error) {
	for {
		for f.pos < len(f.buf) && wsTab[f.buf[f.pos]] {
			f.advance(1)
		}
		if f.pos < len(f.buf) {
			return f.buf[f.pos], nil
		}
		f.compact()
		if err := f.fill(); err != nil {
			if err == io.EOF {
				return 0, io.EOF
			}
			return 0, readErr(err)
		}
	}
}

// nextWindow 返回下一个值的完整原文窗口。
// 输入在值中途耗尽时原样交出已有字节,由解析器给出精确报错。
func (f *feed) nextWindow() ([]byte, error) {
	if _, err := f.peek(); err != nil {
		return nil, err
	}
	f.compact()
	start := f.pos
	scanned := start
	var fr framer
	for {
		end := fr.scan(f.buf[scanned:])
		if end >= 0 {
			return f.buf[start : scanned+end], nil
		}
		scanned = len(f.buf)
		if err := f.fill(); err != nil {
			if err == io.EOF {
				return f.buf[start:], nil
			}
			return nil, readErr(err)
		}
	}
}

// fill 续读一段,保证至少推进一个字节或报错。
func (f *feed) fill() error {
	if f.rerr != nil {
		return f.rerr
	}
	if len(f.buf) == cap(f.buf) {
		nb := make([]byte, len(f.buf), cap(f.buf)*2+512)
		copy(nb, f.buf)
		f.buf = nb
	}
	n, err := f.r.Read(f.buf[len(f.buf):cap(f.buf)])
	f.buf = f.buf[:len(f.buf)+n]
	if err != nil {
		f.rerr = err
		if n == 0 {
			return err
		}
	}
	return nil
}

// compact 丢弃已消费前缀,窗口扫描期间不可调用。
func (f *feed) compact() {
	if f.pos == 0 {
		return
	}
	n := copy(f.buf, f.buf[f.pos:])
	f.base += int64(f.pos)
	f.buf = f.buf[:n]
	f.pos = 0
}

// advance 消费 n 个字节并维护行列。
func (f *feed) advance(n int) {
	for i := f.pos; i < f.pos+n; i++ {
		if f.buf[i] == '\n' {
			f.line++
			f.col = 1
		} else {
			f.col++
		}
	}
	f.pos += n
}

// ─── 边界扫描 ───

// framer 用极简状态机找顶层值的边界,可跨块续扫。
// 只识别字符串、转义与括号配平,不做语法判定;
// 返回值在当前块内的结束偏移,未完整时返回 -1。
type framer struct {
	depth  int
	inStr  bool
	esc    bool
	scalar bool
	primed bool
}

func (fr *framer) scan(b []byte) int {
	for i := 0; i < len(b); i++ {
		c := b[i]
		if fr.inStr {
			if fr.esc {
				fr.esc = false
				continue
			}
			if c == '\\' {
				fr.esc = true
				continue
			}
			if c == '"' {
				fr.inStr = false
				if fr.depth == 0 {
					return i + 1
				}
			}
			continue
		}
		if !fr.primed {
			fr.primed = true
			switch c {
			case '{', '[':
				fr.depth = 1
			case '"':
				fr.inStr = true
			default:
				fr.scalar = true
			}
			continue
		}
		if fr.scalar {
			switch {
			case wsTab[c], c == ',', c == ']', c == '}', c == '"', c == '{', c == '[':
				return i
			}
			continue
		}
		switch c {
		case '"':
			fr.inStr = true
		case '{', '[':
			fr.depth++
		case '}', ']':
			fr.depth--
			if fr.depth == 0 {
				return i + 1
			}
		}
	}
	return -1
}
