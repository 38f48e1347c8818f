package tact

import (
	"strconv"
	"unicode/utf8"
)

// ─── 空白 ───

// wsTab 标记 JSON 仅有的四种空白字节:空格、水平制表、回车、换行。
// 其他低位字节一律不是空白,出现在值外即语法错误。
var wsTab = [256]bool{' ': true, '\t': true, '\r': true, '\n': true}

// skipWS 跳过 i 处起的连续空白,返回首个非空白字节的下标。
func skipWS(s string, i int) int {
	for i < len(s) && wsTab[s[i]] {
		i++
	}
	return i
}

// ─── 字符串 ───

// scanStr 扫描 i 处的字符串内容,i 指向开引号之后的首字节。
// 无转义时 content 直接借用输入切片,owned 为 false;
// 含转义时在独立缓冲中解码,owned 为 true。
// next 指向闭引号之后。非法 UTF-8 序列在此处拦截,不会流出。
func scanStr(s string, i int) (content string, owned bool, next int, err *Error) {
	start := i
	n := len(s)
	for {
		// 8 字节一批,批内出现候选字节再逐个判定。
		// 引号、反斜杠和控制字节都落在 <= '\\' 的区间。
		for i+8 <= n {
			if s[i] <= '\\' || s[i+1] <= '\\' || s[i+2] <= '\\' || s[i+3] <= '\\' ||
				s[i+4] <= '\\' || s[i+5] <= '\\' || s[i+6] <= '\\' || s[i+7] <= '\\' {
				break
			}
			i += 8
		}
		if i >= n {
			return "", false, 0, syntaxErr(msgUnterminatedString, "", s, start-1)
		}
		c := s[i]
		if c > '\\' {
			i++
			continue
		}
		if c == '"' {
			span := s[start:i]
			if !utf8.ValidString(span) {
				return "", false, 0, syntaxErr(msgInvalidUTF8, "", s, start+badRuneAt(span))
			}
			return span, false, i + 1, nil
		}
		if c == '\\' {
			return scanStrSlow(s, start, i)
		}
		if c < 0x20 {
			return "", false, 0, syntaxErr(msgControlChar, hexByte(c), s, i)
		}
		i++
	}
}

// scanStrSlow 处理含转义的字符串,esc 指向首个反斜杠。
// 短字符串在栈上缓冲解码,避免堆分配。
func scanStrSlow(s string, start, esc int) (string, bool, int, *Error) {
	var stack [64]byte
	buf := stack[:0]
	if chunk := s[start:esc]; chunk != "" {
		if !utf8.ValidString(chunk) {
			return "", false, 0, syntaxErr(msgInvalidUTF8, "", s, start+badRuneAt(chunk))
		}
		buf = append(buf, chunk...)
	}
	i := esc
	n := len(s)
	for i < n {
		c := s[i]
		if c == '\\' {
			if i+1 >= n {
				return "", false, 0, syntaxErr(msgUnterminatedEscape, "", s, i)
			}
			switch e := s[i+1]; e {
			case '"', '\\', '/':
				buf = append(buf, e)
				i += 2
			case 'b':
				buf = append(buf, '\b')
				i += 2
			case 'f':
				buf = append(buf, '\f')
				i += 2
			case 'n':
				buf = append(buf, '\n')
				i += 2
			case 'r':
				buf = append(buf, '\r')
				i += 2
			case 't':
				buf = append(buf, '\t')
				i += 2
			case 'u':
				r, size, uerr := hexRune(s, i)
				if uerr != nil {
					return "", false, 0, uerr
				}
				buf = utf8.AppendRune(buf, r)
				i += size
			default:
				return "", false, 0, syntaxErr(msgInvalidEscape, quoteByte(s[i+1]), s, i+1)
			}
			continue
		}
		if c == '"' {
			return string(buf), true, i + 1, nil
		}
		if c < 0x20 {
			return "", false, 0, syntaxErr(msgControlChar, hexByte(c), s, i)
		}
		// 原文段整段拷贝,直到下一个转义、引号或控制字节
		j := i + 1
		for j < n && s[j] != '"' && s[j] != '\\' && s[j] >= 0x20 {
			j++
		}
		chunk := s[i:j]
		if !utf8.ValidString(chunk) {
			return "", false, 0, syntaxErr(msgInvalidUTF8, "", s, i+badRuneAt(chunk))
		}
		buf = append(buf, chunk...)
		i = j
	}
	return "", false, 0, syntaxErr(msgUnterminatedString, "", s, start-1)
}

// hexRune 解码 i 处以 \u 开头的转义,i 指向反斜杠。
// 高代理项必须紧跟 \u 低代理项并合并为补充平面码点,
// 落单的代理项是语法错误。size 为消费的字节数,6 或 12。
func hexRune(s string, i int) (rune, int, *Error) {
	if i+6 > len(s) {
		return 0, 0, syntaxErr(msgUnterminatedEscape, "", s, i)
	}
	r1 := hex4(s, i+2)
	if r1 < 0 {
		return 0, 0, syntaxErr(msgInvalidEscape, strconv.Quote(s[i:i+6]), s, i)
	}
	if r1 < 0xD800 || r1 > 0xDFFF {
		return r1, 6, nil
	}
	if r1 > 0xDBFF {
		// 低代理项不能打头
		return 0, 0, syntaxErr(msgLoneSurrogate, strconv.Quote(s[i:i+6]), s, i)
	}
	if i+12 > len(s) || s[i+6] != '\\' || s[i+7] != 'u' {
		return 0, 0, syntaxErr(msgLoneSurrogate, strconv.Quote(s[i:i+6]), s, i)
	}
	r2 := hex4(s, i+8)
	if r2 < 0xDC00 || r2 > 0xDFFF {
		return 0, 0, syntaxErr(msgLoneSurrogate, strconv.Quote(s[i:i+12]), s, i)
	}
	return 0x10000 + (r1-0xD800)<<10 + (r2 - 0xDC00), 12, nil
}

// hex4 解析 4 位十六进制,非法时返回 -1。
func hex4(s string, i int) rune {
	if i+4 > len(s) {
		return -1
	}
	var r rune
	for k := 0; k < 4; k++ {
		c := s[i+k]
		switch {
		case c >= '0' && c <= '9':
			r = r<<4 | rune(c-'0')
		case c >= 'a' && c <= 'f':
			r = r<<4 | rune(c-'a'+10)
		case c >= 'A' && c <= 'F':
			r = r<<4 | rune(c-'A'+10)
		default:
			return -1
		}
	}
	return r
}

// badRuneAt 返回首个非法 UTF-8 序列的字节下标。
// 只在出错路径调用。
func badRuneAt(s string) int {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return 0
}

// ─── 数字 ───

// scanNum 校验并划出 i 处的数字字面量,返回字面量之后的下标。
// 只做语法判定:前导零、裸小数点、空指数都在此拦截,
// 数值分类由调用方完成。
func scanNum(s string, i int) (int, *Error) {
	start := i
	n := len(s)
	if i < n && s[i] == '-' {
		i++
	}
	if i >= n || s[i] < '0' || s[i] > '9' {
		return 0, syntaxErr(msgInvalidNumber, "missing digits", s, start)
	}
	if s[i] == '0' {
		i++
		if i < n && s[i] >= '0' && s[i] <= '9' {
			return 0, syntaxErr(msgInvalidNumber, "leading zero", s, start)
		}
	} else {
		for i < n && s[i] >= '0' && s[i] <= '9' {
			i++
		}
	}
	if i < n && s[i] == '.' {
		i++
		if i >= n || s[i] < '0' || s[i] > '9' {
			return 0, syntaxErr(msgInvalidNumber, "missing digit after '.'", s, start)
		}
		for i < n && s[i] >= '0' && s[i] <= '9' {
			i++
		}
	}
	if i < n && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < n && (s[i] == '+' || s[i] == '-') {
			i++
		}
		if i >= n || s[i] < '0' || s[i] > '9' {
			return 0, syntaxErr(msgInvalidNumber, "missing digit in exponent", s, start)
		}
		for i < n && s[i] >= '0' && s[i] <= '9' {
			i++
		}
	}
	return i, nil
}

// ─── 现场细节 ───

const hexDigits = "0123456789abcdef"

// hexByte 渲染 "0x1f" 形式的字节细节。
func hexByte(c byte) string {
	return string([]byte{'0', 'x', hexDigits[c>>4], hexDigits[c&0xF]})
}

// quoteByte 渲染 "'x'" 形式的字节细节。
func quoteByte(c byte) string {
	return strconv.QuoteRune(rune(c))
}
