package tact

import (
	"math"
	"strconv"
)

// ─── 数值模型 ───

// numKind 是 Number 的形态标签。
type numKind uint8

const (
	numUint  numKind = iota + 1 // 非负整数,bits 即值
	numInt                      // 负整数,bits 为补码位型
	numFloat                    // 有限浮点,bits 为 IEEE 754 位型
	numBig                      // 任意精度,raw 保存精确文本
)

// Number 保存一个 JSON 数字。
// 解析期按字面量形态分类:不含小数点和指数的字面量优先按整数处理,
// 超出 64 位范围再退回浮点;任意精度配置下保留原始文本,
// 数位一个不丢。零值等价于整数 0。
//
// NaN 与 Infinity 在 JSON 中不存在,任何路径都无法构造出来。
type Number struct {
	raw  string // 任意精度形态的精确字面量
	bits uint64
	kind numKind
}

// IntNumber 构造整数。非负值归一为无符号形态。
func IntNumber(i int64) Number {
	if i >= 0 {
		return Number{bits: uint64(i), kind: numUint}
	}
	return Number{bits: uint64(i), kind: numInt}
}

// UintNumber 构造无符号整数。
func UintNumber(u uint64) Number {
	return Number{bits: u, kind: numUint}
}

// FloatNumber 构造浮点数。NaN 与 ±Inf 直接报数据错误。
func FloatNumber(f float64) (Number, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Number{}, dataErr(msgNonFinite, "")
	}
	return Number{bits: math.Float64bits(f), kind: numFloat}, nil
}

// BigNumber 用精确文本构造任意精度数字,文本必须是合法的数字字面量。
func BigNumber(lit string) (Number, error) {
	end, err := scanNum(lit, 0)
	if err != nil || end != len(lit) {
		return Number{}, syntaxErrNoPos(msgInvalidNumber, strconv.Quote(lit))
	}
	return Number{raw: lit, kind: numBig}, nil
}

// Int64 返回有符号整数值,形态不符或超出范围时 ok 为 false。
func (n Number) Int64() (int64, bool) {
	switch n.kind {
	case numUint:
		if n.bits <= math.MaxInt64 {
			return int64(n.bits), true
		}
	case numInt:
		return int64(n.bits), true
	case 0:
		return 0, true
	}
	return 0, false
}

// Uint64 返回无符号整数值,形态不符时 ok 为 false。
func (n Number) Uint64() (uint64, bool) {
	switch n.kind {
	case numUint:
		return n.bits, true
	case 0:
		return 0, true
	}
	return 0, false
}

// Float64 返回浮点值。整数形态做有损转换;
// 任意精度形态按需解析,超出 float64 范围时 ok 为 false。
func (n Number) Float64() (float64, bool) {
	switch n.kind {
	case numUint:
		return float64(n.bits), true
	case numInt:
		return float64(int64(n.bits)), true
	case numFloat:
		return math.Float64frombits(n.bits), true
	case numBig:
		f, err := strconv.ParseFloat(n.raw, 64)
		if err != nil || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, true
}

// IsFloat 报告数字是否为浮点形态。
func (n Number) IsFloat() bool { return n.kind == numFloat }

// IsBig 报告数字是否为任意精度形态。
func (n Number) IsBig() bool { return n.kind == numBig }

// String 返回数字的文本形式。
// 任意精度形态原样返回,其余形态按标准形式渲染。
func (n Number) String() string {
	switch n.kind {
	case numBig:
		return n.raw
	case numFloat:
		return string(appendFloat(nil, math.Float64frombits(n.bits), -1))
	case numInt:
		return strconv.FormatInt(int64(n.bits), 10)
	default:
		return strconv.FormatUint(n.bits, 10)
	}
}

// Equal 比较两个数字。整数与浮点形态互不相等,
// 任意精度形态按原始文本比较。
func (n Number) Equal(m Number) bool {
	k1, k2 := n.kind, m.kind
	if k1 == 0 {
		k1 = numUint
	}
	if k2 == 0 {
		k2 = numUint
	}
	if k1 != k2 {
		return false
	}
	if k1 == numBig {
		return n.raw == m.raw
	}
	return n.bits == m.bits
}

// ─── 字面量分类 ───

// classifyNum 把语法合法的字面量归类为具体数值。
// 溢出 float64 可表示范围时 ok 为 false。
func classifyNum(lit string) (Number, bool) {
	pointy := false
	for k := 0; k < len(lit); k++ {
		if c := lit[k]; c == '.' || c == 'e' || c == 'E' {
			pointy = true
			break
		}
	}
	if !pointy {
		if lit[0] == '-' {
			if v, ok := parseNegInt(lit); ok {
				if v == 0 {
					// "-0" 保留符号位,归入浮点
					return Number{bits: math.Float64bits(math.Copysign(0, -1)), kind: numFloat}, true
				}
				return Number{bits: uint64(v), kind: numInt}, true
			}
		} else if v, ok := parseUintLit(lit); ok {
			return Number{bits: v, kind: numUint}, true
		}
		// 溢出 64 位整数,退回浮点
	}
	f, ok := parseFloatLit(lit)
	if !ok {
		return Number{}, false
	}
	return Number{bits: math.Float64bits(f), kind: numFloat}, true
}

// parseUintLit 解析十进制非负整数,溢出时 ok 为 false。
// 调用方保证字面量只含数字。
func parseUintLit(lit string) (uint64, bool) {
	var n uint64
	for k := 0; k < len(lit); k++ {
		d := uint64(lit[k] - '0')
		if n > (math.MaxUint64-d)/10 {
			return 0, false
		}
		n = n*10 + d
	}
	return n, true
}

// parseNegInt 解析带负号的十进制整数,低于 int64 下界时 ok 为 false。
func parseNegInt(lit string) (int64, bool) {
	const cutoff = uint64(math.MaxInt64) + 1
	var n uint64
	for k := 1; k < len(lit); k++ {
		d := uint64(lit[k] - '0')
		if n > (cutoff-d)/10 {
			return 0, false
		}
		n = n*10 + d
	}
	return -int64(n), true
}

// parseFloatLit 解析浮点字面量。
// 尾数和指数都落在 float64 精确窗口内时走整数快路径,
// 其余交给 strconv 做正确舍入。溢出到无穷时 ok 为 false,
// 下溢到零按零接受。
func parseFloatLit(lit string) (float64, bool) {
	if mant, exp, neg, ok := splitFloat(lit); ok && mant < 1<<53 {
		var f float64
		switch {
		case exp == 0:
			f = float64(mant)
		case exp > 0 && exp <= 22:
			f = float64(mant) * pow10Tab[exp]
		case exp < 0 && exp >= -22:
			f = float64(mant) / pow10Tab[-exp]
		default:
			goto slow
		}
		if neg {
			f = -f
		}
		return f, true
	}
slow:
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil && math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// splitFloat 把字面量拆成十进制尾数与指数。
// 尾数位数超出 uint64 或指数过大时 ok 为 false,走慢路径。
func splitFloat(lit string) (mant uint64, exp int, neg, ok bool) {
	i, n := 0, len(lit)
	if lit[0] == '-' {
		neg = true
		i = 1
	}
	for ; i < n && lit[i] >= '0' && lit[i] <= '9'; i++ {
		if mant > (math.MaxUint64-9)/10 {
			return 0, 0, false, false
		}
		mant = mant*10 + uint64(lit[i]-'0')
	}
	if i < n && lit[i] == '.' {
		for i++; i < n && lit[i] >= '0' && lit[i] <= '9'; i++ {
			if mant > (math.MaxUint64-9)/10 {
				return 0, 0, false, false
			}
			mant = mant*10 + uint64(lit[i]-'0')
			exp--
		}
	}
	if i < n {
		i++
		esign := 1
		if lit[i] == '+' {
			i++
		} else if lit[i] == '-' {
			esign = -1
			i++
		}
		e := 0
		for ; i < n; i++ {
			if e > 1<<16 {
				return 0, 0, false, false
			}
			e = e*10 + int(lit[i]-'0')
		}
		exp += esign * e
	}
	return mant, exp, neg, true
}

// pow10Tab 覆盖 float64 能精确表示的全部十次幂。
var pow10Tab = [...]float64{
	1e0, 1e1, 1e2, 1e3, 1e4, 1e5, 1e6, 1e7, 1e8, 1e9, 1e10, 1e11,
	1e12, 1e13, 1e14, 1e15, 1e16, 1e17, 1e18, 1e19, 1e20, 1e21, 1e22,
}

// ─── 渲染 ───

// appendUint 渲染无符号整数,两位以内走快路径。
func appendUint(dst []byte, v uint64) []byte {
	if v < 10 {
		return append(dst, byte('0'+v))
	}
	if v < 100 {
		return append(dst, byte('0'+v/10), byte('0'+v%10))
	}
	return strconv.AppendUint(dst, v, 10)
}

// appendIntDec 渲染有符号整数。
func appendIntDec(dst []byte, v int64) []byte {
	if v >= 0 {
		return appendUint(dst, uint64(v))
	}
	if v > -100 {
		return appendUint(append(dst, '-'), uint64(-v))
	}
	return strconv.AppendInt(dst, v, 10)
}

// appendFloat 渲染有限浮点,调用方保证 f 不是 NaN 或 ±Inf。
// prec 为 -1 时输出最短往返形式:±1e15 内的整值直接走整数渲染,
// 绝对值落到 [1e-6, 1e21) 之外用指数记法并去掉指数前导零。
// 输出始终带小数点或指数标记,反解析仍是浮点形态。
func appendFloat(dst []byte, f float64, prec int) []byte {
	start := len(dst)
	switch {
	case prec >= 0:
		dst = strconv.AppendFloat(dst, f, 'g', prec, 64)
	case f == math.Trunc(f) && f >= -1e15 && f <= 1e15:
		if f == 0 && math.Signbit(f) {
			dst = append(dst, '-', '0')
		} else {
			dst = appendIntDec(dst, int64(f))
		}
	default:
		abs := math.Abs(f)
		ffmt := byte('f')
		if abs < 1e-6 || abs >= 1e21 {
			ffmt = 'e'
		}
		dst = strconv.AppendFloat(dst, f, ffmt, -1, 64)
		if ffmt == 'e' {
			dst = trimExpZeros(dst, start)
		}
	}
	for i := start; i < len(dst); i++ {
		switch dst[i] {
		case '.', 'e', 'E':
			return dst
		}
	}
	return append(dst, '.', '0')
}

// trimExpZeros 去掉指数部分的前导零,如 1e+06 改写为 1e+6。
func trimExpZeros(dst []byte, start int) []byte {
	tail := dst[start:]
	e := len(tail) - 1
	for e >= 0 && tail[e] != 'e' {
		e--
	}
	if e < 0 {
		return dst
	}
	j := e + 1
	if j < len(tail) && (tail[j] == '+' || tail[j] == '-') {
		j++
	}
	k := j
	for k < len(tail)-1 && tail[k] == '0' {
		k++
	}
	if k == j {
		return dst
	}
	n := copy(tail[j:], tail[k:])
	return dst[:start+j+n]
}
