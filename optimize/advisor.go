package optimize

import (
	"math"
	"runtime"
	"strconv"

	"github.com/uniyakcom/tact"
)

// Advised 推荐结果
type Advised struct {
	Profile  *Profile
	Params   map[string]any
	Scenario string
}

// Advisor 推荐引擎。Observe 采样真实文档积累证据,
// Advise 结合画像与证据给出推荐。零值可直接使用。
type Advisor struct {
	samp sampler
}

// NewAdvisor 创建推荐引擎
func NewAdvisor() *Advisor {
	return &Advisor{}
}

// sampleCodec 采样解析用的配置:数字按字面量直推,嵌套不设防。
// 采样对象是调用方自己的流量,嵌套结构可信。
var sampleCodec = tact.Options(tact.WithBigNumbers(), tact.WithMaxDepth(-1))

// Observe 采样一篇文档,统计累积到下一次 Reset。
// 文档畸形时原样返回解析错误,统计不计入该篇。
func (a *Advisor) Observe(doc string) error {
	save := a.samp
	if err := sampleCodec.ParseWith(doc, &a.samp); err != nil {
		a.samp = save
		return err
	}
	a.samp.docs++
	a.samp.bytes += int64(len(doc))
	return nil
}

// Reset 清空已积累的采样统计。
func (a *Advisor) Reset() {
	a.samp = sampler{}
}

// Advise 根据画像与采样推荐配置
func (a *Advisor) Advise(p *Profile) *Advised {
	advised := &Advised{
		Profile: p,
		Params:  make(map[string]any),
	}

	// 场景归类(三预设:api / pipeline / ledger)
	switch p.Name {
	case "api":
		advised.Scenario = "speed"

	case "pipeline":
		advised.Scenario = "transport"

	case "ledger":
		advised.Scenario = "fidelity"

	default:
		// 画像字段推导:回写诉求最优先,通道其次,查找再次
		switch {
		case p.Rewrite:
			advised.Scenario = "fidelity"
		case p.Transit == "ascii":
			advised.Scenario = "transport"
		case p.Lookup == "heavy":
			advised.Scenario = "speed"
		default:
			advised.Scenario = "default"
		}
	}

	// 并发解析协程数(batch.NewPool 的池宽)
	w := p.Workers
	if w < 1 {
		w = runtime.NumCPU()
	}
	advised.Params["workers"] = w

	// 高频负载建议 Acquire/Release 复用解析器
	if p.QPS > 100000 {
		advised.Params["pooled"] = true
	}

	// 长存活期的树必须与输入缓冲解耦
	if p.Retain == "long" {
		advised.Params["copyStrings"] = true
	}

	// 采样修正
	if p.Auto.Enabled && a.samp.docs > 0 {
		a.tune(p, advised)
	}

	return advised
}

// tune 按采样证据修正推荐。
func (a *Advisor) tune(p *Profile, advised *Advised) {
	s := &a.samp

	// 64 位折叠还原不了的数字 → 字面量直存
	if p.Auto.Numbers && s.lossy > 0 {
		advised.Params["bigNumbers"] = true
	}

	// ASCII 通道遇上宽字符 → 全转义
	if p.Auto.Strings && s.wide > 0 && p.Transit == "ascii" {
		advised.Params["escapeNonASCII"] = true
	}

	if !p.Auto.Depth {
		return
	}
	switch {
	case s.deepest > tact.DefaultMaxDepth/2:
		// 嵌套逼近默认上限,留一倍余量
		advised.Params["maxDepth"] = s.deepest * 2
	case s.deepest <= 8 && p.QPS > 100000:
		// 浅文档高吞吐,收紧护栏
		advised.Params["maxDepth"] = 64
	}
}

// ─── 采样统计 ───

// Stats 采样统计快照
type Stats struct {
	Bytes   int64 // 已采样字节数
	Numbers int64 // 数字总数
	Lossy   int64 // 64 位折叠后还原不了的数字数
	Strings int64 // 字符串总数
	Wide    int64 // 含非 ASCII 字节的字符串数
	Escaped int64 // 含待转义字节的字符串数
	Keys    int64 // 对象键总数
	Arrays  int64 // 数组总数
	Objects int64 // 对象总数
	Docs    int   // 已采样文档数
	Deepest int   // 最深嵌套层数
}

// Stats 返回当前累积的采样统计。
func (a *Advisor) Stats() Stats {
	s := &a.samp
	return Stats{
		Bytes:   s.bytes,
		Numbers: s.nums,
		Lossy:   s.lossy,
		Strings: s.strs,
		Wide:    s.wide,
		Escaped: s.esc,
		Keys:    s.keys,
		Arrays:  s.arrays,
		Objects: s.objects,
		Docs:    s.docs,
		Deepest: s.deepest,
	}
}

// sampler 以 Sink 身份旁观一遍事件流,为推荐积累证据。
// 实现 BigNumberSink,采样配置下每个数字都以字面量到达。
type sampler struct {
	bytes   int64
	nums    int64
	lossy   int64
	strs    int64
	wide    int64
	esc     int64
	keys    int64
	arrays  int64
	objects int64
	docs    int
	depth   int
	deepest int
}

func (s *sampler) Null() error         { return nil }
func (s *sampler) Bool(bool) error     { return nil }
func (s *sampler) Int(int64) error     { s.nums++; return nil }
func (s *sampler) Uint(uint64) error   { s.nums++; return nil }
func (s *sampler) Float(float64) error { s.nums++; return nil }

func (s *sampler) BigNumber(raw string) error {
	s.nums++
	if !folds64(raw) {
		s.lossy++
	}
	return nil
}

func (s *sampler) Str(v string, _ bool) error {
	s.strs++
	s.note(v)
	return nil
}

func (s *sampler) Key(k string, _ bool) error {
	s.keys++
	s.note(k)
	return nil
}

func (s *sampler) BeginArray() error {
	s.arrays++
	return s.descend()
}

func (s *sampler) EndArray() error {
	s.depth--
	return nil
}

func (s *sampler) BeginObject() error {
	s.objects++
	return s.descend()
}

func (s *sampler) EndObject() error {
	s.depth--
	return nil
}

// descend 进一层并刷新最深记录。
func (s *sampler) descend() error {
	s.depth++
	if s.depth > s.deepest {
		s.deepest = s.depth
	}
	return nil
}

// note 记录字符串的宽字符与转义负担。
func (s *sampler) note(v string) {
	wide, esc := false, false
	for i := 0; i < len(v); i++ {
		switch c := v[i]; {
		case c >= 0x80:
			wide = true
		case c < 0x20 || c == '"' || c == '\\':
			esc = true
		}
	}
	if wide {
		s.wide++
	}
	if esc {
		s.esc++
	}
}

// folds64 报告字面量经默认的 64 位折叠再渲染后能否逐字节还原。
// 两侧都走公开构造与渲染,判据与实际回写逐位一致。
func folds64(lit string) bool {
	pointy := false
	for i := 0; i < len(lit); i++ {
		if c := lit[i]; c == '.' || c == 'e' || c == 'E' {
			pointy = true
			break
		}
	}
	// 18 位以内的整数字面量必然原样折叠;"-0" 例外,折叠成负零浮点
	if !pointy && len(lit) <= 18 && lit != "-0" {
		return true
	}
	if !pointy {
		if u, err := strconv.ParseUint(lit, 10, 64); err == nil {
			return tact.UintNumber(u).String() == lit
		}
		if v, err := strconv.ParseInt(lit, 10, 64); err == nil {
			return tact.IntNumber(v).String() == lit
		}
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil || math.IsInf(f, 0) {
		return false
	}
	n, err := tact.FloatNumber(f)
	if err != nil {
		return false
	}
	return n.String() == lit
}
