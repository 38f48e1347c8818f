// Package optimize 提供负载画像与编解码配置推荐。
//
// 用法:先用 Preset 或 AutoDetect 拿到负载画像,可选地让 Advisor
// 采样几篇真实文档,再 Advise 出推荐结果,最后 Build 成 Codec:
//
//	a := optimize.NewAdvisor()
//	a.Observe(sampleDoc)
//	c := optimize.Build(a.Advise(optimize.Preset("api")))
package optimize

import "runtime"

// Auto 采样自动修正开关
type Auto struct {
	Enabled bool // 总开关(预设默认true)
	Depth   bool // 依采样调整嵌套上限
	Numbers bool // 依采样打开字面量直存
	Strings bool // 依采样打开 ASCII 全转义
}

// Profile 负载画像
type Profile struct {
	Name    string // 画像名称
	QPS     int    // 目标吞吐(篇/秒)
	Lookup  string // "light"/"heavy" 字段随机访问强度
	Transit string // "utf8"/"ascii" 下游通道宽容度
	Retain  string // "short"/"long" 树相对输入缓冲的存活期
	Rewrite bool   // 是否要求数字与顺序逐字节回写
	Workers int    // 并发解析协程数(0=取 CPU 核数)
	Auto    Auto   // 采样自动修正开关
}

// ═══════════════════════════════════════════════════════════════════
// 三大核心画像
// ═══════════════════════════════════════════════════════════════════

// API 网关接口负载
// 用途: RPC 载荷取字段、请求过滤、指标抽取
// 特点: 小文档高频解析,查字段多,树用完即弃
func API() *Profile {
	return &Profile{
		Name:    "api",
		QPS:     50000,
		Lookup:  "heavy",
		Transit: "utf8",
		Retain:  "short",
		Rewrite: false,
		Workers: 0,
		Auto: Auto{
			Enabled: true,
			Depth:   true,
			Numbers: true,
			Strings: false,
		},
	}
}

// Pipeline 日志事件管道负载
// 用途: 行式日志落盘、跨系统转发、只认 ASCII 的老旧通道
// 特点: 吞吐极高,输出须过七位通道,树用完即弃
func Pipeline() *Profile {
	return &Profile{
		Name:    "pipeline",
		QPS:     200000,
		Lookup:  "light",
		Transit: "ascii",
		Retain:  "short",
		Rewrite: false,
		Workers: 0,
		Auto: Auto{
			Enabled: true,
			Depth:   true,
			Numbers: false,
			Strings: true,
		},
	}
}

// Ledger 账务审计负载
// 用途: 金额与高精度计数、配置改写、审计回写
// 特点: 数字逐字节还原,成员顺序保持,树长期留存
func Ledger() *Profile {
	return &Profile{
		Name:    "ledger",
		QPS:     5000,
		Lookup:  "light",
		Transit: "utf8",
		Retain:  "long",
		Rewrite: true,
		Workers: 0,
		Auto: Auto{
			Enabled: true,
			Depth:   true,
			Numbers: true,
			Strings: true,
		},
	}
}

// ═══════════════════════════════════════════════════════════════════
// Presets
// ═══════════════════════════════════════════════════════════════════

// Presets 所有预设画像
var Presets = map[string]*Profile{
	"api":      API(),
	"pipeline": Pipeline(),
	"ledger":   Ledger(),
}

// Preset 获取预设画像
func Preset(name string) *Profile {
	if p, ok := Presets[name]; ok {
		// 返回副本,避免共享状态
		cp := *p
		return &cp
	}
	return API() // 默认使用 api 画像
}

// ═══════════════════════════════════════════════════════════════════
// 自动检测
// ═══════════════════════════════════════════════════════════════════

// AutoDetect 返回交给采样修正的中性画像:
// 从 api 画像出发,协程数取 CPU 核数,全部自动开关打开。
//
// Ledger 不会被自动选择 — 保真是业务语义,需显式指定。
func AutoDetect() *Profile {
	p := API()
	p.Name = "auto"
	p.Workers = runtime.NumCPU()
	p.Auto = Auto{Enabled: true, Depth: true, Numbers: true, Strings: true}
	return p
}
