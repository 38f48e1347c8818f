package tact

// ─── 配置 ───

// Config 汇总解析与编码两侧的全部开关。
// 零值经 normalize 补齐后等价于默认配置,
// 各字段的未设置态都有明确解释,见 normalize。
//
// 字段按大小降序排列,减少 padding。
type Config struct {
	// Indent 是缩进输出时每层的缩进单位。
	Indent string

	// MaxDepth 是解析时容器嵌套的上限,
	// 进入第 MaxDepth+1 层前就拒绝,栈不会先炸。
	// 取负表示不设防,只信任受控输入时才这么用。
	MaxDepth int

	// FloatPrecision 控制浮点输出:负值用最短往返表示,
	// 非负值按有效数字位数截断。
	FloatPrecision int

	// HashMaps 让对象用哈希核,放弃成员顺序换取大对象的查找速度。
	HashMaps bool

	// BigNumbers 让数字保留原始字面量,不折叠进 64 位表示。
	BigNumbers bool

	// CopyStrings 让树持有字符串副本,不再借用输入缓冲。
	CopyStrings bool

	// EscapeNonASCII 让输出只含 7 位字符,非 ASCII 全部 \uXXXX 转义。
	EscapeNonASCII bool
}

// defaultConfig 返回默认配置:
// 保序对象、借用字符串、64 位数字、最短往返浮点、两空格缩进。
func defaultConfig() Config {
	return Config{
		Indent:         "  ",
		MaxDepth:       DefaultMaxDepth,
		FloatPrecision: -1,
	}
}

// normalize 把未设置的字段补成默认值。
// MaxDepth 零当作未设置,负值保留原义(不设防);
// FloatPrecision 零当作未设置;Indent 空串当作未设置。
func (c Config) normalize() Config {
	if c.MaxDepth == 0 {
		c.MaxDepth = DefaultMaxDepth
	}
	if c.FloatPrecision == 0 {
		c.FloatPrecision = -1
	}
	if c.Indent == "" {
		c.Indent = "  "
	}
	return c
}

// ─── 预设 ───

// speedConfig 吞吐优先:哈希对象核,其余保持默认。
func speedConfig() Config {
	c := defaultConfig()
	c.HashMaps = true
	return c
}

// fidelityConfig 保真优先:数字保留字面量,字符串自有,
// 解析结果与输入缓冲完全解耦,重编码逐字节还原数字。
func fidelityConfig() Config {
	c := defaultConfig()
	c.BigNumbers = true
	c.CopyStrings = true
	return c
}

// transportConfig 传输优先:输出纯 ASCII,树与输入解耦,
// 适合落日志、过只认 ASCII 的老旧通道。
func transportConfig() Config {
	c := defaultConfig()
	c.EscapeNonASCII = true
	c.CopyStrings = true
	return c
}

// scenarios 把场景名映射到预设配置。
var scenarios = map[string]func() Config{
	"default":   defaultConfig,
	"speed":     speedConfig,
	"fidelity":  fidelityConfig,
	"transport": transportConfig,
}

// ─── 选项 ───

// Option 在默认配置上调整一项开关,传给 New 组合生效。
type Option func(*Config)

// WithMaxDepth 设定解析递归上限。负值不设防,零恢复默认。
func WithMaxDepth(n int) Option {
	return func(c *Config) { c.MaxDepth = n }
}

// WithHashMaps 让对象用哈希核。
func WithHashMaps() Option {
	return func(c *Config) { c.HashMaps = true }
}

// WithBigNumbers 让数字保留原始字面量。
func WithBigNumbers() Option {
	return func(c *Config) { c.BigNumbers = true }
}

// WithCopyStrings 让树持有字符串副本。
func WithCopyStrings() Option {
	return func(c *Config) { c.CopyStrings = true }
}

// WithEscapeNonASCII 让输出只含 7 位字符。
func WithEscapeNonASCII() Option {
	return func(c *Config) { c.EscapeNonASCII = true }
}

// WithIndent 设定缩进单位,空串恢复默认的两空格。
func WithIndent(s string) Option {
	return func(c *Config) { c.Indent = s }
}

// WithFloatPrecision 设定浮点输出的有效数字位数,负值用最短往返表示。
func WithFloatPrecision(n int) Option {
	return func(c *Config) { c.FloatPrecision = n }
}
