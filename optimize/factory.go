package optimize

import "github.com/uniyakcom/tact"

// Build 根据推荐结果构建 Codec。
// 场景给出基调,Params 里的编解码项在其上叠加;
// "workers" 与 "pooled" 是给调用方的部署建议,不参与构建。
func Build(advised *Advised) *tact.Codec {
	opts := scenarioOpts(advised.Scenario)
	opts = append(opts, paramOpts(advised.Params)...)
	return tact.Options(opts...)
}

// scenarioOpts 把场景名展开为基础选项,未知名字按默认场景处理。
func scenarioOpts(name string) []tact.Option {
	switch name {
	case "speed":
		return []tact.Option{tact.WithHashMaps()}
	case "fidelity":
		return []tact.Option{tact.WithBigNumbers(), tact.WithCopyStrings()}
	case "transport":
		return []tact.Option{tact.WithEscapeNonASCII(), tact.WithCopyStrings()}
	default:
		return nil
	}
}

// paramOpts 把推荐参数展开为叠加选项。
func paramOpts(params map[string]any) []tact.Option {
	var opts []tact.Option
	if v, ok := params["maxDepth"]; ok {
		opts = append(opts, tact.WithMaxDepth(v.(int)))
	}
	if v, ok := params["bigNumbers"]; ok && v.(bool) {
		opts = append(opts, tact.WithBigNumbers())
	}
	if v, ok := params["copyStrings"]; ok && v.(bool) {
		opts = append(opts, tact.WithCopyStrings())
	}
	if v, ok := params["escapeNonASCII"]; ok && v.(bool) {
		opts = append(opts, tact.WithEscapeNonASCII())
	}
	if v, ok := params["floatPrecision"]; ok {
		opts = append(opts, tact.WithFloatPrecision(v.(int)))
	}
	if v, ok := params["indent"]; ok {
		opts = append(opts, tact.WithIndent(v.(string)))
	}
	return opts
}
