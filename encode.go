package tact

import "io"

// ─── 序列化 ───

// Appender 把自身编码进 Writer。
// 树、精确字面量、原文片段乃至调用方自定义的类型
// 都经这一个口子走同一套编码器。
type Appender interface {
	AppendJSON(w *Writer) error
}

// AppendJSON 把值编码进 w。
// 对象成员按容器自身的遍历顺序输出,不做任何排序;
// 同一棵树在保序容器下的输出因此是确定的。
func (v *Value) AppendJSON(w *Writer) error {
	if v == nil {
		return w.Null()
	}
	switch v.t {
	case TypeBool:
		return w.Bool(v.b)
	case TypeNumber:
		return w.Number(v.num)
	case TypeString:
		return w.Str(v.s, false)
	case TypeArray:
		if err := w.BeginArray(); err != nil {
			return err
		}
		for _, it := range v.a {
			if err := it.AppendJSON(w); err != nil {
				return err
			}
		}
		return w.EndArray()
	case TypeObject:
		return v.m.AppendJSON(w)
	default:
		return w.Null()
	}
}

// AppendJSON 把容器编码为对象。
func (m *Map) AppendJSON(w *Writer) error {
	if err := w.BeginObject(); err != nil {
		return err
	}
	var err error
	m.Range(func(k string, it *Value) bool {
		if err = w.Key(k, false); err != nil {
			return false
		}
		err = it.AppendJSON(w)
		return err == nil
	})
	if err != nil {
		return err
	}
	return w.EndObject()
}

// AppendJSON 把数字编码进 w。
func (n Number) AppendJSON(w *Writer) error { return w.Number(n) }

// String 返回树的紧凑编码,诊断打印用。
// 编码失败时返回带尖括号的错误描述。
func (v *Value) String() string {
	w := AcquireWriter()
	defer ReleaseWriter(w)
	if err := v.AppendJSON(w); err != nil {
		return "<" + err.Error() + ">"
	}
	return string(w.buf)
}

// marshalAppender 用指定配置编码一个值,返回独立副本。
func marshalAppender(a Appender, cfg Config, pretty bool) ([]byte, error) {
	w := acquireWriter(cfg, pretty)
	defer ReleaseWriter(w)
	if err := runAppender(a, w); err != nil {
		return nil, err
	}
	return append([]byte(nil), w.buf...), nil
}

// marshalWrite 编码完成后整段写给 out,失败与成功都只触发一次 Write。
func marshalWrite(out io.Writer, a Appender, cfg Config, pretty bool) error {
	w := acquireWriter(cfg, pretty)
	defer ReleaseWriter(w)
	if err := runAppender(a, w); err != nil {
		return err
	}
	if _, err := out.Write(w.buf); err != nil {
		return writeErr(err)
	}
	return nil
}

// runAppender 驱动编码并核对收尾状态。
// 自定义 Appender 少关了容器或吞了错误,这里兜底报出来。
func runAppender(a Appender, w *Writer) error {
	var err error
	if a == nil {
		err = w.Null()
	} else {
		err = a.AppendJSON(w)
	}
	if err == nil {
		err = w.Err()
	}
	if err != nil {
		return err
	}
	if len(w.stack) != 0 {
		return dataErr("sink protocol violation", "unclosed container")
	}
	return nil
}
