package tact

import (
	"math"
	"strings"
	"testing"
)

// TestWriterCompactObject 链式构建的紧凑输出逐字节可预期
func TestWriterCompactObject(t *testing.T) {
	w := NewWriter()
	w.Object(func(w *Writer) {
		w.Field("name", "beacon")
		w.FieldInt("port", 8080)
		w.FieldBool("tls", true)
		w.FieldNull("note")
		w.FieldFloat("load", 0.5)
		w.FieldArray("tags", func(w *Writer) {
			w.Item("a")
			w.Item("b")
		})
		w.FieldObject("meta", func(w *Writer) {
			w.FieldUint64("id", 18446744073709551615)
		})
	})
	if err := w.Err(); err != nil {
		t.Fatalf("Err: %v", err)
	}
	want := `{"name":"beacon","port":8080,"tls":true,"note":null,"load":0.5,` +
		`"tags":["a","b"],"meta":{"id":18446744073709551615}}`
	if got := w.String(); got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

// TestWriterPrettyLayout 缩进模式的换行、缩进与冒号空格
func TestWriterPrettyLayout(t *testing.T) {
	w := Default().PrettyWriter()
	defer ReleaseWriter(w)
	w.Object(func(w *Writer) {
		w.FieldInt("a", 1)
		w.FieldArray("arr", func(w *Writer) {
			w.ItemInt(1)
			w.ItemInt(2)
		})
		w.FieldObject("o", func(w *Writer) {})
	})
	if err := w.Err(); err != nil {
		t.Fatalf("Err: %v", err)
	}
	want := "{\n  \"a\": 1,\n  \"arr\": [\n    1,\n    2\n  ],\n  \"o\": {}\n}"
	if got := w.String(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

// TestWriterEmptyContainers 空容器不换行不留空腔
func TestWriterEmptyContainers(t *testing.T) {
	w := Default().PrettyWriter()
	defer ReleaseWriter(w)
	w.Array(func(w *Writer) {})
	if got := w.String(); got != "[]" {
		t.Errorf("empty array = %q", got)
	}
	w.Reset()
	w.Object(func(w *Writer) {})
	if got := w.String(); got != "{}" {
		t.Errorf("empty object = %q", got)
	}
}

// TestWriterStickyError 首错截断后续所有写入
func TestWriterStickyError(t *testing.T) {
	w := NewWriter()
	w.Object(func(w *Writer) {
		w.FieldInt("a", 1)
		w.FieldFloat("bad", math.NaN())
		w.FieldInt("b", 2)
	})
	err := w.Err()
	if err == nil {
		t.Fatal("NaN should fail")
	}
	if !IsData(err) {
		t.Errorf("category = %v, want data", err)
	}
	if strings.Contains(w.String(), "\"b\"") {
		t.Error("writes after the error must not land")
	}
	if w.Float(math.Inf(1)) != err {
		t.Error("later calls should repeat the first error")
	}
}

// TestWriterProtocolViolations 乱序驱动一律报数据错误
func TestWriterProtocolViolations(t *testing.T) {
	cases := []struct {
		name  string
		drive func(w *Writer)
	}{
		{"value before key", func(w *Writer) { w.BeginObject(); w.Int(1) }},
		{"key at top level", func(w *Writer) { w.Key("k", false) }},
		{"key after key", func(w *Writer) { w.BeginObject(); w.Key("a", false); w.Key("b", false) }},
		{"key in array", func(w *Writer) { w.BeginArray(); w.Key("k", false) }},
		{"end without begin", func(w *Writer) { w.EndArray() }},
		{"array closed as object", func(w *Writer) { w.BeginArray(); w.EndObject() }},
		{"object closed as array", func(w *Writer) { w.BeginObject(); w.EndArray() }},
		{"dangling key", func(w *Writer) { w.BeginObject(); w.Key("k", false); w.EndObject() }},
	}
	for _, tc := range cases {
		w := NewWriter()
		tc.drive(w)
		if err := w.Err(); err == nil || !IsData(err) {
			t.Errorf("%s: err = %v, want data error", tc.name, err)
		}
	}
}

// TestWriterEscaping 默认转义:控制字节、引号、反斜杠,其余原样
func TestWriterEscaping(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`he said "hi"`, `"he said \"hi\""`},
		{`c:\tmp`, `"c:\\tmp"`},
		{"line1\nline2", `"line1\nline2"`},
		{"a\rb\tc", `"a\rb\tc"`},
		{"nul\x00bel\x07", `"nul\u0000bel\u0007"`},
		{"path/to/x", `"path/to/x"`},
		{"café 😀", "\"café 😀\""},
		{"", `""`},
	}
	for _, tc := range cases {
		w := NewWriter()
		w.Str(tc.in, false)
		if got := w.String(); got != tc.want {
			t.Errorf("Str(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

// TestWriterEscapeNonASCII 七位安全模式:非 ASCII 全转 \uXXXX
func TestWriterEscapeNonASCII(t *testing.T) {
	c := ForTransport()
	cases := []struct {
		in   string
		want string
	}{
		{"café", `"caf\u00e9"`},
		{"中文", `"\u4e2d\u6587"`},
		{"😀", `"\ud83d\ude00"`},
		{"a\x01b", `"a\u0001b"`},
		{"ok", `"ok"`},
		{"a\xffb", `"a\ufffdb"`},
	}
	for _, tc := range cases {
		w := c.Writer()
		w.Str(tc.in, false)
		got := w.String()
		ReleaseWriter(w)
		if got != tc.want {
			t.Errorf("Str(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

// TestWriterNumberForms 整数、浮点、精确字面量的落盘形态
func TestWriterNumberForms(t *testing.T) {
	w := NewWriter()
	w.Array(func(w *Writer) {
		w.ItemInt64(math.MinInt64)
		w.ItemUint64(math.MaxUint64)
		w.ItemFloat(3)
		w.ItemFloat(0.1)
		w.ItemFloat(1e21)
		w.ItemNumber(mustBig(t, "1.2500e2"))
	})
	if err := w.Err(); err != nil {
		t.Fatalf("Err: %v", err)
	}
	want := `[-9223372036854775808,18446744073709551615,3.0,0.1,1e+21,1.2500e2]`
	if got := w.String(); got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

// TestWriterFloatPrecision 定点精度贯穿 Float 与浮点形态的 Number
func TestWriterFloatPrecision(t *testing.T) {
	w := Options(WithFloatPrecision(3)).Writer()
	defer ReleaseWriter(w)
	w.Array(func(w *Writer) {
		w.ItemFloat(0.123456)
		w.ItemNumber(mustFloat(t, 2.71828))
	})
	want := `[0.123,2.72]`
	if got := w.String(); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

// TestWriterRawSplice 原文片段原样拼接,内部空白不动
func TestWriterRawSplice(t *testing.T) {
	w := NewWriter()
	w.Object(func(w *Writer) {
		w.FieldRaw("cfg", `{"x": 1}`)
		w.FieldInt("n", 2)
	})
	want := `{"cfg":{"x": 1},"n":2}`
	if got := w.String(); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

// TestWriterBigNumberPassthrough 解析器驱动下精确字面量原样透传
func TestWriterBigNumberPassthrough(t *testing.T) {
	w := NewWriter()
	if err := w.BigNumber("123456789012345678901234567890"); err != nil {
		t.Fatalf("BigNumber: %v", err)
	}
	if got := w.String(); got != "123456789012345678901234567890" {
		t.Errorf("got %s", got)
	}
}

// TestWriterCycleGuard 自引用树触发深度保护而非栈溢出
func TestWriterCycleGuard(t *testing.T) {
	v := NewArray()
	v.a = append(v.a, v)
	_, err := Marshal(v)
	if !IsLimit(err) {
		t.Errorf("err = %v, want limit", err)
	}
}

// TestWriterResetReuse Reset 清内容清错误,配置与容量保留
func TestWriterResetReuse(t *testing.T) {
	w := NewWriter()
	w.Float(math.NaN())
	if w.Err() == nil {
		t.Fatal("expected error")
	}
	w.Reset()
	if w.Err() != nil || w.Len() != 0 {
		t.Fatal("Reset should clear error and content")
	}
	w.Int(7)
	if got := w.String(); got != "7" {
		t.Errorf("after reset got %q", got)
	}
}

// TestWriterAppendTo 内容追加进外部缓冲
func TestWriterAppendTo(t *testing.T) {
	w := NewWriter()
	w.Bool(true)
	dst := []byte("x=")
	dst = w.AppendTo(dst)
	if string(dst) != "x=true" {
		t.Errorf("AppendTo = %q", dst)
	}
}

// TestAcquireWriterDefaults 池里取出的实例回到默认配置
func TestAcquireWriterDefaults(t *testing.T) {
	w := ForTransport().PrettyWriter()
	ReleaseWriter(w)
	w2 := AcquireWriter()
	defer ReleaseWriter(w2)
	w2.Object(func(w *Writer) {
		w.Field("k", "é")
	})
	if got := w2.String(); got != `{"k":"é"}` {
		t.Errorf("pooled writer kept old config: %s", got)
	}
}
