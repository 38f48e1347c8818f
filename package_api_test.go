package tact

import (
	"bytes"
	"testing"
)

// TestPackageAPIDefault 验证 Default() 返回共享的默认 Codec
func TestPackageAPIDefault(t *testing.T) {
	c := Default()
	if c == nil {
		t.Fatal("Default() returned nil")
	}
	if c != Default() {
		t.Error("Default() should return the same instance")
	}
	cfg := c.Config()
	if cfg.MaxDepth != DefaultMaxDepth || cfg.HashMaps || cfg.BigNumbers {
		t.Errorf("default config unexpected: %+v", cfg)
	}
}

// TestPackageAPIParseMarshal 包级 API 基本流程:解析→读取→编码
func TestPackageAPIParseMarshal(t *testing.T) {
	v, err := Parse(`{"name":"yak","tags":["a","b"],"n":3}`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got := v.GetString("name"); got != "yak" {
		t.Errorf("name = %q", got)
	}
	if got := v.Get("tags").Len(); got != 2 {
		t.Errorf("tags len = %d", got)
	}

	out, err := Marshal(v)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(out) != `{"name":"yak","tags":["a","b"],"n":3}` {
		t.Errorf("Marshal = %s", out)
	}
}

// TestPackageAPIParseBytes 字节输入不取副本也能建树
func TestPackageAPIParseBytes(t *testing.T) {
	buf := []byte(`[1, 2, 3]`)
	v, err := ParseBytes(buf)
	if err != nil {
		t.Fatalf("ParseBytes failed: %v", err)
	}
	if v.Len() != 3 {
		t.Errorf("len = %d", v.Len())
	}
}

// TestPackageAPIParseWith Sink 驱动不建树,错误原样上抛
func TestPackageAPIParseWith(t *testing.T) {
	if err := ParseWith(`{"a": [1, 2]}`, Discard); err != nil {
		t.Errorf("ParseWith valid doc: %v", err)
	}
	if err := ParseWith(`{"a": }`, Discard); err == nil || !IsSyntax(err) {
		t.Errorf("ParseWith bad doc: %v", err)
	}
}

// TestPackageAPIValid 校验不建树,真假各走一遍
func TestPackageAPIValid(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{`{"a":1}`, true},
		{`[]`, true},
		{`null`, true},
		{`-0.5e3`, true},
		{``, false},
		{`{`, false},
		{`[1,]`, false},
		{`1 2`, false},
		{`nul`, false},
	}
	for _, tc := range cases {
		if got := Valid(tc.in); got != tc.ok {
			t.Errorf("Valid(%q) = %v, want %v", tc.in, got, tc.ok)
		}
		if got := ValidBytes([]byte(tc.in)); got != tc.ok {
			t.Errorf("ValidBytes(%q) = %v, want %v", tc.in, got, tc.ok)
		}
	}
}

// TestPackageAPIRaw 原文截取保留值内部的空白
func TestPackageAPIRaw(t *testing.T) {
	raw, err := Raw("  { \"a\" : [ 1 ] }  ")
	if err != nil {
		t.Fatalf("Raw failed: %v", err)
	}
	if string(raw) != `{ "a" : [ 1 ] }` {
		t.Errorf("Raw = %q", raw)
	}
	if _, err := Raw("{bad"); err == nil {
		t.Error("Raw should reject malformed input")
	}
}

// TestPackageAPIMinifyReformat 转码双向往返
func TestPackageAPIMinifyReformat(t *testing.T) {
	pretty, err := Reformat(`{"a":[1,2],"b":{"c":null}}`)
	if err != nil {
		t.Fatalf("Reformat failed: %v", err)
	}
	want := "{\n  \"a\": [\n    1,\n    2\n  ],\n  \"b\": {\n    \"c\": null\n  }\n}"
	if string(pretty) != want {
		t.Errorf("Reformat:\n%s\nwant:\n%s", pretty, want)
	}

	compact, err := Minify(string(pretty))
	if err != nil {
		t.Fatalf("Minify failed: %v", err)
	}
	if string(compact) != `{"a":[1,2],"b":{"c":null}}` {
		t.Errorf("Minify = %s", compact)
	}

	// 已经紧凑的输入再压一遍不变
	again, _ := Minify(string(compact))
	if !bytes.Equal(again, compact) {
		t.Error("Minify not idempotent")
	}
}

// TestPackageAPITranscodeRejectsBad 转码对畸形输入报错不产出
func TestPackageAPITranscodeRejectsBad(t *testing.T) {
	if _, err := Minify(`{"a":`); err == nil {
		t.Error("Minify should reject malformed input")
	}
	if _, err := Reformat(`[1,,2]`); err == nil {
		t.Error("Reformat should reject malformed input")
	}
}

// TestPackageAPIMarshalWrite 编码直写外部输出端
func TestPackageAPIMarshalWrite(t *testing.T) {
	v, _ := Parse(`{"x":1}`)
	var buf bytes.Buffer
	if err := MarshalWrite(&buf, v); err != nil {
		t.Fatalf("MarshalWrite failed: %v", err)
	}
	if buf.String() != `{"x":1}` {
		t.Errorf("wrote %q", buf.String())
	}
}

// TestPackageAPIPools 池化取还配对使用
func TestPackageAPIPools(t *testing.T) {
	p := AcquireParser()
	v, err := p.Parse(`{"k":"v"}`)
	if err != nil {
		t.Fatalf("pooled parse failed: %v", err)
	}
	if v.GetString("k") != "v" {
		t.Errorf("pooled parse tree wrong: %s", v)
	}
	ReleaseParser(p)

	w := AcquireWriter()
	w.Array(func(w *Writer) { w.ItemInt(1) })
	if w.String() != "[1]" {
		t.Errorf("pooled writer wrote %q", w.String())
	}
	ReleaseWriter(w)
}
