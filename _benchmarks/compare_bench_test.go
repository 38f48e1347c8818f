// Package compare 竞品基准对比测试
//
// 测试场景说明:
//   - Parse_Small:  小文档建树(核心热路径)
//   - Parse_Medium: 中等文档建树(吞吐)
//   - Valid:        纯语法校验(不建树)
//   - Marshal:      树到紧凑文本
//
// 被测库:
//   - tact            — 本项目(含池化复用变体)
//   - encoding/json   — 标准库基线(reflect)
//   - json-iterator   — 兼容标准库 API 的流式实现
//   - valyala/fastjson — 免分配解析器(本项目树模型的同类)
//
// 运行方式:
//
//	cd _benchmarks
//	go test -bench=. -benchmem -benchtime=3s -count=3 -run=^$ | tee results.txt
package compare

import (
	"encoding/json"
	"strconv"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fastjson"

	"github.com/uniyakcom/tact"
)

var (
	smallDoc = `{"id":123,"name":"tact","ok":true,"score":98.6}`

	mediumDoc = func() string {
		var sb strings.Builder
		sb.WriteString(`{"records":[`)
		for i := 0; i < 200; i++ {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(`{"seq":`)
			sb.WriteString(strconv.Itoa(i))
			sb.WriteString(`,"host":"node-`)
			sb.WriteString(strconv.Itoa(i % 16))
			sb.WriteString(`","load":0.`)
			sb.WriteString(strconv.Itoa(10 + i%90))
			sb.WriteString(`,"up":true,"zone":null}`)
		}
		sb.WriteString(`],"count":200}`)
		return sb.String()
	}()

	smallBytes  = []byte(smallDoc)
	mediumBytes = []byte(mediumDoc)

	jsonit = jsoniter.ConfigCompatibleWithStandardLibrary
)

// ═══════════════════════════════════════════════════════════════════
// tact
// ═══════════════════════════════════════════════════════════════════

func BenchmarkTact_Parse_Small(b *testing.B) {
	b.SetBytes(int64(len(smallDoc)))
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := tact.Parse(smallDoc); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkTact_Parse_Medium(b *testing.B) {
	b.SetBytes(int64(len(mediumDoc)))
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := tact.Parse(mediumDoc); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkTact_Parse_Medium_Pooled(b *testing.B) {
	p := tact.AcquireParser()
	defer tact.ReleaseParser(p)

	b.SetBytes(int64(len(mediumDoc)))
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := p.Parse(mediumDoc); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkTact_Valid(b *testing.B) {
	b.SetBytes(int64(len(mediumDoc)))
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if !tact.Valid(mediumDoc) {
			b.Fatal("invalid")
		}
	}
}

func BenchmarkTact_Marshal(b *testing.B) {
	v, err := tact.Parse(mediumDoc)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := tact.Marshal(v); err != nil {
			b.Fatal(err)
		}
	}
}

// ═══════════════════════════════════════════════════════════════════
// encoding/json
// ═══════════════════════════════════════════════════════════════════

func BenchmarkStdlib_Parse_Small(b *testing.B) {
	b.SetBytes(int64(len(smallBytes)))
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		var v any
		if err := json.Unmarshal(smallBytes, &v); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkStdlib_Parse_Medium(b *testing.B) {
	b.SetBytes(int64(len(mediumBytes)))
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		var v any
		if err := json.Unmarshal(mediumBytes, &v); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkStdlib_Valid(b *testing.B) {
	b.SetBytes(int64(len(mediumBytes)))
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if !json.Valid(mediumBytes) {
			b.Fatal("invalid")
		}
	}
}

func BenchmarkStdlib_Marshal(b *testing.B) {
	var v any
	if err := json.Unmarshal(mediumBytes, &v); err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := json.Marshal(v); err != nil {
			b.Fatal(err)
		}
	}
}

// ═══════════════════════════════════════════════════════════════════
// json-iterator
// ═══════════════════════════════════════════════════════════════════

func BenchmarkJsoniter_Parse_Small(b *testing.B) {
	b.SetBytes(int64(len(smallBytes)))
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		var v any
		if err := jsonit.Unmarshal(smallBytes, &v); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkJsoniter_Parse_Medium(b *testing.B) {
	b.SetBytes(int64(len(mediumBytes)))
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		var v any
		if err := jsonit.Unmarshal(mediumBytes, &v); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkJsoniter_Valid(b *testing.B) {
	b.SetBytes(int64(len(mediumBytes)))
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if !jsonit.Valid(mediumBytes) {
			b.Fatal("invalid")
		}
	}
}

func BenchmarkJsoniter_Marshal(b *testing.B) {
	var v any
	if err := jsonit.Unmarshal(mediumBytes, &v); err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := jsonit.Marshal(v); err != nil {
			b.Fatal(err)
		}
	}
}

// ═══════════════════════════════════════════════════════════════════
// valyala/fastjson
// ═══════════════════════════════════════════════════════════════════

func BenchmarkFastjson_Parse_Small(b *testing.B) {
	var p fastjson.Parser
	b.SetBytes(int64(len(smallDoc)))
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := p.Parse(smallDoc); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkFastjson_Parse_Medium(b *testing.B) {
	var p fastjson.Parser
	b.SetBytes(int64(len(mediumDoc)))
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := p.Parse(mediumDoc); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkFastjson_Valid(b *testing.B) {
	b.SetBytes(int64(len(mediumDoc)))
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if err := fastjson.Validate(mediumDoc); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkFastjson_Marshal(b *testing.B) {
	var p fastjson.Parser
	v, err := p.Parse(mediumDoc)
	if err != nil {
		b.Fatal(err)
	}
	buf := make([]byte, 0, len(mediumDoc))
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		buf = v.MarshalTo(buf[:0])
	}
}
