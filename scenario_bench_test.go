package tact

import "testing"

// 场景基准共用同一份语料,差异只来自配置。
var scenarioDoc = `{"order":"A-20260341","amount":1299.990000000000000001,` +
	`"customer":"宮本 すず","items":[{"sku":"K-1","qty":2},{"sku":"K-9","qty":1}],` +
	`"paid":true,"note":null}`

func benchScenarioParse(b *testing.B, c *Codec) {
	b.SetBytes(int64(len(scenarioDoc)))
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := c.Parse(scenarioDoc); err != nil {
			b.Fatal(err)
		}
	}
}

func benchScenarioRoundTrip(b *testing.B, c *Codec) {
	v, err := c.Parse(scenarioDoc)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := c.Marshal(v); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkScenarioDefaultParse 基准测试默认场景解析
func BenchmarkScenarioDefaultParse(b *testing.B) {
	benchScenarioParse(b, New())
}

// BenchmarkScenarioSpeedParse 基准测试高吞吐场景解析
func BenchmarkScenarioSpeedParse(b *testing.B) {
	benchScenarioParse(b, ForSpeed())
}

// BenchmarkScenarioFidelityParse 基准测试保真场景解析(字面量直存)
func BenchmarkScenarioFidelityParse(b *testing.B) {
	benchScenarioParse(b, ForFidelity())
}

// BenchmarkScenarioTransportParse 基准测试传输场景解析
func BenchmarkScenarioTransportParse(b *testing.B) {
	benchScenarioParse(b, ForTransport())
}

// BenchmarkScenarioDefaultMarshal 基准测试默认场景编码
func BenchmarkScenarioDefaultMarshal(b *testing.B) {
	benchScenarioRoundTrip(b, New())
}

// BenchmarkScenarioSpeedMarshal 基准测试高吞吐场景编码
func BenchmarkScenarioSpeedMarshal(b *testing.B) {
	benchScenarioRoundTrip(b, ForSpeed())
}

// BenchmarkScenarioFidelityMarshal 基准测试保真场景编码(字面量回放)
func BenchmarkScenarioFidelityMarshal(b *testing.B) {
	benchScenarioRoundTrip(b, ForFidelity())
}

// BenchmarkScenarioTransportMarshal 基准测试传输场景编码(全 ASCII 输出)
func BenchmarkScenarioTransportMarshal(b *testing.B) {
	benchScenarioRoundTrip(b, ForTransport())
}
