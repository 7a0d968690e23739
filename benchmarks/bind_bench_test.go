package benchmarks_test

import (
	"bytes"
	"strconv"
	"testing"

	"github.com/reoring/typemix"
	jsonfmt "github.com/reoring/typemix/format/json"
	"github.com/reoring/typemix/samples"
)

// ---- Helpers ----

// generateHumans returns a JSON array of n humans with k favorites each.
func generateHumans(n, k int) []byte {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i := 0; i < n; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(`{"id":` + strconv.Itoa(i) + `,"name":"h` + strconv.Itoa(i) + `","favorites":[`)
		for j := 0; j < k; j++ {
			if j > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(`{"name":"f` + strconv.Itoa(j) + `","namesByLang":{"en":"x","ja":"y"}}`)
		}
		buf.WriteString(`]}`)
	}
	buf.WriteByte(']')
	return buf.Bytes()
}

func decodeOrFatal(tb testing.TB, data []byte) any {
	tb.Helper()
	raw, err := jsonfmt.Decode(data, jsonfmt.DecodeOptions{})
	if err != nil {
		tb.Fatalf("decode: %v", err)
	}
	return raw
}

// ---- Benchmarks ----

func BenchmarkDecodeJSON(b *testing.B) {
	data := generateHumans(100, 5)
	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := jsonfmt.Decode(data, jsonfmt.DecodeOptions{}); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkBindList(b *testing.B) {
	raw := decodeOrFatal(b, generateHumans(100, 5))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := typemix.BindList[samples.Human](raw); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkBindList_PreserveKeys(b *testing.B) {
	raw := decodeOrFatal(b, generateHumans(100, 5))
	opt := typemix.BindOpt{PreserveKeys: true, AllowUnknown: true}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := typemix.BindList[samples.Human](raw, opt); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkProject(b *testing.B) {
	hs, err := typemix.BindJSONList[samples.Human](generateHumans(100, 5))
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := typemix.Project(hs); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkToJSON(b *testing.B) {
	hs, err := typemix.BindJSONList[samples.Human](generateHumans(100, 5))
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := typemix.ToJSON(hs); err != nil {
			b.Fatal(err)
		}
	}
}
