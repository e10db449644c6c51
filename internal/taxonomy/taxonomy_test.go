package taxonomy

import (
	"reflect"
	"testing"
)

const sampleYAML = `
datetime.timestamp.iso_8601:
  title: "ISO 8601"
  description: "标准国际日期时间格式"
  designation: universal
  locales: [UNIVERSAL]
  broad_type: TIMESTAMP
  format_string: "%Y-%m-%dT%H:%M:%SZ"
  validation:
    type: string
    pattern: "^\\d{4}-\\d{2}-\\d{2}T\\d{2}:\\d{2}:\\d{2}Z$"
    minLength: 20
    maxLength: 20
  tier: [TIMESTAMP, timestamp]
  release_priority: 5
  aliases: [big_endian]
  samples:
    - "2024-01-15T10:30:00Z"
`

func TestParseYAML(t *testing.T) {
	tax, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if tax.Len() != 1 {
		t.Errorf("expected 1 definition, got %d", tax.Len())
	}
	if !reflect.DeepEqual(tax.Labels(), []string{"datetime.timestamp.iso_8601"}) {
		t.Errorf("unexpected labels: %v", tax.Labels())
	}
}

func TestGetDefinition(t *testing.T) {
	tax, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	def, ok := tax.Get("datetime.timestamp.iso_8601")
	if !ok {
		t.Fatal("definition not found")
	}
	if def.Title != "ISO 8601" {
		t.Errorf("expected title ISO 8601, got %s", def.Title)
	}
	if def.BroadType != "TIMESTAMP" {
		t.Errorf("expected broad_type TIMESTAMP, got %s", def.BroadType)
	}
	if def.ReleasePriority != 5 {
		t.Errorf("expected priority 5, got %d", def.ReleasePriority)
	}
	if def.Key() != "datetime.timestamp.iso_8601" {
		t.Errorf("unexpected key: %s", def.Key())
	}
	if def.Validation == nil || def.Validation.MinLength == nil || *def.Validation.MinLength != 20 {
		t.Error("validation minLength not parsed")
	}
}

func TestInvalidKeyRejected(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"single_segment", "datetime:\n  title: x\n"},
		{"two_segments", "datetime.date:\n  title: x\n"},
		{"five_segments", "a.b.c.d.e:\n  title: x\n"},
		{"empty_segment", "datetime..iso:\n  title: x\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yaml)); err == nil {
				t.Error("expected parse error, got nil")
			}
		})
	}
}

func TestParseLabel(t *testing.T) {
	label, err := ParseLabel("datetime.timestamp.iso_8601")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if label.Domain != "datetime" || label.Category != "timestamp" || label.Type != "iso_8601" {
		t.Errorf("unexpected parts: %+v", label)
	}
	if label.Base() != "datetime.timestamp.iso_8601" {
		t.Errorf("unexpected base: %s", label.Base())
	}
	if label.Provider() != "datetime" || label.Method() != "timestamp.iso_8601" {
		t.Errorf("unexpected provider/method: %s / %s", label.Provider(), label.Method())
	}
}

func TestLabelLocale(t *testing.T) {
	label, err := ParseLabel("datetime.date.abbreviated_month.FR")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if label.Locale != "FR" {
		t.Errorf("expected locale FR, got %s", label.Locale)
	}
	if label.Base() != "datetime.date.abbreviated_month" {
		t.Errorf("unexpected base: %s", label.Base())
	}
	if label.Full() != "datetime.date.abbreviated_month.FR" {
		t.Errorf("unexpected full: %s", label.Full())
	}

	bare, _ := ParseLabel("datetime.date.abbreviated_month")
	if bare.WithLocale("FR") != "datetime.date.abbreviated_month.FR" {
		t.Errorf("unexpected with_locale: %s", bare.WithLocale("FR"))
	}
}

const multiYAML = `
datetime.timestamp.iso_8601:
  broad_type: TIMESTAMP
  tier: [TIMESTAMP, timestamp]
  release_priority: 5
  samples: ["2024-01-15T10:30:00Z"]

datetime.timestamp.rfc_2822:
  broad_type: TIMESTAMP
  tier: [TIMESTAMP, timestamp]
  release_priority: 5
  samples: ["Mon, 15 Jan 2024 10:30:00 +0000"]

datetime.date.us_slash:
  broad_type: DATE
  tier: [DATE, date]
  release_priority: 5
  samples: ["01/15/2024"]

technology.internet.ip_v4:
  broad_type: INET
  tier: [INET, internet]
  release_priority: 3
  samples: ["192.168.1.1"]

technology.internet.ip_v6:
  broad_type: INET
  tier: [INET, internet]
  release_priority: 1
  samples: ["::1"]
`

func TestDomainsAndCategories(t *testing.T) {
	tax, err := Parse([]byte(multiYAML))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if !reflect.DeepEqual(tax.Domains(), []string{"datetime", "technology"}) {
		t.Errorf("unexpected domains: %v", tax.Domains())
	}
	if !reflect.DeepEqual(tax.Categories("datetime"), []string{"date", "timestamp"}) {
		t.Errorf("unexpected categories: %v", tax.Categories("datetime"))
	}
}

func TestAtPriority(t *testing.T) {
	tax, _ := Parse([]byte(multiYAML))

	tests := []struct {
		min      uint8
		expected int
	}{
		{0, 5},
		{3, 4},
		{5, 3},
		{6, 0},
	}

	for _, tt := range tests {
		if got := len(tax.AtPriority(tt.min)); got != tt.expected {
			t.Errorf("AtPriority(%d): expected %d, got %d", tt.min, tt.expected, got)
		}
	}
}

func TestByDomainAndCategory(t *testing.T) {
	tax, _ := Parse([]byte(multiYAML))
	if got := len(tax.ByDomain("datetime")); got != 3 {
		t.Errorf("ByDomain(datetime): expected 3, got %d", got)
	}
	if got := len(tax.ByCategory("technology", "internet")); got != 2 {
		t.Errorf("ByCategory(technology, internet): expected 2, got %d", got)
	}
	if got := len(tax.ByDomain("none")); got != 0 {
		t.Errorf("ByDomain(none): expected 0, got %d", got)
	}

	// 结果按标签排序, 渲染输出依赖该顺序
	want := []string{"datetime.date.us_slash", "datetime.timestamp.iso_8601", "datetime.timestamp.rfc_2822"}
	for i, def := range tax.ByDomain("datetime") {
		if def.Key() != want[i] {
			t.Errorf("ByDomain(datetime)[%d] = %s, expected %s", i, def.Key(), want[i])
		}
	}
}

func TestLabelIndexBijection(t *testing.T) {
	tax, _ := Parse([]byte(multiYAML))
	toIndex := tax.LabelToIndex()
	toLabel := tax.IndexToLabel()

	if len(toIndex) != tax.Len() || len(toLabel) != tax.Len() {
		t.Fatal("mapping size mismatch")
	}
	for label, idx := range toIndex {
		if toLabel[idx] != label {
			t.Errorf("bijection broken at %s / %d", label, idx)
		}
	}

	// 两次独立加载同一份内容，索引分配必须一致
	tax2, _ := Parse([]byte(multiYAML))
	if !reflect.DeepEqual(tax.LabelToIndex(), tax2.LabelToIndex()) {
		t.Error("index assignment differs across loads of the same source")
	}
}

func TestResolve(t *testing.T) {
	tax, _ := Parse([]byte(sampleYAML))

	tests := []struct {
		input    string
		expected string
		found    bool
	}{
		{"datetime.timestamp.iso_8601", "datetime.timestamp.iso_8601", true},
		{"big_endian", "datetime.timestamp.iso_8601", true},
		{"iso_8601", "datetime.timestamp.iso_8601", true},
		{"totally-unrelated-xyz", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			key, _, ok := tax.Resolve(tt.input)
			if ok != tt.found {
				t.Fatalf("expected found=%v, got %v", tt.found, ok)
			}
			if ok && key != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, key)
			}
		})
	}
}

func TestSuggest(t *testing.T) {
	tax, _ := Parse([]byte(multiYAML))
	got := tax.Suggest("ip_v4", 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 suggestions, got %d", len(got))
	}
	if got[0] != "technology.internet.ip_v4" {
		t.Errorf("expected ip_v4 first, got %s", got[0])
	}
}
