package classify

import (
	"testing"

	"finetype-analyzer/internal/taxonomy"
)

const patternYAML = `
network.address.ip_v4:
  title: IPv4 地址
  release_priority: 5
  validation:
    type: string
    pattern: '^(\d{1,3}\.){3}\d{1,3}$'
datetime.date.iso:
  title: ISO 日期
  release_priority: 5
  validation:
    type: string
    pattern: '^\d{4}-\d{2}-\d{2}$'
representation.numeric.integer_number:
  title: 整数
  release_priority: 3
  validation:
    type: string
    pattern: '^-?\d+$'
technology.internet.port:
  title: 端口号
  release_priority: 4
  validation:
    type: string
    pattern: '^\d{1,5}$'
person.name.first_name:
  title: 名
`

func patternClassifier(t *testing.T) *PatternClassifier {
	t.Helper()
	tax, err := taxonomy.Parse([]byte(patternYAML))
	if err != nil {
		t.Fatalf("解析测试 taxonomy: %v", err)
	}
	c, err := NewPatternClassifier(tax)
	if err != nil {
		t.Fatalf("构建分类器: %v", err)
	}
	return c
}

func TestPatternClassifierCoverage(t *testing.T) {
	c := patternClassifier(t)
	// first_name 没有 pattern, 不参与
	if c.Labels() != 4 {
		t.Errorf("覆盖标签数=%d, 期望 4", c.Labels())
	}
}

func TestClassifySingleMatch(t *testing.T) {
	c := patternClassifier(t)
	r, err := c.Classify("2024-01-15")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if r.Label != "datetime.date.iso" {
		t.Errorf("标签=%s, 期望 datetime.date.iso", r.Label)
	}
	if r.Confidence != 1.0 {
		t.Errorf("唯一命中的置信度应为 1.0, 得到 %v", r.Confidence)
	}
}

func TestClassifyPriorityWins(t *testing.T) {
	c := patternClassifier(t)
	// "8080" 同时匹配整数和端口, 端口优先级更高
	r, err := c.Classify("8080")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if r.Label != "technology.internet.port" {
		t.Errorf("标签=%s, 期望 technology.internet.port", r.Label)
	}
	if len(r.AllScores) != 2 {
		t.Errorf("候选数=%d, 期望 2", len(r.AllScores))
	}
	if r.Confidence <= 0 || r.Confidence >= 1 {
		t.Errorf("多候选置信度应在 (0,1) 之间, 得到 %v", r.Confidence)
	}
}

func TestClassifyNoMatch(t *testing.T) {
	c := patternClassifier(t)
	r, err := c.Classify("hello world")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if r.Label != LabelUnknown || r.Confidence != 0.0 {
		t.Errorf("无命中应返回 unknown, 得到 %+v", r)
	}
}

func TestClassifyBatchOrder(t *testing.T) {
	c := patternClassifier(t)
	results, err := c.ClassifyBatch([]string{"192.168.1.1", "2024-01-15"})
	if err != nil {
		t.Fatalf("ClassifyBatch: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("结果数=%d, 期望 2", len(results))
	}
	if results[0].Label != "network.address.ip_v4" || results[1].Label != "datetime.date.iso" {
		t.Errorf("批量结果顺序不符: %+v", results)
	}
}

func TestNewPatternClassifierBadRegex(t *testing.T) {
	yaml := `
misc.broken.bad_regex:
  title: 坏正则
  validation:
    type: string
    pattern: '[unclosed'
`
	tax, err := taxonomy.Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("解析: %v", err)
	}
	if _, err := NewPatternClassifier(tax); err == nil {
		t.Error("坏正则应使构建失败")
	}
}
