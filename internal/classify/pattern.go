package classify

import (
	"fmt"
	"regexp"
	"sort"

	"finetype-analyzer/internal/taxonomy"
	"finetype-analyzer/internal/validator"
)

// PatternClassifier 基于定义正则的参考分类器。
//
// 对每个带 pattern 的定义在构造时预编译正则；分类时让值
// 逐一匹配，命中的候选按发布优先级加权。没有任何命中时
// 返回 unknown。
type PatternClassifier struct {
	entries []patternEntry
}

type patternEntry struct {
	label    string
	priority uint8
	re       *regexp.Regexp
}

// NewPatternClassifier 从 taxonomy 构建模式分类器。
// 任何定义的正则无法编译都会使构建失败。
func NewPatternClassifier(tax *taxonomy.Taxonomy) (*PatternClassifier, error) {
	var entries []patternEntry
	for _, label := range tax.Labels() {
		def, _ := tax.Get(label)
		if def == nil || def.Validation == nil || def.Validation.Pattern == "" {
			continue
		}
		re, err := validator.CompilePattern(label, tax)
		if err != nil {
			return nil, fmt.Errorf("构建模式分类器失败: %w", err)
		}
		entries = append(entries, patternEntry{
			label:    label,
			priority: def.ReleasePriority,
			re:       re,
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].label < entries[j].label })
	return &PatternClassifier{entries: entries}, nil
}

// Labels 分类器覆盖的标签数
func (c *PatternClassifier) Labels() int {
	return len(c.entries)
}

// Classify 推断单个值的标签。
// 命中多个候选时按优先级降序、标签升序取第一个，
// 置信度为胜出候选得分占全部命中得分的比例。
func (c *PatternClassifier) Classify(value string) (Result, error) {
	var matches []patternEntry
	for _, e := range c.entries {
		if e.re.MatchString(value) {
			matches = append(matches, e)
		}
	}
	if len(matches) == 0 {
		return Result{Label: LabelUnknown, Confidence: 0.0}, nil
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].priority != matches[j].priority {
			return matches[i].priority > matches[j].priority
		}
		return matches[i].label < matches[j].label
	})

	total := 0.0
	scores := make([]Score, 0, len(matches))
	for _, m := range matches {
		w := float64(m.priority) + 1.0
		total += w
		scores = append(scores, Score{Label: m.label, Score: w})
	}
	for i := range scores {
		scores[i].Score /= total
	}

	return Result{
		Label:      scores[0].Label,
		Confidence: scores[0].Score,
		AllScores:  scores,
	}, nil
}

// ClassifyBatch 批量推断
func (c *PatternClassifier) ClassifyBatch(values []string) ([]Result, error) {
	results := make([]Result, 0, len(values))
	for _, v := range values {
		r, err := c.Classify(v)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}
