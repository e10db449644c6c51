package classify

import (
	"sort"
)

// ColumnConfig 列级分类配置
type ColumnConfig struct {
	// SampleSize 最多抽样多少个值
	SampleSize int
	// MinAgreement 多数票低于此比例时置信度减半
	MinAgreement float64
}

// DefaultColumnConfig 默认配置
func DefaultColumnConfig() ColumnConfig {
	return ColumnConfig{SampleSize: 100, MinAgreement: 0.3}
}

// Vote 投票分布中的一项
type Vote struct {
	Label    string  `json:"label"`
	Fraction float64 `json:"fraction"`
}

// ColumnResult 列级分类结果
type ColumnResult struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	// VoteDistribution 各标签得票比例, 按票数降序
	VoteDistribution      []Vote `json:"vote_distribution"`
	DisambiguationApplied bool   `json:"disambiguation_applied"`
	DisambiguationRule    string `json:"disambiguation_rule,omitempty"`
	SamplesUsed           int    `json:"samples_used"`
}

// ColumnClassifier 在单值分类器之上做列级推断
type ColumnClassifier struct {
	classifier Classifier
	config     ColumnConfig
}

// NewColumnClassifier 创建列级分类器
func NewColumnClassifier(classifier Classifier, config ColumnConfig) *ColumnClassifier {
	if config.SampleSize <= 0 {
		config.SampleSize = DefaultColumnConfig().SampleSize
	}
	return &ColumnClassifier{classifier: classifier, config: config}
}

// Config 当前配置
func (c *ColumnClassifier) Config() ColumnConfig {
	return c.config
}

// ClassifyColumn 推断一列值的标签。
//
// 流程: 等距抽样至多 SampleSize 个值, 逐个单值推断, 按标签
// 聚合投票, 对已知歧义对套用消解规则, 最后给出标签和置信度。
// 消解规则命中时置信度取多数票比例与 0.8 的较大者; 未命中时
// 用多数票比例, 低于 MinAgreement 再减半。
func (c *ColumnClassifier) ClassifyColumn(values []string) (ColumnResult, error) {
	if len(values) == 0 {
		return ColumnResult{Label: LabelUnknown, Confidence: 0.0}, nil
	}

	sample := values
	if len(values) > c.config.SampleSize {
		// 确定性等距抽样
		step := float64(len(values)) / float64(c.config.SampleSize)
		sample = make([]string, c.config.SampleSize)
		for i := 0; i < c.config.SampleSize; i++ {
			sample[i] = values[int(float64(i)*step)]
		}
	}
	n := len(sample)

	results, err := c.classifier.ClassifyBatch(sample)
	if err != nil {
		return ColumnResult{}, err
	}

	counts := make(map[string]int)
	for _, r := range results {
		counts[r.Label]++
	}

	type vote struct {
		label string
		count int
	}
	votes := make([]vote, 0, len(counts))
	for label, count := range counts {
		votes = append(votes, vote{label, count})
	}
	// 票数相同按标签字典序, 保证结果确定
	sort.Slice(votes, func(i, j int) bool {
		if votes[i].count != votes[j].count {
			return votes[i].count > votes[j].count
		}
		return votes[i].label < votes[j].label
	})

	distribution := make([]Vote, 0, len(votes))
	topLabels := make([]string, 0, 3)
	for i, v := range votes {
		distribution = append(distribution, Vote{Label: v.label, Fraction: float64(v.count) / float64(n)})
		if i < 3 {
			topLabels = append(topLabels, v.label)
		}
	}

	majorityFraction := float64(votes[0].count) / float64(n)

	if label, rule, ok := disambiguate(sample, topLabels); ok {
		confidence := majorityFraction
		if confidence < ruleConfidenceFloor {
			confidence = ruleConfidenceFloor
		}
		return ColumnResult{
			Label:                 label,
			Confidence:            confidence,
			VoteDistribution:      distribution,
			DisambiguationApplied: true,
			DisambiguationRule:    rule,
			SamplesUsed:           n,
		}, nil
	}

	confidence := majorityFraction
	if majorityFraction < c.config.MinAgreement {
		confidence = majorityFraction * 0.5
	}
	return ColumnResult{
		Label:            votes[0].label,
		Confidence:       confidence,
		VoteDistribution: distribution,
		SamplesUsed:      n,
	}, nil
}
