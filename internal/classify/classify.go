// Package classify 推断字符串值的语义类型标签。
//
// 单值分类由 Classifier 接口承担，列级分类在其上做抽样、
// 投票和歧义消解。
package classify

// Score 一个候选标签及其得分
type Score struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Result 单值分类结果
type Result struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	// AllScores 全部候选得分, 按得分降序
	AllScores []Score `json:"all_scores,omitempty"`
}

// Classifier 单值分类器接口
type Classifier interface {
	// Classify 推断单个值的标签
	Classify(value string) (Result, error)
	// ClassifyBatch 批量推断, 结果与输入一一对应
	ClassifyBatch(values []string) ([]Result, error)
}

// LabelUnknown 无法判定类型时的兜底标签
const LabelUnknown = "unknown"
