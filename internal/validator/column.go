package validator

import (
	"fmt"

	"finetype-analyzer/internal/taxonomy"
)

// Strategy 列级校验对无效值的处理策略
type Strategy string

const (
	// StrategyQuarantine 把无效值移出列并带上下文隔离记录（默认）
	StrategyQuarantine Strategy = "quarantine"
	// StrategySetNull 把无效值置为 NULL
	StrategySetNull Strategy = "set_null"
	// StrategyForwardFill 用前一个有效值填充无效值
	StrategyForwardFill Strategy = "forward_fill"
	// StrategyBackwardFill 用后一个有效值填充无效值
	StrategyBackwardFill Strategy = "backward_fill"
)

// ParseStrategy 解析策略名称
func ParseStrategy(name string) (Strategy, error) {
	switch Strategy(name) {
	case StrategyQuarantine, StrategySetNull, StrategyForwardFill, StrategyBackwardFill:
		return Strategy(name), nil
	default:
		return "", fmt.Errorf("未知的无效值处理策略: %s", name)
	}
}

// Quarantined 一个被隔离的无效值及其上下文
type Quarantined struct {
	RowIndex int       `json:"row_index"`
	Value    string    `json:"value"`
	Failures []Failure `json:"failures"`
}

// ColumnStats 列校验统计
type ColumnStats struct {
	ValidCount   int `json:"valid_count"`
	InvalidCount int `json:"invalid_count"`
	NullCount    int `json:"null_count"`
	TotalCount   int `json:"total_count"`
	// FailurePatterns 各检查类别的违反次数分布
	FailurePatterns map[Check]int `json:"failure_patterns,omitempty"`
}

// ValidityRate 有效率 = 有效数 / 非空数，全空列为 0.0
func (s *ColumnStats) ValidityRate() float64 {
	nonNull := s.TotalCount - s.NullCount
	if nonNull == 0 {
		return 0.0
	}
	return float64(s.ValidCount) / float64(nonNull)
}

// ColumnResult 列级校验结果
type ColumnResult struct {
	// Values 应用策略后的输出列，与输入等长，nil 表示 NULL
	Values []*string `json:"values"`
	Stats  ColumnStats `json:"stats"`
	// Quarantined 仅隔离模式下填充
	Quarantined []Quarantined `json:"quarantined,omitempty"`
}

// ValidateColumn 按策略校验一列值，nil 元素表示 NULL。
//
// 第一遍逐值校验并累计统计，第二遍按策略生成输出列。
// NULL 永远原样保留，填充策略只作用于无效值；
// 隔离模式下无效值从输出中移除（置 nil）并记录到隔离区。
func ValidateColumn(values []*string, schema *taxonomy.Validation, strategy Strategy) ColumnResult {
	total := len(values)
	stats := ColumnStats{TotalCount: total, FailurePatterns: make(map[Check]int)}
	results := make([]*Result, total)

	for i, v := range values {
		if v == nil {
			stats.NullCount++
			continue
		}
		r := Validate(*v, schema)
		if r.Valid {
			stats.ValidCount++
		} else {
			stats.InvalidCount++
			for _, f := range r.Failures {
				stats.FailurePatterns[f.Check]++
			}
		}
		results[i] = &r
	}

	var quarantined []Quarantined
	output := make([]*string, total)

	switch strategy {
	case StrategySetNull:
		for i, v := range values {
			if v == nil || !results[i].Valid {
				continue
			}
			output[i] = copyVal(*v)
		}
	case StrategyForwardFill:
		var lastValid *string
		for i, v := range values {
			if v == nil {
				continue
			}
			if results[i].Valid {
				lastValid = copyVal(*v)
				output[i] = lastValid
			} else {
				output[i] = lastValid
			}
		}
	case StrategyBackwardFill:
		var nextValid *string
		for i := total - 1; i >= 0; i-- {
			v := values[i]
			if v == nil {
				continue
			}
			if results[i].Valid {
				nextValid = copyVal(*v)
				output[i] = nextValid
			} else {
				output[i] = nextValid
			}
		}
	default: // StrategyQuarantine
		for i, v := range values {
			if v == nil {
				continue
			}
			if !results[i].Valid {
				quarantined = append(quarantined, Quarantined{
					RowIndex: i,
					Value:    *v,
					Failures: results[i].Failures,
				})
				continue
			}
			output[i] = copyVal(*v)
		}
	}

	if len(stats.FailurePatterns) == 0 {
		stats.FailurePatterns = nil
	}
	return ColumnResult{Values: output, Stats: stats, Quarantined: quarantined}
}

// ValidateColumnForLabel 按标签从 taxonomy 取 schema 后校验一列值
func ValidateColumnForLabel(values []*string, label string, tax *taxonomy.Taxonomy, strategy Strategy) (ColumnResult, error) {
	schema, err := schemaFor(label, tax)
	if err != nil {
		return ColumnResult{}, err
	}
	return ValidateColumn(values, schema, strategy), nil
}

func copyVal(s string) *string {
	v := s
	return &v
}
