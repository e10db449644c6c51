// Package validator 按定义中的 JSON Schema 片段校验字符串值。
//
// 单值校验的所有检查相互独立、全部执行：一个值可以同时
// 违反 pattern 和 minLength。约束违反是数据而不是错误，
// 收集在结果中返回；只有 schema 层面的问题（未知标签、
// 缺少校验片段）才作为错误返回。
package validator

import (
	"fmt"
	"regexp"
	"strconv"

	"finetype-analyzer/internal/taxonomy"
)

// Check 校验检查的类别
type Check string

const (
	CheckPattern   Check = "pattern"
	CheckMinLength Check = "minLength"
	CheckMaxLength Check = "maxLength"
	CheckMinimum   Check = "minimum"
	CheckMaximum   Check = "maximum"
	CheckEnum      Check = "enum"
)

// Failure 一次检查违反
type Failure struct {
	Check   Check  `json:"check"`
	Message string `json:"message"`
}

// Result 单值校验结果
type Result struct {
	Valid    bool      `json:"valid"`
	Failures []Failure `json:"failures,omitempty"`
}

// UnknownLabelError 标签在 taxonomy 中不存在
type UnknownLabelError struct {
	Label string
}

func (e *UnknownLabelError) Error() string {
	return fmt.Sprintf("未知标签: %s", e.Label)
}

// NoSchemaError 定义没有 validation 片段
type NoSchemaError struct {
	Label string
}

func (e *NoSchemaError) Error() string {
	return fmt.Sprintf("标签没有校验 schema: %s", e.Label)
}

// InvalidPatternError schema 中的正则无法编译
type InvalidPatternError struct {
	Label   string
	Pattern string
	Err     error
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("标签 %s 的正则无效: %v", e.Label, e.Err)
}

func (e *InvalidPatternError) Unwrap() error { return e.Err }

// Validate 按 schema 片段校验单个值。
//
// 依次执行 pattern、minLength、maxLength、minimum、maximum、enum
// 六项检查，出错不短路，全部违反都收集到结果里。
// 长度按字节计算。minimum/maximum 只在值能解析为数字时生效，
// 解析失败静默跳过（格式问题由 pattern 负责）。
// schema 自身的正则无法编译时记为一次 Pattern 违反，
// 带 "invalid regex" 诊断信息，让 schema 缺陷以数据质量问题的
// 形式浮现而不是中断调用方。
func Validate(value string, schema *taxonomy.Validation) Result {
	var failures []Failure

	if schema.Pattern != "" {
		re, err := regexp.Compile(schema.Pattern)
		if err != nil {
			failures = append(failures, Failure{
				Check:   CheckPattern,
				Message: fmt.Sprintf("invalid regex %q: %v", schema.Pattern, err),
			})
		} else if !re.MatchString(value) {
			failures = append(failures, Failure{
				Check:   CheckPattern,
				Message: fmt.Sprintf("值不匹配 pattern: %s", schema.Pattern),
			})
		}
	}

	if schema.MinLength != nil && len(value) < *schema.MinLength {
		failures = append(failures, Failure{
			Check:   CheckMinLength,
			Message: fmt.Sprintf("长度 %d 小于最小值 %d", len(value), *schema.MinLength),
		})
	}

	if schema.MaxLength != nil && len(value) > *schema.MaxLength {
		failures = append(failures, Failure{
			Check:   CheckMaxLength,
			Message: fmt.Sprintf("长度 %d 超过最大值 %d", len(value), *schema.MaxLength),
		})
	}

	if schema.Minimum != nil {
		if num, err := strconv.ParseFloat(value, 64); err == nil && num < *schema.Minimum {
			failures = append(failures, Failure{
				Check:   CheckMinimum,
				Message: fmt.Sprintf("数值 %v 小于最小值 %v", num, *schema.Minimum),
			})
		}
	}

	if schema.Maximum != nil {
		if num, err := strconv.ParseFloat(value, 64); err == nil && num > *schema.Maximum {
			failures = append(failures, Failure{
				Check:   CheckMaximum,
				Message: fmt.Sprintf("数值 %v 超过最大值 %v", num, *schema.Maximum),
			})
		}
	}

	if schema.EnumValues != nil {
		found := false
		for _, allowed := range schema.EnumValues {
			if allowed == value {
				found = true
				break
			}
		}
		if !found {
			failures = append(failures, Failure{
				Check:   CheckEnum,
				Message: fmt.Sprintf("值 %q 不在允许集合中: %v", value, schema.EnumValues),
			})
		}
	}

	return Result{Valid: len(failures) == 0, Failures: failures}
}

// ValidateForLabel 按标签从 taxonomy 取 schema 后校验单个值
func ValidateForLabel(value, label string, tax *taxonomy.Taxonomy) (Result, error) {
	schema, err := schemaFor(label, tax)
	if err != nil {
		return Result{}, err
	}
	return Validate(value, schema), nil
}

// CompilePattern 预编译某个标签的校验正则，
// 供需要反复匹配的调用方（如模式分类器）使用。
// 标签没有 pattern 时返回 nil 正则。
func CompilePattern(label string, tax *taxonomy.Taxonomy) (*regexp.Regexp, error) {
	schema, err := schemaFor(label, tax)
	if err != nil {
		return nil, err
	}
	if schema.Pattern == "" {
		return nil, nil
	}
	re, err := regexp.Compile(schema.Pattern)
	if err != nil {
		return nil, &InvalidPatternError{Label: label, Pattern: schema.Pattern, Err: err}
	}
	return re, nil
}

func schemaFor(label string, tax *taxonomy.Taxonomy) (*taxonomy.Validation, error) {
	def, ok := tax.Get(label)
	if !ok {
		return nil, &UnknownLabelError{Label: label}
	}
	if def.Validation == nil {
		return nil, &NoSchemaError{Label: label}
	}
	return def.Validation, nil
}
