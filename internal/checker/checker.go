// Package checker 是 taxonomy 与生成器之间的对齐质量闸门。
//
// 对每个定义：让生成器产出样本，再用定义自身的校验约束检查
// 每个样本。生成器缺失或样本校验失败都会让整体检查不通过。
// 发布前运行可以在数据进入下游之前拦住生成器缺陷。
package checker

import (
	"errors"
	"sort"
	"strings"

	"finetype-analyzer/internal/generator"
	"finetype-analyzer/internal/taxonomy"
	"finetype-analyzer/internal/validator"
)

const (
	defaultSamplesPerKey = 50
	defaultMaxFailures   = 5
)

// Failure 一个校验失败的样本
type Failure struct {
	Sample string `json:"sample"`
	Reason string `json:"reason"`
}

// DefinitionResult 单个定义的检查结果
type DefinitionResult struct {
	Key              string    `json:"key"`
	GeneratorExists  bool      `json:"generator_exists"`
	SamplesGenerated int       `json:"samples_generated"`
	SamplesPassed    int       `json:"samples_passed"`
	SamplesFailed    int       `json:"samples_failed"`
	HasPattern       bool      `json:"has_pattern"`
	// Failures 逐条失败明细, 有上限避免刷屏
	Failures        []Failure `json:"failures,omitempty"`
	ReleasePriority uint8     `json:"release_priority"`
	Domain          string    `json:"domain"`
}

// Passed 该定义是否完全通过
func (r *DefinitionResult) Passed() bool {
	return r.GeneratorExists && r.SamplesFailed == 0
}

// PassRate 样本通过率, 0.0 到 1.0
func (r *DefinitionResult) PassRate() float64 {
	if r.SamplesGenerated == 0 {
		return 0.0
	}
	return float64(r.SamplesPassed) / float64(r.SamplesGenerated)
}

// Report 一次完整检查的汇总
type Report struct {
	// Results 按 key 排序的逐定义结果
	Results           []DefinitionResult `json:"results"`
	TotalDefinitions  int                `json:"total_definitions"`
	GeneratorsFound   int                `json:"generators_found"`
	GeneratorsMissing int                `json:"generators_missing"`
	FullyPassing      int                `json:"fully_passing"`
	HasFailures       int                `json:"has_failures"`
	NoPattern         int                `json:"no_pattern"`
	TotalSamples      int                `json:"total_samples"`
	TotalPassed       int                `json:"total_passed"`
	TotalFailed       int                `json:"total_failed"`
}

func buildReport(results []DefinitionResult, totalDefinitions int) *Report {
	report := &Report{Results: results, TotalDefinitions: totalDefinitions}
	for i := range results {
		r := &results[i]
		if r.GeneratorExists {
			report.GeneratorsFound++
		} else {
			report.GeneratorsMissing++
		}
		if r.Passed() {
			report.FullyPassing++
		}
		if r.GeneratorExists && r.SamplesFailed > 0 {
			report.HasFailures++
		}
		if !r.HasPattern {
			report.NoPattern++
		}
		report.TotalSamples += r.SamplesGenerated
		report.TotalPassed += r.SamplesPassed
		report.TotalFailed += r.SamplesFailed
	}
	return report
}

// PassRate 总体样本通过率
func (r *Report) PassRate() float64 {
	if r.TotalSamples == 0 {
		return 0.0
	}
	return float64(r.TotalPassed) / float64(r.TotalSamples)
}

// AllPassed 整体检查是否通过: 生成器齐全且没有校验失败
func (r *Report) AllPassed() bool {
	return r.GeneratorsMissing == 0 && r.HasFailures == 0
}

// ByDomain 按领域分组的结果, key 有序
func (r *Report) ByDomain() (domains []string, grouped map[string][]*DefinitionResult) {
	grouped = make(map[string][]*DefinitionResult)
	for i := range r.Results {
		res := &r.Results[i]
		if _, ok := grouped[res.Domain]; !ok {
			domains = append(domains, res.Domain)
		}
		grouped[res.Domain] = append(grouped[res.Domain], res)
	}
	sort.Strings(domains)
	return domains, grouped
}

// FailuresOnly 仅未通过的结果
func (r *Report) FailuresOnly() []*DefinitionResult {
	var out []*DefinitionResult
	for i := range r.Results {
		if !r.Results[i].Passed() {
			out = append(out, &r.Results[i])
		}
	}
	return out
}

// AtPriority 指定优先级及以上的结果
func (r *Report) AtPriority(min uint8) []*DefinitionResult {
	var out []*DefinitionResult
	for i := range r.Results {
		if r.Results[i].ReleasePriority >= min {
			out = append(out, &r.Results[i])
		}
	}
	return out
}

// Checker 对齐检查器
type Checker struct {
	samplesPerKey     int
	maxFailuresPerKey int
}

// New 创建检查器, samplesPerKey <= 0 时用默认值
func New(samplesPerKey int) *Checker {
	if samplesPerKey <= 0 {
		samplesPerKey = defaultSamplesPerKey
	}
	return &Checker{
		samplesPerKey:     samplesPerKey,
		maxFailuresPerKey: defaultMaxFailures,
	}
}

// WithMaxFailures 设置每个定义保留的失败明细上限
func (c *Checker) WithMaxFailures(max int) *Checker {
	c.maxFailuresPerKey = max
	return c
}

// Run 对 taxonomy 的全部标签执行检查
func (c *Checker) Run(tax *taxonomy.Taxonomy, gen generator.Generator) *Report {
	keys := append([]string(nil), tax.Labels()...)
	sort.Strings(keys)

	results := make([]DefinitionResult, 0, len(keys))
	for _, key := range keys {
		results = append(results, c.checkDefinition(key, tax, gen))
	}
	return buildReport(results, tax.Len())
}

func (c *Checker) checkDefinition(key string, tax *taxonomy.Taxonomy, gen generator.Generator) DefinitionResult {
	result := DefinitionResult{
		Key:    key,
		Domain: strings.SplitN(key, ".", 2)[0],
	}
	def, _ := tax.Get(key)
	if def != nil {
		result.HasPattern = def.Validation != nil && def.Validation.Pattern != ""
		result.ReleasePriority = def.ReleasePriority
	}

	for i := 0; i < c.samplesPerKey; i++ {
		sample, err := gen.Generate(key)
		if err != nil {
			var notImpl *generator.NotImplementedError
			var unknown *generator.UnknownLabelError
			if errors.As(err, &notImpl) || errors.As(err, &unknown) {
				// 生成器缺失, 保持 GeneratorExists 为 false
				continue
			}
			// 生成器存在但出错, 计为一次失败样本
			result.GeneratorExists = true
			result.SamplesGenerated++
			result.SamplesFailed++
			if len(result.Failures) < c.maxFailuresPerKey {
				result.Failures = append(result.Failures, Failure{
					Reason: "生成器出错: " + err.Error(),
				})
			}
			continue
		}

		result.GeneratorExists = true
		result.SamplesGenerated++
		if def == nil || def.Validation == nil {
			result.SamplesPassed++
			continue
		}
		v := validator.Validate(sample, def.Validation)
		if v.Valid {
			result.SamplesPassed++
			continue
		}
		result.SamplesFailed++
		if len(result.Failures) < c.maxFailuresPerKey {
			result.Failures = append(result.Failures, Failure{
				Sample: sample,
				Reason: describeFailures(v.Failures),
			})
		}
	}
	return result
}

func describeFailures(failures []validator.Failure) string {
	parts := make([]string, 0, len(failures))
	for _, f := range failures {
		parts = append(parts, string(f.Check)+": "+f.Message)
	}
	return strings.Join(parts, "; ")
}
