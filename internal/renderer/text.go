package renderer

import (
	"fmt"
	"strings"

	"finetype-analyzer/internal/checker"
)

// TextRenderer 检查报告的终端文本渲染器
type TextRenderer struct {
	// Verbose 是否输出逐定义明细
	Verbose bool
}

// NewTextRenderer 创建渲染器
func NewTextRenderer(verbose bool) *TextRenderer {
	return &TextRenderer{Verbose: verbose}
}

// Render 渲染检查报告
func (r *TextRenderer) Render(report *checker.Report) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("类型定义对齐检查 — 共 %d 个定义\n", report.TotalDefinitions))
	sb.WriteString(strings.Repeat("=", 60) + "\n\n")

	sb.WriteString("汇总\n")
	sb.WriteString(fmt.Sprintf("  生成器齐全:   %d/%d\n", report.GeneratorsFound, report.TotalDefinitions))
	sb.WriteString(fmt.Sprintf("  生成器缺失:   %d\n", report.GeneratorsMissing))
	sb.WriteString(fmt.Sprintf("  完全通过:     %d\n", report.FullyPassing))
	sb.WriteString(fmt.Sprintf("  存在失败:     %d\n", report.HasFailures))
	sb.WriteString(fmt.Sprintf("  无校验正则:   %d\n", report.NoPattern))
	sb.WriteString(fmt.Sprintf("  样本通过率:   %.1f%% (%d/%d)\n\n",
		report.PassRate()*100, report.TotalPassed, report.TotalSamples))

	// 按领域分组输出
	domains, grouped := report.ByDomain()
	for _, domain := range domains {
		results := grouped[domain]
		passing := 0
		for _, res := range results {
			if res.Passed() {
				passing++
			}
		}
		sb.WriteString(fmt.Sprintf("📂 %s (%d/%d 通过)\n", domain, passing, len(results)))
		if r.Verbose {
			for _, res := range results {
				sb.WriteString(fmt.Sprintf("  %s %s (%d/%d)\n",
					statusMark(res), res.Key, res.SamplesPassed, res.SamplesGenerated))
			}
		}
	}
	sb.WriteString("\n")

	// 缺失的生成器
	var missing []string
	for i := range report.Results {
		if !report.Results[i].GeneratorExists {
			missing = append(missing, report.Results[i].Key)
		}
	}
	if len(missing) > 0 {
		sb.WriteString("缺失生成器\n")
		for _, key := range missing {
			sb.WriteString(fmt.Sprintf("  ❌ %s\n", key))
		}
		sb.WriteString("\n")
	}

	// 失败明细
	hasFailureDetail := false
	for _, res := range report.FailuresOnly() {
		if len(res.Failures) == 0 {
			continue
		}
		if !hasFailureDetail {
			sb.WriteString("失败明细\n")
			hasFailureDetail = true
		}
		sb.WriteString(fmt.Sprintf("  %s (%d 个样本失败):\n", res.Key, res.SamplesFailed))
		for _, f := range res.Failures {
			sb.WriteString(fmt.Sprintf("    样本 %q: %s\n", f.Sample, f.Reason))
		}
	}
	if hasFailureDetail {
		sb.WriteString("\n")
	}

	if report.AllPassed() {
		sb.WriteString("✅ 检查通过\n")
	} else {
		sb.WriteString("❌ 检查未通过\n")
	}
	return sb.String()
}

func statusMark(res *checker.DefinitionResult) string {
	if res.Passed() {
		return "✅"
	}
	return "❌"
}
