package renderer

import (
	"encoding/csv"
	"fmt"
	"strings"

	"finetype-analyzer/internal/checker"
	"finetype-analyzer/internal/taxonomy"
	"finetype-analyzer/internal/typemap"
)

// CSVRenderer CSV 渲染器
type CSVRenderer struct{}

// NewCSVRenderer 创建渲染器
func NewCSVRenderer() *CSVRenderer {
	return &CSVRenderer{}
}

// RenderTaxonomy 渲染 taxonomy 标签清单
func (r *CSVRenderer) RenderTaxonomy(tax *taxonomy.Taxonomy) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write([]string{"label", "title", "broad_type", "release_priority", "sql_type", "has_pattern"}); err != nil {
		return "", err
	}
	for _, label := range tax.Labels() {
		def, _ := tax.Get(label)
		hasPattern := def.Validation != nil && def.Validation.Pattern != ""
		record := []string{
			label,
			def.Title,
			def.BroadType,
			fmt.Sprintf("%d", def.ReleasePriority),
			typemap.SQLType(label),
			fmt.Sprintf("%t", hasPattern),
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	return sb.String(), w.Error()
}

// RenderReport 渲染检查报告的逐定义结果
func (r *CSVRenderer) RenderReport(report *checker.Report) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write([]string{"key", "generator_exists", "samples_generated", "samples_passed", "samples_failed", "pass_rate", "passed"}); err != nil {
		return "", err
	}
	for i := range report.Results {
		res := &report.Results[i]
		record := []string{
			res.Key,
			fmt.Sprintf("%t", res.GeneratorExists),
			fmt.Sprintf("%d", res.SamplesGenerated),
			fmt.Sprintf("%d", res.SamplesPassed),
			fmt.Sprintf("%d", res.SamplesFailed),
			fmt.Sprintf("%.4f", res.PassRate()),
			fmt.Sprintf("%t", res.Passed()),
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	return sb.String(), w.Error()
}
