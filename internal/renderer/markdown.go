package renderer

import (
	"fmt"
	"strings"

	"finetype-analyzer/internal/taxonomy"
	"finetype-analyzer/internal/typemap"
)

// MarkdownRenderer Markdown 数据字典渲染器
type MarkdownRenderer struct{}

// NewMarkdownRenderer 创建渲染器
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render 把 taxonomy 渲染为按领域分节的 Markdown 数据字典
func (m *MarkdownRenderer) Render(tax *taxonomy.Taxonomy) string {
	var sb strings.Builder

	sb.WriteString("# 语义类型字典\n\n")
	sb.WriteString(fmt.Sprintf("共 %d 个类型定义。\n\n", tax.Len()))

	for _, domain := range tax.Domains() {
		sb.WriteString(fmt.Sprintf("## %s\n\n", domain))
		sb.WriteString("| 标签 | 标题 | 广义类型 | 优先级 | SQL 类型 | 校验 |\n")
		sb.WriteString("|------|------|----------|--------|----------|------|\n")

		for _, def := range tax.ByDomain(domain) {
			label := def.Key()
			hasValidation := ""
			if def.Validation != nil && def.Validation.Pattern != "" {
				hasValidation = "✓"
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %d | %s | %s |\n",
				label,
				def.Title,
				def.BroadType,
				def.ReleasePriority,
				typemap.SQLType(label),
				hasValidation,
			))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
