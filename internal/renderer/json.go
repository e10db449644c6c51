package renderer

import "encoding/json"

// JSONRenderer JSON 渲染器, 检查报告和分类结果通用
type JSONRenderer struct{}

// NewJSONRenderer 创建渲染器
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// Render 渲染为带缩进的 JSON
func (r *JSONRenderer) Render(v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}
