package taxonomy

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Designation 标签的适用范围分类
type Designation string

const (
	DesignationUniversal       Designation = "universal"        // 通用格式，不区分地区
	DesignationLocaleSpecific  Designation = "locale_specific"  // 区域相关格式
	DesignationBroadNumbers    Designation = "broad_numbers"    // 宽泛类别：数字
	DesignationBroadCharacters Designation = "broad_characters" // 宽泛类别：字符
	DesignationBroadWords      Designation = "broad_words"      // 宽泛类别：文本
	DesignationBroadObject     Designation = "broad_object"     // 宽泛类别：结构化对象
	DesignationDuplicate       Designation = "duplicate"        // 与其他标签重复
)

// Validation JSON Schema 校验片段
type Validation struct {
	SchemaType string   `yaml:"type" json:"type,omitempty"`
	Pattern    string   `yaml:"pattern" json:"pattern,omitempty"`
	MinLength  *int     `yaml:"minLength" json:"min_length,omitempty"`
	MaxLength  *int     `yaml:"maxLength" json:"max_length,omitempty"`
	Minimum    *float64 `yaml:"minimum" json:"minimum,omitempty"`
	Maximum    *float64 `yaml:"maximum" json:"maximum,omitempty"`
	EnumValues []string `yaml:"enum" json:"enum,omitempty"`
}

// Definition 一条类型定义（taxonomy 中的一个条目）
//
// 每条定义是一个转换契约：模型输出 datetime.date.us_slash，
// 意味着该列可以按 MM/DD/YYYY 解析为 DATE。
type Definition struct {
	Title           string      `yaml:"title" json:"title,omitempty"`
	Description     string      `yaml:"description" json:"description,omitempty"`
	Designation     Designation `yaml:"designation" json:"designation,omitempty"`
	Locales         []string    `yaml:"locales" json:"locales,omitempty"`
	BroadType       string      `yaml:"broad_type" json:"broad_type,omitempty"`
	FormatString    string      `yaml:"format_string" json:"format_string,omitempty"`
	Transform       string      `yaml:"transform" json:"transform,omitempty"`
	Validation      *Validation `yaml:"validation" json:"validation,omitempty"`
	Tier            []string    `yaml:"tier" json:"tier,omitempty"`
	ReleasePriority uint8       `yaml:"release_priority" json:"release_priority"`
	Aliases         []string    `yaml:"aliases" json:"aliases,omitempty"`
	Samples         SampleList  `yaml:"samples" json:"samples,omitempty"`
	References      []string    `yaml:"references" json:"references,omitempty"`
	Notes           string      `yaml:"notes" json:"notes,omitempty"`

	key string // 加载时记录的完整标签键
}

// Key 定义对应的完整标签（domain.category.type）
func (d *Definition) Key() string {
	return d.key
}

// SampleList 样本值列表。YAML 中的样本可能是数字或布尔等标量，
// 统一按字符串形态读入。
type SampleList []string

// UnmarshalYAML 兼容非字符串标量样本
func (s *SampleList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("samples 必须是列表（第 %d 行）", node.Line)
	}
	out := make([]string, 0, len(node.Content))
	for _, item := range node.Content {
		if item.Kind != yaml.ScalarNode {
			return fmt.Errorf("samples 只支持标量值（第 %d 行）", item.Line)
		}
		out = append(out, item.Value)
	}
	*s = out
	return nil
}

// ParseError taxonomy 内容解析失败。
// IO 层面的失败（文件不存在、不可读）直接返回 *os.PathError。
type ParseError struct {
	Source string // 文件路径或 "inline"
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("解析 taxonomy 失败 (%s): %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Taxonomy 完整的类型定义集合。加载后不可变，可在多 goroutine 间只读共享。
type Taxonomy struct {
	definitions map[string]*Definition
	labels      []string // 排序后的全部标签键，索引分配的规范顺序
}

// Parse 从 YAML 内容构建 taxonomy
func Parse(data []byte) (*Taxonomy, error) {
	return parse(data, "inline")
}

func parse(data []byte, source string) (*Taxonomy, error) {
	raw := make(map[string]*Definition)
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{Source: source, Err: err}
	}
	return build(raw, source)
}

func build(raw map[string]*Definition, source string) (*Taxonomy, error) {
	labels := make([]string, 0, len(raw))
	for key, def := range raw {
		if _, err := ParseLabel(key); err != nil {
			return nil, &ParseError{Source: source, Err: err}
		}
		if def == nil {
			def = &Definition{}
			raw[key] = def
		}
		def.key = key
		labels = append(labels, key)
	}
	sort.Strings(labels)

	return &Taxonomy{definitions: raw, labels: labels}, nil
}

// Load 从单个 YAML 文件加载
func Load(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parse(data, path)
}

// LoadDirectory 加载目录下所有 definitions_*.yaml 文件。
// 同一个键在多个文件中出现时，后加载的文件覆盖先加载的（按文件名排序）。
func LoadDirectory(dir string) (*Taxonomy, error) {
	pattern := filepath.Join(dir, "definitions_*.yaml")
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("目录中没有定义文件: %s", pattern)
	}
	sort.Strings(paths)

	merged := make(map[string]*Definition)
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		raw := make(map[string]*Definition)
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, &ParseError{Source: path, Err: err}
		}
		for key, def := range raw {
			merged[key] = def
		}
	}
	return build(merged, dir)
}

// Get 按完整标签键查询定义
func (t *Taxonomy) Get(key string) (*Definition, bool) {
	def, ok := t.definitions[key]
	return def, ok
}

// Labels 全部标签键（排序后）。训练和推理两侧各自加载同一份
// 定义文件时，该顺序保证 label↔index 的一致性。
func (t *Taxonomy) Labels() []string {
	return t.labels
}

// Len 定义数量
func (t *Taxonomy) Len() int {
	return len(t.definitions)
}

// AtPriority 返回 release_priority >= min 的定义，按标签排序
func (t *Taxonomy) AtPriority(min uint8) []*Definition {
	var out []*Definition
	for _, key := range t.labels {
		if def := t.definitions[key]; def.ReleasePriority >= min {
			out = append(out, def)
		}
	}
	return out
}

// ByDomain 返回指定 domain 下的定义，按标签排序
func (t *Taxonomy) ByDomain(domain string) []*Definition {
	prefix := domain + "."
	var out []*Definition
	for _, key := range t.labels {
		if strings.HasPrefix(key, prefix) {
			out = append(out, t.definitions[key])
		}
	}
	return out
}

// ByCategory 返回指定 (domain, category) 下的定义，按标签排序
func (t *Taxonomy) ByCategory(domain, category string) []*Definition {
	prefix := domain + "." + category + "."
	var out []*Definition
	for _, key := range t.labels {
		if strings.HasPrefix(key, prefix) {
			out = append(out, t.definitions[key])
		}
	}
	return out
}

// Domains 全部 domain（排序、去重）
func (t *Taxonomy) Domains() []string {
	seen := make(map[string]bool)
	var out []string
	for _, key := range t.labels {
		domain := strings.SplitN(key, ".", 2)[0]
		if !seen[domain] {
			seen[domain] = true
			out = append(out, domain)
		}
	}
	return out
}

// Categories 指定 domain 下的全部 category（排序、去重）
func (t *Taxonomy) Categories(domain string) []string {
	prefix := domain + "."
	seen := make(map[string]bool)
	var out []string
	for _, key := range t.labels {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		parts := strings.SplitN(key, ".", 3)
		if len(parts) < 2 {
			continue
		}
		if !seen[parts[1]] {
			seen[parts[1]] = true
			out = append(out, parts[1])
		}
	}
	return out
}

// LabelToIndex 标签到类别索引的映射（基于排序后的标签列表）
func (t *Taxonomy) LabelToIndex() map[string]int {
	m := make(map[string]int, len(t.labels))
	for i, label := range t.labels {
		m[label] = i
	}
	return m
}

// IndexToLabel 类别索引到标签的映射
func (t *Taxonomy) IndexToLabel() map[int]string {
	m := make(map[int]string, len(t.labels))
	for i, label := range t.labels {
		m[i] = label
	}
	return m
}
