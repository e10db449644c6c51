package taxonomy

import "sort"

// TierGraph 分层推理图。从每条定义的 tier 字段提取三层结构：
//   - Tier 0: 宽泛类型（VARCHAR、DATE、TIMESTAMP 等）
//   - Tier 1: 宽泛类型下的 category（internet、person、date 等）
//   - Tier 2: category 下的具体类型（完整标签）
//
// 图的形状决定哪些层级需要独立的下级分类器：
// 只有一个具体类型的组可以直接得出结论。
type TierGraph struct {
	broadTypes []string
	categories map[string][]string
	types      map[tierKey][]string
	labelPath  map[string]tierKey
}

type tierKey struct {
	BroadType string
	Category  string
}

// BuildTierGraph 从 taxonomy 构建分层图。tier 字段少于两段的定义不参与。
func BuildTierGraph(t *Taxonomy) *TierGraph {
	g := &TierGraph{
		categories: make(map[string][]string),
		types:      make(map[tierKey][]string),
		labelPath:  make(map[string]tierKey),
	}

	for _, key := range t.labels {
		def := t.definitions[key]
		if len(def.Tier) < 2 {
			continue
		}
		tk := tierKey{BroadType: def.Tier[0], Category: def.Tier[1]}
		g.categories[tk.BroadType] = append(g.categories[tk.BroadType], tk.Category)
		g.types[tk] = append(g.types[tk], key)
		g.labelPath[key] = tk
	}

	for bt, cats := range g.categories {
		sort.Strings(cats)
		g.categories[bt] = dedupSorted(cats)
	}
	for tk, labels := range g.types {
		sort.Strings(labels)
		g.types[tk] = labels
	}

	for bt := range g.categories {
		g.broadTypes = append(g.broadTypes, bt)
	}
	sort.Strings(g.broadTypes)

	return g
}

func dedupSorted(values []string) []string {
	out := values[:0]
	for i, v := range values {
		if i == 0 || v != values[i-1] {
			out = append(out, v)
		}
	}
	return out
}

// TierGraph 构建该 taxonomy 的分层图
func (t *Taxonomy) TierGraph() *TierGraph {
	return BuildTierGraph(t)
}

// BroadTypes Tier 0 类别（排序后的宽泛类型）
func (g *TierGraph) BroadTypes() []string {
	return g.broadTypes
}

// CategoriesFor 指定宽泛类型下的 Tier 1 类别
func (g *TierGraph) CategoriesFor(broadType string) []string {
	return g.categories[broadType]
}

// TypesFor 指定 (broad_type, category) 下的 Tier 2 完整标签
func (g *TierGraph) TypesFor(broadType, category string) []string {
	return g.types[tierKey{BroadType: broadType, Category: category}]
}

// TierPath 完整标签对应的 (broad_type, category)
func (g *TierGraph) TierPath(label string) (broadType, category string, ok bool) {
	tk, ok := g.labelPath[label]
	return tk.BroadType, tk.Category, ok
}

// BroadTypeFor 完整标签对应的宽泛类型
func (g *TierGraph) BroadTypeFor(label string) (string, bool) {
	tk, ok := g.labelPath[label]
	return tk.BroadType, ok
}

// CategoryFor 完整标签对应的 category
func (g *TierGraph) CategoryFor(label string) (string, bool) {
	tk, ok := g.labelPath[label]
	return tk.Category, ok
}

// NumBroadTypes Tier 0 类别数量
func (g *TierGraph) NumBroadTypes() int {
	return len(g.broadTypes)
}

// NumCategories 指定宽泛类型下的 Tier 1 类别数量
func (g *TierGraph) NumCategories(broadType string) int {
	return len(g.categories[broadType])
}

// NumTypes 指定组下的 Tier 2 类型数量
func (g *TierGraph) NumTypes(broadType, category string) int {
	return len(g.TypesFor(broadType, category))
}

// Resolution 一个 (broad_type, category) 组的解析方式。
// Direct 非空表示该组只有一个类型，Tier 1 命中即可直接得出标签；
// 否则需要把样本交给该组的下级分类器。
type Resolution struct {
	BroadType string
	Category  string
	Direct    string
	NumTypes  int
}

// Delegated 该组是否需要下级分类器
func (r Resolution) Delegated() bool {
	return r.Direct == ""
}

// Resolutions 全部组的解析方式（排序后）。持有超过 minTypes 个类型的组
// 标记为需要下级分类器。
func (g *TierGraph) Resolutions(minTypes int) []Resolution {
	var out []Resolution
	for tk, labels := range g.types {
		r := Resolution{BroadType: tk.BroadType, Category: tk.Category, NumTypes: len(labels)}
		if len(labels) <= minTypes {
			r.Direct = labels[0]
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BroadType != out[j].BroadType {
			return out[i].BroadType < out[j].BroadType
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// Tier2Groups 需要下级分类器的组（类型数 > minTypes，排序后）
func (g *TierGraph) Tier2Groups(minTypes int) [][2]string {
	var out [][2]string
	for tk, labels := range g.types {
		if len(labels) > minTypes {
			out = append(out, [2]string{tk.BroadType, tk.Category})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i][0] != out[j][0] {
			return out[i][0] < out[j][0]
		}
		return out[i][1] < out[j][1]
	})
	return out
}

// DirectResolveGroups 只有单一类型、无需下级分类器的组（排序后）
func (g *TierGraph) DirectResolveGroups() []Resolution {
	var out []Resolution
	for _, r := range g.Resolutions(1) {
		if r.NumTypes == 1 {
			out = append(out, r)
		}
	}
	return out
}

// Summary 分层图结构摘要
type Summary struct {
	Tier0Classes        int `json:"tier0_classes"`
	Tier1Models         int `json:"tier1_models"`
	Tier2ModelsGt5      int `json:"tier2_models_gt5"`
	Tier2ModelsGt1      int `json:"tier2_models_gt1"`
	DirectResolveGroups int `json:"direct_resolve_groups"`
	TotalLabels         int `json:"total_labels"`
}

// Summary 计算结构摘要
func (g *TierGraph) Summary() Summary {
	return Summary{
		Tier0Classes:        len(g.broadTypes),
		Tier1Models:         len(g.broadTypes),
		Tier2ModelsGt5:      len(g.Tier2Groups(5)),
		Tier2ModelsGt1:      len(g.Tier2Groups(1)),
		DirectResolveGroups: len(g.DirectResolveGroups()),
		TotalLabels:         len(g.labelPath),
	}
}
