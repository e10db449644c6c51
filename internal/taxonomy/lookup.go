package taxonomy

import (
	"sort"
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// 模糊匹配的最低相似度，低于该值视为没有候选
const minResolveSimilarity = 0.7

// Resolve 把用户输入解析为一条定义。
// 依次尝试：精确匹配 → 别名匹配 → 编辑距离模糊匹配。
// 返回命中的标签键；没有足够接近的候选时 ok 为 false。
func (t *Taxonomy) Resolve(name string) (key string, def *Definition, ok bool) {
	if def, found := t.Get(name); found {
		return name, def, true
	}

	lower := strings.ToLower(name)
	for _, k := range t.labels {
		for _, alias := range t.definitions[k].Aliases {
			if strings.ToLower(alias) == lower {
				return k, t.definitions[k], true
			}
		}
	}

	bestKey := ""
	bestScore := 0.0
	for _, k := range t.labels {
		score := labelSimilarity(lower, k)
		if score > bestScore {
			bestScore = score
			bestKey = k
		}
	}
	if bestScore >= minResolveSimilarity {
		return bestKey, t.definitions[bestKey], true
	}
	return "", nil, false
}

// Suggest 返回与输入最接近的 n 个标签键，用于错误提示
func (t *Taxonomy) Suggest(name string, n int) []string {
	lower := strings.ToLower(name)
	type scored struct {
		key   string
		score float64
	}
	candidates := make([]scored, 0, len(t.labels))
	for _, k := range t.labels {
		candidates = append(candidates, scored{key: k, score: labelSimilarity(lower, k)})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].key < candidates[j].key
	})
	if n > len(candidates) {
		n = len(candidates)
	}
	out := make([]string, 0, n)
	for _, c := range candidates[:n] {
		out = append(out, c.key)
	}
	return out
}

// labelSimilarity 计算输入与标签键的相似度。
// 先比较完整键，再比较末段类型名，取较高者。
func labelSimilarity(input, key string) float64 {
	full := stringSimilarity(input, strings.ToLower(key))

	parts := strings.Split(key, ".")
	typeName := strings.ToLower(parts[len(parts)-1])
	tail := stringSimilarity(input, typeName)

	if tail > full {
		return tail
	}
	return full
}

func stringSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 0.8
	}
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 0
	}
	distance := levenshtein.DistanceForStrings([]rune(a), []rune(b), levenshtein.DefaultOptions)
	return 1.0 - float64(distance)/float64(maxLen)
}
