package classify

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// 消解规则命中时的置信度下限
const ruleConfidenceFloor = 0.8

// 单值模式下无法区分的标签对
const (
	labelUSSlash   = "datetime.date.us_slash"
	labelEUSlash   = "datetime.date.eu_slash"
	labelShortMDY  = "datetime.date.short_mdy"
	labelShortDMY  = "datetime.date.short_dmy"
	labelLatitude  = "geography.coordinate.latitude"
	labelLongitude = "geography.coordinate.longitude"

	labelYear         = "datetime.component.year"
	labelIncrement    = "representation.numeric.increment"
	labelInteger      = "representation.numeric.integer_number"
	labelDecimal      = "representation.numeric.decimal_number"
	labelPort         = "technology.internet.port"
	labelPostalCode   = "geography.address.postal_code"
	labelStreetNumber = "geography.address.street_number"
)

// 数值列消解的触发标签
var numericLabels = []string{
	labelYear,
	labelPort,
	labelIncrement,
	labelInteger,
	labelDecimal,
	labelPostalCode,
	labelStreetNumber,
}

// 常见端口号, 用于区分端口列和其他整数列
var wellKnownPorts = []int64{80, 443, 8080, 3306, 5432, 22, 21, 25, 53, 3000, 8000, 8443}

// disambiguate 对投票前三的候选套用歧义消解规则。
// 命中时返回标签和规则名。
func disambiguate(values []string, topLabels []string) (label, rule string, ok bool) {
	if containsPair(topLabels, labelUSSlash, labelEUSlash) {
		if label, ok := disambiguateSlashDates(values); ok {
			return label, "date_slash_disambiguation", true
		}
	}
	if containsPair(topLabels, labelShortMDY, labelShortDMY) {
		if label, ok := disambiguateShortDates(values); ok {
			return label, "short_date_disambiguation", true
		}
	}
	if containsPair(topLabels, labelLatitude, labelLongitude) {
		if label, ok := disambiguateCoordinates(values); ok {
			return label, "coordinate_disambiguation", true
		}
	}
	return disambiguateNumeric(values, topLabels)
}

func containsPair(labels []string, a, b string) bool {
	return containsLabel(labels, a) && containsLabel(labels, b)
}

func containsLabel(labels []string, target string) bool {
	for _, l := range labels {
		if l == target {
			return true
		}
	}
	return false
}

// disambiguateSlashDates 区分 MM/DD/YYYY 和 DD/MM/YYYY。
// 任一值第一段大于 12 说明第一段是日, 即 eu_slash;
// 任一值第二段大于 12 说明第二段是日, 即 us_slash。
func disambiguateSlashDates(values []string) (string, bool) {
	first, second := componentsOver12(values, "/")
	switch {
	case first && !second:
		return labelEUSlash, true
	case second && !first:
		return labelUSSlash, true
	default:
		// 两边都没超 12 或互相矛盾, 交还多数票
		return "", false
	}
}

// disambiguateShortDates 区分 MM-DD-YY 和 DD-MM-YY, 规则同斜杠日期
func disambiguateShortDates(values []string) (string, bool) {
	first, second := componentsOver12(values, "-")
	switch {
	case first && !second:
		return labelShortDMY, true
	case second && !first:
		return labelShortMDY, true
	default:
		return "", false
	}
}

func componentsOver12(values []string, sep string) (firstOver, secondOver bool) {
	for _, val := range values {
		parts := strings.Split(val, sep)
		if len(parts) < 2 {
			continue
		}
		if n, err := strconv.ParseUint(strings.TrimSpace(parts[0]), 10, 32); err == nil && n > 12 {
			firstOver = true
		}
		if n, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 32); err == nil && n > 12 {
			secondOver = true
		}
	}
	return firstOver, secondOver
}

// disambiguateCoordinates 区分纬度和经度。
// 纬度绝对值不超过 90, 出现大于 90 的值必是经度;
// 全部值都在 [-90, 90] 之内则按纬度处理。
func disambiguateCoordinates(values []string) (string, bool) {
	anyOver90 := false
	allParseable := true
	parsed := 0
	for _, val := range values {
		v, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			allParseable = false
			continue
		}
		parsed++
		if math.Abs(v) > 90.0 {
			anyOver90 = true
		}
	}
	if parsed < 3 {
		return "", false
	}
	if anyOver90 {
		return labelLongitude, true
	}
	if allParseable {
		return labelLatitude, true
	}
	return "", false
}

// disambiguateNumeric 按取值范围和分布区分整数类型:
// 年份、自增序列、端口、邮编、门牌号。
func disambiguateNumeric(values []string, topLabels []string) (label, rule string, ok bool) {
	triggered := false
	for _, l := range numericLabels {
		if containsLabel(topLabels, l) {
			triggered = true
			break
		}
	}
	if !triggered {
		return "", "", false
	}

	var parsed []int64
	for _, v := range values {
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			parsed = append(parsed, n)
		}
	}
	if len(parsed) < 3 {
		return "", "", false
	}

	min, max := parsed[0], parsed[0]
	for _, n := range parsed[1:] {
		if n < min {
			min = n
		}
		if n > max {
			max = n
		}
	}

	// 年份列: 至少八成的值是 1900-2100 之间的四位整数。
	// 连续年份也会呈现自增形态, 所以年份判断要先于自增判断。
	yearLike := 0
	for _, n := range parsed {
		if n >= 1900 && n <= 2100 {
			yearLike++
		}
	}
	if float64(yearLike) >= 0.8*float64(len(parsed)) {
		return labelYear, "numeric_year_detection", true
	}

	isSequential := sequentialInts(parsed)

	allInPortRange := min >= 0 && max <= 65535
	hasCommonPorts := false
	for _, n := range parsed {
		for _, p := range wellKnownPorts {
			if n == p {
				hasCommonPorts = true
				break
			}
		}
		if hasCommonPorts {
			break
		}
	}

	allPositive := min > 0
	typicalPostalRange := allPositive && max <= 99999 && min >= 100
	consistentDigits := consistentDigitWidth(values)

	if isSequential && min >= 0 && max > min {
		return labelIncrement, "numeric_sequential_detection", true
	}
	if hasCommonPorts && allInPortRange && !isSequential {
		return labelPort, "numeric_port_detection", true
	}
	if consistentDigits && typicalPostalRange && !isSequential {
		return labelPostalCode, "numeric_postal_code_detection", true
	}

	streetRange := allPositive && max < 100000
	if containsLabel(topLabels, labelStreetNumber) && streetRange &&
		!isSequential && !hasCommonPorts && !consistentDigits {
		return labelStreetNumber, "numeric_street_number_detection", true
	}

	// 分不出更具体的类型, 交还多数票
	return "", "", false
}

// sequentialInts 判断去重排序后的差值是否近似恒定且为正
func sequentialInts(parsed []int64) bool {
	sorted := append([]int64(nil), parsed...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	dedup := sorted[:0]
	var prev int64
	for i, n := range sorted {
		if i == 0 || n != prev {
			dedup = append(dedup, n)
		}
		prev = n
	}
	if len(dedup) < 3 {
		return false
	}

	diffs := make([]float64, 0, len(dedup)-1)
	sum := 0.0
	for i := 1; i < len(dedup); i++ {
		d := float64(dedup[i] - dedup[i-1])
		diffs = append(diffs, d)
		sum += d
	}
	avg := sum / float64(len(diffs))
	variance := 0.0
	for _, d := range diffs {
		variance += (d - avg) * (d - avg)
	}
	variance /= float64(len(diffs))
	return variance < (avg*0.5)*(avg*0.5) && avg > 0.0
}

// consistentDigitWidth 纯数字值的位数是否一致
func consistentDigitWidth(values []string) bool {
	widths := []int{}
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		digitsOnly := true
		for _, c := range trimmed {
			if c < '0' || c > '9' {
				digitsOnly = false
				break
			}
		}
		if digitsOnly {
			widths = append(widths, len(trimmed))
		}
	}
	if len(widths) == 0 {
		return false
	}
	for _, w := range widths[1:] {
		if w != widths[0] {
			return false
		}
	}
	return true
}
