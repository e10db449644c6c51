// Package normalizer 把带标签的原始字符串值规整为规范形式。
//
// 规整是纯函数：输入值和标签，输出规范字符串；值不符合该
// 标签的格式时返回 ok=false。日期统一成 YYYY-MM-DD，时间统一
// 成 24 小时制 HH:MM:SS，布尔统一成 true/false，UUID 统一成
// 小写连字符形式。不需要规整的类型原样透传。
package normalizer

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Normalize 按标签规整一个值。
// 返回规范形式和是否通过该标签的格式校验。
func Normalize(value, label string) (string, bool) {
	parts := strings.SplitN(label, ".", 3)
	domain := parts[0]
	category := ""
	if len(parts) > 1 {
		category = parts[1]
	}

	switch {
	case domain == "datetime" && category == "date":
		return normalizeDate(value, label)
	case domain == "datetime" && category == "time":
		return normalizeTime(value, label)
	case domain == "datetime" && category == "timestamp":
		return normalizeTimestamp(value)
	case domain == "datetime" && category == "epoch":
		return normalizeEpoch(value)
	case label == "technology.development.boolean":
		return normalizeBoolean(value)
	case label == "technology.cryptographic.uuid":
		return normalizeUUID(value)
	case domain == "technology" && category == "internet":
		return normalizeInternet(value, label)
	case domain == "representation" && category == "numeric":
		return normalizeNumeric(value, label)
	case label == "container.object.json":
		return normalizeJSON(value)
	default:
		// 其余类型不需要规整
		return strings.TrimSpace(value), true
	}
}

// monthNumber 月份名转数字，大小写不敏感
func monthNumber(name string) (int, bool) {
	switch strings.ToLower(name) {
	case "january", "jan":
		return 1, true
	case "february", "feb":
		return 2, true
	case "march", "mar":
		return 3, true
	case "april", "apr":
		return 4, true
	case "may":
		return 5, true
	case "june", "jun":
		return 6, true
	case "july", "jul":
		return 7, true
	case "august", "aug":
		return 8, true
	case "september", "sep", "sept":
		return 9, true
	case "october", "oct":
		return 10, true
	case "november", "nov":
		return 11, true
	case "december", "dec":
		return 12, true
	}
	return 0, false
}

func normalizeDate(value, label string) (string, bool) {
	v := strings.TrimSpace(value)
	switch label {
	case "datetime.date.iso", "datetime.date.short_ymd":
		return validateDateParts(strings.ReplaceAll(v, "/", "-"))
	case "datetime.date.us_slash", "datetime.date.short_mdy":
		// MM/DD/YYYY 或 MM-DD-YYYY
		parts := splitDate(v, "/-")
		if len(parts) != 3 {
			return "", false
		}
		y := normalizeYear(strings.TrimSpace(parts[2]))
		return validateDateParts(y + "-" + pad2(strings.TrimSpace(parts[0])) + "-" + pad2(strings.TrimSpace(parts[1])))
	case "datetime.date.eu_slash", "datetime.date.eu_dot", "datetime.date.short_dmy":
		// DD/MM/YYYY 或 DD.MM.YYYY 或 DD-MM-YYYY
		parts := splitDate(v, "/.-")
		if len(parts) != 3 {
			return "", false
		}
		y := normalizeYear(strings.TrimSpace(parts[2]))
		return validateDateParts(y + "-" + pad2(strings.TrimSpace(parts[1])) + "-" + pad2(strings.TrimSpace(parts[0])))
	case "datetime.date.long_full_month", "datetime.date.abbreviated_month",
		"datetime.date.weekday_full_month", "datetime.date.weekday_abbreviated_month":
		return normalizeNamedMonthDate(v)
	case "datetime.date.compact_ymd":
		// YYYYMMDD
		if len(v) == 8 && allDigits(v) {
			return validateDateParts(v[0:4] + "-" + v[4:6] + "-" + v[6:8])
		}
		return "", false
	case "datetime.date.compact_mdy":
		// MMDDYYYY
		if len(v) == 8 && allDigits(v) {
			return validateDateParts(v[4:8] + "-" + v[0:2] + "-" + v[2:4])
		}
		return "", false
	case "datetime.date.compact_dmy":
		// DDMMYYYY
		if len(v) == 8 && allDigits(v) {
			return validateDateParts(v[4:8] + "-" + v[2:4] + "-" + v[0:2])
		}
		return "", false
	default:
		return v, true
	}
}

// normalizeNamedMonthDate 解析带月份名的日期，
// 如 "January 15, 2024"、"15 Jan 2024"、"Monday, January 15, 2024"
func normalizeNamedMonthDate(value string) (string, bool) {
	v := value
	// 去掉星期前缀
	if idx := strings.Index(v, ", "); idx >= 0 {
		before := strings.ToLower(v[:idx])
		weekdays := []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}
		for _, w := range weekdays {
			if strings.HasPrefix(before, w) {
				v = strings.TrimSpace(value[idx+2:])
				break
			}
		}
	}

	tokens := strings.FieldsFunc(v, func(r rune) bool {
		return r == ' ' || r == ',' || r == '-'
	})

	var month, day, year int
	var hasMonth, hasDay, hasYear bool
	for _, token := range tokens {
		if m, ok := monthNumber(token); ok {
			month, hasMonth = m, true
			continue
		}
		if num, err := strconv.ParseUint(token, 10, 32); err == nil {
			if num > 31 {
				year, hasYear = int(num), true
			} else if !hasDay {
				// 去掉序数后缀 (1st, 2nd, 3rd, 4th)
				clean := strings.TrimRightFunc(token, isLetter)
				if d, err := strconv.ParseUint(clean, 10, 32); err == nil {
					day, hasDay = int(d), true
				}
			}
			continue
		}
		clean := strings.TrimRightFunc(token, isLetter)
		if d, err := strconv.ParseUint(clean, 10, 32); err == nil && d <= 31 && !hasDay {
			day, hasDay = int(d), true
		}
	}

	if !hasYear || !hasMonth || !hasDay {
		return "", false
	}
	return validateDateParts(isoDate(year, month, day))
}

// normalizeYear 两位年份补全为四位: 00-49 → 20xx, 50-99 → 19xx
func normalizeYear(y string) string {
	if len(y) == 2 {
		if n, err := strconv.ParseUint(y, 10, 32); err == nil {
			if n <= 49 {
				return "20" + pad2(y)
			}
			return "19" + pad2(y)
		}
	}
	return y
}

// validateDateParts 校验 YYYY-MM-DD 各部分的取值范围，含闰年
func validateDateParts(iso string) (string, bool) {
	parts := strings.Split(iso, "-")
	if len(parts) != 3 {
		return "", false
	}
	y, err := strconv.Atoi(parts[0])
	if err != nil {
		return "", false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", false
	}
	d, err := strconv.Atoi(parts[2])
	if err != nil {
		return "", false
	}

	if y < 1 || y > 9999 || m < 1 || m > 12 || d < 1 || d > 31 {
		return "", false
	}

	maxDays := 31
	switch m {
	case 4, 6, 9, 11:
		maxDays = 30
	case 2:
		if y%4 == 0 && (y%100 != 0 || y%400 == 0) {
			maxDays = 29
		} else {
			maxDays = 28
		}
	}
	if d > maxDays {
		return "", false
	}
	return isoDate(y, m, d), true
}

func normalizeTime(value, label string) (string, bool) {
	v := strings.TrimSpace(value)
	switch label {
	case "datetime.time.hms_24h", "datetime.time.iso":
		return v, true
	case "datetime.time.hm_24h":
		return v + ":00", true
	case "datetime.time.hm_12h", "datetime.time.hms_12h":
		return normalize12hTime(v)
	default:
		return v, true
	}
}

// normalize12hTime 12 小时制转 24 小时制
func normalize12hTime(value string) (string, bool) {
	// 先去掉点号, 让 "p.m." 与 "pm" 走同一条路径
	v := strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(value)), ".", "")
	isPM := strings.Contains(v, "PM")
	isAM := strings.Contains(v, "AM")
	if !isPM && !isAM {
		return strings.TrimSpace(value), true
	}

	timePart := strings.NewReplacer("AM", "", "PM", "").Replace(v)
	timePart = strings.TrimSpace(timePart)

	parts := strings.Split(timePart, ":")
	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return "", false
	}
	min, sec := 0, 0
	if len(parts) > 1 {
		if min, err = strconv.Atoi(strings.TrimSpace(parts[1])); err != nil {
			return "", false
		}
	}
	if len(parts) > 2 {
		if sec, err = strconv.Atoi(strings.TrimSpace(parts[2])); err != nil {
			return "", false
		}
	}

	if isPM && hour != 12 {
		hour += 12
	}
	if isAM && hour == 12 {
		hour = 0
	}
	if hour > 23 || min > 59 || sec > 59 || hour < 0 || min < 0 || sec < 0 {
		return "", false
	}
	return two(hour) + ":" + two(min) + ":" + two(sec), true
}

// normalizeTimestamp 时间戳格式多数已接近 ISO 8601，只做非空校验后透传
func normalizeTimestamp(value string) (string, bool) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", false
	}
	return v, true
}

// normalizeEpoch 校验纪元值是整数
func normalizeEpoch(value string) (string, bool) {
	v := strings.TrimSpace(value)
	if _, err := strconv.ParseInt(v, 10, 64); err != nil {
		return "", false
	}
	return v, true
}

// normalizeBoolean 布尔值统一为 true/false
func normalizeBoolean(value string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "yes", "y", "1", "on", "t":
		return "true", true
	case "false", "no", "n", "0", "off", "f":
		return "false", true
	}
	return "", false
}

// normalizeUUID UUID 统一为小写连字符形式
func normalizeUUID(value string) (string, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	var hex strings.Builder
	for _, c := range v {
		if (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') {
			hex.WriteRune(c)
		}
	}
	h := hex.String()
	if len(h) != 32 {
		return "", false
	}
	return h[0:8] + "-" + h[8:12] + "-" + h[12:16] + "-" + h[16:20] + "-" + h[20:32], true
}

func normalizeInternet(value, label string) (string, bool) {
	v := strings.TrimSpace(value)
	switch label {
	case "technology.internet.ip_v4":
		// 4 段, 每段 0-255
		parts := strings.Split(v, ".")
		if len(parts) != 4 {
			return "", false
		}
		for _, part := range parts {
			n, err := strconv.ParseUint(part, 10, 16)
			if err != nil || n > 255 {
				return "", false
			}
		}
		return v, true
	case "technology.internet.http_status_code":
		n, err := strconv.ParseUint(v, 10, 16)
		if err != nil || n < 100 || n > 599 {
			return "", false
		}
		return v, true
	case "technology.internet.port":
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil || n > 65535 {
			return "", false
		}
		return v, true
	default:
		return v, true
	}
}

// normalizeNumeric 去掉数值里的千分位逗号、货币符号等格式字符
func normalizeNumeric(value, label string) (string, bool) {
	v := strings.TrimSpace(value)
	switch label {
	case "representation.numeric.integer_number", "representation.numeric.increment":
		clean := keepChars(v, "0123456789-+")
		if _, err := strconv.ParseInt(clean, 10, 64); err != nil {
			return "", false
		}
		return clean, true
	case "representation.numeric.decimal_number":
		clean := keepChars(v, "0123456789.-+")
		if _, err := strconv.ParseFloat(clean, 64); err != nil {
			return "", false
		}
		return clean, true
	case "representation.numeric.percentage":
		clean := keepChars(strings.TrimSpace(strings.TrimSuffix(v, "%")), "0123456789.-+")
		if _, err := strconv.ParseFloat(clean, 64); err != nil {
			return "", false
		}
		return clean, true
	case "representation.numeric.scientific_notation":
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			return "", false
		}
		return v, true
	default:
		return v, true
	}
}

// normalizeJSON 校验 JSON 格式合法
func normalizeJSON(value string) (string, bool) {
	v := strings.TrimSpace(value)
	if !json.Valid([]byte(v)) {
		return "", false
	}
	return v, true
}

func splitDate(v, seps string) []string {
	normalized := strings.Map(func(r rune) rune {
		if strings.ContainsRune(seps, r) {
			return '/'
		}
		return r
	}, v)
	return strings.SplitN(normalized, "/", 3)
}

// keepChars 只保留 keep 中列出的字符, 其余丢弃
func keepChars(s, keep string) string {
	var b strings.Builder
	for _, c := range s {
		if strings.ContainsRune(keep, c) {
			b.WriteRune(c)
		}
	}
	return b.String()
}

func allDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

func two(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

func isoDate(y, m, d int) string {
	ys := strconv.Itoa(y)
	for len(ys) < 4 {
		ys = "0" + ys
	}
	return ys + "-" + two(m) + "-" + two(d)
}
