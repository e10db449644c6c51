package normalizer

import "testing"

func TestNormalizeDates(t *testing.T) {
	tests := []struct {
		name  string
		value string
		label string
		want  string
		ok    bool
	}{
		{"ISO 透传", "2024-01-15", "datetime.date.iso", "2024-01-15", true},
		{"ISO 斜杠", "2024/01/15", "datetime.date.iso", "2024-01-15", true},
		{"美式斜杠", "01/15/2024", "datetime.date.us_slash", "2024-01-15", true},
		{"美式单位数补零", "1/5/2024", "datetime.date.us_slash", "2024-01-05", true},
		{"欧式斜杠", "15/01/2024", "datetime.date.eu_slash", "2024-01-15", true},
		{"欧式点号", "15.01.2024", "datetime.date.eu_dot", "2024-01-15", true},
		{"短月日年两位年", "01/15/24", "datetime.date.short_mdy", "2024-01-15", true},
		{"短日月年两位年", "15-01-99", "datetime.date.short_dmy", "1999-01-15", true},
		{"全月份名", "January 15, 2024", "datetime.date.long_full_month", "2024-01-15", true},
		{"缩写月份名", "Jan 15, 2024", "datetime.date.abbreviated_month", "2024-01-15", true},
		{"日在前月份名", "15 Jan 2024", "datetime.date.abbreviated_month", "2024-01-15", true},
		{"带星期前缀", "Monday, January 15, 2024", "datetime.date.weekday_full_month", "2024-01-15", true},
		{"序数后缀", "March 3rd, 2024", "datetime.date.long_full_month", "2024-03-03", true},
		{"紧凑年月日", "20240115", "datetime.date.compact_ymd", "2024-01-15", true},
		{"紧凑月日年", "01152024", "datetime.date.compact_mdy", "2024-01-15", true},
		{"紧凑日月年", "15012024", "datetime.date.compact_dmy", "2024-01-15", true},
		{"闰年 2 月 29", "02/29/2024", "datetime.date.us_slash", "2024-02-29", true},
		{"非闰年 2 月 29", "02/29/2023", "datetime.date.us_slash", "", false},
		{"13 月无效", "2024-13-01", "datetime.date.iso", "", false},
		{"4 月 31 无效", "2024-04-31", "datetime.date.iso", "", false},
		{"缺段无效", "01/2024", "datetime.date.us_slash", "", false},
	}
	for _, tt := range tests {
		got, ok := Normalize(tt.value, tt.label)
		if ok != tt.ok || got != tt.want {
			t.Errorf("%s: Normalize(%q, %s) = (%q, %v), 期望 (%q, %v)",
				tt.name, tt.value, tt.label, got, ok, tt.want, tt.ok)
		}
	}
}

func TestNormalizeTimes(t *testing.T) {
	tests := []struct {
		value string
		label string
		want  string
		ok    bool
	}{
		{"14:30:00", "datetime.time.hms_24h", "14:30:00", true},
		{"14:30", "datetime.time.hm_24h", "14:30:00", true},
		{"2:30 PM", "datetime.time.hm_12h", "14:30:00", true},
		{"2:30 AM", "datetime.time.hm_12h", "02:30:00", true},
		{"12:00 AM", "datetime.time.hm_12h", "00:00:00", true},
		{"12:00 PM", "datetime.time.hm_12h", "12:00:00", true},
		{"2:30:45 pm", "datetime.time.hms_12h", "14:30:45", true},
		{"2:30 p.m.", "datetime.time.hm_12h", "14:30:00", true},
		{"9:05 a.m.", "datetime.time.hm_12h", "09:05:00", true},
		{"12:00 P.M.", "datetime.time.hm_12h", "12:00:00", true},
		{"13:99 PM", "datetime.time.hm_12h", "", false},
	}
	for _, tt := range tests {
		got, ok := Normalize(tt.value, tt.label)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Normalize(%q, %s) = (%q, %v), 期望 (%q, %v)",
				tt.value, tt.label, got, ok, tt.want, tt.ok)
		}
	}
}

func TestNormalizeEpoch(t *testing.T) {
	if got, ok := Normalize("1705312800", "datetime.epoch.unix_seconds"); !ok || got != "1705312800" {
		t.Errorf("整数纪元应通过, 得到 (%q, %v)", got, ok)
	}
	if _, ok := Normalize("not-epoch", "datetime.epoch.unix_seconds"); ok {
		t.Error("非整数纪元应失败")
	}
}

func TestNormalizeBoolean(t *testing.T) {
	truthy := []string{"true", "Yes", "y", "1", "ON", "t"}
	falsy := []string{"false", "No", "n", "0", "off", "F"}
	for _, v := range truthy {
		if got, ok := Normalize(v, "technology.development.boolean"); !ok || got != "true" {
			t.Errorf("Normalize(%q) = (%q, %v), 期望 (true, true)", v, got, ok)
		}
	}
	for _, v := range falsy {
		if got, ok := Normalize(v, "technology.development.boolean"); !ok || got != "false" {
			t.Errorf("Normalize(%q) = (%q, %v), 期望 (false, true)", v, got, ok)
		}
	}
	if _, ok := Normalize("maybe", "technology.development.boolean"); ok {
		t.Error("非布尔值应失败")
	}
}

func TestNormalizeUUID(t *testing.T) {
	tests := []struct {
		value string
		want  string
		ok    bool
	}{
		{"550E8400-E29B-41D4-A716-446655440000", "550e8400-e29b-41d4-a716-446655440000", true},
		{"550e8400e29b41d4a716446655440000", "550e8400-e29b-41d4-a716-446655440000", true},
		{"{550e8400-e29b-41d4-a716-446655440000}", "550e8400-e29b-41d4-a716-446655440000", true},
		{"not-a-uuid", "", false},
	}
	for _, tt := range tests {
		got, ok := Normalize(tt.value, "technology.cryptographic.uuid")
		if ok != tt.ok || got != tt.want {
			t.Errorf("Normalize(%q) = (%q, %v), 期望 (%q, %v)", tt.value, got, ok, tt.want, tt.ok)
		}
	}
}

func TestNormalizeInternet(t *testing.T) {
	tests := []struct {
		value string
		label string
		ok    bool
	}{
		{"192.168.1.1", "technology.internet.ip_v4", true},
		{"256.1.1.1", "technology.internet.ip_v4", false},
		{"1.2.3", "technology.internet.ip_v4", false},
		{"404", "technology.internet.http_status_code", true},
		{"99", "technology.internet.http_status_code", false},
		{"600", "technology.internet.http_status_code", false},
		{"8080", "technology.internet.port", true},
		{"70000", "technology.internet.port", false},
	}
	for _, tt := range tests {
		if _, ok := Normalize(tt.value, tt.label); ok != tt.ok {
			t.Errorf("Normalize(%q, %s): ok=%v, 期望 %v", tt.value, tt.label, ok, tt.ok)
		}
	}
}

func TestNormalizeNumeric(t *testing.T) {
	tests := []struct {
		value string
		label string
		want  string
		ok    bool
	}{
		{"1,234,567", "representation.numeric.integer_number", "1234567", true},
		{"-42", "representation.numeric.integer_number", "-42", true},
		{"1,234.56", "representation.numeric.decimal_number", "1234.56", true},
		{"$1,234.56", "representation.numeric.decimal_number", "1234.56", true},
		{"85.5%", "representation.numeric.percentage", "85.5", true},
		{"1.5e10", "representation.numeric.scientific_notation", "1.5e10", true},
		{"abc", "representation.numeric.integer_number", "", false},
	}
	for _, tt := range tests {
		got, ok := Normalize(tt.value, tt.label)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Normalize(%q, %s) = (%q, %v), 期望 (%q, %v)",
				tt.value, tt.label, got, ok, tt.want, tt.ok)
		}
	}
}

func TestNormalizeJSON(t *testing.T) {
	if got, ok := Normalize(`{"a": 1}`, "container.object.json"); !ok || got != `{"a": 1}` {
		t.Errorf("合法 JSON 应通过, 得到 (%q, %v)", got, ok)
	}
	if _, ok := Normalize(`{"a": `, "container.object.json"); ok {
		t.Error("残缺 JSON 应失败")
	}
}

func TestNormalizePassthrough(t *testing.T) {
	// 不需要规整的类型原样透传
	if got, ok := Normalize("Alice", "person.name.first_name"); !ok || got != "Alice" {
		t.Errorf("透传类型应原样返回, 得到 (%q, %v)", got, ok)
	}
	if got, ok := Normalize("P1DT2H", "datetime.duration.iso_8601"); !ok || got != "P1DT2H" {
		t.Errorf("时长应透传, 得到 (%q, %v)", got, ok)
	}
	// 透传时去掉首尾空白
	if got, ok := Normalize("  Alice ", "person.name.first_name"); !ok || got != "Alice" {
		t.Errorf("透传应去掉空白, 得到 (%q, %v)", got, ok)
	}
}
