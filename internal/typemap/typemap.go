// Package typemap 把语义类型标签映射到推荐的 SQL 逻辑类型。
//
// 映射表示每个标签最合适的 CAST 目标, 未识别的标签回落到 VARCHAR。
package typemap

import "strings"

// SQLType 返回标签推荐的 SQL 类型名
func SQLType(label string) string {
	if t, ok := exact[label]; ok {
		return t
	}
	parts := strings.SplitN(label, ".", 3)
	if len(parts) >= 2 {
		if t, ok := byCategory[parts[0]+"."+parts[1]]; ok {
			return t
		}
	}
	return "VARCHAR"
}

// 按 domain.category 整组映射, 个别标签在 exact 中覆盖
var byCategory = map[string]string{
	"datetime.date":          "DATE",
	"datetime.time":          "TIME",
	"datetime.timestamp":     "TIMESTAMP",
	"datetime.epoch":         "BIGINT",
	"datetime.duration":      "INTERVAL",
	"geography.coordinate":   "DOUBLE",
	"representation.numeric": "DOUBLE",
}

var exact = map[string]string{
	// 带时区的时间戳
	"datetime.timestamp.iso_8601_offset":  "TIMESTAMPTZ",
	"datetime.timestamp.rfc_2822":         "TIMESTAMPTZ",
	"datetime.timestamp.rfc_2822_ordinal": "TIMESTAMPTZ",
	"datetime.timestamp.rfc_3339":         "TIMESTAMPTZ",

	"datetime.component.year":         "INTEGER",
	"datetime.component.day_of_month": "INTEGER",

	"technology.internet.ip_v4":            "INET",
	"technology.internet.ip_v6":            "INET",
	"technology.internet.ip_v4_with_port":  "INET",
	"technology.internet.http_status_code": "SMALLINT",
	"technology.internet.port":             "SMALLINT",

	"technology.cryptographic.uuid": "UUID",

	"technology.development.boolean": "BOOLEAN",

	"technology.hardware.ram_size":    "BIGINT",
	"technology.hardware.screen_size": "DOUBLE",

	"geography.coordinate.coordinates": "POINT",

	"geography.address.street_number": "INTEGER",

	"identity.person.age":    "SMALLINT",
	"identity.person.height": "DOUBLE",
	"identity.person.weight": "DOUBLE",

	"representation.numeric.integer_number": "BIGINT",
	"representation.numeric.increment":      "BIGINT",

	"representation.file.file_size": "BIGINT",

	"container.object.json":       "JSON",
	"container.object.json_array": "JSON",
}
