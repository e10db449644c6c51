package typemap

import "testing"

func TestSQLType(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"technology.internet.ip_v4", "INET"},
		{"technology.cryptographic.uuid", "UUID"},
		{"datetime.date.iso", "DATE"},
		{"datetime.date.eu_dot", "DATE"},
		{"datetime.time.hm_12h", "TIME"},
		{"datetime.timestamp.iso_8601", "TIMESTAMP"},
		{"datetime.timestamp.rfc_3339", "TIMESTAMPTZ"},
		{"datetime.epoch.unix_seconds", "BIGINT"},
		{"datetime.duration.iso_8601", "INTERVAL"},
		{"datetime.component.year", "INTEGER"},
		{"datetime.component.month_name", "VARCHAR"},
		{"container.object.json", "JSON"},
		{"container.object.xml", "VARCHAR"},
		{"representation.numeric.integer_number", "BIGINT"},
		{"representation.numeric.decimal_number", "DOUBLE"},
		{"geography.coordinate.latitude", "DOUBLE"},
		{"geography.coordinate.coordinates", "POINT"},
		{"geography.address.street_number", "INTEGER"},
		{"technology.development.boolean", "BOOLEAN"},
		{"technology.internet.port", "SMALLINT"},
		{"identity.person.first_name", "VARCHAR"},
	}
	for _, tt := range tests {
		if got := SQLType(tt.label); got != tt.want {
			t.Errorf("SQLType(%s) = %s, 期望 %s", tt.label, got, tt.want)
		}
	}
}

func TestSQLTypeUnknownFallback(t *testing.T) {
	if got := SQLType("no.such.label"); got != "VARCHAR" {
		t.Errorf("未知标签应回落 VARCHAR, 得到 %s", got)
	}
	if got := SQLType("malformed"); got != "VARCHAR" {
		t.Errorf("畸形标签应回落 VARCHAR, 得到 %s", got)
	}
}
