package validator

import (
	"testing"
)

func column(vals ...interface{}) []*string {
	out := make([]*string, len(vals))
	for i, v := range vals {
		if s, ok := v.(string); ok {
			out[i] = strPtr(s)
		}
	}
	return out
}

func TestColumnQuarantine(t *testing.T) {
	values := column("192.168.1.1", "10.0.0.1", "not-an-ip", nil, "8.8.8.8")
	r := ValidateColumn(values, ipSchema(), StrategyQuarantine)

	if r.Stats.ValidCount != 3 || r.Stats.InvalidCount != 1 || r.Stats.NullCount != 1 {
		t.Fatalf("统计不符: %+v", r.Stats)
	}
	if len(r.Quarantined) != 1 {
		t.Fatalf("期望 1 条隔离记录, 得到 %d", len(r.Quarantined))
	}
	q := r.Quarantined[0]
	if q.RowIndex != 2 || q.Value != "not-an-ip" {
		t.Errorf("隔离记录不符: %+v", q)
	}
	if len(q.Failures) == 0 {
		t.Error("隔离记录应带违反明细")
	}
	// 无效值从输出移除, NULL 保留
	if r.Values[2] != nil {
		t.Errorf("隔离模式下无效位置应为 nil, 得到 %q", *r.Values[2])
	}
	if r.Values[3] != nil {
		t.Error("NULL 应保持 NULL")
	}
	if r.Values[0] == nil || *r.Values[0] != "192.168.1.1" {
		t.Error("有效值应原样保留")
	}
}

func TestColumnQuarantineCountMatchesInvalid(t *testing.T) {
	values := column("bad", "1.1.1", "192.168.1.1", "also-bad", nil)
	r := ValidateColumn(values, ipSchema(), StrategyQuarantine)
	if len(r.Quarantined) != r.Stats.InvalidCount {
		t.Errorf("隔离条数 %d 应等于无效数 %d", len(r.Quarantined), r.Stats.InvalidCount)
	}
}

func TestColumnSetNull(t *testing.T) {
	values := column("192.168.1.1", "bad", nil, "8.8.8.8")
	r := ValidateColumn(values, ipSchema(), StrategySetNull)
	if r.Values[1] != nil {
		t.Errorf("无效值应置 NULL, 得到 %q", *r.Values[1])
	}
	if len(r.Quarantined) != 0 {
		t.Error("非隔离模式不应有隔离记录")
	}
	if r.Values[0] == nil || r.Values[3] == nil {
		t.Error("有效值应保留")
	}
}

func TestColumnForwardFill(t *testing.T) {
	values := column("192.168.1.1", "bad", "10.0.0.1", "worse")
	r := ValidateColumn(values, ipSchema(), StrategyForwardFill)
	if r.Values[1] == nil || *r.Values[1] != "192.168.1.1" {
		t.Errorf("位置 1 应前向填充为 192.168.1.1, 得到 %v", r.Values[1])
	}
	if r.Values[3] == nil || *r.Values[3] != "10.0.0.1" {
		t.Errorf("位置 3 应前向填充为 10.0.0.1, 得到 %v", r.Values[3])
	}
}

func TestColumnForwardFillNoPriorValid(t *testing.T) {
	// 前面没有有效值时填充结果为 NULL
	values := column("bad", "192.168.1.1")
	r := ValidateColumn(values, ipSchema(), StrategyForwardFill)
	if r.Values[0] != nil {
		t.Errorf("无前置有效值时应为 nil, 得到 %q", *r.Values[0])
	}
}

func TestColumnBackwardFill(t *testing.T) {
	values := column("bad", "192.168.1.1", "worse", "10.0.0.1")
	r := ValidateColumn(values, ipSchema(), StrategyBackwardFill)
	if r.Values[0] == nil || *r.Values[0] != "192.168.1.1" {
		t.Errorf("位置 0 应后向填充为 192.168.1.1, 得到 %v", r.Values[0])
	}
	if r.Values[2] == nil || *r.Values[2] != "10.0.0.1" {
		t.Errorf("位置 2 应后向填充为 10.0.0.1, 得到 %v", r.Values[2])
	}
}

func TestColumnBackwardFillNoLaterValid(t *testing.T) {
	values := column("192.168.1.1", "bad")
	r := ValidateColumn(values, ipSchema(), StrategyBackwardFill)
	if r.Values[1] != nil {
		t.Errorf("无后续有效值时应为 nil, 得到 %q", *r.Values[1])
	}
}

func TestColumnFillNeverTouchesNulls(t *testing.T) {
	values := column("192.168.1.1", nil, "10.0.0.1")
	for _, strategy := range []Strategy{StrategyForwardFill, StrategyBackwardFill} {
		r := ValidateColumn(values, ipSchema(), strategy)
		if r.Values[1] != nil {
			t.Errorf("%s: NULL 不应被填充, 得到 %q", strategy, *r.Values[1])
		}
	}
}

func TestColumnFailurePatterns(t *testing.T) {
	// "1.1.1" 同时违反 pattern 和 minLength, "not-an-ip" 只违反 pattern
	values := column("1.1.1", "not-an-ip", "192.168.1.1")
	r := ValidateColumn(values, ipSchema(), StrategyQuarantine)
	if r.Stats.FailurePatterns[CheckPattern] != 2 {
		t.Errorf("pattern 违反应为 2, 得到 %d", r.Stats.FailurePatterns[CheckPattern])
	}
	if r.Stats.FailurePatterns[CheckMinLength] != 1 {
		t.Errorf("minLength 违反应为 1, 得到 %d", r.Stats.FailurePatterns[CheckMinLength])
	}
}

func TestValidityRate(t *testing.T) {
	tests := []struct {
		name  string
		stats ColumnStats
		want  float64
	}{
		{"普通列", ColumnStats{ValidCount: 4, InvalidCount: 1, TotalCount: 5}, 0.8},
		{"全空列", ColumnStats{NullCount: 3, TotalCount: 3}, 0.0},
		{"含空列", ColumnStats{ValidCount: 2, NullCount: 2, TotalCount: 4}, 1.0},
	}
	for _, tt := range tests {
		if got := tt.stats.ValidityRate(); got != tt.want {
			t.Errorf("%s: ValidityRate=%v, 期望 %v", tt.name, got, tt.want)
		}
	}
}

func TestParseStrategy(t *testing.T) {
	if s, err := ParseStrategy("forward_fill"); err != nil || s != StrategyForwardFill {
		t.Errorf("ParseStrategy(forward_fill)=%v,%v", s, err)
	}
	if _, err := ParseStrategy("drop"); err == nil {
		t.Error("未知策略应报错")
	}
}

func TestValidateColumnForLabel(t *testing.T) {
	tax := testTaxonomy(t)
	values := column("10.0.0.1", "nope")
	r, err := ValidateColumnForLabel(values, "network.address.ip_v4", tax, StrategySetNull)
	if err != nil {
		t.Fatalf("ValidateColumnForLabel: %v", err)
	}
	if r.Stats.ValidCount != 1 || r.Stats.InvalidCount != 1 {
		t.Errorf("统计不符: %+v", r.Stats)
	}
}
