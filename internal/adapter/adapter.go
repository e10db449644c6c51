// Package adapter 提供数据库列采样适配器。
//
// 扫描流程只需要三件事: 列出表、列出列、对某一列抽样取值。
// 取出的值以 []*string 表示, nil 元素对应 SQL NULL, 下游的
// 列级分类和校验据此区分空值。
package adapter

// DBAdapter 数据库适配器接口
type DBAdapter interface {
	// ListTables 列出库中全部基础表
	ListTables() ([]Table, error)

	// ListColumns 列出表的全部列
	ListColumns(table string) ([]Column, error)

	// SampleColumnValues 随机抽样一列的值, nil 表示 NULL
	SampleColumnValues(table, column string, sampleSize int) ([]*string, error)

	// Close 关闭连接
	Close() error
}

// Table 表信息
type Table struct {
	Schema string
	Name   string
}

// Column 列信息
type Column struct {
	Name     string
	DataType string
	Nullable bool
}
