package main

import (
	"bufio"
	"fmt"
	"log"
	"os"

	"finetype-analyzer/internal/adapter"
	"finetype-analyzer/internal/checker"
	"finetype-analyzer/internal/classify"
	"finetype-analyzer/internal/generator"
	"finetype-analyzer/internal/normalizer"
	"finetype-analyzer/internal/renderer"
	"finetype-analyzer/internal/taxonomy"
	"finetype-analyzer/internal/typemap"
	"finetype-analyzer/internal/validator"

	"github.com/spf13/cobra"
)

var (
	definitionsDir string
	outputFormat   string
	verbose        bool

	checkSamples  int
	checkSeed     int64
	checkPriority int

	valueFlag    string
	labelFlag    string
	inputFile    string
	strategyName string

	columnSampleSize int
	minAgreement     float64

	dbType     string
	connStr    string
	dbSchema   string
	scanTable  string
	scanSample int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "finetype",
		Short: "细粒度语义类型分析器",
		Long:  "按语义类型 taxonomy 对字符串值和数据库列做类型推断、校验和规整",
	}
	rootCmd.PersistentFlags().StringVar(&definitionsDir, "definitions", "./definitions", "类型定义目录")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "text", "输出格式 (text/json/csv/markdown)")

	taxonomyCmd := &cobra.Command{
		Use:   "taxonomy",
		Short: "查看类型定义清单",
		Run:   runTaxonomy,
	}
	taxonomyCmd.Flags().BoolVar(&verbose, "verbose", false, "输出分层解析等明细")

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "检查定义与生成器的对齐质量",
		Run:   runCheck,
	}
	checkCmd.Flags().IntVar(&checkSamples, "samples", 50, "每个定义生成的样本数")
	checkCmd.Flags().Int64Var(&checkSeed, "seed", 42, "随机种子")
	checkCmd.Flags().IntVar(&checkPriority, "priority", 0, "只输出该优先级及以上的结果")
	checkCmd.Flags().BoolVar(&verbose, "verbose", false, "输出逐定义明细")

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "按标签校验值",
		Run:   runValidate,
	}
	validateCmd.Flags().StringVar(&valueFlag, "value", "", "待校验的单个值")
	validateCmd.Flags().StringVar(&labelFlag, "label", "", "类型标签")
	validateCmd.Flags().StringVar(&inputFile, "file", "", "按行读取的值文件 (列模式, 空行视为 NULL)")
	validateCmd.Flags().StringVar(&strategyName, "strategy", "quarantine", "无效值处理策略 (quarantine/set_null/forward_fill/backward_fill)")
	validateCmd.MarkFlagRequired("label")

	normalizeCmd := &cobra.Command{
		Use:   "normalize",
		Short: "按标签把值规整为规范形式",
		Run:   runNormalize,
	}
	normalizeCmd.Flags().StringVar(&valueFlag, "value", "", "待规整的值")
	normalizeCmd.Flags().StringVar(&labelFlag, "label", "", "类型标签")
	normalizeCmd.MarkFlagRequired("value")
	normalizeCmd.MarkFlagRequired("label")

	classifyCmd := &cobra.Command{
		Use:   "classify",
		Short: "推断值或列的语义类型",
		Run:   runClassify,
	}
	classifyCmd.Flags().StringVar(&valueFlag, "value", "", "待推断的单个值")
	classifyCmd.Flags().StringVar(&inputFile, "file", "", "按行读取的值文件 (列模式)")
	classifyCmd.Flags().IntVar(&columnSampleSize, "sample", 100, "列模式抽样大小")
	classifyCmd.Flags().Float64Var(&minAgreement, "min-agreement", 0.3, "多数票最低比例, 低于此值置信度减半")

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "扫描数据库并推断各列语义类型",
		Run:   runScan,
	}
	scanCmd.Flags().StringVar(&dbType, "type", "mysql", "数据库类型 (mysql/sqlserver)")
	scanCmd.Flags().StringVar(&connStr, "conn", "", "连接字符串")
	scanCmd.Flags().StringVar(&dbSchema, "schema", "", "数据库 schema (MySQL 必需)")
	scanCmd.Flags().StringVar(&scanTable, "table", "", "只扫描指定表")
	scanCmd.Flags().IntVar(&scanSample, "sample", 1000, "每列采样大小")
	scanCmd.MarkFlagRequired("conn")

	rootCmd.AddCommand(taxonomyCmd, checkCmd, validateCmd, normalizeCmd, classifyCmd, scanCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func loadTaxonomy() *taxonomy.Taxonomy {
	tax, err := taxonomy.LoadDirectory(definitionsDir)
	if err != nil {
		log.Fatalf("加载类型定义失败: %v", err)
	}
	return tax
}

func runTaxonomy(cmd *cobra.Command, args []string) {
	tax := loadTaxonomy()

	switch outputFormat {
	case "markdown":
		fmt.Print(renderer.NewMarkdownRenderer().Render(tax))
		return
	case "csv":
		out, err := renderer.NewCSVRenderer().RenderTaxonomy(tax)
		if err != nil {
			log.Fatalf("渲染失败: %v", err)
		}
		fmt.Print(out)
		return
	}

	fmt.Printf("📚 共 %d 个类型定义, %d 个领域\n\n", tax.Len(), len(tax.Domains()))
	for _, domain := range tax.Domains() {
		defs := tax.ByDomain(domain)
		fmt.Printf("  %s (%d)\n", domain, len(defs))
		if verbose {
			for _, def := range defs {
				fmt.Printf("    %s — %s\n", def.Key(), def.Title)
			}
		}
	}

	if verbose {
		summary := tax.TierGraph().Summary()
		fmt.Printf("\n🌲 分层解析: %d 个广义类型, %d 个二级分组, 其中 %d 个可直接判定\n",
			summary.Tier0Classes, summary.Tier1Models, summary.DirectResolveGroups)
	}
}

func runCheck(cmd *cobra.Command, args []string) {
	tax := loadTaxonomy()
	gen := generator.NewSeededSampleGenerator(tax, checkSeed)

	fmt.Printf("🔍 检查 %d 个定义, 每个生成 %d 个样本...\n\n", tax.Len(), checkSamples)
	report := checker.New(checkSamples).Run(tax, gen)

	switch outputFormat {
	case "json":
		out, err := renderer.NewJSONRenderer().Render(report)
		if err != nil {
			log.Fatalf("渲染失败: %v", err)
		}
		fmt.Print(out)
	case "csv":
		out, err := renderer.NewCSVRenderer().RenderReport(report)
		if err != nil {
			log.Fatalf("渲染失败: %v", err)
		}
		fmt.Print(out)
	default:
		fmt.Print(renderer.NewTextRenderer(verbose).Render(report))
		if checkPriority > 0 {
			high := report.AtPriority(uint8(checkPriority))
			fmt.Printf("\n优先级 ≥ %d 的定义 (%d 个):\n", checkPriority, len(high))
			for _, res := range high {
				mark := "✅"
				if !res.Passed() {
					mark = "❌"
				}
				fmt.Printf("  %s %s\n", mark, res.Key)
			}
		}
	}

	if !report.AllPassed() {
		os.Exit(1)
	}
}

func runValidate(cmd *cobra.Command, args []string) {
	tax := loadTaxonomy()

	if inputFile != "" {
		values, err := readColumnFile(inputFile)
		if err != nil {
			log.Fatalf("读取文件失败: %v", err)
		}
		strategy, err := validator.ParseStrategy(strategyName)
		if err != nil {
			log.Fatal(err)
		}
		result, err := validator.ValidateColumnForLabel(values, labelFlag, tax, strategy)
		if err != nil {
			log.Fatalf("校验失败: %v", err)
		}
		if outputFormat == "json" {
			out, err := renderer.NewJSONRenderer().Render(result)
			if err != nil {
				log.Fatalf("渲染失败: %v", err)
			}
			fmt.Print(out)
			return
		}
		stats := result.Stats
		fmt.Printf("📊 共 %d 行: %d 有效, %d 无效, %d 空值, 有效率 %.1f%%\n",
			stats.TotalCount, stats.ValidCount, stats.InvalidCount, stats.NullCount,
			stats.ValidityRate()*100)
		for check, count := range stats.FailurePatterns {
			fmt.Printf("  %s: %d 次\n", check, count)
		}
		for _, q := range result.Quarantined {
			fmt.Printf("  ❌ 第 %d 行 %q\n", q.RowIndex, q.Value)
		}
		return
	}

	result, err := validator.ValidateForLabel(valueFlag, labelFlag, tax)
	if err != nil {
		log.Fatalf("校验失败: %v", err)
	}
	if result.Valid {
		fmt.Printf("✅ %q 符合 %s\n", valueFlag, labelFlag)
		return
	}
	fmt.Printf("❌ %q 不符合 %s:\n", valueFlag, labelFlag)
	for _, f := range result.Failures {
		fmt.Printf("  %s: %s\n", f.Check, f.Message)
	}
	os.Exit(1)
}

func runNormalize(cmd *cobra.Command, args []string) {
	// 标签可以用别名或近似名称, 先解析到规范标签
	tax := loadTaxonomy()
	key, _, ok := tax.Resolve(labelFlag)
	if !ok {
		suggestions := tax.Suggest(labelFlag, 3)
		if len(suggestions) > 0 {
			log.Fatalf("未知标签 %q, 可能是: %v", labelFlag, suggestions)
		}
		log.Fatalf("未知标签: %s", labelFlag)
	}

	normalized, ok := normalizer.Normalize(valueFlag, key)
	if !ok {
		fmt.Printf("❌ %q 无法按 %s 规整\n", valueFlag, key)
		os.Exit(1)
	}
	fmt.Println(normalized)
}

func runClassify(cmd *cobra.Command, args []string) {
	tax := loadTaxonomy()
	clf, err := classify.NewPatternClassifier(tax)
	if err != nil {
		log.Fatalf("构建分类器失败: %v", err)
	}

	if inputFile != "" {
		values, err := readColumnFile(inputFile)
		if err != nil {
			log.Fatalf("读取文件失败: %v", err)
		}
		var nonNull []string
		for _, v := range values {
			if v != nil {
				nonNull = append(nonNull, *v)
			}
		}
		cc := classify.NewColumnClassifier(clf, classify.ColumnConfig{
			SampleSize:   columnSampleSize,
			MinAgreement: minAgreement,
		})
		result, err := cc.ClassifyColumn(nonNull)
		if err != nil {
			log.Fatalf("列推断失败: %v", err)
		}
		if outputFormat == "json" {
			out, err := renderer.NewJSONRenderer().Render(result)
			if err != nil {
				log.Fatalf("渲染失败: %v", err)
			}
			fmt.Print(out)
			return
		}
		fmt.Printf("🏷  %s (置信度 %.2f, 采样 %d)\n", result.Label, result.Confidence, result.SamplesUsed)
		if result.DisambiguationApplied {
			fmt.Printf("  消解规则: %s\n", result.DisambiguationRule)
		}
		for _, v := range result.VoteDistribution {
			fmt.Printf("  %s: %.1f%%\n", v.Label, v.Fraction*100)
		}
		fmt.Printf("  推荐 SQL 类型: %s\n", typemap.SQLType(result.Label))
		return
	}

	result, err := clf.Classify(valueFlag)
	if err != nil {
		log.Fatalf("推断失败: %v", err)
	}
	fmt.Printf("🏷  %s (置信度 %.2f)\n", result.Label, result.Confidence)
	for _, s := range result.AllScores {
		fmt.Printf("  %s: %.2f\n", s.Label, s.Score)
	}
}

func runScan(cmd *cobra.Command, args []string) {
	tax := loadTaxonomy()
	clf, err := classify.NewPatternClassifier(tax)
	if err != nil {
		log.Fatalf("构建分类器失败: %v", err)
	}
	cc := classify.NewColumnClassifier(clf, classify.DefaultColumnConfig())

	fmt.Println("🔍 连接数据库...")
	var db adapter.DBAdapter
	switch dbType {
	case "mysql":
		if dbSchema == "" {
			log.Fatal("MySQL 需要指定 --schema 参数")
		}
		db, err = adapter.NewMySQLAdapter(connStr, dbSchema)
	case "sqlserver":
		db, err = adapter.NewSQLServerAdapter(connStr)
	default:
		log.Fatalf("不支持的数据库类型: %s", dbType)
	}
	if err != nil {
		log.Fatalf("连接数据库失败: %v", err)
	}
	defer db.Close()

	tables, err := db.ListTables()
	if err != nil {
		log.Fatalf("获取表列表失败: %v", err)
	}
	fmt.Printf("✓ 发现 %d 个表\n\n", len(tables))

	for _, table := range tables {
		if scanTable != "" && table.Name != scanTable {
			continue
		}
		columns, err := db.ListColumns(table.Name)
		if err != nil {
			log.Fatalf("获取表 %s 的列失败: %v", table.Name, err)
		}
		fmt.Printf("📊 %s (%d 列)\n", table.Name, len(columns))

		for _, col := range columns {
			values, err := db.SampleColumnValues(table.Name, col.Name, scanSample)
			if err != nil {
				fmt.Printf("  ⚠️  %s: 采样失败 (%v)\n", col.Name, err)
				continue
			}
			var nonNull []string
			for _, v := range values {
				if v != nil {
					nonNull = append(nonNull, *v)
				}
			}
			result, err := cc.ClassifyColumn(nonNull)
			if err != nil {
				fmt.Printf("  ⚠️  %s: 推断失败 (%v)\n", col.Name, err)
				continue
			}
			line := fmt.Sprintf("  %s (%s) → %s", col.Name, col.DataType, result.Label)
			if result.Label != classify.LabelUnknown {
				line += fmt.Sprintf(" [%.0f%%, 建议 %s]",
					result.Confidence*100, typemap.SQLType(result.Label))
			}
			fmt.Println(line)
		}
		fmt.Println()
	}
}

// readColumnFile 按行读取值文件, 空行视为 NULL
func readColumnFile(path string) ([]*string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var values []*string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			values = append(values, nil)
			continue
		}
		v := line
		values = append(values, &v)
	}
	return values, scanner.Err()
}
