package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"finetype-analyzer/internal/adapter"
	"finetype-analyzer/internal/classify"
	"finetype-analyzer/internal/taxonomy"
	"finetype-analyzer/internal/typemap"

	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/go-sql-driver/mysql"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // 允许跨域
	},
}

// ScanRequest 扫描请求
type ScanRequest struct {
	DBType     string `json:"db_type"`     // sqlserver/mysql
	Host       string `json:"host"`        // 主机地址
	Port       string `json:"port"`        // 端口
	Username   string `json:"username"`    // 用户名
	Password   string `json:"password"`    // 密码
	Database   string `json:"database"`    // 数据库名
	Schema     string `json:"schema"`      // Schema（MySQL需要）
	SampleSize int    `json:"sample_size"` // 每列采样条数
	Table      string `json:"table"`       // 只扫描指定表（可选）
}

// ScanTask 扫描任务
type ScanTask struct {
	ID        string      `json:"id"`
	Request   ScanRequest `json:"-"`
	Status    string      `json:"status"` // pending/running/completed/failed
	Progress  int         `json:"progress"`
	Message   string      `json:"message"`
	Result    *ScanResult `json:"result,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// ScanResult 扫描结果
type ScanResult struct {
	Tables []TableResult  `json:"tables"`
	Stats  map[string]int `json:"stats"`
}

// TableResult 单表的列类型推断结果
type TableResult struct {
	Name    string            `json:"name"`
	Columns []ColumnInference `json:"columns"`
}

// ColumnInference 单列的推断结果
type ColumnInference struct {
	Column     string  `json:"column"`
	DataType   string  `json:"data_type"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	SQLType    string  `json:"sql_type"`
	Rule       string  `json:"rule,omitempty"`
	Samples    int     `json:"samples"`
}

var (
	tasks   = make(map[string]*ScanTask)
	tasksMu sync.RWMutex

	columnClf *classify.ColumnClassifier
)

func main() {
	defsDir := os.Getenv("FINETYPE_DEFINITIONS")
	if defsDir == "" {
		defsDir = "./definitions"
	}
	tax, err := taxonomy.LoadDirectory(defsDir)
	if err != nil {
		log.Fatalf("加载类型定义失败: %v", err)
	}
	patternClf, err := classify.NewPatternClassifier(tax)
	if err != nil {
		log.Fatalf("构建分类器失败: %v", err)
	}
	columnClf = classify.NewColumnClassifier(patternClf, classify.DefaultColumnConfig())

	// 静态文件
	http.Handle("/", http.FileServer(http.Dir("web/static")))

	// API 路由
	http.HandleFunc("/api/scan", handleScan)
	http.HandleFunc("/api/task/", handleTaskStatus)
	http.HandleFunc("/api/ws", handleWebSocket)
	http.HandleFunc("/api/classify", handleClassify)
	http.HandleFunc("/api/test-connection", handleTestConnection)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	fmt.Printf("🚀 Finetype Scan Server\n")
	fmt.Printf("📡 服务地址: http://localhost:%s\n", port)
	fmt.Printf("📖 已加载 %d 个类型定义\n\n", tax.Len())

	log.Fatal(http.ListenAndServe(":"+port, nil))
}

// handleScan 处理扫描请求
func handleScan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	taskID := fmt.Sprintf("task_%d", time.Now().UnixNano())
	task := &ScanTask{
		ID:        taskID,
		Request:   req,
		Status:    "pending",
		Progress:  0,
		Message:   "任务已创建，等待执行...",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	tasksMu.Lock()
	tasks[taskID] = task
	tasksMu.Unlock()

	// 异步执行扫描
	go runScan(task)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"task_id": taskID,
		"status":  "pending",
	})
}

// handleTaskStatus 查询任务状态
func handleTaskStatus(w http.ResponseWriter, r *http.Request) {
	taskID := filepath.Base(r.URL.Path)

	tasksMu.RLock()
	task, exists := tasks[taskID]
	tasksMu.RUnlock()

	if !exists {
		http.Error(w, "Task not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(task)
}

// handleWebSocket WebSocket 连接，持续推送任务进度
func handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WebSocket upgrade error:", err)
		return
	}
	defer conn.Close()

	taskID := r.URL.Query().Get("task_id")
	if taskID == "" {
		return
	}

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		tasksMu.RLock()
		task, exists := tasks[taskID]
		tasksMu.RUnlock()

		if !exists {
			break
		}

		if err := conn.WriteJSON(task); err != nil {
			break
		}

		if task.Status == "completed" || task.Status == "failed" {
			break
		}
	}
}

// handleClassify 对一组文本值直接做列类型推断
func handleClassify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Values []string `json:"values"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := columnClf.ClassifyColumn(req.Values)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"label":      result.Label,
		"confidence": result.Confidence,
		"sql_type":   typemap.SQLType(result.Label),
		"rule":       result.DisambiguationRule,
		"votes":      result.VoteDistribution,
	})
}

// runScan 执行扫描
func runScan(task *ScanTask) {
	updateTask := func(status string, progress int, message string) {
		tasksMu.Lock()
		task.Status = status
		task.Progress = progress
		task.Message = message
		task.UpdatedAt = time.Now()
		tasksMu.Unlock()
	}

	updateTask("running", 10, "正在连接数据库...")

	req := task.Request
	db, err := openAdapter(req)
	if err != nil {
		updateTask("failed", 0, fmt.Sprintf("连接失败: %v", err))
		return
	}
	defer db.Close()

	updateTask("running", 20, "获取表列表...")

	tables, err := db.ListTables()
	if err != nil {
		updateTask("failed", 20, fmt.Sprintf("获取表列表失败: %v", err))
		return
	}

	sampleSize := req.SampleSize
	if sampleSize == 0 {
		sampleSize = 1000
	}

	result := &ScanResult{Stats: map[string]int{}}
	classified := 0
	unknown := 0

	for i, table := range tables {
		if req.Table != "" && table.Name != req.Table {
			continue
		}
		progress := 20 + int(float64(i)/float64(len(tables))*75)
		updateTask("running", progress, fmt.Sprintf("扫描表 %s (%d/%d)...", table.Name, i+1, len(tables)))

		columns, err := db.ListColumns(table.Name)
		if err != nil {
			updateTask("failed", progress, fmt.Sprintf("获取表 %s 的列失败: %v", table.Name, err))
			return
		}

		tr := TableResult{Name: table.Name}
		for _, col := range columns {
			values, err := db.SampleColumnValues(table.Name, col.Name, sampleSize)
			if err != nil {
				continue
			}
			var nonNull []string
			for _, v := range values {
				if v != nil {
					nonNull = append(nonNull, *v)
				}
			}
			cr, err := columnClf.ClassifyColumn(nonNull)
			if err != nil {
				continue
			}
			tr.Columns = append(tr.Columns, ColumnInference{
				Column:     col.Name,
				DataType:   col.DataType,
				Label:      cr.Label,
				Confidence: cr.Confidence,
				SQLType:    typemap.SQLType(cr.Label),
				Rule:       cr.DisambiguationRule,
				Samples:    cr.SamplesUsed,
			})
			if cr.Label == classify.LabelUnknown {
				unknown++
			} else {
				classified++
			}
		}
		result.Tables = append(result.Tables, tr)
	}

	result.Stats["tables"] = len(result.Tables)
	result.Stats["columns_classified"] = classified
	result.Stats["columns_unknown"] = unknown

	tasksMu.Lock()
	task.Result = result
	tasksMu.Unlock()

	updateTask("completed", 100, "扫描完成！")
}

// openAdapter 根据请求建立数据库适配器
func openAdapter(req ScanRequest) (adapter.DBAdapter, error) {
	switch req.DBType {
	case "sqlserver":
		connStr := fmt.Sprintf("server=%s;port=%s;user id=%s;password=%s;database=%s",
			req.Host, req.Port, req.Username, req.Password, req.Database)
		return adapter.NewSQLServerAdapter(connStr)
	case "mysql":
		connStr := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?timeout=30s&readTimeout=30s&writeTimeout=30s",
			req.Username, req.Password, req.Host, req.Port, req.Database)
		schema := req.Schema
		if schema == "" {
			schema = req.Database
		}
		return adapter.NewMySQLAdapter(connStr, schema)
	default:
		return nil, fmt.Errorf("不支持的数据库类型: %s", req.DBType)
	}
}

// handleTestConnection 测试数据库连接
func handleTestConnection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		DBType   string `json:"db_type"`
		Host     string `json:"host"`
		Port     string `json:"port"`
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var db *sql.DB
	var err error
	switch req.DBType {
	case "sqlserver":
		connStr := fmt.Sprintf("server=%s;port=%s;user id=%s;password=%s",
			req.Host, req.Port, req.Username, req.Password)
		db, err = sql.Open("sqlserver", connStr)
	case "mysql":
		connStr := fmt.Sprintf("%s:%s@tcp(%s:%s)/?timeout=10s",
			req.Username, req.Password, req.Host, req.Port)
		db, err = sql.Open("mysql", connStr)
	default:
		http.Error(w, "Unsupported database type", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err == nil {
		defer db.Close()
		err = db.Ping()
	}
	if err != nil {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": fmt.Sprintf("连接失败: %v", err),
		})
		return
	}
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "连接成功！",
	})
}
