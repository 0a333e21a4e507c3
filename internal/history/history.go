package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/iabetor/ttsbuddy/internal/logger"
)

// Utterance 是一次朗读记录。
type Utterance struct {
	ID         string
	Text       string
	Backend    string // local / model
	Language   string
	Samples    int
	SampleRate int
	Duration   time.Duration
	CreatedAt  time.Time
}

// Store 是基于 SQLite 的朗读历史。
type Store struct {
	db   *sql.DB
	path string
}

// DefaultPath 返回默认数据库路径 ~/.ttsbuddy/history.db。
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	if home == "" {
		return "./ttsbuddy.db"
	}
	return filepath.Join(home, ".ttsbuddy", "history.db")
}

// Open 打开或创建数据库并执行迁移。path 为空时使用 DefaultPath。
func Open(path string) (*Store, error) {
	if path == "" {
		path = DefaultPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("创建数据库目录失败: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("打开数据库失败: %w", err)
	}

	// 设置 WAL 模式
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("设置 WAL 模式失败: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Infof("[history] 数据库已打开: %s", path)
	return s, nil
}

// Path 返回数据库文件路径。
func (s *Store) Path() string {
	return s.path
}

func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS utterances (
			id TEXT PRIMARY KEY,
			text TEXT NOT NULL,
			backend TEXT NOT NULL,
			language TEXT DEFAULT '',
			samples INTEGER DEFAULT 0,
			sample_rate INTEGER DEFAULT 0,
			duration_ms INTEGER DEFAULT 0,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_utterances_created_at ON utterances(created_at)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("数据库迁移失败: %w", err)
		}
	}
	return nil
}

// Record 写入一条记录。ID 与 CreatedAt 为空时自动生成。
func (s *Store) Record(ctx context.Context, u Utterance) (Utterance, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO utterances (id, text, backend, language, samples, sample_rate, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Text, u.Backend, u.Language, u.Samples, u.SampleRate,
		u.Duration.Milliseconds(), u.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return u, fmt.Errorf("写入朗读记录失败: %w", err)
	}
	return u, nil
}

// Recent 按时间倒序返回最近 limit 条记录，limit <= 0 时返回全部。
func (s *Store) Recent(ctx context.Context, limit int) ([]Utterance, error) {
	query := `SELECT id, text, backend, language, samples, sample_rate, duration_ms, created_at
	          FROM utterances ORDER BY created_at DESC, rowid DESC`
	var args []interface{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("查询朗读记录失败: %w", err)
	}
	defer rows.Close()

	var result []Utterance
	for rows.Next() {
		var u Utterance
		var durationMs, createdAt int64
		if err := rows.Scan(&u.ID, &u.Text, &u.Backend, &u.Language, &u.Samples, &u.SampleRate, &durationMs, &createdAt); err != nil {
			return nil, fmt.Errorf("读取朗读记录失败: %w", err)
		}
		u.Duration = time.Duration(durationMs) * time.Millisecond
		u.CreatedAt = time.UnixMilli(createdAt)
		result = append(result, u)
	}
	return result, rows.Err()
}

// Close 关闭数据库连接。
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
