package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// schema SQLite数据库schema
const schema = `
-- 捕获条目
CREATE TABLE IF NOT EXISTS items (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    body TEXT NOT NULL,
    category TEXT NOT NULL DEFAULT 'text',
    fingerprint TEXT NOT NULL,
    source_app TEXT NOT NULL DEFAULT '',
    favorite INTEGER NOT NULL DEFAULT 0,
    collection_id TEXT NOT NULL DEFAULT '',
    tags TEXT NOT NULL DEFAULT '[]',
    embedding BLOB,
    created_at TEXT NOT NULL
);

-- 索引优化
CREATE INDEX IF NOT EXISTS idx_items_fingerprint ON items(fingerprint);
CREATE INDEX IF NOT EXISTS idx_items_created ON items(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_items_collection ON items(collection_id);

-- 集合
CREATE TABLE IF NOT EXISTS collections (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    color TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL
);
`

// Store 数据存储
type Store struct {
	db     *sql.DB
	dbPath string
}

// New 创建新的Store实例
func New(dbPath string) (*Store, error) {
	// 确保目录存在
	if dir := filepath.Dir(dbPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("%w: failed to create directory: %v", ErrStoreUnavailable, err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %v", ErrStoreUnavailable, err)
	}

	// 启用WAL模式（Write-Ahead Logging）
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return nil, fmt.Errorf("%w: failed to enable WAL mode: %v", ErrStoreUnavailable, err)
	}

	// 启用外键约束
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("%w: failed to enable foreign keys: %v", ErrStoreUnavailable, err)
	}

	// 初始化schema
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("%w: failed to initialize schema: %v", ErrStoreUnavailable, err)
	}

	return &Store{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// Close 关闭数据库连接
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path 返回数据库文件路径
func (s *Store) Path() string {
	return s.dbPath
}
