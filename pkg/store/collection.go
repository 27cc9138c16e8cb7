package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CreateCollection 创建集合
// 名称不能为空且必须唯一，同名时返回ErrDuplicate
func (s *Store) CreateCollection(name, color string) (*Collection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: empty collection name", ErrValidation)
	}

	col := &Collection{
		ID:        uuid.NewString(),
		Name:      name,
		Color:     color,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.Exec(
		"INSERT INTO collections (id, name, color, created_at) VALUES (?, ?, ?, ?)",
		col.ID, col.Name, col.Color, col.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, fmt.Errorf("%w: collection %q already exists", ErrDuplicate, name)
		}
		return nil, fmt.Errorf("%w: failed to insert collection: %v", ErrSaveFailed, err)
	}

	return col, nil
}

// GetCollection 按ID获取集合
func (s *Store) GetCollection(id string) (*Collection, error) {
	return s.scanCollection(s.db.QueryRow(
		"SELECT id, name, color, created_at FROM collections WHERE id = ?", id,
	))
}

// GetCollectionByName 按名称获取集合
func (s *Store) GetCollectionByName(name string) (*Collection, error) {
	return s.scanCollection(s.db.QueryRow(
		"SELECT id, name, color, created_at FROM collections WHERE name = ?", name,
	))
}

// ListCollections 列出全部集合（含成员计数），按名称排序
func (s *Store) ListCollections() ([]Collection, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.name, c.color, c.created_at, COUNT(i.id)
		FROM collections c
		LEFT JOIN items i ON i.collection_id = c.id
		GROUP BY c.id
		ORDER BY c.name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	defer rows.Close()

	var cols []Collection
	for rows.Next() {
		var col Collection
		var createdAt string

		if err := rows.Scan(&col.ID, &col.Name, &col.Color, &createdAt, &col.ItemCount); err != nil {
			return nil, fmt.Errorf("failed to scan collection: %w", err)
		}
		col.CreatedAt, _ = time.Parse(timeLayout, createdAt)
		cols = append(cols, col)
	}

	return cols, rows.Err()
}

// ItemsByCollection 列出集合成员，按创建时间倒序
func (s *Store) ItemsByCollection(collectionID string) ([]Item, error) {
	return s.ListItems(ListOptions{CollectionID: collectionID, Limit: -1})
}

// DeleteCollection 删除集合
// 成员条目解除归属，不会被删除（条目拥有自己的集合指针）
func (s *Store) DeleteCollection(id string) error {
	if _, err := s.db.Exec(
		"UPDATE items SET collection_id = '' WHERE collection_id = ?", id,
	); err != nil {
		return fmt.Errorf("%w: failed to detach items: %v", ErrDeleteFailed, err)
	}

	return s.execOne("DELETE FROM collections WHERE id = ?", ErrDeleteFailed, id)
}

func (s *Store) scanCollection(row *sql.Row) (*Collection, error) {
	var col Collection
	var createdAt string

	err := row.Scan(&col.ID, &col.Name, &col.Color, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get collection: %w", err)
	}

	col.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	return &col, nil
}
