package store

import (
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/dyike/clipmind/pkg/classify"
	"github.com/dyike/clipmind/pkg/hash"
)

// MaxBodyBytes 条目内容的最大字节数（10 MiB）
const MaxBodyBytes = 10 << 20

// defaultListLimit 列表默认返回数量
const defaultListLimit = 50

// timeLayout 时间戳存储格式
// 纳秒精度保证按时间排序时的稳定性
const timeLayout = time.RFC3339Nano

// CreateItem 创建条目
// ID为空时分配uuid，指纹为空时从内容重算；返回ErrValidation/ErrSaveFailed
func (s *Store) CreateItem(item *Item) error {
	if err := validateItem(item); err != nil {
		return err
	}

	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.Fingerprint == "" {
		item.Fingerprint = hash.Fingerprint(item.Body)
	}
	if item.Category == "" {
		item.Category = classify.CategoryText
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}

	tags, err := json.Marshal(item.Tags)
	if err != nil {
		return fmt.Errorf("%w: failed to encode tags: %v", ErrSaveFailed, err)
	}

	_, err = s.db.Exec(`
		INSERT INTO items (id, title, body, category, fingerprint, source_app,
		                   favorite, collection_id, tags, embedding, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, item.ID, item.Title, item.Body, string(item.Category), item.Fingerprint,
		item.SourceApp, boolToInt(item.Favorite), item.CollectionID, string(tags),
		encodeVector(item.Embedding), item.CreatedAt.Format(timeLayout))

	if err != nil {
		return fmt.Errorf("%w: failed to insert item: %v", ErrSaveFailed, err)
	}

	return nil
}

// GetItem 按ID获取条目
func (s *Store) GetItem(id string) (*Item, error) {
	row := s.db.QueryRow(itemSelect+" WHERE id = ?", id)
	return scanItem(row)
}

// FindByFingerprint 按指纹查找条目（用于捕获去重）
func (s *Store) FindByFingerprint(fingerprint string) (*Item, error) {
	row := s.db.QueryRow(itemSelect+" WHERE fingerprint = ? ORDER BY created_at DESC LIMIT 1", fingerprint)
	return scanItem(row)
}

// ListItems 按创建时间倒序列出条目
func (s *Store) ListItems(opts ListOptions) ([]Item, error) {
	query := itemSelect + " WHERE 1=1"
	args := []interface{}{}

	if opts.Category != "" {
		query += " AND category = ?"
		args = append(args, string(opts.Category))
	}
	if opts.CollectionID != "" {
		query += " AND collection_id = ?"
		args = append(args, opts.CollectionID)
	}
	if opts.FavoriteOnly {
		query += " AND favorite = 1"
	}

	// Limit为0使用默认值；负值交给SQLite表示不限制
	limit := opts.Limit
	if limit == 0 {
		limit = defaultListLimit
	}
	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, opts.Offset)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		item, err := scanItemRows(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}

	return items, rows.Err()
}

// UpdateClassification 写回分类结果
func (s *Store) UpdateClassification(id string, category classify.Category, tags []string) error {
	encoded, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("%w: failed to encode tags: %v", ErrSaveFailed, err)
	}

	return s.execOne(
		"UPDATE items SET category = ?, tags = ? WHERE id = ?",
		ErrSaveFailed, string(category), string(encoded), id,
	)
}

// UpdateBody 更新条目内容
// 内容变化时指纹必须重算，这里强制保持该不变式
func (s *Store) UpdateBody(id, title, body string) error {
	if title == "" || body == "" {
		return fmt.Errorf("%w: empty title or body", ErrValidation)
	}
	if len(body) > MaxBodyBytes {
		return fmt.Errorf("%w: body exceeds %d bytes", ErrValidation, MaxBodyBytes)
	}

	return s.execOne(
		"UPDATE items SET title = ?, body = ?, fingerprint = ?, embedding = NULL WHERE id = ?",
		ErrSaveFailed, title, body, hash.Fingerprint(body), id,
	)
}

// SetEmbedding 持久化嵌入向量（仅作参考数据）
func (s *Store) SetEmbedding(id string, vec []float32) error {
	return s.execOne(
		"UPDATE items SET embedding = ? WHERE id = ?",
		ErrSaveFailed, encodeVector(vec), id,
	)
}

// SetFavorite 设置收藏标记
func (s *Store) SetFavorite(id string, favorite bool) error {
	return s.execOne(
		"UPDATE items SET favorite = ? WHERE id = ?",
		ErrSaveFailed, boolToInt(favorite), id,
	)
}

// AssignCollection 把条目归入集合
// collectionID为空时解除归属
func (s *Store) AssignCollection(id, collectionID string) error {
	if collectionID != "" {
		if _, err := s.GetCollection(collectionID); err != nil {
			return err
		}
	}

	return s.execOne(
		"UPDATE items SET collection_id = ? WHERE id = ?",
		ErrSaveFailed, collectionID, id,
	)
}

// DeleteItem 删除条目
func (s *Store) DeleteItem(id string) error {
	return s.execOne("DELETE FROM items WHERE id = ?", ErrDeleteFailed, id)
}

// CountItems 统计条目总数
func (s *Store) CountItems() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM items").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return count, nil
}

// Prune 把条目数量裁剪到上限以内
// 优先删除最旧的非收藏条目；maxItems<=0表示不限制
// 返回被删除的条目ID，调用方据此同步清理索引
func (s *Store) Prune(maxItems int) ([]string, error) {
	if maxItems <= 0 {
		return nil, nil
	}

	count, err := s.CountItems()
	if err != nil {
		return nil, err
	}
	if count <= maxItems {
		return nil, nil
	}

	rows, err := s.db.Query(`
		SELECT id FROM items WHERE favorite = 0
		ORDER BY created_at ASC LIMIT ?
	`, count-maxItems)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to select prune candidates: %v", ErrDeleteFailed, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDeleteFailed, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}

	for _, id := range ids {
		if err := s.DeleteItem(id); err != nil {
			return ids, err
		}
	}

	return ids, nil
}

// ListTags 聚合所有条目的标签及引用计数
// 标签索引从条目重算，没有独立存储
func (s *Store) ListTags() ([]TagCount, error) {
	rows, err := s.db.Query("SELECT tags FROM items")
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var encoded string
		if err := rows.Scan(&encoded); err != nil {
			return nil, fmt.Errorf("failed to scan tags: %w", err)
		}

		var tags []string
		if err := json.Unmarshal([]byte(encoded), &tags); err != nil {
			continue // 跳过损坏的标签数据
		}
		for _, tag := range tags {
			counts[tag]++
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := make([]TagCount, 0, len(counts))
	for name, count := range counts {
		result = append(result, TagCount{Name: name, Count: count})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Name < result[j].Name
	})

	return result, nil
}

// itemSelect 条目查询的公共列
const itemSelect = `
	SELECT id, title, body, category, fingerprint, source_app,
	       favorite, collection_id, tags, embedding, created_at
	FROM items
`

// scanner 兼容sql.Row和sql.Rows的扫描接口
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(row *sql.Row) (*Item, error) {
	item, err := scanInto(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return item, err
}

func scanItemRows(rows *sql.Rows) (*Item, error) {
	return scanInto(rows)
}

func scanInto(sc scanner) (*Item, error) {
	var item Item
	var category, tags, createdAt string
	var favorite int
	var embedding []byte

	err := sc.Scan(&item.ID, &item.Title, &item.Body, &category, &item.Fingerprint,
		&item.SourceApp, &favorite, &item.CollectionID, &tags, &embedding, &createdAt)
	if err != nil {
		return nil, err
	}

	item.Category = classify.Category(category)
	item.Favorite = favorite != 0
	item.Embedding = decodeVector(embedding)

	if err := json.Unmarshal([]byte(tags), &item.Tags); err != nil {
		item.Tags = nil
	}

	item.CreatedAt, _ = time.Parse(timeLayout, createdAt)

	return &item, nil
}

// execOne 执行单行变更，未命中任何行时返回ErrNotFound
func (s *Store) execOne(query string, failErr error, args ...interface{}) error {
	result, err := s.db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("%w: %v", failErr, err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

func validateItem(item *Item) error {
	if item.Title == "" {
		return fmt.Errorf("%w: empty title", ErrValidation)
	}
	if item.Body == "" {
		return fmt.Errorf("%w: empty body", ErrValidation)
	}
	if len(item.Body) > MaxBodyBytes {
		return fmt.Errorf("%w: body exceeds %d bytes", ErrValidation, MaxBodyBytes)
	}
	if item.Category != "" && !item.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrValidation, item.Category)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// encodeVector 把向量编码为小端float32字节序列
// nil向量编码为nil（SQL NULL）
func encodeVector(vec []float32) []byte {
	if len(vec) == 0 {
		return nil
	}

	buf := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// decodeVector 从字节序列还原向量
func decodeVector(blob []byte) []float32 {
	if len(blob) == 0 || len(blob)%4 != 0 {
		return nil
	}

	vec := make([]float32, len(blob)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return vec
}
