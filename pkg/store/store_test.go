package store

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dyike/clipmind/pkg/classify"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestItemCRUD(t *testing.T) {
	s := newTestStore(t)

	item := &Item{
		Title:     "Meeting notes",
		Body:      "Meeting notes about database migration",
		Category:  classify.CategoryText,
		SourceApp: "com.example.Notes",
		Tags:      []string{"database", "migration"},
	}

	if err := s.CreateItem(item); err != nil {
		t.Fatalf("Failed to create item: %v", err)
	}
	if item.ID == "" {
		t.Fatal("Expected assigned ID")
	}
	if item.Fingerprint == "" {
		t.Fatal("Expected computed fingerprint")
	}

	got, err := s.GetItem(item.ID)
	if err != nil {
		t.Fatalf("Failed to get item: %v", err)
	}
	if got.Title != item.Title || got.Body != item.Body {
		t.Errorf("Round-trip mismatch: %+v", got)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "database" {
		t.Errorf("Expected tags to survive, got %v", got.Tags)
	}

	// 指纹查找
	found, err := s.FindByFingerprint(item.Fingerprint)
	if err != nil {
		t.Fatalf("Failed to find by fingerprint: %v", err)
	}
	if found.ID != item.ID {
		t.Errorf("Expected same item, got %s", found.ID)
	}

	// 删除
	if err := s.DeleteItem(item.ID); err != nil {
		t.Fatalf("Failed to delete: %v", err)
	}
	if _, err := s.GetItem(item.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestItemValidation(t *testing.T) {
	s := newTestStore(t)

	cases := []struct {
		name string
		item Item
	}{
		{"empty title", Item{Body: "body"}},
		{"empty body", Item{Title: "title"}},
		{"oversized body", Item{Title: "t", Body: strings.Repeat("x", MaxBodyBytes+1)}},
		{"bad category", Item{Title: "t", Body: "b", Category: "nonsense"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := s.CreateItem(&tc.item); !errors.Is(err, ErrValidation) {
				t.Errorf("Expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestListItemsRecency(t *testing.T) {
	s := newTestStore(t)

	base := time.Now().UTC()
	for i, title := range []string{"oldest", "middle", "newest"} {
		item := &Item{
			Title:     title,
			Body:      title + " body",
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		if err := s.CreateItem(item); err != nil {
			t.Fatal(err)
		}
	}

	items, err := s.ListItems(ListOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 3 {
		t.Fatalf("Expected 3 items, got %d", len(items))
	}
	if items[0].Title != "newest" || items[2].Title != "oldest" {
		t.Errorf("Expected recency order, got %s..%s", items[0].Title, items[2].Title)
	}
}

func TestUpdateClassificationAndMutations(t *testing.T) {
	s := newTestStore(t)

	item := &Item{Title: "t", Body: "func main() {}"}
	if err := s.CreateItem(item); err != nil {
		t.Fatal(err)
	}

	if err := s.UpdateClassification(item.ID, classify.CategoryCode, []string{"go"}); err != nil {
		t.Fatal(err)
	}

	got, _ := s.GetItem(item.ID)
	if got.Category != classify.CategoryCode {
		t.Errorf("Expected code category, got %s", got.Category)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "go" {
		t.Errorf("Expected [go], got %v", got.Tags)
	}

	// 收藏
	if err := s.SetFavorite(item.ID, true); err != nil {
		t.Fatal(err)
	}
	got, _ = s.GetItem(item.ID)
	if !got.Favorite {
		t.Error("Expected favorite flag")
	}

	// 嵌入持久化往返
	if err := s.SetEmbedding(item.ID, []float32{0.25, -1, 3.5}); err != nil {
		t.Fatal(err)
	}
	got, _ = s.GetItem(item.ID)
	if len(got.Embedding) != 3 || got.Embedding[2] != 3.5 {
		t.Errorf("Embedding round-trip failed: %v", got.Embedding)
	}

	// 内容更新必须重算指纹并丢弃旧嵌入
	oldFP := got.Fingerprint
	if err := s.UpdateBody(item.ID, "t2", "different body"); err != nil {
		t.Fatal(err)
	}
	got, _ = s.GetItem(item.ID)
	if got.Fingerprint == oldFP {
		t.Error("Expected fingerprint to change with body")
	}
	if got.Embedding != nil {
		t.Error("Expected stale embedding to be cleared")
	}

	// 不存在的条目
	if err := s.SetFavorite("missing", true); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestCollections(t *testing.T) {
	s := newTestStore(t)

	col, err := s.CreateCollection("Work", "#ff8800")
	if err != nil {
		t.Fatal(err)
	}

	// 同名集合被拒绝
	if _, err := s.CreateCollection("Work", ""); !errors.Is(err, ErrDuplicate) {
		t.Errorf("Expected ErrDuplicate, got %v", err)
	}

	// 空名称被拒绝
	if _, err := s.CreateCollection("  ", ""); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation, got %v", err)
	}

	item := &Item{Title: "t", Body: "b"}
	if err := s.CreateItem(item); err != nil {
		t.Fatal(err)
	}
	if err := s.AssignCollection(item.ID, col.ID); err != nil {
		t.Fatal(err)
	}

	// 不存在的集合不能归属
	if err := s.AssignCollection(item.ID, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	cols, err := s.ListCollections()
	if err != nil {
		t.Fatal(err)
	}
	if len(cols) != 1 || cols[0].ItemCount != 1 {
		t.Errorf("Expected 1 collection with 1 member, got %+v", cols)
	}

	members, err := s.ItemsByCollection(col.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(members) != 1 || members[0].ID != item.ID {
		t.Errorf("Expected member %s, got %+v", item.ID, members)
	}

	// 删除集合解除归属但保留条目
	if err := s.DeleteCollection(col.ID); err != nil {
		t.Fatal(err)
	}
	got, err := s.GetItem(item.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.CollectionID != "" {
		t.Errorf("Expected detached item, got collection %q", got.CollectionID)
	}
}

func TestPrune(t *testing.T) {
	s := newTestStore(t)

	base := time.Now().UTC()
	var favID string
	for i := 0; i < 5; i++ {
		item := &Item{
			Title:     "item",
			Body:      strings.Repeat("b", i+1), // 每条内容不同
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		if err := s.CreateItem(item); err != nil {
			t.Fatal(err)
		}
		if i == 0 {
			favID = item.ID
			if err := s.SetFavorite(item.ID, true); err != nil {
				t.Fatal(err)
			}
		}
	}

	removed, err := s.Prune(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(removed) != 2 {
		t.Fatalf("Expected 2 removed, got %d", len(removed))
	}

	// 最旧的条目是收藏，应当幸存
	if _, err := s.GetItem(favID); err != nil {
		t.Errorf("Favorite should survive pruning: %v", err)
	}

	count, _ := s.CountItems()
	if count != 3 {
		t.Errorf("Expected 3 items after prune, got %d", count)
	}

	// 不限制时为无操作
	if removed, err := s.Prune(0); err != nil || removed != nil {
		t.Errorf("Expected no-op, got %v %v", removed, err)
	}
}

func TestListTags(t *testing.T) {
	s := newTestStore(t)

	items := []*Item{
		{Title: "a", Body: "a", Tags: []string{"go", "code"}},
		{Title: "b", Body: "b", Tags: []string{"go"}},
		{Title: "c", Body: "c"},
	}
	for _, item := range items {
		if err := s.CreateItem(item); err != nil {
			t.Fatal(err)
		}
	}

	tags, err := s.ListTags()
	if err != nil {
		t.Fatal(err)
	}
	if len(tags) != 2 {
		t.Fatalf("Expected 2 tags, got %+v", tags)
	}
	if tags[0].Name != "go" || tags[0].Count != 2 {
		t.Errorf("Expected go×2 first, got %+v", tags[0])
	}
}
