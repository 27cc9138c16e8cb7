package clipmind

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/dyike/clipmind/pkg/clipboard"
	"github.com/dyike/clipmind/pkg/pipeline"
)

func newTestInstance(t *testing.T, dbPath string) (*ClipMind, *clipboard.MemoryBuffer) {
	t.Helper()

	cfg := DefaultConfig()
	cfg.DBPath = dbPath
	cfg.PollInterval = clipboard.MinInterval
	cfg.EmbeddingDims = 64

	buffer := clipboard.NewMemoryBuffer()
	cm, err := NewWithBuffer(cfg, buffer)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { cm.Close() })

	return cm, buffer
}

// waitKind 等待指定类型的流水线事件
func waitKind(t *testing.T, ch <-chan pipeline.Event, kind pipeline.EventKind, timeout time.Duration) (pipeline.Event, bool) {
	t.Helper()
	deadline := time.After(timeout)
	for {
		select {
		case ev := <-ch:
			if ev.Kind == kind {
				return ev, true
			}
		case <-deadline:
			return pipeline.Event{}, false
		}
	}
}

func TestCaptureAndSearch(t *testing.T) {
	cm, buffer := newTestInstance(t, filepath.Join(t.TempDir(), "clip.db"))
	events := cm.Subscribe()

	if err := cm.Start(); err != nil {
		t.Fatal(err)
	}

	// 两次复制，主题不同
	buffer.SetText("postgres database migration plan for the billing schema")
	if _, ok := waitKind(t, events, pipeline.EventIndexed, 3*time.Second); !ok {
		t.Fatal("Expected first copy to be indexed")
	}

	buffer.SetText("chocolate chip cookie recipe with brown butter")
	if _, ok := waitKind(t, events, pipeline.EventIndexed, 3*time.Second); !ok {
		t.Fatal("Expected second copy to be indexed")
	}

	// 相近主题的查询应把数据库条目排在最前
	results, err := cm.Search("postgres migration for database schema", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].Item.Body != "postgres database migration plan for the billing schema" {
		t.Errorf("Expected database item ranked first, got %q", results[0].Item.Title)
	}
	if results[0].Score <= results[1].Score {
		t.Errorf("Expected strictly descending scores, got %f then %f",
			results[0].Score, results[1].Score)
	}

	status, err := cm.Status()
	if err != nil {
		t.Fatal(err)
	}
	if status.TotalItems != 2 || status.IndexedSize != 2 {
		t.Errorf("Expected 2 items and 2 indexed, got %+v", status)
	}
	if !status.Watching {
		t.Error("Expected watcher to be running")
	}
}

func TestManualCapture(t *testing.T) {
	cm, _ := newTestInstance(t, filepath.Join(t.TempDir(), "clip.db"))

	outcome, item := cm.Capture("https://go.dev/blog/error-handling", "com.apple.Safari")
	if outcome != pipeline.OutcomeAccepted {
		t.Fatalf("Expected accepted, got %s", outcome)
	}

	stored, err := cm.GetItem(item.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Category != "url" {
		t.Errorf("Expected url category, got %s", stored.Category)
	}
	if stored.SourceApp != "com.apple.Safari" {
		t.Errorf("Expected source app preserved, got %q", stored.SourceApp)
	}
}

func TestDeleteRemovesFromIndex(t *testing.T) {
	cm, _ := newTestInstance(t, filepath.Join(t.TempDir(), "clip.db"))
	events := cm.Subscribe()

	_, item := cm.Capture("kubernetes deployment rollout checklist", "")
	if _, ok := waitKind(t, events, pipeline.EventIndexed, 3*time.Second); !ok {
		t.Fatal("Expected item to be indexed")
	}

	if err := cm.DeleteItem(item.ID); err != nil {
		t.Fatal(err)
	}

	if _, err := cm.GetItem(item.ID); err == nil {
		t.Error("Expected item gone from store")
	}
	if cm.index.Len() != 0 {
		t.Error("Expected item gone from index")
	}
}

func TestRestartBackfillsIndex(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "clip.db")

	cm, _ := newTestInstance(t, dbPath)
	events := cm.Subscribe()

	for _, text := range []string{
		"terraform state locking with dynamodb",
		"weekly grocery list apples oats coffee",
	} {
		cm.Capture(text, "")
		if _, ok := waitKind(t, events, pipeline.EventIndexed, 3*time.Second); !ok {
			t.Fatalf("Expected %q to be indexed", text)
		}
	}
	cm.Close()

	// 重新打开：索引应从持久层回填
	revived, _ := newTestInstance(t, dbPath)
	if err := revived.Start(); err != nil {
		t.Fatal(err)
	}

	if revived.index.Len() != 2 {
		t.Fatalf("Expected 2 backfilled entries, got %d", revived.index.Len())
	}

	results, err := revived.Search("terraform state lock", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) == 0 || results[0].Item.Body != "terraform state locking with dynamodb" {
		t.Error("Expected backfilled index to answer queries")
	}
}

func TestCollectionLifecycle(t *testing.T) {
	cm, _ := newTestInstance(t, filepath.Join(t.TempDir(), "clip.db"))

	col, err := cm.CreateCollection("Work", "#ff8800")
	if err != nil {
		t.Fatal(err)
	}

	_, item := cm.Capture("quarterly planning doc outline", "")
	if err := cm.AssignCollection(item.ID, col.ID); err != nil {
		t.Fatal(err)
	}

	cols, err := cm.ListCollections()
	if err != nil {
		t.Fatal(err)
	}
	if len(cols) != 1 || cols[0].ItemCount != 1 {
		t.Fatalf("Expected 1 collection with 1 member, got %+v", cols)
	}

	// 删除集合：成员保留但脱离集合
	if err := cm.DeleteCollection(col.ID); err != nil {
		t.Fatal(err)
	}
	stored, _ := cm.GetItem(item.ID)
	if stored.CollectionID != "" {
		t.Errorf("Expected member detached, got %q", stored.CollectionID)
	}
}
