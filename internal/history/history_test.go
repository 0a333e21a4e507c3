package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "sub", "history.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_RecordAndRecent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	texts := []string{"第一句", "第二句", "第三句"}
	for i, text := range texts {
		u, err := s.Record(ctx, Utterance{
			Text:       text,
			Backend:    "model",
			Language:   "ZH",
			Samples:    22050 * (i + 1),
			SampleRate: 22050,
			Duration:   time.Duration(i+1) * time.Second,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("Record failed: %v", err)
		}
		if u.ID == "" {
			t.Error("expected generated ID")
		}
	}

	got, err := s.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Text != "第三句" || got[1].Text != "第二句" {
		t.Errorf("unexpected order: %q, %q", got[0].Text, got[1].Text)
	}
	if got[0].Duration != 3*time.Second || got[0].Samples != 66150 {
		t.Errorf("unexpected fields: %+v", got[0])
	}
	if !got[0].CreatedAt.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("CreatedAt = %v", got[0].CreatedAt)
	}

	all, err := s.Recent(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 entries, got %d", len(all))
	}
}

func TestStore_RecordDefaults(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	before := time.Now().Add(-time.Second)
	u, err := s.Record(ctx, Utterance{Text: "你好", Backend: "local"})
	if err != nil {
		t.Fatal(err)
	}
	if u.CreatedAt.Before(before) {
		t.Errorf("CreatedAt not set: %v", u.CreatedAt)
	}

	if _, err := s.Record(ctx, Utterance{ID: u.ID, Text: "重复", Backend: "local"}); err == nil {
		t.Error("expected error for duplicate id")
	}
}

func TestStore_EmptyRecent(t *testing.T) {
	s := openTestStore(t)
	got, err := s.Recent(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty history, got %d", len(got))
	}
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Record(context.Background(), Utterance{Text: "保留", Backend: "model"}); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	got, err := s.Recent(context.Background(), 1)
	if err != nil || len(got) != 1 || got[0].Text != "保留" {
		t.Fatalf("history not persisted: %v %v", got, err)
	}
	if s.Path() != path {
		t.Errorf("Path() = %s", s.Path())
	}
}
