package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/journalized/internal/ir"
)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestEntity stores a User entity with a name split into first/last.
func createTestEntity(t *testing.T, s *Store, id string) ir.EntityRef {
	t.Helper()
	ref := ir.EntityRef{Type: "User", ID: id}
	err := s.CreateEntity(context.Background(), ir.Entity{
		Ref: ref,
		Attributes: ir.Object{
			"first_name": ir.String("Steve"),
			"last_name":  ir.String("Richert"),
		},
	})
	if err != nil {
		t.Fatalf("CreateEntity() failed: %v", err)
	}
	return ref
}
