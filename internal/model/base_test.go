package model

import "testing"

func TestUUIDBaseBeforeCreate(t *testing.T) {
	var b UUIDBase
	if err := b.BeforeCreate(nil); err != nil {
		t.Fatalf("BeforeCreate() error = %v", err)
	}
	if b.ID == "" {
		t.Error("BeforeCreate should assign an id when empty")
	}

	existing := UUIDBase{ID: "keep-me"}
	if err := existing.BeforeCreate(nil); err != nil {
		t.Fatalf("BeforeCreate() error = %v", err)
	}
	if existing.ID != "keep-me" {
		t.Errorf("BeforeCreate overwrote id: %s", existing.ID)
	}
}
