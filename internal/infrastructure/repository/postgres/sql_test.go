package postgres

import (
	"database/sql"
	"fmt"
	"testing"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(sql.ErrNoRows) {
		t.Fatal("expected true for sql.ErrNoRows")
	}
	if !isNotFound(fmt.Errorf("get row: %w", sql.ErrNoRows)) {
		t.Fatal("expected true for wrapped sql.ErrNoRows")
	}
	if isNotFound(fmt.Errorf("connection refused")) {
		t.Fatal("expected false for unrelated error")
	}
}

func TestNullString(t *testing.T) {
	if got := nullString(""); got.Valid {
		t.Fatalf("empty string must map to NULL, got %+v", got)
	}
	if got := nullString("FINAL"); !got.Valid || got.String != "FINAL" {
		t.Fatalf("unexpected null string: %+v", got)
	}
	if got := nullStringToString(sql.NullString{}); got != "" {
		t.Fatalf("NULL must map to empty string, got %q", got)
	}
	if got := nullStringToString(sql.NullString{String: "t1", Valid: true}); got != "t1" {
		t.Fatalf("unexpected string: %q", got)
	}
}
