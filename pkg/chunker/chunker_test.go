package chunker

import (
	"strings"
	"testing"
)

func TestScanner_Batches(t *testing.T) {
	input := "one\ntwo\nthree\nfour\nfive\n"
	s, err := NewScanner(strings.NewReader(input), 2)
	if err != nil {
		t.Fatalf("Failed to create scanner: %v", err)
	}

	var batches [][]string
	for {
		batch, ok := s.Next()
		if !ok {
			break
		}
		batches = append(batches, batch)
	}
	if err := s.Err(); err != nil {
		t.Fatalf("Scanner error: %v", err)
	}

	if len(batches) != 3 {
		t.Fatalf("Expected 3 batches, got %d", len(batches))
	}
	if len(batches[0]) != 2 || len(batches[1]) != 2 {
		t.Errorf("Full batches should hold 2 lines each, got %d and %d", len(batches[0]), len(batches[1]))
	}
	// The final batch may be short.
	if len(batches[2]) != 1 || batches[2][0] != "five" {
		t.Errorf("Expected final short batch [five], got %v", batches[2])
	}
}

func TestScanner_EmptyInput(t *testing.T) {
	s, err := NewScanner(strings.NewReader(""), 10)
	if err != nil {
		t.Fatalf("Failed to create scanner: %v", err)
	}
	if batch, ok := s.Next(); ok {
		t.Errorf("Expected no batch from empty input, got %v", batch)
	}
	// Subsequent calls stay exhausted.
	if _, ok := s.Next(); ok {
		t.Errorf("Scanner should remain exhausted")
	}
}

func TestScanner_RejectsBadSize(t *testing.T) {
	if _, err := NewScanner(strings.NewReader("x\n"), 0); err == nil {
		t.Errorf("Expected error for batch size 0")
	}
	if _, err := NewScanner(strings.NewReader("x\n"), -1); err == nil {
		t.Errorf("Expected error for negative batch size")
	}
}
