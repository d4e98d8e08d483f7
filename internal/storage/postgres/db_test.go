package postgres

import (
	"context"
	"errors"
	"testing"
)

func TestOpen_EmptyURL(t *testing.T) {
	_, err := Open(context.Background(), "", 5)
	if !errors.Is(err, ErrEmptyDatabaseURL) {
		t.Fatalf("expected ErrEmptyDatabaseURL, got %v", err)
	}
}
