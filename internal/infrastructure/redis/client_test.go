package redis

import (
	"context"
	"fmt"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
)

func TestNewClientRoundTrip(t *testing.T) {
	s := miniredis.RunT(t)
	defer s.Close()

	ctx := context.Background()
	client, err := NewClient(ctx, fmt.Sprintf("redis://%s", s.Addr()))
	if err != nil {
		t.Fatalf("expected client, got error: %v", err)
	}
	defer client.Close()

	if err := client.Set(ctx, "probe", "1", 0).Err(); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	val, err := client.Get(ctx, "probe").Result()
	if err != nil || val != "1" {
		t.Fatalf("get failed: val=%q err=%v", val, err)
	}
}

func TestNewClientInvalidURL(t *testing.T) {
	if _, err := NewClient(context.Background(), "://bad-url"); err == nil {
		t.Fatal("expected error for invalid URL")
	}
}

func TestNewClientUnreachableServer(t *testing.T) {
	s := miniredis.RunT(t)
	url := fmt.Sprintf("redis://%s", s.Addr())
	s.Close()

	if _, err := NewClient(context.Background(), url); err == nil {
		t.Fatal("expected ping error when server is down")
	}
}
