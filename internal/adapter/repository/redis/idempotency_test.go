package redis

import (
	"context"
	"testing"
	"time"
)

func TestIdempotencyStoreReturnsCachedResponse(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	if err := client.Set(ctx, store.prefix+"post-abc", `{"id":"01J"}`, time.Minute).Err(); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	exists, resp, err := store.CheckAndSet(ctx, "post-abc", nil, time.Minute)
	if err != nil {
		t.Fatalf("CheckAndSet failed: %v", err)
	}
	if !exists {
		t.Fatal("expected key to exist")
	}
	if string(resp) != `{"id":"01J"}` {
		t.Fatalf("unexpected cached response %s", resp)
	}
}

func TestIdempotencyStoreLocksNewKey(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	exists, resp, err := store.CheckAndSet(ctx, "post-new", nil, time.Minute)
	if err != nil {
		t.Fatalf("CheckAndSet failed: %v", err)
	}
	if exists || resp != nil {
		t.Fatalf("expected fresh key, got exists=%v resp=%s", exists, resp)
	}

	// The placeholder keeps a concurrent duplicate from posting twice.
	val, err := client.Get(ctx, store.prefix+"post-new").Result()
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if val != "processing" {
		t.Fatalf("expected placeholder lock, got %q", val)
	}
}

func TestIdempotencyStoreUpdateStoresFinalResponse(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	if _, _, err := store.CheckAndSet(ctx, "post-done", nil, time.Minute); err != nil {
		t.Fatalf("CheckAndSet failed: %v", err)
	}
	if err := store.Update(ctx, "post-done", []byte(`{"status":"posted"}`), time.Minute); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	val, err := client.Get(ctx, store.prefix+"post-done").Result()
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if val != `{"status":"posted"}` {
		t.Fatalf("expected stored response, got %q", val)
	}
}
