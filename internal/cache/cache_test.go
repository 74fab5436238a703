package cache

import (
	"testing"
	"time"
)

func TestAnnotationKey_BindsProviderModelAndText(t *testing.T) {
	base := AnnotationKey("openai", "gpt-4o-mini", "hola barrio")

	if AnnotationKey("openai", "gpt-4o-mini", "hola barrio") != base {
		t.Error("same inputs must derive the same key")
	}
	if AnnotationKey("keyword", "gpt-4o-mini", "hola barrio") == base {
		t.Error("provider change must change the key")
	}
	if AnnotationKey("openai", "gpt-4o", "hola barrio") == base {
		t.Error("model change must change the key")
	}
	if AnnotationKey("openai", "gpt-4o-mini", "hola barrio!") == base {
		t.Error("text change must change the key")
	}
}

func TestMemoryCache_RoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("expected miss on empty cache")
	}

	if err := c.Set("k", []byte("annotation"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	val, found := c.Get("k")
	if !found || string(val) != "annotation" {
		t.Errorf("expected hit with stored value, got %q found=%v", val, found)
	}

	if err := c.Delete("k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("expected miss after delete")
	}
}

func TestDiskCache_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	first := NewDiskCache(dir, time.Hour)
	if err := first.Set("k", []byte("annotation"), time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}

	// A fresh instance over the same directory sees the entry
	second := NewDiskCache(dir, time.Hour)
	val, found := second.Get("k")
	if !found || string(val) != "annotation" {
		t.Errorf("expected persisted value, got %q found=%v", val, found)
	}
}

func TestDiskCache_ExpiredEntryEvicted(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Hour)

	if err := c.Set("k", []byte("stale"), -time.Second); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("expected expired entry to miss")
	}
}

func TestDiskCache_Clear(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Hour)

	if err := c.Set("k", []byte("v"), time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := c.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("expected miss after clear")
	}
}

func TestLayeredCache_DiskHitPromotedToMemory(t *testing.T) {
	dir := t.TempDir()

	// Seed disk directly, bypassing the layered Set
	disk := NewDiskCache(dir, time.Hour)
	if err := disk.Set(AnnotationKey("keyword", "rules-v1", "texto"), []byte("annotation"), time.Hour); err != nil {
		t.Fatalf("seed: %v", err)
	}

	layered := NewLayeredCache(time.Minute, dir, time.Hour)
	key := AnnotationKey("keyword", "rules-v1", "texto")

	val, found := layered.Get(key)
	if !found || string(val) != "annotation" {
		t.Fatalf("expected disk hit through layered cache, got found=%v", found)
	}

	// Remove from disk: the promoted copy must still answer
	if err := disk.Delete(key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, found := layered.Get(key); !found {
		t.Error("expected memory-promoted hit after disk eviction")
	}
}

func TestLayeredCache_SetWritesThrough(t *testing.T) {
	dir := t.TempDir()
	layered := NewLayeredCache(time.Minute, dir, time.Hour)

	if err := layered.Set("k", []byte("v"), time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}

	// Visible to a plain disk cache over the same directory
	if _, found := NewDiskCache(dir, time.Hour).Get("k"); !found {
		t.Error("expected write-through to disk layer")
	}
}

func TestLayeredCache_DeleteRemovesBothLayers(t *testing.T) {
	dir := t.TempDir()
	layered := NewLayeredCache(time.Minute, dir, time.Hour)

	if err := layered.Set("k", []byte("v"), time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := layered.Delete("k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, found := layered.Get("k"); found {
		t.Error("expected miss after layered delete")
	}
}
