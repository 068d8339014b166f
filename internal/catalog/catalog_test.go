package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, dir, rel, contents string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("writing temp file: %v", err)
	}
}

func TestSourceRead(t *testing.T) {
	dir := t.TempDir()
	writeTempFile(t, dir, "en/events/misc/forest.json", `[{"event_id": "a"}]`)
	writeTempFile(t, dir, "fr/events/misc/forest.json", `[{"event_id": "b"}]`)
	writeTempFile(t, dir, "en/events/misc/broken.json", `[{"event_id": `)

	src := NewSource(dir, "de", "en")

	t.Run("falls back to second locale", func(t *testing.T) {
		var out []map[string]string
		found, err := src.Read("events/misc/forest.json", &out)
		if err != nil || !found {
			t.Fatalf("expected fallback read, got found=%v err=%v", found, err)
		}
		if out[0]["event_id"] != "a" {
			t.Fatalf("expected fallback content, got %v", out)
		}
	})

	t.Run("missing file is not an error", func(t *testing.T) {
		var out []map[string]string
		found, err := src.Read("events/misc/desert.json", &out)
		if err != nil || found {
			t.Fatalf("expected not found, got found=%v err=%v", found, err)
		}
	})

	t.Run("malformed file is an error", func(t *testing.T) {
		var out []map[string]string
		if _, err := src.Read("events/misc/broken.json", &out); err == nil {
			t.Fatalf("expected parse error")
		}
	})
}

func TestCacheInvalidatesOnLocaleChange(t *testing.T) {
	src := NewSource(t.TempDir(), "en", "en")
	cache := NewCache[string, int](src)

	loads := 0
	load := func(*Source) (int, error) {
		loads++
		return loads, nil
	}

	first, _ := cache.Get("k", load)
	second, _ := cache.Get("k", load)
	if first != 1 || second != 1 {
		t.Fatalf("expected memoized value, got %d then %d", first, second)
	}

	src.SetLocale("en")
	if v, _ := cache.Get("k", load); v != 1 {
		t.Fatalf("expected same locale to keep cache, got %d", v)
	}

	src.SetLocale("fr")
	if v, _ := cache.Get("k", load); v != 2 {
		t.Fatalf("expected reload after locale change, got %d", v)
	}

	other := NewCache[string, int](src)
	src.SetLocale("en")
	if _, _ = other.Get("k", load); loads != 3 {
		t.Fatalf("expected every cache on the source to reload, loads=%d", loads)
	}
	if v, _ := cache.Get("k", load); v != 4 {
		t.Fatalf("expected first cache to reload too, got %d", v)
	}
}

func TestCacheRemembersFailures(t *testing.T) {
	src := NewSource(t.TempDir(), "en", "en")
	cache := NewCache[string, int](src)

	loads := 0
	broken := errors.New("parsing general.json: bad token")
	load := func(*Source) (int, error) {
		loads++
		return 0, broken
	}

	if _, err := cache.Get("k", load); !errors.Is(err, broken) || errors.Is(err, ErrCachedFailure) {
		t.Fatalf("expected the load error on first call, got %v", err)
	}
	_, err := cache.Get("k", load)
	if !errors.Is(err, ErrCachedFailure) || !errors.Is(err, broken) {
		t.Fatalf("expected the cached failure, got %v", err)
	}
	if loads != 1 {
		t.Fatalf("expected one load, got %d", loads)
	}

	src.SetLocale("fr")
	if _, err := cache.Get("k", load); errors.Is(err, ErrCachedFailure) || loads != 2 {
		t.Fatalf("expected a fresh load after locale change, err=%v loads=%d", err, loads)
	}
}
