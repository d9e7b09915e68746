package resources

import "testing"

func TestIconsEmbedded(t *testing.T) {
	for _, name := range []string{IconApp, IconRunning, IconIdle} {
		resource, err := Icon(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if len(resource.Content()) == 0 {
			t.Fatalf("%s is empty", name)
		}
		again := MustIcon(name)
		if again != resource {
			t.Errorf("%s was not cached", name)
		}
	}
}

func TestIconMissing(t *testing.T) {
	if _, err := Icon("missing.svg"); err == nil {
		t.Fatal("expected error")
	}
}
