package sender

import "testing"

func TestRegisterAndGet(t *testing.T) {
	Register("test-kind", func(Settings) (Sender, error) { return nil, nil })

	ctor, err := Get("test-kind")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ctor == nil {
		t.Fatal("expected a constructor")
	}
}

func TestGetUnknownKind(t *testing.T) {
	if _, err := Get("no-such-kind"); err == nil {
		t.Fatal("expected error for unregistered kind")
	}
}

func TestKinds(t *testing.T) {
	Register("listed-kind", func(Settings) (Sender, error) { return nil, nil })

	found := false
	for _, k := range Kinds() {
		if k == "listed-kind" {
			found = true
		}
	}
	if !found {
		t.Fatalf("Kinds() = %v, want listed-kind present", Kinds())
	}
}
