package envutil

import (
	"testing"
	"time"
)

func TestIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("MW_TEST_INT", "nope")
	if got := Int("MW_TEST_INT", 7); got != 7 {
		t.Fatalf("got %d want 7", got)
	}
	t.Setenv("MW_TEST_INT", " 12 ")
	if got := Int("MW_TEST_INT", 7); got != 12 {
		t.Fatalf("got %d want 12", got)
	}
}

func TestDurationAcceptsSecondsAndStrings(t *testing.T) {
	t.Setenv("MW_TEST_DUR", "45")
	if got := Duration("MW_TEST_DUR", time.Minute); got != 45*time.Second {
		t.Fatalf("got %s", got)
	}
	t.Setenv("MW_TEST_DUR", "30m")
	if got := Duration("MW_TEST_DUR", time.Minute); got != 30*time.Minute {
		t.Fatalf("got %s", got)
	}
}

func TestBoolAndList(t *testing.T) {
	t.Setenv("MW_TEST_BOOL", "off")
	if Bool("MW_TEST_BOOL", true) {
		t.Fatalf("expected false")
	}
	t.Setenv("MW_TEST_LIST", "a, ,b")
	got := List("MW_TEST_LIST", nil)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("unexpected list %v", got)
	}
}
