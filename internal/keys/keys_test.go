package keys

import (
	"reflect"
	"testing"
)

func TestName(t *testing.T) {
	cases := map[string]string{
		"Old Harbor":       "old_harbor",
		"  old   HARBOR  ": "old_harbor",
		"":                 "",
	}
	for in, want := range cases {
		if got := Name(in); got != want {
			t.Fatalf("Name(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSetDedupesAndSorts(t *testing.T) {
	got := Set([]string{"Rusty Knife", "rusty  knife", "Axe", " "})
	want := []string{"axe", "rusty_knife"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Set = %v, want %v", got, want)
	}
}
