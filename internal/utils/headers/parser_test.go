package headers

import (
	"reflect"
	"testing"
)

func TestParseHeaders(t *testing.T) {
	in := []string{"user-agent: Bot", "Accept: text/html", "BadHeader", ": empty", "Referer: https://a.com/x:y"}
	out := ParseHeaders(in)
	expected := map[string]string{
		"User-Agent": "Bot",
		"Accept":     "text/html",
		"Referer":    "https://a.com/x:y",
	}
	if !reflect.DeepEqual(out, expected) {
		t.Fatalf("unexpected parse result: %#v", out)
	}
}

func TestMerge(t *testing.T) {
	base := map[string]string{"accept": "text/html", "X-Id": "1"}
	out := Merge(base, map[string]string{"Accept": "application/json"})
	expected := map[string]string{"Accept": "application/json", "X-Id": "1"}
	if !reflect.DeepEqual(out, expected) {
		t.Fatalf("unexpected merge result: %#v", out)
	}
	if base["accept"] != "text/html" {
		t.Fatal("Merge modified its input")
	}
}
