package main

import "testing"

func TestParseParamPairs(t *testing.T) {
	params, err := parseParamPairs([]string{"1=fire", " 2 = 4 ", ""})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(params) != 2 || params["1"] != "fire" || params["2"] != "4" {
		t.Fatalf("unexpected params: %+v", params)
	}

	for _, bad := range []string{"novalue", "=x"} {
		if _, err := parseParamPairs([]string{bad}); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}
