package storage

import "testing"

func TestValidateContentType(t *testing.T) {
	for _, ct := range []string{"application/json", "application/json; charset=utf-8", "TEXT/CSV"} {
		if err := ValidateContentType(ct); err != nil {
			t.Fatalf("%q: unexpected error %v", ct, err)
		}
	}
	if err := ValidateContentType("image/png"); err == nil {
		t.Fatalf("expected image/png to be rejected")
	}
}

func TestValidateObjectKey(t *testing.T) {
	cases := map[string]bool{
		"weights/20260301T090000Z-1.json": true,
		"":                                false,
		"/weights/a.json":                 false,
		"weights/../catalog/a.json":       false,
	}
	for key, ok := range cases {
		err := ValidateObjectKey(key)
		if ok && err != nil {
			t.Fatalf("%q: unexpected error %v", key, err)
		}
		if !ok && err == nil {
			t.Fatalf("%q: expected error", key)
		}
	}
}
