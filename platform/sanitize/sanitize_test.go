package sanitize

import "testing"

func TestText(t *testing.T) {
	cases := map[string]string{
		"  Bahnhofstrasse 1,\n8001  Zürich ":         "Bahnhofstrasse 1, 8001 Zürich",
		"<b>Rue</b> du Rhône 12":                     "Rue du Rhône 12",
		"&lt;script&gt;alert(1)&lt;/script&gt;Bern": "alert(1)Bern",
		"Smith &amp; Co":                             "Smith & Co",
	}
	for in, want := range cases {
		if got := Text(in); got != want {
			t.Fatalf("Text(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLocalizedDropsEmptyTranslations(t *testing.T) {
	got := Localized(map[string]string{"en": " Owner <i>type</i> ", "fr": "<br>"})
	if len(got) != 1 || got["en"] != "Owner type" {
		t.Fatalf("unexpected result %v", got)
	}
	if Localized(nil) != nil {
		t.Fatalf("expected nil for nil input")
	}
}
