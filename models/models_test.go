package models

import "testing"

func TestItemKey(t *testing.T) {
	if got := ItemKey(42, ContentTypeMovie); got != "movie::42" {
		t.Errorf("unexpected key: %s", got)
	}
	if got := ItemKey(7, ContentTypeShow); got != "show::7" {
		t.Errorf("unexpected key: %s", got)
	}

	r := Rating{UserID: 1, ContentID: 42, ContentType: ContentTypeMovie, Value: 9}
	if r.ItemKey() != "movie::42" {
		t.Errorf("rating key mismatch: %s", r.ItemKey())
	}
}

func TestValidContentType(t *testing.T) {
	if !ValidContentType(ContentTypeMovie) || !ValidContentType(ContentTypeShow) {
		t.Error("movie and show must be valid")
	}
	if ValidContentType("tv") || ValidContentType("") {
		t.Error("unknown types must be invalid")
	}
}
