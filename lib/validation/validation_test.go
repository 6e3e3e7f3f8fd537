package validation

import "testing"

func TestValidateRatingValue(t *testing.T) {
	cases := []struct {
		value int
		ok    bool
	}{
		{0, false},
		{1, true},
		{7, true},
		{10, true},
		{11, false},
		{-3, false},
	}

	for _, tc := range cases {
		err := ValidateRatingValue(tc.value)
		if tc.ok && err != nil {
			t.Errorf("value %d: unexpected error: %v", tc.value, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("value %d: expected an error", tc.value)
		}
	}
}

func TestValidateContentType(t *testing.T) {
	for _, valid := range []string{"movie", "show"} {
		if err := ValidateContentType(valid); err != nil {
			t.Errorf("%q: unexpected error: %v", valid, err)
		}
	}
	for _, invalid := range []string{"", "tv", "Movie", "song"} {
		if err := ValidateContentType(invalid); err == nil {
			t.Errorf("%q: expected an error", invalid)
		}
	}
}

func TestValidateLimit(t *testing.T) {
	cases := []struct {
		limit int
		ok    bool
	}{
		{0, false},
		{1, true},
		{20, true},
		{100, true},
		{101, false},
	}

	for _, tc := range cases {
		err := ValidateLimit(tc.limit)
		if tc.ok && err != nil {
			t.Errorf("limit %d: unexpected error: %v", tc.limit, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("limit %d: expected an error", tc.limit)
		}
	}
}

func TestValidateUserID(t *testing.T) {
	if err := ValidateUserID(1); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	for _, invalid := range []int{0, -1} {
		if err := ValidateUserID(invalid); err == nil {
			t.Errorf("user id %d: expected an error", invalid)
		}
	}
}

func TestValidateTrendingResponse(t *testing.T) {
	valid := []byte(`{"results": [{"id": 5, "media_type": "movie", "popularity": 1.5}]}`)
	if err := ValidateTrendingResponse(valid); err != nil {
		t.Errorf("unexpected error for valid payload: %v", err)
	}

	empty := []byte(`{"results": []}`)
	if err := ValidateTrendingResponse(empty); err != nil {
		t.Errorf("unexpected error for empty results: %v", err)
	}

	invalid := [][]byte{
		[]byte(`{}`),
		[]byte(`{"results": [{"media_type": "movie"}]}`),
		[]byte(`{"results": [{"id": 0, "media_type": "movie"}]}`),
		[]byte(`{"results": "nope"}`),
	}
	for _, payload := range invalid {
		if err := ValidateTrendingResponse(payload); err == nil {
			t.Errorf("expected an error for %s", payload)
		}
	}
}
