package dto

import (
	"strings"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	err := ValidationError{Field: "title", Message: "is required"}
	if err.Error() != "title: is required" {
		t.Errorf("Error() = %q, want %q", err.Error(), "title: is required")
	}
}

func TestValidationError_ToMap(t *testing.T) {
	err := ValidationError{Field: "title", Message: "is required"}
	m := err.ToMap()
	if m["title"] != "is required" {
		t.Errorf("ToMap() = %v, want {title: is required}", m)
	}
}

func TestToMap(t *testing.T) {
	errs := []ValidationError{
		{Field: "title", Message: "is required"},
		{Field: "year", Message: "must be between 1900 and 2100"},
	}
	m := ToMap(errs)
	if len(m) != 2 {
		t.Errorf("ToMap() returned %d items, want 2", len(m))
	}
	if m["title"] != "is required" {
		t.Errorf("ToMap()[title] = %q, want %q", m["title"], "is required")
	}
	if m["year"] != "must be between 1900 and 2100" {
		t.Errorf("ToMap()[year] = %q, want %q", m["year"], "must be between 1900 and 2100")
	}
}

func TestToResponse(t *testing.T) {
	errs := []ValidationError{
		{Field: "title", Message: "is required"},
		{Field: "year", Message: "invalid"},
	}
	resp := ToResponse(errs)
	expected := "title: is required; year: invalid"
	if resp != expected {
		t.Errorf("ToResponse() = %q, want %q", resp, expected)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		req        interface{}
		wantFields []string
	}{
		{"valid register", &RegisterRequest{Username: "alice", Email: "a@example.com", Password: "pw", ConfirmPassword: "pw"}, nil},
		{"register without email is left to the service", &RegisterRequest{Username: "alice"}, nil},
		{"register without username", &RegisterRequest{Email: "a@example.com"}, []string{"username"}},
		{"username with slash", &RegisterRequest{Username: "b/ob"}, []string{"username"}},
		{"username ending in dot", &RegisterRequest{Username: "bob."}, []string{"username"}},
		{"password too long for bcrypt", &RegisterRequest{Username: "alice", Password: strings.Repeat("x", 73)}, []string{"password"}},
		{"login missing both", &LoginRequest{}, []string{"username", "password"}},
		{"album needs name", &CreateAlbumRequest{}, []string{"album_name"}},
		{"album name too long", &CreateAlbumRequest{Name: strings.Repeat("a", 201)}, []string{"album_name"}},
		{"edit album with no changes", &EditAlbumRequest{}, nil},
		{"edit album bad track id", &EditAlbumRequest{TrackIDs: []int64{1, 0}}, []string{"song[1]"}},
		{"track needs album", &CreateTrackRequest{Name: "x"}, []string{"album_title"}},
		{"track with album", &CreateTrackRequest{AlbumID: 3}, nil},
		{"playlist needs name", &CreatePlaylistRequest{TrackIDs: []int64{1}}, []string{"playlist_name"}},
		{"edit playlist", &EditPlaylistRequest{TrackIDs: []int64{1, 2}}, nil},
		{"search term", &SearchRequest{Term: "night"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(tt.req)
			if len(errs) != len(tt.wantFields) {
				t.Fatalf("Validate() returned %v, want fields %v", errs, tt.wantFields)
			}
			got := ToMap(errs)
			for _, f := range tt.wantFields {
				if _, ok := got[f]; !ok {
					t.Errorf("Expected error for field %q, got %v", f, got)
				}
			}
		})
	}
}

func TestValidate_Messages(t *testing.T) {
	errs := Validate(&CreateAlbumRequest{})
	if len(errs) != 1 || errs[0].Message != "is required" {
		t.Errorf("Expected 'is required', got %v", errs)
	}

	errs = Validate(&CreateAlbumRequest{Name: strings.Repeat("a", 201)})
	if len(errs) != 1 || errs[0].Message != "must be at most 200 characters" {
		t.Errorf("Expected length message, got %v", errs)
	}

	errs = Validate(&RegisterRequest{Username: "a:b"})
	if len(errs) != 1 || !strings.HasPrefix(errs[0].Message, "must not contain") {
		t.Errorf("Expected character message, got %v", errs)
	}

	errs = Validate(&CreateTrackRequest{AlbumID: -1})
	if len(errs) != 1 || errs[0].Message != "must be greater than 0" {
		t.Errorf("Expected range message, got %v", errs)
	}
}
