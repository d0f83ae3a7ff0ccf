package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cesargomez89/soundhall/internal/domain"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Normal Name", "Normal Name"},
		{"Slash/Name", "SlashName"},
		{"Colon:Name", "ColonName"},
		{"Trailing Dot.", "Trailing Dot"},
		{"../etc", "..etc"},
		{"<Invalid>", "Invalid"},
	}

	for _, tt := range tests {
		got := Sanitize(tt.input)
		if got != tt.expected {
			t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestSafeName(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"bob", true},
		{"Bob Dylan", true},
		{".hidden", true},
		{"bob.", false},
		{"bob ", false},
		{"b/ob", false},
		{`b\ob`, false},
		{"..", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := SafeName(tt.input); got != tt.want {
			t.Errorf("SafeName(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}

	// every accepted name owns a distinct media directory
	seen := make(map[string]string)
	for _, tt := range tests {
		if !tt.want {
			continue
		}
		p := ProfilePicturePath(tt.input, ".png")
		if other, ok := seen[p]; ok {
			t.Errorf("%q and %q share %s", other, tt.input, p)
		}
		seen[p] = tt.input
	}
}

func TestMediaStore_Save(t *testing.T) {
	root := t.TempDir()
	ms := NewMediaStore(root)

	n, err := ms.Save("audio/alice/1.mp3", strings.NewReader("first"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if n != 5 {
		t.Errorf("Expected 5 bytes written, got %d", n)
	}

	// overwrite in place
	if _, err := ms.Save("audio/alice/1.mp3", strings.NewReader("second")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(root, "audio", "alice", "1.mp3"))
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "second" {
		t.Errorf("Expected %q, got %q", "second", data)
	}

	entries, _ := os.ReadDir(filepath.Join(root, "audio", "alice"))
	if len(entries) != 1 {
		t.Errorf("Expected temp files to be gone, found %d entries", len(entries))
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("read failed") }

func TestMediaStore_SaveFailureLeavesNothing(t *testing.T) {
	root := t.TempDir()
	ms := NewMediaStore(root)

	if _, err := ms.Save("profile/bob.png", failingReader{}); err == nil {
		t.Fatal("Expected Save to fail")
	}
	entries, _ := os.ReadDir(filepath.Join(root, "profile"))
	if len(entries) != 0 {
		t.Errorf("Expected no files after failed save, found %d", len(entries))
	}
}

func TestMediaStore_Remove(t *testing.T) {
	root := t.TempDir()
	ms := NewMediaStore(root)

	if _, err := ms.Save("tracks/alice/3.jpg", strings.NewReader("img")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := ms.Remove("tracks/alice/3.jpg"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "tracks", "alice")); !os.IsNotExist(err) {
		t.Error("Expected empty owner directory to be removed")
	}

	if err := ms.Remove("tracks/alice/3.jpg"); err != nil {
		t.Errorf("Remove of missing file should succeed, got %v", err)
	}
	if err := ms.Remove(""); err != nil {
		t.Errorf("Remove of empty path should succeed, got %v", err)
	}
}

func TestImageExt(t *testing.T) {
	tests := []struct {
		filename string
		expected string
	}{
		{"cover.JPG", ".jpg"},
		{"cover.jpeg", ".jpeg"},
		{"cover.webp", ".webp"},
		{"cover.bmp", ".png"},
		{"cover", ".png"},
	}

	for _, tt := range tests {
		if got := ImageExt(tt.filename); got != tt.expected {
			t.Errorf("ImageExt(%q) = %q, want %q", tt.filename, got, tt.expected)
		}
	}
}

func TestAudioExt(t *testing.T) {
	if ext, err := AudioExt("song.MP3"); err != nil || ext != ".mp3" {
		t.Errorf("AudioExt(song.MP3) = %q, %v", ext, err)
	}
	if ext, err := AudioExt("song.flac"); err != nil || ext != ".flac" {
		t.Errorf("AudioExt(song.flac) = %q, %v", ext, err)
	}
	if _, err := AudioExt("song.wav"); !errors.Is(err, domain.ErrUnsupportedMedia) {
		t.Errorf("Expected ErrUnsupportedMedia, got %v", err)
	}
}

func TestParseExtension(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"flac", ".flac"},
		{".MP3", ".mp3"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := ParseExtension(tt.input); got != tt.expected {
			t.Errorf("ParseExtension(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestMediaPaths(t *testing.T) {
	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"profile", ProfilePicturePath("alice", ".png"), "profile/alice.png"},
		{"album", AlbumPicturePath("alice", 3, ".jpg"), "albums/alice/3.jpg"},
		{"playlist", PlaylistPicturePath("bob", 7, ".png"), "playlists/bob/7.png"},
		{"audio", AudioPath("alice", 12, ".flac"), "audio/alice/12.flac"},
		{"track image", TrackImagePath("alice", 12, ".jpg"), "tracks/alice/12.jpg"},
		{"sanitized owner", AudioPath("a/b", 1, ".mp3"), "audio/ab/1.mp3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("got %q, want %q", tt.got, tt.expected)
			}
		})
	}
}
