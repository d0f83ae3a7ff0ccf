package tagging

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"

	"github.com/cesargomez89/soundhall/internal/constants"
	"github.com/cesargomez89/soundhall/internal/domain"
)

// Metadata is what we pull out of an uploaded audio file.
type Metadata struct {
	Title       string
	PictureMIME string
	Picture     []byte
}

// HasPicture reports whether an embedded cover was found.
func (m *Metadata) HasPicture() bool {
	return m != nil && len(m.Picture) > 0
}

// PictureExt maps the cover's MIME type onto a file extension.
func (m *Metadata) PictureExt() string {
	switch strings.ToLower(m.PictureMIME) {
	case constants.MimeTypeJPEG, "image/jpg":
		return constants.ExtJPG
	case "image/gif":
		return constants.ExtGIF
	case "image/webp":
		return constants.ExtWEBP
	default:
		return constants.ExtPNG
	}
}

// ReadTags reads the title and front cover from an MP3 or FLAC file.
// Files without tags yield empty Metadata, not an error.
func ReadTags(filePath string) (*Metadata, error) {
	ext := strings.ToLower(filepath.Ext(filePath))

	switch ext {
	case constants.ExtFLAC:
		return readFLAC(filePath)
	case constants.ExtMP3:
		return readMP3(filePath)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedMedia, ext)
	}
}

func readMP3(filePath string) (*Metadata, error) {
	tag, err := id3v2.Open(filePath, id3v2.Options{Parse: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open MP3 file: %w", err)
	}
	defer tag.Close()

	md := &Metadata{Title: strings.TrimSpace(tag.Title())}

	for _, frame := range tag.GetFrames(tag.CommonID("Attached picture")) {
		pic, ok := frame.(id3v2.PictureFrame)
		if !ok || len(pic.Picture) == 0 {
			continue
		}
		// prefer the front cover, otherwise keep the first picture
		if !md.HasPicture() || pic.PictureType == id3v2.PTFrontCover {
			md.Picture = pic.Picture
			md.PictureMIME = pic.MimeType
		}
		if pic.PictureType == id3v2.PTFrontCover {
			break
		}
	}

	return md, nil
}

func readFLAC(filePath string) (*Metadata, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open FLAC file: %w", err)
	}
	defer file.Close()

	// metadata blocks only; audio frames are never read
	f, err := flac.ParseMetadata(bufio.NewReader(file))
	if err != nil {
		return nil, fmt.Errorf("failed to parse FLAC metadata: %w", err)
	}

	md := &Metadata{}
	for _, block := range f.Meta {
		switch block.Type {
		case flac.VorbisComment:
			cmt, err := flacvorbis.ParseFromMetaDataBlock(*block)
			if err != nil {
				return nil, fmt.Errorf("failed to parse vorbis comment: %w", err)
			}
			if titles, err := cmt.Get(flacvorbis.FIELD_TITLE); err == nil && len(titles) > 0 {
				md.Title = strings.TrimSpace(titles[0])
			}
		case flac.Picture:
			pic, err := flacpicture.ParseFromMetaDataBlock(*block)
			if err != nil {
				return nil, fmt.Errorf("failed to parse picture block: %w", err)
			}
			if len(pic.ImageData) == 0 {
				continue
			}
			if !md.HasPicture() || pic.PictureType == flacpicture.PictureTypeFrontCover {
				md.Picture = pic.ImageData
				md.PictureMIME = pic.MIME
			}
		}
	}

	return md, nil
}
