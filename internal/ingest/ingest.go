package ingest

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
)

// MaxSize is the largest document accepted for analysis.
const MaxSize = 10 * 1024 * 1024

// MediaType enumerates the document formats the analyzer accepts.
type MediaType string

const (
	MediaPDF       MediaType = "application/pdf"
	MediaPNG       MediaType = "image/png"
	MediaJPEG      MediaType = "image/jpeg"
	MediaPlainText MediaType = "text/plain"
)

var supported = []MediaType{MediaPDF, MediaPNG, MediaJPEG, MediaPlainText}

// Extensions lists the file suffixes offered by pickers and the inbox watcher.
var Extensions = []string{".pdf", ".png", ".jpg", ".jpeg", ".txt"}

// Label returns a short human readable name for the media type.
func (t MediaType) Label() string {
	switch t {
	case MediaPDF:
		return "PDF"
	case MediaPNG:
		return "PNG image"
	case MediaJPEG:
		return "JPEG image"
	case MediaPlainText:
		return "Text"
	default:
		return string(t)
	}
}

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrTooLarge        = errors.New("file exceeds 10MB limit")
	ErrUnreadable      = errors.New("file could not be read")
)

// ValidationError reports why a file was refused. It unwraps to one of the
// Err* sentinels above.
type ValidationError struct {
	Name string
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// UserMessage is the inline message shown next to the upload surface.
func (e *ValidationError) UserMessage() string {
	switch {
	case errors.Is(e.Err, ErrUnsupportedType):
		return "Please upload a PDF, Image, or Text file."
	case errors.Is(e.Err, ErrTooLarge):
		return "File size exceeds 10MB limit."
	default:
		return "Failed to read file."
	}
}

// UploadedFile describes a validated document ready to be sent to the model.
// Data holds a base64 data URL (data:<type>;base64,<payload>).
type UploadedFile struct {
	Name      string
	MediaType MediaType
	Data      string
	Size      int64
	Pages     int
}

// FromPath validates and encodes the file at path.
func FromPath(path string) (UploadedFile, error) {
	name := filepath.Base(path)
	info, err := os.Stat(path)
	if err != nil {
		return UploadedFile{}, &ValidationError{Name: name, Err: fmt.Errorf("%w: %v", ErrUnreadable, err)}
	}
	if info.IsDir() {
		return UploadedFile{}, &ValidationError{Name: name, Err: ErrUnsupportedType}
	}
	if info.Size() > MaxSize {
		return UploadedFile{}, &ValidationError{Name: name, Err: ErrTooLarge}
	}
	f, err := os.Open(path)
	if err != nil {
		return UploadedFile{}, &ValidationError{Name: name, Err: fmt.Errorf("%w: %v", ErrUnreadable, err)}
	}
	defer f.Close()
	return Read(name, f, info.Size())
}

// Read validates and encodes a document from r. size is the declared length;
// pass -1 when unknown and the limit is enforced while reading.
func Read(name string, r io.Reader, size int64) (UploadedFile, error) {
	if size > MaxSize {
		return UploadedFile{}, &ValidationError{Name: name, Err: ErrTooLarge}
	}
	data, err := io.ReadAll(io.LimitReader(r, MaxSize+1))
	if err != nil {
		return UploadedFile{}, &ValidationError{Name: name, Err: fmt.Errorf("%w: %v", ErrUnreadable, err)}
	}
	if len(data) > MaxSize {
		return UploadedFile{}, &ValidationError{Name: name, Err: ErrTooLarge}
	}

	mediaType, ok := detect(data)
	if !ok {
		return UploadedFile{}, &ValidationError{Name: name, Err: ErrUnsupportedType}
	}

	file := UploadedFile{
		Name:      name,
		MediaType: mediaType,
		Data:      EncodeDataURL(mediaType, data),
		Size:      int64(len(data)),
	}
	if mediaType == MediaPDF {
		file.Pages = countPages(data)
	}
	return file, nil
}

// EncodeDataURL renders data as a self-describing base64 data URL.
func EncodeDataURL(mediaType MediaType, data []byte) string {
	return "data:" + string(mediaType) + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// detect maps the sniffed type, or its nearest supported ancestor, to a
// MediaType. CSV, JSON, HTML and XML text all descend from text/plain.
func detect(data []byte) (MediaType, bool) {
	for m := mimetype.Detect(data); m != nil; m = m.Parent() {
		for _, candidate := range supported {
			if m.Is(string(candidate)) {
				return candidate, true
			}
		}
	}
	return "", false
}

// countPages reports the PDF page count, or 0 when the document cannot be parsed.
// A malformed PDF is still handed to the model; it decides what it can read.
func countPages(data []byte) (pages int) {
	defer func() {
		if recover() != nil {
			pages = 0
		}
	}()
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0
	}
	return reader.NumPage()
}
