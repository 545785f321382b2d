package media

import (
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/nfnt/resize"
	perrors "github.com/pkg/errors"

	"printshop/internal/domain"
)

// Kind selects the size and type rules for an upload.
type Kind struct {
	Name    string
	Dir     string
	MaxSize int64
	Types   map[string]string // mime type -> file extension
	Resize  bool
}

var (
	Image = Kind{
		Name:    "image",
		Dir:     "images",
		MaxSize: 5 << 20,
		Resize:  true,
		Types: map[string]string{
			"image/jpeg": ".jpg",
			"image/png":  ".png",
			"image/gif":  ".gif",
			"image/webp": ".webp",
		},
	}
	Design = Kind{
		Name:    "designFile",
		Dir:     "designs",
		MaxSize: 10 << 20,
		Types: map[string]string{
			"application/pdf":              ".pdf",
			"image/jpeg":                   ".jpg",
			"image/png":                    ".png",
			"image/svg+xml":                ".svg",
			"application/postscript":       ".ai",
			"application/illustrator":      ".ai",
			"image/vnd.adobe.photoshop":    ".psd",
			"application/x-photoshop":      ".psd",
			"application/zip":              ".zip",
			"application/x-zip-compressed": ".zip",
		},
	}
)

// MaxWidth is the widest raster image kept for kinds with Resize set.
const MaxWidth = 1200

// Store writes uploads under Root and hands back URLs below URLPrefix.
type Store struct {
	Root      string
	URLPrefix string
}

func NewStore(root, urlPrefix string) *Store {
	return &Store{Root: root, URLPrefix: strings.TrimRight(urlPrefix, "/")}
}

// Save validates fh against kind and persists it under a random name.
func (s *Store) Save(fh *multipart.FileHeader, kind Kind) (*domain.FileMeta, error) {
	if fh == nil {
		return nil, domain.Invalid("%s is required", kind.Name)
	}
	if fh.Size > kind.MaxSize {
		return nil, domain.Invalid("%s must be at most %d MB", kind.Name, kind.MaxSize>>20)
	}
	mime := strings.ToLower(strings.TrimSpace(strings.Split(fh.Header.Get("Content-Type"), ";")[0]))
	ext, ok := kind.Types[mime]
	if !ok {
		return nil, domain.Invalid("%s type %q is not allowed", kind.Name, mime)
	}

	src, err := fh.Open()
	if err != nil {
		return nil, perrors.Wrap(err, "open upload")
	}
	defer src.Close()

	dir := filepath.Join(s.Root, kind.Dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, perrors.Wrap(err, "create upload dir")
	}
	name := uuid.NewString() + ext
	full := filepath.Join(dir, name)

	out, err := os.Create(full)
	if err != nil {
		return nil, perrors.Wrap(err, "create upload file")
	}
	size, werr := write(out, src, mime, kind.Resize)
	cerr := out.Close()
	if werr == nil {
		werr = cerr
	}
	if werr != nil {
		_ = os.Remove(full)
		return nil, werr
	}

	return &domain.FileMeta{
		URL:          s.URLPrefix + "/" + kind.Dir + "/" + name,
		OriginalName: filepath.Base(fh.Filename),
		MimeType:     mime,
		Size:         size,
	}, nil
}

// Remove deletes a file previously returned by Save. Unknown URLs are ignored.
func (s *Store) Remove(url string) {
	if !strings.HasPrefix(url, s.URLPrefix+"/") {
		return
	}
	rel := filepath.Clean(strings.TrimPrefix(url, s.URLPrefix+"/"))
	if strings.Contains(rel, "..") || filepath.IsAbs(rel) {
		return
	}
	_ = os.Remove(filepath.Join(s.Root, rel))
}

// write copies src to dst. With shrink set, wide jpeg and png images are downscaled.
func write(dst *os.File, src io.Reader, mime string, shrink bool) (int64, error) {
	if !shrink || (mime != "image/jpeg" && mime != "image/png") {
		n, err := io.Copy(dst, src)
		return n, perrors.Wrap(err, "store upload")
	}

	var (
		img image.Image
		err error
	)
	if mime == "image/png" {
		img, err = png.Decode(src)
	} else {
		img, err = jpeg.Decode(src)
	}
	if err != nil {
		return 0, domain.Invalid("image could not be decoded")
	}
	if img.Bounds().Dx() > MaxWidth {
		img = resize.Resize(MaxWidth, 0, img, resize.Lanczos3)
	}
	if mime == "image/png" {
		err = png.Encode(dst, img)
	} else {
		err = jpeg.Encode(dst, img, &jpeg.Options{Quality: 85})
	}
	if err != nil {
		return 0, perrors.Wrap(err, "encode image")
	}
	info, err := dst.Stat()
	if err != nil {
		return 0, perrors.Wrap(err, "stat upload")
	}
	return info.Size(), nil
}
