package storage

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"taskmarket/internal/model"
)

// ErrAllFilesFailed is returned by SaveAll when files were given but none
// could be stored.
var ErrAllFilesFailed = errors.New("no file could be stored")

// Store writes uploads to a local directory under random names, never
// overwriting an existing file. Writes are a non-transactional side effect:
// a stored file whose owning database row is later rolled back is left
// orphaned by design of the callers.
type Store struct {
	dir       string
	urlPrefix string
	maxBytes  int64
}

func New(dir, urlPrefix string, maxBytes int64) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{
		dir:       dir,
		urlPrefix: strings.TrimRight(urlPrefix, "/"),
		maxBytes:  maxBytes,
	}, nil
}

// Save stores one upload and returns its attachment record.
func (s *Store) Save(fh *multipart.FileHeader) (model.Attachment, error) {
	if fh.Size <= 0 || fh.Size > s.maxBytes {
		return model.Attachment{}, fmt.Errorf("file %q exceeds size limit", fh.Filename)
	}

	src, err := fh.Open()
	if err != nil {
		return model.Attachment{}, err
	}
	defer src.Close()

	storedName, err := s.randomName(fh.Filename)
	if err != nil {
		return model.Attachment{}, err
	}

	// O_EXCL guarantees an existing file is never overwritten.
	dst, err := os.OpenFile(filepath.Join(s.dir, storedName), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return model.Attachment{}, err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return model.Attachment{}, err
	}

	mime := fh.Header.Get("Content-Type")
	if mime == "" {
		mime = "application/octet-stream"
	}

	return model.Attachment{
		OrigName:   fh.Filename,
		StoredName: storedName,
		Mime:       mime,
		URL:        s.urlPrefix + "/" + storedName,
	}, nil
}

// SaveAll stores a batch of uploads best-effort: individual failures are
// logged and skipped. It fails only when every file failed.
func (s *Store) SaveAll(fhs []*multipart.FileHeader) (model.AttachmentList, error) {
	saved := make(model.AttachmentList, 0, len(fhs))
	for _, fh := range fhs {
		att, err := s.Save(fh)
		if err != nil {
			log.Printf("⚠️  Skipping attachment %q: %v", fh.Filename, err)
			continue
		}
		saved = append(saved, att)
	}
	if len(fhs) > 0 && len(saved) == 0 {
		return nil, ErrAllFilesFailed
	}
	return saved, nil
}

func (s *Store) randomName(origName string) (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(origName))
	return fmt.Sprintf("%s_%d%s", hex.EncodeToString(buf), time.Now().Unix(), ext), nil
}
