package storage

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ローカルディスクに画像を保存する。
// 保存名はUUIDにして元ファイル名の衝突を避ける
type LocalImageStore struct {
	dir       string
	urlPrefix string
}

func NewLocalImageStore(dir string, urlPrefix string) (*LocalImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &LocalImageStore{dir: dir, urlPrefix: urlPrefix}, nil
}

func (s *LocalImageStore) Save(originalName string, data []byte) (string, string, error) {
	ext := filepath.Ext(originalName)
	storedName := uuid.NewString() + ext

	path := filepath.Join(s.dir, storedName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", "", err
	}

	return storedName, s.urlPrefix + storedName, nil
}
