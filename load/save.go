package load

import (
	"fmt"
	"os"
	"path/filepath"
)

// Save writes data to path with a default Loader.
func Save(path string, data []byte) (string, error) {
	return defaultLoader.Save(path, data, "")
}

// Save writes data to path atomically, transcoding from UTF-8 when encoding
// names another charset. It returns the absolute path written.
func (l *Loader) Save(path string, data []byte, encoding string) (string, error) {
	enc, err := lookupEncoding(encoding)
	if err != nil {
		return "", fmt.Errorf("save %s: %w", path, err)
	}
	if enc != nil {
		if data, err = enc.NewEncoder().Bytes(data); err != nil {
			return "", fmt.Errorf("save %s: encode %s: %w", path, encoding, err)
		}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("save %s: %w", path, err)
	}
	if err := writeAtomic(abs, data); err != nil {
		return "", fmt.Errorf("save %s: %w", path, err)
	}
	l.log.Debug().Str("path", abs).Int("bytes", len(data)).Msg("saved")
	return abs, nil
}

func writeAtomic(path string, data []byte) error {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer os.Remove(tmp) // no-op after a successful rename

	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
