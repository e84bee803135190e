package registry

import (
	"emperror.dev/errors"
	"fmt"
	"github.com/je4/utils/v2/pkg/checksum"
	"hash"
	"io"
	"os"
	"path/filepath"
)

// openSource opens a regular, readable file.
func openSource(source string) (*os.File, error) {
	fi, err := os.Stat(source)
	if err != nil {
		return nil, newError(ErrSourceUnreadable, err, "cannot stat '%s'", source)
	}
	if !fi.Mode().IsRegular() {
		return nil, newError(ErrSourceUnreadable, nil, "'%s' is not a regular file", source)
	}
	fp, err := os.Open(source)
	if err != nil {
		return nil, newError(ErrSourceUnreadable, err, "cannot open '%s'", source)
	}
	return fp, nil
}

// copyFile copies source to dest and returns the hex digest of the data if an
// algorithm is given. The data is written to a temporary file next to dest
// which replaces dest only after a complete copy, so a failure leaves an
// existing dest untouched.
func copyFile(source, dest string, digest checksum.DigestAlgorithm) (string, error) {
	src, err := openSource(source)
	if err != nil {
		return "", err
	}
	defer src.Close()

	var h hash.Hash
	if digest != "" {
		h, err = checksum.GetHash(digest)
		if err != nil {
			return "", errors.Wrapf(err, "invalid digest algorithm '%s'", digest)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".gobook-*")
	if err != nil {
		return "", newError(ErrIOFailure, err, "cannot create temporary file for '%s'", dest)
	}
	tmpName := tmp.Name()
	var w io.Writer = tmp
	if h != nil {
		w = io.MultiWriter(tmp, h)
	}
	if _, err := io.Copy(w, src); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", newError(ErrIOFailure, err, "cannot copy '%s' to '%s'", source, dest)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", newError(ErrIOFailure, err, "cannot set mode of '%s'", tmpName)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", newError(ErrIOFailure, err, "cannot close '%s'", tmpName)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return "", newError(ErrIOFailure, err, "cannot move '%s' to '%s'", tmpName, dest)
	}
	if h == nil {
		return "", nil
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
