package docmodel

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	ferrors "git.home.luguber.info/inful/mdimages/internal/foundation/errors"
)

// CopyResult describes what Copy wrote.
type CopyResult struct {
	Document string
	Images   []string
}

// Copy copies the document and its policy-selected images. When target is an
// existing directory the document keeps its name inside it; otherwise target
// is the new document path. Images keep their location relative to the
// document.
func (d *Document) Copy(target string, policy Policy) (CopyResult, error) {
	targetDir, docTarget := target, filepath.Join(target, filepath.Base(d.path))
	if info, err := os.Stat(target); err != nil || !info.IsDir() {
		targetDir, docTarget = filepath.Dir(target), target
	}

	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return CopyResult{}, copyError(err, d.path, targetDir)
	}
	if err := copyFile(d.path, docTarget); err != nil {
		return CopyResult{}, copyError(err, d.path, docTarget)
	}

	result := CopyResult{Document: docTarget}
	base := filepath.Dir(d.path)
	for _, img := range d.ImageSources(policy) {
		rel, err := filepath.Rel(base, img)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return result, ferrors.FileSystemError("image is outside the document directory").
				WithContext("path", d.path).
				WithContext("image", img).
				Build()
		}
		dest := filepath.Join(targetDir, rel)
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return result, copyError(err, img, dest)
		}
		if err := copyFile(img, dest); err != nil {
			return result, copyError(err, img, dest)
		}
		result.Images = append(result.Images, dest)
	}
	return result, nil
}

func copyError(err error, src, dst string) error {
	return ferrors.WrapError(err, ferrors.CategoryFileSystem, "copy failed").
		WithContext("path", src).
		WithContext("target", dst).
		Build()
}

// copyFile copies a single file from src to dst, keeping mode and
// modification time.
func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = srcFile.Close()
	}()

	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dstFile, srcFile); err != nil {
		_ = dstFile.Close()
		return err
	}
	if err := dstFile.Close(); err != nil {
		return err
	}

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return err
	}
	if err := os.Chmod(dst, srcInfo.Mode()); err != nil {
		return err
	}
	return os.Chtimes(dst, srcInfo.ModTime(), srcInfo.ModTime())
}
