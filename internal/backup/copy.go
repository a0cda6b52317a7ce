package backup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"go.uber.org/multierr"
)

const dirMode os.FileMode = 0o755

// CopyTree copies the contents of src on srcFS into dst on dstFS.
// dst is created when missing. Symlinks are recreated, not followed.
func CopyTree(srcFS billy.Filesystem, src string, dstFS billy.Filesystem, dst string) error {
	if err := dstFS.MkdirAll(dst, dirMode); err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}

	return util.Walk(srcFS, src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}

		if rel == "." {
			return nil
		}

		target := dstFS.Join(dst, rel)

		switch mode := info.Mode(); {
		case mode.IsDir():
			return dstFS.MkdirAll(target, mode.Perm()|0o700)
		case mode&os.ModeSymlink != 0:
			return copySymlink(srcFS, path, dstFS, target)
		case mode.IsRegular():
			return copyFile(srcFS, path, dstFS, target, mode.Perm())
		default:
			return nil
		}
	})
}

func copyFile(srcFS billy.Filesystem, src string, dstFS billy.Filesystem, dst string, perm os.FileMode) (err error) {
	in, err := srcFS.Open(src)
	if err != nil {
		return err
	}

	defer func() { err = multierr.Append(err, in.Close()) }()

	out, err := dstFS.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return err
	}

	defer func() { err = multierr.Append(err, out.Close()) }()

	if _, err = io.Copy(out, in); err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}

	return nil
}

func copySymlink(srcFS billy.Filesystem, src string, dstFS billy.Filesystem, dst string) error {
	link, err := srcFS.Readlink(src)
	if err != nil {
		return err
	}

	return dstFS.Symlink(link, dst)
}
