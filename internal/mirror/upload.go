package mirror

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"go.uber.org/zap"
)

// UploadDir copies the local directory tree rooted at localDir into
// remoteDir on the connected host. Existing remote files are overwritten;
// remote files with no local counterpart are left alone.
func (c *Connection) UploadDir(localDir, remoteDir string, logger *zap.SugaredLogger) (int, error) {
	uploaded := 0

	err := filepath.Walk(localDir, func(localPath string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(localDir, localPath)
		if err != nil {
			return fmt.Errorf("failed to relativize %s: %w", localPath, err)
		}

		remotePath := path.Join(remoteDir, filepath.ToSlash(rel))

		if info.IsDir() {
			if err := c.sftpClient.MkdirAll(remotePath); err != nil {
				return fmt.Errorf("failed to create remote directory %s: %w", remotePath, err)
			}

			return nil
		}

		if !info.Mode().IsRegular() {
			logger.Warnf("skipping non-regular file: %s", localPath)
			return nil
		}

		if err := c.uploadFile(localPath, remotePath); err != nil {
			return err
		}

		uploaded++

		return nil
	})
	if err != nil {
		return uploaded, err
	}

	logger.Infof("mirrored %d files from %s to %s", uploaded, localDir, remoteDir)

	return uploaded, nil
}

func (c *Connection) uploadFile(localPath, remotePath string) error {
	src, err := os.Open(localPath) //nolint:gosec // path comes from walking the slot directory
	if err != nil {
		return fmt.Errorf("failed to open source file %s: %w", localPath, err)
	}

	defer func() {
		_ = src.Close()
	}()

	dst, err := c.sftpClient.Create(remotePath)
	if err != nil {
		return fmt.Errorf("failed to create remote file %s: %w", remotePath, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return fmt.Errorf("failed to upload %s: %w", localPath, err)
	}

	if err := dst.Close(); err != nil {
		return fmt.Errorf("failed to close remote file %s: %w", remotePath, err)
	}

	return nil
}
