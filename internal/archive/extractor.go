package archive

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/oshokin/rkdevtool-grabber/internal/constants"
	"github.com/oshokin/rkdevtool-grabber/internal/logger"
	"github.com/oshokin/rkdevtool-grabber/internal/utils"
)

// Extractor defines the interface for unpacking an archive file.
type Extractor interface {
	// Extract unpacks every entry of the archive into destinationDir, replacing existing files.
	// Entry names are sanitized into relative paths, so no entry lands outside destinationDir.
	Extract(ctx context.Context, archivePath, destinationDir string) (*ExtractResult, error)
}

// ExtractResult describes what was written by Extract.
type ExtractResult struct {
	// Files lists extracted file names relative to the destination directory, in archive order.
	Files []string
	// Directories is the number of directory entries created.
	Directories int
	// SkippedEntries lists entries whose names are left empty by sanitizing, such as "../".
	SkippedEntries []string
	// TotalBytes is the total uncompressed size of the extracted files.
	TotalBytes int64
}

// ZipExtractor implements Extractor for ZIP archives.
type ZipExtractor struct{}

// Static error definitions for better error handling.
var (
	// ErrUnsafeEntryPath indicates an entry that would be written outside the destination directory
	// even after its name was sanitized.
	ErrUnsafeEntryPath = errors.New("archive entry path escapes the destination directory")
)

// NewZipExtractor creates and returns a new instance of ZipExtractor.
func NewZipExtractor() Extractor {
	return new(ZipExtractor)
}

// Extract unpacks every entry of the ZIP archive into destinationDir.
// Each file is written to a temporary sibling first and renamed over the destination,
// so a failed extraction never leaves a half-written file under the final name.
func (e *ZipExtractor) Extract(ctx context.Context, archivePath, destinationDir string) (*ExtractResult, error) {
	reader, err := zip.OpenReader(filepath.Clean(archivePath))
	if err != nil {
		return nil, fmt.Errorf("failed to open archive '%s': %w", archivePath, err)
	}

	defer reader.Close() //nolint:errcheck // Archive is opened read-only.

	if err = os.MkdirAll(destinationDir, constants.DefaultFolderPermissions); err != nil {
		return nil, fmt.Errorf("failed to create destination directory '%s': %w", destinationDir, err)
	}

	result := &ExtractResult{
		Files: make([]string, 0, len(reader.File)),
	}

	for _, file := range reader.File {
		if err = ctx.Err(); err != nil {
			return nil, err
		}

		if err = e.extractEntry(ctx, file, destinationDir, result); err != nil {
			return nil, fmt.Errorf("failed to extract '%s': %w", file.Name, err)
		}
	}

	return result, nil
}

func (e *ZipExtractor) extractEntry(
	ctx context.Context,
	file *zip.File,
	destinationDir string,
	result *ExtractResult,
) error {
	name := utils.SanitizeArchivePath(file.Name)
	if name == "" {
		logger.Warnf(ctx, "Skipping entry '%s' with no usable path", file.Name)

		result.SkippedEntries = append(result.SkippedEntries, file.Name)

		return nil
	}

	if name != filepath.FromSlash(strings.TrimSuffix(file.Name, "/")) {
		logger.Debugf(ctx, "Entry '%s' is extracted as '%s'", file.Name, filepath.ToSlash(name))
	}

	targetPath, ok := utils.ResolveInsideDir(destinationDir, name)
	if !ok {
		return ErrUnsafeEntryPath
	}

	mode := file.Mode()
	perm := filePermissions(mode)

	switch {
	case mode.IsDir():
		if err := os.MkdirAll(targetPath, constants.DefaultFolderPermissions); err != nil {
			return err
		}

		result.Directories++

		return nil
	case mode&os.ModeSymlink != 0:
		// Links are written as regular files holding the link target.
		perm = constants.DefaultFilePermissions
	}

	if err := os.MkdirAll(filepath.Dir(targetPath), constants.DefaultFolderPermissions); err != nil {
		return err
	}

	written, err := writeEntry(file, targetPath, perm)
	if err != nil {
		return err
	}

	logger.Debugf(ctx, "Extracted '%s' (%d bytes)", file.Name, written)

	result.Files = append(result.Files, filepath.ToSlash(name))
	result.TotalBytes += written

	return nil
}

// writeEntry copies one archive entry to targetPath through a temporary file.
func writeEntry(file *zip.File, targetPath string, perm os.FileMode) (int64, error) {
	source, err := file.Open()
	if err != nil {
		return 0, err
	}

	defer source.Close() //nolint:errcheck // Reader of an entry inside a read-only archive.

	tempPath := targetPath + "." + uuid.New().String() + constants.ExtensionPart

	destination, err := os.OpenFile(tempPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, perm)
	if err != nil {
		return 0, err
	}

	var renamed bool

	defer func() {
		if !renamed {
			_ = os.Remove(tempPath)
		}
	}()

	written, err := io.Copy(destination, source)
	if err != nil {
		destination.Close() //nolint:errcheck,gosec // The copy error is the one worth reporting.

		return 0, err
	}

	if err = destination.Close(); err != nil {
		return 0, err
	}

	if err = os.Rename(tempPath, targetPath); err != nil {
		return 0, err
	}

	renamed = true

	return written, nil
}

// filePermissions keeps the archived permission bits with owner read and write always set.
func filePermissions(mode os.FileMode) os.FileMode {
	perm := mode.Perm()
	if perm == 0 {
		perm = constants.DefaultFilePermissions
	}

	return perm | constants.OwnerReadWritePermissions
}
