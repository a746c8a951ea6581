package constants

import "os"

const (
	// DefaultFilePermissions sets the default permissions for regular files: (rw-r--r--).
	// Owner: read and write;
	// Group: read;
	// Others: read.
	DefaultFilePermissions os.FileMode = 0o644

	// DefaultFolderPermissions sets the default permissions for regular folders: (rwxr-xr-x).
	// Owner: read, write, and execute;
	// Group: read and execute;
	// Others: read and execute.
	DefaultFolderPermissions os.FileMode = 0o755

	// ArchiveFilePermissions is used for the downloaded archive: (rw-------).
	ArchiveFilePermissions os.FileMode = 0o600

	// OwnerReadWritePermissions are always granted on extracted files so they can be replaced on the next run.
	OwnerReadWritePermissions os.FileMode = 0o600
)

// ExtensionPart marks files that are still being written.
const ExtensionPart = ".part"
