package gitrepo

import (
	"path/filepath"
	"strings"

	"github.com/temirov/checkout/internal/fsio"
)

const (
	gitMetadataEntryNameConstant = ".git"
	gitDirRedirectPrefixConstant = "gitdir:"
)

// GitDirLocationKind classifies how repository metadata is attached to a destination.
type GitDirLocationKind int

// Metadata location classifications.
const (
	// GitDirAbsent marks a destination without readable repository metadata.
	GitDirAbsent GitDirLocationKind = iota
	// GitDirDirectory marks a regular .git directory.
	GitDirDirectory
	// GitDirRedirectAbsolute marks a .git redirect file naming an absolute metadata path.
	GitDirRedirectAbsolute
	// GitDirRedirectRelative marks a .git redirect file naming a path relative to the redirect.
	GitDirRedirectRelative
)

// GitDirLocation reports where repository metadata lives for a destination.
// Path is resolved and usable directly for all kinds except GitDirAbsent.
type GitDirLocation struct {
	Kind GitDirLocationKind
	Path string
}

// Present reports whether the location references readable repository metadata.
func (location GitDirLocation) Present() bool {
	return location.Kind != GitDirAbsent
}

// LocateGitDir resolves the metadata location for a destination path. A missing
// destination, a missing .git entry, or an unreadable redirect all yield
// GitDirAbsent; submodule-linked checkouts store a redirect file whose relative
// paths are resolved against the redirect file's directory.
func LocateGitDir(fileSystem fsio.FileSystem, destinationPath string) GitDirLocation {
	metadataPath := filepath.Join(destinationPath, gitMetadataEntryNameConstant)

	metadataInfo, statError := fileSystem.Stat(metadataPath)
	if statError != nil {
		return GitDirLocation{Kind: GitDirAbsent}
	}

	if metadataInfo.IsDir() {
		return GitDirLocation{Kind: GitDirDirectory, Path: metadataPath}
	}

	redirectContent, readError := fileSystem.ReadFile(metadataPath)
	if readError != nil {
		return GitDirLocation{Kind: GitDirAbsent}
	}

	redirectText := strings.TrimSpace(string(redirectContent))
	if !strings.HasPrefix(redirectText, gitDirRedirectPrefixConstant) {
		return GitDirLocation{Kind: GitDirAbsent}
	}

	redirectTarget := strings.TrimSpace(strings.TrimPrefix(redirectText, gitDirRedirectPrefixConstant))
	if len(redirectTarget) == 0 {
		return GitDirLocation{Kind: GitDirAbsent}
	}

	if filepath.IsAbs(redirectTarget) {
		return GitDirLocation{Kind: GitDirRedirectAbsolute, Path: redirectTarget}
	}

	return GitDirLocation{
		Kind: GitDirRedirectRelative,
		Path: filepath.Join(destinationPath, redirectTarget),
	}
}
