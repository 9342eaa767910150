package converge

import (
	"go.uber.org/zap"

	"github.com/temirov/checkout/internal/execshell"
	"github.com/temirov/checkout/internal/fsio"
	"github.com/temirov/checkout/internal/gitrepo"
)

// ResolveGitExecutor returns the provided executor or constructs a shell-backed default.
func ResolveGitExecutor(existing GitExecutor, logger *zap.Logger, humanReadableLogging bool) (GitExecutor, error) {
	if existing != nil {
		return existing, nil
	}

	commandRunner := execshell.NewOSCommandRunner()
	shellExecutor, creationError := execshell.NewShellExecutor(logger, commandRunner, humanReadableLogging)
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor, nil
}

// ResolveFileSystem returns the provided filesystem or an OS-backed default.
func ResolveFileSystem(existing fsio.FileSystem) fsio.FileSystem {
	if existing != nil {
		return existing
	}
	return fsio.OSFileSystem{}
}

// ResolveRepositoryInspector returns the provided inspector or constructs one from the executor.
func ResolveRepositoryInspector(existing RepositoryInspector, executor GitExecutor, fileSystem fsio.FileSystem) (RepositoryInspector, error) {
	if existing != nil {
		return existing, nil
	}
	return gitrepo.NewRepositoryInspector(executor, fileSystem)
}
