// pkg/paths/paths.go
package paths

import (
	"os"
	"path/filepath"
)

const (
	// DefaultLibDir is the library directory under the project root
	DefaultLibDir = "lib"

	// DefaultEnvFile is the name of the generated environment file
	DefaultEnvFile = "config.env"

	// DefaultProjectName is the directory name the project root is expected to have
	DefaultProjectName = "wfn_eng"
)

// Resolver answers where the project, its library tree and its env file live.
// The root is always passed in explicitly; nothing below reads the working directory.
type Resolver struct {
	root        string
	libDir      string
	envFile     string
	projectName string
}

// New creates a Resolver for the given project root.
// Empty segment names fall back to the defaults.
func New(root, libDir, envFile, projectName string) *Resolver {
	if libDir == "" {
		libDir = DefaultLibDir
	}
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	if projectName == "" {
		projectName = DefaultProjectName
	}

	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}

	return &Resolver{
		root:        filepath.Clean(root),
		libDir:      libDir,
		envFile:     envFile,
		projectName: projectName,
	}
}

// CurrentRoot returns the process working directory, unmodified
func CurrentRoot() (string, error) {
	return os.Getwd()
}

// Root returns the project root
func (r *Resolver) Root() string {
	return r.root
}

// LibraryRoot returns the directory required files are searched under
func (r *Resolver) LibraryRoot() string {
	return filepath.Join(r.root, r.libDir)
}

// EnvFilePath returns the absolute path of the env file
func (r *Resolver) EnvFilePath() string {
	if filepath.IsAbs(r.envFile) {
		return r.envFile
	}
	return filepath.Join(r.root, r.envFile)
}

// ProjectName returns the expected name of the root directory
func (r *Resolver) ProjectName() string {
	return r.projectName
}

// IsExpectedRoot reports whether the root's last path segment is the project name
func (r *Resolver) IsExpectedRoot() bool {
	return filepath.Base(r.root) == r.projectName
}
