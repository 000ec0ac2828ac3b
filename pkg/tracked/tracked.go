// Package tracked reads and rewrites the version strings embedded in
// the files of the repository being kept up to date, e.g., a
// Dockerfile's `ENV VERSION 1.4.2`.
package tracked

import (
	"fmt"
	"io/ioutil"
	"os"
	"regexp"

	"github.com/pkg/errors"

	"github.com/dfvsync/dfvsync/pkg/version"
)

// File is a tracked file and the pattern that locates its version.
// The pattern has exactly one capturing group, which matches the
// version text itself.
type File struct {
	Path    string
	Pattern *regexp.Regexp
}

// NewFile compiles pattern and checks it has a single capturing
// group.
func NewFile(path, pattern string) (File, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return File{}, errors.Wrapf(err, "compiling pattern for %s", path)
	}
	if n := re.NumSubexp(); n != 1 {
		return File{}, errors.Errorf("pattern for %s must have exactly one capturing group, it has %d", path, n)
	}
	return File{Path: path, Pattern: re}, nil
}

// locate returns the content of the file and the span of the
// version within it.
func (f File) locate() (content []byte, start, end int, err error) {
	content, err = ioutil.ReadFile(f.Path)
	if err != nil {
		return nil, 0, 0, errors.Wrapf(err, "reading tracked file %s", f.Path)
	}
	loc := f.Pattern.FindSubmatchIndex(content)
	if loc == nil || loc[2] < 0 {
		return nil, 0, 0, PatternNotMatchedError(f, "no match")
	}
	return content, loc[2], loc[3], nil
}

// Version returns the version found in the file.
func (f File) Version() (version.Version, string, error) {
	content, start, end, err := f.locate()
	if err != nil {
		return version.Version{}, "", err
	}
	text := string(content[start:end])
	v, err := version.Parse(text)
	if err != nil {
		return version.Version{}, text, PatternNotMatchedError(f, fmt.Sprintf("matched %q which is not a version", text))
	}
	return v, text, nil
}

// ReadVersion returns the version all files agree on. It fails if a
// file does not match its pattern, or if two files disagree.
func ReadVersion(files []File) (version.Version, error) {
	var (
		baseline     version.Version
		baselineText string
		first        File
	)
	if len(files) == 0 {
		return baseline, errors.New("no tracked files")
	}
	for i, f := range files {
		v, text, err := f.Version()
		if err != nil {
			return version.Version{}, err
		}
		if i == 0 {
			baseline, baselineText, first = v, text, f
			continue
		}
		if !v.Equal(baseline) {
			return version.Version{}, InconsistentVersionsError(first, baselineText, f, text)
		}
	}
	return baseline, nil
}

// WriteVersion replaces the version text in each file with v,
// leaving every other byte as it was. All files are checked before
// any is written, so a pattern that doesn't match leaves everything
// untouched.
func WriteVersion(files []File, v version.Version) error {
	for _, f := range files {
		if _, _, _, err := f.locate(); err != nil {
			return err
		}
	}
	for _, f := range files {
		if err := f.write(v); err != nil {
			return err
		}
	}
	return nil
}

func (f File) write(v version.Version) error {
	content, start, end, err := f.locate()
	if err != nil {
		return err
	}
	info, err := os.Stat(f.Path)
	if err != nil {
		return errors.Wrapf(err, "stat tracked file %s", f.Path)
	}
	replacement := v.String()
	updated := make([]byte, 0, len(content)-(end-start)+len(replacement))
	updated = append(updated, content[:start]...)
	updated = append(updated, replacement...)
	updated = append(updated, content[end:]...)
	if err := ioutil.WriteFile(f.Path, updated, info.Mode().Perm()); err != nil {
		return errors.Wrapf(err, "writing tracked file %s", f.Path)
	}
	return nil
}

// Paths returns the paths of files.
func Paths(files []File) []string {
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	return paths
}
