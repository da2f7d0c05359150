// Package transform compiles TypeScript and JavaScript sources to the target the engines run
package transform

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

// DefaultTarget the default language target of the transformed code
var DefaultTarget = api.ES2015

var loaders = map[string]api.Loader{
	".ts":  api.LoaderTS,
	".tsx": api.LoaderTSX,
	".jsx": api.LoaderJSX,
}

// Transpiled reports whether sources of the file type must be transformed before they run
func Transpiled(file string) bool {
	_, has := loaders[strings.ToLower(filepath.Ext(file))]
	return has
}

// Script transform the source by the file extension, the source map is external
func Script(source string, file string) ([]byte, []byte, error) {
	loader, has := loaders[strings.ToLower(filepath.Ext(file))]
	if !has {
		loader = api.LoaderJS
	}
	return Transform(source, api.TransformOptions{
		Loader:     loader,
		Target:     DefaultTarget,
		Sourcefile: file,
		Sourcemap:  api.SourceMapExternal,
	})
}

// Transform run esbuild with the given option, the map is nil unless option.Sourcemap asks for an external one
func Transform(source string, option api.TransformOptions) ([]byte, []byte, error) {
	if option.Loader == api.LoaderNone {
		option.Loader = api.LoaderJS
	}
	result := api.Transform(source, option)
	if len(result.Errors) > 0 {
		return nil, nil, fmt.Errorf("transform %s error: %s", option.Sourcefile, messages(result.Errors))
	}
	return result.Code, result.Map, nil
}

func messages(errs []api.Message) string {
	lines := []string{}
	for _, err := range errs {
		if err.Location != nil {
			lines = append(lines, fmt.Sprintf("%s:%d:%d %s", err.Location.File, err.Location.Line, err.Location.Column, err.Text))
			continue
		}
		lines = append(lines, err.Text)
	}
	return strings.Join(lines, "\n")
}
