package config

import (
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/roach88/journalized/internal/journal"
)

// LoadMode controls how errors are handled during loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// Result contains the types loaded from a config directory.
type Result struct {
	Types     []TypeConfig
	FileCount int
}

// Registry builds a journal registry holding every loaded type.
func (r *Result) Registry() *journal.Registry {
	reg := journal.NewRegistry()
	for _, tc := range r.Types {
		reg.Register(tc.Name, tc.Options)
	}
	return reg
}

// Load reads the CUE package in dir and returns a registry of its journaled
// types. The first invalid declaration aborts the load.
func Load(dir string) (*journal.Registry, error) {
	res, errs := LoadDir(dir, LoadModeFailFast)
	if len(errs) > 0 {
		return nil, fmt.Errorf("load config %s: %w", dir, errs[0])
	}
	return res.Registry(), nil
}

// LoadDir loads and compiles the CUE package in dir.
// A nil Result means the directory itself could not be read or built.
func LoadDir(dir string, mode LoadMode) (*Result, []error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("config directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing config directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	files, err := FindCUEFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(files) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}}
	}

	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}}
	}

	value := cuecontext.New().BuildInstance(inst)
	if err := value.Err(); err != nil {
		loadErr := &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}
		if ce, ok := formatCUEError("cue", err).(*CompileError); ok {
			loadErr.Pos = ce.Pos
		}
		return nil, []error{loadErr}
	}

	types, errs := Compile(value, mode)
	return &Result{Types: types, FileCount: len(files)}, errs
}

// FindCUEFiles returns the .cue files directly inside dir.
func FindCUEFiles(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.cue"))
	if err != nil {
		return nil, err
	}
	return matches, nil
}
