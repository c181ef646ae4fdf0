package reload

import (
	"errors"
	"fmt"
)

// ErrModuleNotFound marks a load attempt against a missing or unreadable
// module file.
var ErrModuleNotFound = errors.New("reload: module file not found")

// ErrBadModule marks a module file that loaded but does not export a complete
// lifecycle protocol.
var ErrBadModule = errors.New("reload: module does not export a lifecycle protocol")

// LoadError captures loader metadata alongside the originating error.
type LoadError struct {
	Engine string
	Path   string
	Err    error
}

func (e *LoadError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("reload: %s loader %s: %v", e.Engine, describePath(e.Path), e.Err)
}

func (e *LoadError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// WatchError reports a filesystem-subscription setup failure.
type WatchError struct {
	Dir string
	Err error
}

func (e *WatchError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("reload: watch %s: %v", describePath(e.Dir), e.Err)
}

func (e *WatchError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// FilterError captures change-filter metadata alongside the originating error.
type FilterError struct {
	Engine string
	Expr   string
	Err    error
}

func (e *FilterError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("reload: %s filter expr=%q: %v", e.Engine, e.Expr, e.Err)
}

func (e *FilterError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describePath(path string) string {
	if path == "" {
		return "path=<empty>"
	}
	return fmt.Sprintf("path=%q", path)
}

func wrapLoadError(engine, path string, err error) error {
	if err == nil {
		return nil
	}

	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		if loadErr.Engine == "" {
			loadErr.Engine = engine
		}
		if loadErr.Path == "" {
			loadErr.Path = path
		}
		return loadErr
	}

	return &LoadError{
		Engine: engine,
		Path:   path,
		Err:    err,
	}
}

func wrapFilterError(engine, expr string, err error) error {
	if err == nil {
		return nil
	}

	var filterErr *FilterError
	if errors.As(err, &filterErr) {
		return err
	}
	return &FilterError{
		Engine: engine,
		Expr:   expr,
		Err:    err,
	}
}
