package reload

import (
	"fmt"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

// Change describes one filesystem event that already matched the watched
// module path. Filters see it before the event counts toward a reload.
type Change struct {
	// Path is the canonicalized path of the changed file.
	Path string
	// Base is the file name without its directory.
	Base string
	// Ext is the file extension including the leading dot.
	Ext string
	// Op names the filesystem operation, e.g. "CREATE" or "WRITE".
	Op string
}

// ChangeFilter decides whether a change event should trigger a reload.
// Filters only veto events the watcher already attributed to the module file;
// they cannot widen the watch. A filter that errors fails open.
type ChangeFilter interface {
	Match(change Change) (bool, error)
}

// ChangeFilterFunc adapts a function to ChangeFilter.
type ChangeFilterFunc func(change Change) (bool, error)

// Match implements ChangeFilter.
func (f ChangeFilterFunc) Match(change Change) (bool, error) {
	if f == nil {
		return true, nil
	}
	return f(change)
}

// exprFilter evaluates filter expressions using github.com/expr-lang/expr.
type exprFilter struct {
	expression string
	program    *exprvm.Program
}

// NewExprFilter compiles expression into a ChangeFilter backed by
// expr-lang/expr. The expression sees the variables path, base, ext and op
// and must produce a boolean.
func NewExprFilter(expression string) (ChangeFilter, error) {
	if expression == "" {
		return nil, wrapFilterError("expr", expression, fmt.Errorf("expression must not be empty"))
	}
	program, err := exprlang.Compile(expression,
		exprlang.Env(changeEnv(Change{})),
		exprlang.AsBool(),
	)
	if err != nil {
		return nil, wrapFilterError("expr", expression, err)
	}
	return &exprFilter{
		expression: expression,
		program:    program,
	}, nil
}

// Match implements ChangeFilter.
func (f *exprFilter) Match(change Change) (bool, error) {
	result, err := exprlang.Run(f.program, changeEnv(change))
	if err != nil {
		return false, wrapFilterError("expr", f.expression, err)
	}
	matched, ok := result.(bool)
	if !ok {
		return false, wrapFilterError("expr", f.expression, fmt.Errorf("expression produced %T, want bool", result))
	}
	return matched, nil
}

func changeEnv(change Change) map[string]any {
	return map[string]any{
		"path": change.Path,
		"base": change.Base,
		"ext":  change.Ext,
		"op":   change.Op,
	}
}
