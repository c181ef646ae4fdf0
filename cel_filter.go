package reload

import (
	"fmt"

	celgo "github.com/google/cel-go/cel"
)

// celFilter evaluates filter expressions using cel-go.
type celFilter struct {
	expression string
	program    celgo.Program
}

// NewCELFilter compiles expression into a ChangeFilter backed by cel-go. The
// expression sees the string variables path, base, ext and op and must
// produce a boolean.
func NewCELFilter(expression string) (ChangeFilter, error) {
	if expression == "" {
		return nil, wrapFilterError("cel", expression, fmt.Errorf("expression must not be empty"))
	}
	env, err := celgo.NewEnv(
		celgo.Variable("path", celgo.StringType),
		celgo.Variable("base", celgo.StringType),
		celgo.Variable("ext", celgo.StringType),
		celgo.Variable("op", celgo.StringType),
	)
	if err != nil {
		return nil, wrapFilterError("cel", expression, err)
	}
	ast, issues := env.Parse(expression)
	if issues != nil && issues.Err() != nil {
		return nil, wrapFilterError("cel", expression, issues.Err())
	}
	checked, issues := env.Check(ast)
	if issues != nil && issues.Err() != nil {
		return nil, wrapFilterError("cel", expression, issues.Err())
	}
	if checked.OutputType() != celgo.BoolType {
		return nil, wrapFilterError("cel", expression, fmt.Errorf("expression produces %s, want bool", checked.OutputType()))
	}
	program, err := env.Program(checked)
	if err != nil {
		return nil, wrapFilterError("cel", expression, err)
	}
	return &celFilter{
		expression: expression,
		program:    program,
	}, nil
}

// Match implements ChangeFilter.
func (f *celFilter) Match(change Change) (bool, error) {
	out, _, err := f.program.Eval(changeEnv(change))
	if err != nil {
		return false, wrapFilterError("cel", f.expression, err)
	}
	matched, ok := out.Value().(bool)
	if !ok {
		return false, wrapFilterError("cel", f.expression, fmt.Errorf("expression produced %T, want bool", out.Value()))
	}
	return matched, nil
}
