package wages

import (
	"fmt"

	"github.com/google/cel-go/cel"
)

type rules struct {
	epf cel.Program
	esi cel.Program
}

// ruleVars feeds the CEL environment. overCeiling is decided in decimal so the
// default rules never disagree with the stored gross pay; the float values are
// only for custom rules.
type ruleVars struct {
	name        string
	gross       float64
	days        float64
	ceiling     float64
	overCeiling bool
	exempt      []string
}

func newRuleEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.CrossTypeNumericComparisons(true),
		cel.Variable("name", cel.StringType),
		cel.Variable("gross", cel.DoubleType),
		cel.Variable("days", cel.DoubleType),
		cel.Variable("ceiling", cel.DoubleType),
		cel.Variable("over_ceiling", cel.BoolType),
		cel.Variable("exempt", cel.ListType(cel.StringType)),
	)
}

func compileRules(p Policy) (rules, error) {
	env, err := newRuleEnv()
	if err != nil {
		return rules{}, fmt.Errorf("%w: %v", ErrInvalidRule, err)
	}
	epf, err := compileRule(env, "epf", p.EPFRule)
	if err != nil {
		return rules{}, err
	}
	esi, err := compileRule(env, "esi", p.ESIRule)
	if err != nil {
		return rules{}, err
	}
	return rules{epf: epf, esi: esi}, nil
}

func compileRule(env *cel.Env, label, expr string) (cel.Program, error) {
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidRule, label, issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("%w: %s must evaluate to bool, got %s", ErrInvalidRule, label, ast.OutputType())
	}
	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidRule, label, err)
	}
	return program, nil
}

func evalRule(program cel.Program, label string, vars ruleVars) (bool, error) {
	out, _, err := program.Eval(map[string]any{
		"name":         vars.name,
		"gross":        vars.gross,
		"days":         vars.days,
		"ceiling":      vars.ceiling,
		"over_ceiling": vars.overCeiling,
		"exempt":       vars.exempt,
	})
	if err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrRuleEvaluation, label, err)
	}
	eligible, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("%w: %s returned %T", ErrRuleEvaluation, label, out.Value())
	}
	return eligible, nil
}
