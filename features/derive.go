package features

import (
	"fmt"
	"regexp"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
)

// scalarsVar is the CEL variable holding the raw scalar features by name
const scalarsVar = "emp"

var fieldNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// DefaultDerivedFields returns the derived features the model was trained on
func DefaultDerivedFields() []DerivedField {
	return []DerivedField{
		{Name: "LogDistanceFromHome", Expression: `safeLog10(emp.DistanceFromHome)`},
		{Name: "LogJobLevel", Expression: `safeLog10(emp.JobLevel)`},
		{Name: "LogMonthlyIncome", Expression: `safeLog10(emp.MonthlyIncome)`},
		{Name: "LogNumCompaniesWorked", Expression: `safeLog10(emp.NumCompaniesWorked)`},
		{Name: "LogPercentSalaryHike", Expression: `safeLog10(emp.PercentSalaryHike)`},
		{Name: "LogTotalWorkingYears", Expression: `safeLog10(emp.TotalWorkingYears)`},
		{Name: "LogYearsAtCompany", Expression: `safeLog10(emp.YearsAtCompany)`},
		{Name: "NumYearsAtEachCompany", Expression: `safeDiv(emp.TotalWorkingYears, emp.NumCompaniesWorked)`},
		{Name: "OverallSatisfaction", Expression: `emp.EnvironmentSatisfaction + emp.JobSatisfaction + emp.RelationshipSatisfaction`},
	}
}

// DeriveEngine compiles derived-field expressions once and evaluates them
// against the raw scalar map. It is immutable after construction.
type DeriveEngine struct {
	env      *cel.Env
	fields   []DerivedField
	programs map[string]cel.Program
}

// NewDeriveEngine builds the CEL environment and compiles every field
func NewDeriveEngine(fields []DerivedField) (*DeriveEngine, error) {
	env, err := newDeriveEnv()
	if err != nil {
		return nil, err
	}

	en := &DeriveEngine{
		env:      env,
		fields:   make([]DerivedField, 0, len(fields)),
		programs: make(map[string]cel.Program, len(fields)),
	}
	for _, f := range fields {
		if err := en.compileField(f); err != nil {
			return nil, fmt.Errorf("failed to compile derived field %s: %w", f.Name, err)
		}
		en.fields = append(en.fields, f)
	}
	return en, nil
}

func newDeriveEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		cel.Variable(scalarsVar, cel.MapType(cel.StringType, cel.DoubleType)),
		cel.Function("safeLog10",
			cel.Overload("safeLog10_double", []*cel.Type{cel.DoubleType}, cel.DoubleType,
				cel.UnaryBinding(func(v ref.Val) ref.Val {
					d, ok := v.(types.Double)
					if !ok {
						return types.MaybeNoSuchOverloadErr(v)
					}
					return types.Double(SafeLog10(float64(d)))
				}),
			),
		),
		cel.Function("safeDiv",
			cel.Overload("safeDiv_double_double", []*cel.Type{cel.DoubleType, cel.DoubleType}, cel.DoubleType,
				cel.BinaryBinding(func(lhs, rhs ref.Val) ref.Val {
					num, ok := lhs.(types.Double)
					if !ok {
						return types.MaybeNoSuchOverloadErr(lhs)
					}
					den, ok := rhs.(types.Double)
					if !ok {
						return types.MaybeNoSuchOverloadErr(rhs)
					}
					if den == 0 {
						return types.Double(0)
					}
					return num / den
				}),
			),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return env, nil
}

func (en *DeriveEngine) compileField(f DerivedField) error {
	if !fieldNamePattern.MatchString(f.Name) {
		return fmt.Errorf("name must match %s", fieldNamePattern)
	}
	if _, dup := en.programs[f.Name]; dup {
		return fmt.Errorf("duplicate derived field")
	}

	ast, issues := en.env.Compile(f.Expression)
	if issues != nil && issues.Err() != nil {
		return fmt.Errorf("compile error: %w", issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.DoubleType) {
		return fmt.Errorf("expression must produce double, got %s", ast.OutputType())
	}

	prog, err := en.env.Program(ast, cel.CostLimit(10000))
	if err != nil {
		return fmt.Errorf("program creation error: %w", err)
	}
	en.programs[f.Name] = prog
	return nil
}

// Fields returns the compiled fields in declaration order
func (en *DeriveEngine) Fields() []DerivedField {
	return append([]DerivedField(nil), en.fields...)
}

// Evaluate computes a single derived field
func (en *DeriveEngine) Evaluate(name string, scalars map[string]float64) (float64, error) {
	prog, ok := en.programs[name]
	if !ok {
		return 0, fmt.Errorf("derived field %s is not compiled", name)
	}
	return evalDouble(prog, activation(scalars))
}

// EvaluateAll computes every derived field. Unlike a rule set, a partial
// result is useless to the model, so the first failure aborts.
func (en *DeriveEngine) EvaluateAll(scalars map[string]float64) (map[string]float64, error) {
	vars := activation(scalars)
	out := make(map[string]float64, len(en.fields))
	for _, f := range en.fields {
		v, err := evalDouble(en.programs[f.Name], vars)
		if err != nil {
			return nil, fmt.Errorf("derived field %s: %w", f.Name, err)
		}
		out[f.Name] = v
	}
	return out, nil
}

func activation(scalars map[string]float64) map[string]any {
	m := make(map[string]any, len(scalars))
	for k, v := range scalars {
		m[k] = v
	}
	return map[string]any{scalarsVar: m}
}

func evalDouble(prog cel.Program, vars map[string]any) (float64, error) {
	out, _, err := prog.Eval(vars)
	if err != nil {
		return 0, err
	}
	v, ok := out.Value().(float64)
	if !ok {
		return 0, fmt.Errorf("expected double result, got %T", out.Value())
	}
	return v, nil
}
