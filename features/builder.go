package features

import (
	"fmt"
	"sort"
)

// featureNames is the model column order: every named feature sorted
// byte-wise, which is the order the training frame was sorted into. It is a
// contract with the model artifact and must not be "improved".
var featureNames = sortedFeatureNames()

func sortedFeatureNames() []string {
	names := make([]string, 0, 63)
	names = append(names, scalarNames...)
	for _, f := range DefaultDerivedFields() {
		names = append(names, f.Name)
	}
	names = append(names, departmentLabels...)
	names = append(names, educationFieldLabels...)
	names = append(names, jobRoleLabels...)
	sort.Strings(names)
	return names
}

// scalarNames are the columns copied straight from RawAttributes
var scalarNames = []string{
	"Age", "DailyRate", "DistanceFromHome", "Divorced", "Education", "EmployeeCount",
	"EmployeeNumber", "EnvironmentSatisfaction", "Gender", "HourlyRate", "JobInvolvement",
	"JobLevel", "JobSatisfaction", "Married", "MonthlyIncome", "MonthlyRate", "Non-Travel",
	"NumCompaniesWorked", "Over18", "OverTime", "PercentSalaryHike", "PerformanceRating",
	"RelationshipSatisfaction", "Single", "StandardHours", "StockOptionLevel",
	"TotalWorkingYears", "TrainingTimesLastYear", "Travel_Frequently", "Travel_Rarely",
	"WorkLifeBalance", "YearsAtCompany", "YearsAtOtherCompanies", "YearsInCurrentRole",
	"YearsSinceLastPromotion", "YearsWithCurrManager",
}

// FeatureNames returns the named features in model column order
func FeatureNames() []string {
	return append([]string(nil), featureNames...)
}

// Scalars maps the raw attributes to their named numeric columns
func Scalars(a RawAttributes) map[string]float64 {
	return map[string]float64{
		"Age":                      float64(a.Age),
		"DailyRate":                float64(a.DailyRate),
		"DistanceFromHome":         float64(a.DistanceFromHome),
		"Divorced":                 float64(a.Divorced),
		"Education":                float64(a.Education),
		"EmployeeCount":            EmployeeCount,
		"EmployeeNumber":           float64(a.EmployeeNumber),
		"EnvironmentSatisfaction":  float64(a.EnvironmentSatisfaction),
		"Gender":                   float64(a.Gender),
		"HourlyRate":               float64(a.HourlyRate),
		"JobInvolvement":           float64(a.JobInvolvement),
		"JobLevel":                 float64(a.JobLevel),
		"JobSatisfaction":          float64(a.JobSatisfaction),
		"Married":                  float64(a.Married),
		"MonthlyIncome":            float64(a.MonthlyIncome),
		"MonthlyRate":              float64(a.MonthlyRate),
		"Non-Travel":               float64(a.NonTravel),
		"NumCompaniesWorked":       float64(a.NumCompaniesWorked),
		"Over18":                   float64(a.Over18),
		"OverTime":                 float64(a.OverTime),
		"PercentSalaryHike":        float64(a.PercentSalaryHike),
		"PerformanceRating":        float64(a.PerformanceRating),
		"RelationshipSatisfaction": float64(a.RelationshipSatisfaction),
		"Single":                   float64(a.Single),
		"StandardHours":            StandardHours,
		"StockOptionLevel":         float64(a.StockOptionLevel),
		"TotalWorkingYears":        float64(a.TotalWorkingYears),
		"TrainingTimesLastYear":    float64(a.TrainingTimesLastYear),
		"Travel_Frequently":        float64(a.TravelFrequently),
		"Travel_Rarely":            float64(a.TravelRarely),
		"WorkLifeBalance":          float64(a.WorkLifeBalance),
		"YearsAtCompany":           float64(a.YearsAtCompany),
		"YearsAtOtherCompanies":    float64(a.YearsAtOtherCompanies),
		"YearsInCurrentRole":       float64(a.YearsInCurrentRole),
		"YearsSinceLastPromotion":  float64(a.YearsSinceLastPromotion),
		"YearsWithCurrManager":     float64(a.YearsWithCurrManager),
	}
}

// Builder turns raw attributes into the feature record and vector the model
// expects. It holds only compiled, read-only state and is safe to share.
type Builder struct {
	derive *DeriveEngine
}

// NewBuilder compiles the default derived fields
func NewBuilder() (*Builder, error) {
	en, err := NewDeriveEngine(DefaultDerivedFields())
	if err != nil {
		return nil, err
	}
	return &Builder{derive: en}, nil
}

// Build produces the named feature record. It does not validate its input;
// callers run Validate at the boundary.
func (b *Builder) Build(a RawAttributes) (*Record, error) {
	values := Scalars(a)

	derived, err := b.derive.EvaluateAll(values)
	if err != nil {
		return nil, err
	}
	for name, v := range derived {
		values[name] = v
	}

	dep, edu, job := a.Department.OneHot(), a.EducationField.OneHot(), a.JobRole.OneHot()
	oneHot(values, departmentLabels, dep[:])
	oneHot(values, educationFieldLabels, edu[:])
	oneHot(values, jobRoleLabels, job[:])

	rec := &Record{
		Names:  FeatureNames(),
		Values: make([]float64, len(featureNames)),
	}
	for i, name := range rec.Names {
		v, ok := values[name]
		if !ok {
			return nil, fmt.Errorf("feature %s was not produced", name)
		}
		rec.Values[i] = v
	}
	return rec, nil
}

// Vectorize builds the record and applies the degree-2 expansion
func (b *Builder) Vectorize(a RawAttributes) ([]float64, error) {
	rec, err := b.Build(a)
	if err != nil {
		return nil, err
	}
	return PolynomialExpand(rec.Values), nil
}

func oneHot(dst map[string]float64, labels []string, block []float64) {
	for i, label := range labels {
		dst[label] = block[i]
	}
}
