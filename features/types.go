package features

import "sort"

// RawAttributes is one employee as entered on the form. It is passed by
// value; nothing in this package mutates it.
type RawAttributes struct {
	Age                      int               `json:"age" yaml:"age" validate:"min=0"`
	DailyRate                int               `json:"dailyRate" yaml:"dailyRate" validate:"min=0"`
	Department               Department        `json:"department" yaml:"department" validate:"min=0,max=2"`
	DistanceFromHome         int               `json:"distanceFromHome" yaml:"distanceFromHome" validate:"min=0"`
	Divorced                 YesNo             `json:"divorced" yaml:"divorced" validate:"min=0,max=1"`
	EducationField           EducationField    `json:"educationField" yaml:"educationField" validate:"min=0,max=5"`
	Education                EducationLevel    `json:"education" yaml:"education" validate:"min=1,max=5"`
	EmployeeNumber           int               `json:"employeeNumber" yaml:"employeeNumber" validate:"min=1"`
	EnvironmentSatisfaction  Satisfaction      `json:"environmentSatisfaction" yaml:"environmentSatisfaction" validate:"min=1,max=4"`
	Gender                   Gender            `json:"gender" yaml:"gender" validate:"min=0,max=1"`
	HourlyRate               int               `json:"hourlyRate" yaml:"hourlyRate" validate:"min=0"`
	JobInvolvement           Satisfaction      `json:"jobInvolvement" yaml:"jobInvolvement" validate:"min=1,max=4"`
	JobLevel                 int               `json:"jobLevel" yaml:"jobLevel" validate:"min=1,max=5"`
	JobSatisfaction          Satisfaction      `json:"jobSatisfaction" yaml:"jobSatisfaction" validate:"min=1,max=4"`
	JobRole                  JobRole           `json:"jobRole" yaml:"jobRole" validate:"min=0,max=8"`
	Married                  YesNo             `json:"married" yaml:"married" validate:"min=0,max=1"`
	MonthlyIncome            int               `json:"monthlyIncome" yaml:"monthlyIncome" validate:"min=0"`
	MonthlyRate              int               `json:"monthlyRate" yaml:"monthlyRate" validate:"min=0"`
	NonTravel                YesNo             `json:"nonTravel" yaml:"nonTravel" validate:"min=0,max=1"`
	NumCompaniesWorked       int               `json:"numCompaniesWorked" yaml:"numCompaniesWorked" validate:"min=1"`
	Over18                   YesNo             `json:"over18" yaml:"over18" validate:"min=0,max=1"`
	OverTime                 YesNo             `json:"overTime" yaml:"overTime" validate:"min=0,max=1"`
	PercentSalaryHike        int               `json:"percentSalaryHike" yaml:"percentSalaryHike" validate:"min=0"`
	PerformanceRating        PerformanceRating `json:"performanceRating" yaml:"performanceRating" validate:"min=1,max=4"`
	RelationshipSatisfaction Satisfaction      `json:"relationshipSatisfaction" yaml:"relationshipSatisfaction" validate:"min=1,max=4"`
	Single                   YesNo             `json:"single" yaml:"single" validate:"min=0,max=1"`
	StockOptionLevel         int               `json:"stockOptionLevel" yaml:"stockOptionLevel" validate:"min=0,max=3"`
	TotalWorkingYears        int               `json:"totalWorkingYears" yaml:"totalWorkingYears" validate:"min=0"`
	TrainingTimesLastYear    int               `json:"trainingTimesLastYear" yaml:"trainingTimesLastYear" validate:"min=0,max=10"`
	TravelFrequently         YesNo             `json:"travelFrequently" yaml:"travelFrequently" validate:"min=0,max=1"`
	TravelRarely             YesNo             `json:"travelRarely" yaml:"travelRarely" validate:"min=0,max=1"`
	WorkLifeBalance          WorkLifeBalance   `json:"workLifeBalance" yaml:"workLifeBalance" validate:"min=1,max=4"`
	YearsAtCompany           int               `json:"yearsAtCompany" yaml:"yearsAtCompany" validate:"min=1"`
	YearsAtOtherCompanies    int               `json:"yearsAtOtherCompanies" yaml:"yearsAtOtherCompanies" validate:"min=0"`
	YearsInCurrentRole       int               `json:"yearsInCurrentRole" yaml:"yearsInCurrentRole" validate:"min=0"`
	YearsSinceLastPromotion  int               `json:"yearsSinceLastPromotion" yaml:"yearsSinceLastPromotion" validate:"min=0"`
	YearsWithCurrManager     int               `json:"yearsWithCurrManager" yaml:"yearsWithCurrManager" validate:"min=0"`
}

// Constant columns that were present in the training data
const (
	EmployeeCount = 1
	StandardHours = 80
)

// DerivedField is a feature computed from the raw scalars by a CEL expression
type DerivedField struct {
	Name       string
	Expression string
}

// Record is the named feature record in model column order
type Record struct {
	Names  []string
	Values []float64
}

// Get returns the value of a named feature
func (r *Record) Get(name string) (float64, bool) {
	i := sort.SearchStrings(r.Names, name)
	if i < len(r.Names) && r.Names[i] == name {
		return r.Values[i], true
	}
	return 0, false
}

// Map returns a name -> value copy of the record
func (r *Record) Map() map[string]float64 {
	out := make(map[string]float64, len(r.Names))
	for i, name := range r.Names {
		out[name] = r.Values[i]
	}
	return out
}
