package features

import "fmt"

// Every categorical input is a small integer type backed by a fixed label
// table. The table order is the encoding order used at training time.

var (
	yesNoLabels             = []string{"No", "Yes"}
	genderLabels            = []string{"Male", "Female"}
	educationLevelLabels    = []string{"Below College", "College", "Bachelor", "Master", "Doctor"}
	satisfactionLabels      = []string{"Low", "Medium", "High", "Very High"}
	performanceRatingLabels = []string{"Low", "Good", "Excellent", "Outstanding"}
	workLifeBalanceLabels   = []string{"Bad", "Good", "Better", "Best"}
	departmentLabels        = []string{"Dep_HR", "Dep_R&D", "Dep_Sales"}
	educationFieldLabels    = []string{"Edu_HR", "Edu_Life_Sci", "Edu_Marketing", "Edu_Medical", "Edu_Other", "Edu_Technical_Deg"}
	jobRoleLabels           = []string{"Job_HR", "Job_Healthcare_Rep", "Job_Lab_Tech", "Job_Manager", "Job_Manuf_Dir", "Job_Research_Dir", "Job_Research_Sci", "Job_Sales_Exec", "Job_Sales_Rep"}
)

// parseLabel returns the position of s in labels
func parseLabel(kind string, labels []string, s string) (int, error) {
	for i, l := range labels {
		if l == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q (must be one of %q)", kind, s, labels)
}

func labelAt(labels []string, idx int) string {
	if idx < 0 || idx >= len(labels) {
		return fmt.Sprintf("invalid(%d)", idx)
	}
	return labels[idx]
}

// YesNo is a No=0 / Yes=1 selection
type YesNo int

const (
	No YesNo = iota
	Yes
)

func (v YesNo) String() string { return labelAt(yesNoLabels, int(v)) }

func (v YesNo) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func (v *YesNo) UnmarshalText(b []byte) error {
	i, err := parseLabel("yes/no value", yesNoLabels, string(b))
	if err != nil {
		return err
	}
	*v = YesNo(i)
	return nil
}

// Gender is encoded Male=0, Female=1
type Gender int

const (
	Male Gender = iota
	Female
)

func (v Gender) String() string { return labelAt(genderLabels, int(v)) }

func (v Gender) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func (v *Gender) UnmarshalText(b []byte) error {
	i, err := parseLabel("gender", genderLabels, string(b))
	if err != nil {
		return err
	}
	*v = Gender(i)
	return nil
}

// EducationLevel is ranked 1 (Below College) to 5 (Doctor)
type EducationLevel int

const (
	BelowCollege EducationLevel = iota + 1
	College
	Bachelor
	Master
	Doctor
)

func (v EducationLevel) String() string { return labelAt(educationLevelLabels, int(v)-1) }

func (v EducationLevel) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func (v *EducationLevel) UnmarshalText(b []byte) error {
	i, err := parseLabel("education level", educationLevelLabels, string(b))
	if err != nil {
		return err
	}
	*v = EducationLevel(i + 1)
	return nil
}

// Satisfaction is ranked 1 (Low) to 4 (Very High). It is shared by the
// environment, job, relationship and job-involvement inputs.
type Satisfaction int

const (
	SatisfactionLow Satisfaction = iota + 1
	SatisfactionMedium
	SatisfactionHigh
	SatisfactionVeryHigh
)

func (v Satisfaction) String() string { return labelAt(satisfactionLabels, int(v)-1) }

func (v Satisfaction) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func (v *Satisfaction) UnmarshalText(b []byte) error {
	i, err := parseLabel("satisfaction level", satisfactionLabels, string(b))
	if err != nil {
		return err
	}
	*v = Satisfaction(i + 1)
	return nil
}

// PerformanceRating is ranked 1 (Low) to 4 (Outstanding)
type PerformanceRating int

const (
	RatingLow PerformanceRating = iota + 1
	RatingGood
	RatingExcellent
	RatingOutstanding
)

func (v PerformanceRating) String() string { return labelAt(performanceRatingLabels, int(v)-1) }

func (v PerformanceRating) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func (v *PerformanceRating) UnmarshalText(b []byte) error {
	i, err := parseLabel("performance rating", performanceRatingLabels, string(b))
	if err != nil {
		return err
	}
	*v = PerformanceRating(i + 1)
	return nil
}

// WorkLifeBalance is ranked 1 (Bad) to 4 (Best)
type WorkLifeBalance int

const (
	BalanceBad WorkLifeBalance = iota + 1
	BalanceGood
	BalanceBetter
	BalanceBest
)

func (v WorkLifeBalance) String() string { return labelAt(workLifeBalanceLabels, int(v)-1) }

func (v WorkLifeBalance) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func (v *WorkLifeBalance) UnmarshalText(b []byte) error {
	i, err := parseLabel("work/life balance", workLifeBalanceLabels, string(b))
	if err != nil {
		return err
	}
	*v = WorkLifeBalance(i + 1)
	return nil
}

// Department is one-hot encoded into the Dep_* indicators
type Department int

const (
	DepartmentHR Department = iota
	DepartmentRD
	DepartmentSales
)

func (v Department) String() string { return labelAt(departmentLabels, int(v)) }

func (v Department) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func (v *Department) UnmarshalText(b []byte) error {
	i, err := parseLabel("department", departmentLabels, string(b))
	if err != nil {
		return err
	}
	*v = Department(i)
	return nil
}

// OneHot returns the Dep_* indicator block in label order
func (v Department) OneHot() [3]float64 {
	var out [3]float64
	if v >= 0 && int(v) < len(out) {
		out[v] = 1
	}
	return out
}

// EducationField is one-hot encoded into the Edu_* indicators
type EducationField int

const (
	FieldHR EducationField = iota
	FieldLifeSciences
	FieldMarketing
	FieldMedical
	FieldOther
	FieldTechnicalDegree
)

func (v EducationField) String() string { return labelAt(educationFieldLabels, int(v)) }

func (v EducationField) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func (v *EducationField) UnmarshalText(b []byte) error {
	i, err := parseLabel("education field", educationFieldLabels, string(b))
	if err != nil {
		return err
	}
	*v = EducationField(i)
	return nil
}

// OneHot returns the Edu_* indicator block in label order
func (v EducationField) OneHot() [6]float64 {
	var out [6]float64
	if v >= 0 && int(v) < len(out) {
		out[v] = 1
	}
	return out
}

// JobRole is one-hot encoded into the Job_* indicators
type JobRole int

const (
	RoleHR JobRole = iota
	RoleHealthcareRep
	RoleLabTech
	RoleManager
	RoleManufacturingDirector
	RoleResearchDirector
	RoleResearchScientist
	RoleSalesExecutive
	RoleSalesRep
)

func (v JobRole) String() string { return labelAt(jobRoleLabels, int(v)) }

func (v JobRole) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func (v *JobRole) UnmarshalText(b []byte) error {
	i, err := parseLabel("job role", jobRoleLabels, string(b))
	if err != nil {
		return err
	}
	*v = JobRole(i)
	return nil
}

// OneHot returns the Job_* indicator block in label order
func (v JobRole) OneHot() [9]float64 {
	var out [9]float64
	if v >= 0 && int(v) < len(out) {
		out[v] = 1
	}
	return out
}

// Labels exposes the label tables for callers rendering selection widgets
func Labels() map[string][]string {
	return map[string][]string{
		"yesNo":             append([]string(nil), yesNoLabels...),
		"gender":            append([]string(nil), genderLabels...),
		"educationLevel":    append([]string(nil), educationLevelLabels...),
		"satisfaction":      append([]string(nil), satisfactionLabels...),
		"performanceRating": append([]string(nil), performanceRatingLabels...),
		"workLifeBalance":   append([]string(nil), workLifeBalanceLabels...),
		"department":        append([]string(nil), departmentLabels...),
		"educationField":    append([]string(nil), educationFieldLabels...),
		"jobRole":           append([]string(nil), jobRoleLabels...),
	}
}
