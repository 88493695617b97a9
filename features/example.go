package features

// Example returns the canned record behind the form's autofill action. It is
// employee #1 of the IBM HR attrition sample.
func Example() RawAttributes {
	return RawAttributes{
		Age:                      41,
		DailyRate:                1102,
		Department:               DepartmentSales,
		DistanceFromHome:         1,
		Divorced:                 No,
		EducationField:           FieldLifeSciences,
		Education:                College,
		EmployeeNumber:           1,
		EnvironmentSatisfaction:  SatisfactionMedium,
		Gender:                   Female,
		HourlyRate:               94,
		JobInvolvement:           SatisfactionHigh,
		JobLevel:                 2,
		JobSatisfaction:          SatisfactionVeryHigh,
		JobRole:                  RoleSalesExecutive,
		Married:                  No,
		MonthlyIncome:            5993,
		MonthlyRate:              19479,
		NonTravel:                No,
		NumCompaniesWorked:       8,
		Over18:                   Yes,
		OverTime:                 Yes,
		PercentSalaryHike:        11,
		PerformanceRating:        RatingExcellent,
		RelationshipSatisfaction: SatisfactionLow,
		Single:                   Yes,
		StockOptionLevel:         0,
		TotalWorkingYears:        8,
		TrainingTimesLastYear:    0,
		TravelFrequently:         No,
		TravelRarely:             Yes,
		WorkLifeBalance:          BalanceBad,
		YearsAtCompany:           6,
		YearsAtOtherCompanies:    2,
		YearsInCurrentRole:       4,
		YearsSinceLastPromotion:  0,
		YearsWithCurrManager:     5,
	}
}

// Defaults returns the state of a fresh form: every number at its lower
// bound and every selection on its first option.
func Defaults() RawAttributes {
	return RawAttributes{
		Education:                BelowCollege,
		EmployeeNumber:           1,
		EnvironmentSatisfaction:  SatisfactionLow,
		JobInvolvement:           SatisfactionLow,
		JobLevel:                 1,
		JobSatisfaction:          SatisfactionLow,
		NumCompaniesWorked:       1,
		PerformanceRating:        RatingLow,
		RelationshipSatisfaction: SatisfactionLow,
		WorkLifeBalance:          BalanceBad,
		YearsAtCompany:           1,
	}
}
