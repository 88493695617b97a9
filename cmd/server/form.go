package main

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/liamcoop/attrition/features"
	"github.com/liamcoop/attrition/internal/logger"
)

//go:embed templates/index.html
var templateFS embed.FS

// formField describes one input widget. Options names a features.Labels
// table; numeric fields leave it empty. Max 0 means unbounded.
type formField struct {
	Name    string
	Label   string
	Min     int
	Max     int
	Options string
}

// formFields lists the inputs in page order
var formFields = []formField{
	{Name: "age", Label: "Employee Age"},
	{Name: "dailyRate", Label: "Daily Rate"},
	{Name: "department", Label: "Employee Department", Options: "department"},
	{Name: "distanceFromHome", Label: "Distance from home"},
	{Name: "divorced", Label: "Divorced?", Options: "yesNo"},
	{Name: "educationField", Label: "Employee's Field of Education?", Options: "educationField"},
	{Name: "education", Label: "Education Level", Options: "educationLevel"},
	{Name: "employeeNumber", Label: "Employee Number", Min: 1},
	{Name: "environmentSatisfaction", Label: "Environment Satisfaction", Options: "satisfaction"},
	{Name: "gender", Label: "Gender", Options: "gender"},
	{Name: "hourlyRate", Label: "Hourly Rate"},
	{Name: "jobInvolvement", Label: "Job Involvement", Options: "satisfaction"},
	{Name: "jobLevel", Label: "Job Level", Min: 1, Max: 5},
	{Name: "jobSatisfaction", Label: "Job Satisfaction", Options: "satisfaction"},
	{Name: "jobRole", Label: "Job Title", Options: "jobRole"},
	{Name: "married", Label: "Married?", Options: "yesNo"},
	{Name: "monthlyIncome", Label: "Monthly Income"},
	{Name: "monthlyRate", Label: "Monthly Rate"},
	{Name: "nonTravel", Label: "Non-Travel Employee?", Options: "yesNo"},
	{Name: "numCompaniesWorked", Label: "Number of Companies Worked", Min: 1},
	{Name: "over18", Label: "Over 18", Options: "yesNo"},
	{Name: "overTime", Label: "Overtime", Options: "yesNo"},
	{Name: "percentSalaryHike", Label: "Percent Salary Hike"},
	{Name: "performanceRating", Label: "Performance Rating", Options: "performanceRating"},
	{Name: "relationshipSatisfaction", Label: "Relationship Satisfaction", Options: "satisfaction"},
	{Name: "single", Label: "Single?", Options: "yesNo"},
	{Name: "stockOptionLevel", Label: "Stock Option Level", Max: 3},
	{Name: "totalWorkingYears", Label: "Total Working Years"},
	{Name: "trainingTimesLastYear", Label: "Training Times Last Year", Max: 10},
	{Name: "travelFrequently", Label: "Travel Frequently?", Options: "yesNo"},
	{Name: "travelRarely", Label: "Travel Rarely?", Options: "yesNo"},
	{Name: "workLifeBalance", Label: "Work/Life Balance", Options: "workLifeBalance"},
	{Name: "yearsAtCompany", Label: "Years At Company", Min: 1},
	{Name: "yearsAtOtherCompanies", Label: "Years At Other Companies"},
	{Name: "yearsInCurrentRole", Label: "Years In Current Role"},
	{Name: "yearsSinceLastPromotion", Label: "Years Since Last Promotion"},
	{Name: "yearsWithCurrManager", Label: "Years With Current Manager"},
}

type fieldView struct {
	Name    string
	Label   string
	Min     int
	Max     string
	Value   string
	Options []string
	Error   string
}

type featureRow struct {
	Name  string
	Value string
}

type verdictView struct {
	Label string
	Churn bool
}

type pageData struct {
	Fields   []fieldView
	Verdict  *verdictView
	Features []featureRow
	Error    string
}

func parsePage() (*template.Template, error) {
	page, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}
	return page, nil
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	attrs := features.Defaults()
	if r.URL.Query().Get("example") == "1" {
		attrs = features.Example()
	}

	values, err := attributeValues(attrs)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to render form", err)
		return
	}
	s.render(w, http.StatusOK, pageData{Fields: fieldViews(values, nil)})
}

func (s *Server) handleFormSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid form", err)
		return
	}

	attrs, fieldErrs := parseAttributes(r.PostForm)
	if len(fieldErrs) > 0 {
		logger.HTTPStatus(http.StatusBadRequest)
		s.render(w, http.StatusBadRequest, pageData{
			Fields: fieldViews(formValues(r.PostForm), fieldErrs),
			Error:  "Some inputs are invalid.",
		})
		return
	}

	out, err := s.service.Submit(r.Context(), attrs)
	if err != nil {
		var verr *features.ValidationError
		if errors.As(err, &verr) {
			logger.HTTPStatus(http.StatusBadRequest)
			s.render(w, http.StatusBadRequest, pageData{
				Fields: fieldViews(formValues(r.PostForm), verr.Fields),
				Error:  "Some inputs are outside their allowed range.",
			})
			return
		}
		respondError(w, http.StatusInternalServerError, "prediction failed", err)
		return
	}

	s.render(w, http.StatusOK, pageData{
		Fields:   fieldViews(formValues(r.PostForm), nil),
		Verdict:  &verdictView{Label: out.Label, Churn: out.Prediction.WillChurn},
		Features: featureRows(out.Record),
	})
}

// render buffers the page so a template error never sends a partial body
func (s *Server) render(w http.ResponseWriter, status int, data pageData) {
	var buf bytes.Buffer
	if err := s.page.Execute(&buf, data); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to render page", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// parseAttributes reads the posted form into RawAttributes. Errors are keyed
// by input name; range checks are left to features.Validate.
func parseAttributes(form url.Values) (features.RawAttributes, map[string]string) {
	labels := features.Labels()
	doc := make(map[string]any, len(formFields))
	errs := make(map[string]string)

	for _, f := range formFields {
		raw := strings.TrimSpace(form.Get(f.Name))
		if raw == "" {
			errs[f.Name] = f.Label + " is required"
			continue
		}
		if f.Options != "" {
			if !slices.Contains(labels[f.Options], raw) {
				errs[f.Name] = fmt.Sprintf("%s must be one of %s", f.Label, strings.Join(labels[f.Options], ", "))
				continue
			}
			doc[f.Name] = raw
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			errs[f.Name] = f.Label + " must be a whole number"
			continue
		}
		doc[f.Name] = n
	}

	var attrs features.RawAttributes
	if len(errs) > 0 {
		return attrs, errs
	}

	// The JSON round trip reuses the label decoding of the enum types
	data, err := json.Marshal(doc)
	if err == nil {
		err = json.Unmarshal(data, &attrs)
	}
	if err != nil {
		errs["form"] = err.Error()
	}
	return attrs, errs
}

// attributeValues renders every field of attrs as the form shows it
func attributeValues(attrs features.RawAttributes) (map[string]string, error) {
	data, err := json.Marshal(attrs)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}

	out := make(map[string]string, len(doc))
	for k, v := range doc {
		out[k] = fmt.Sprint(v)
	}
	return out, nil
}

func formValues(form url.Values) map[string]string {
	out := make(map[string]string, len(formFields))
	for _, f := range formFields {
		out[f.Name] = form.Get(f.Name)
	}
	return out
}

func fieldViews(values, errs map[string]string) []fieldView {
	labels := features.Labels()
	views := make([]fieldView, 0, len(formFields))
	for _, f := range formFields {
		v := fieldView{
			Name:    f.Name,
			Label:   f.Label,
			Min:     f.Min,
			Value:   values[f.Name],
			Options: labels[f.Options],
			Error:   errs[f.Name],
		}
		if f.Max > 0 {
			v.Max = strconv.Itoa(f.Max)
		}
		views = append(views, v)
	}
	return views
}

func featureRows(rec *features.Record) []featureRow {
	rows := make([]featureRow, len(rec.Names))
	for i, name := range rec.Names {
		rows[i] = featureRow{Name: name, Value: strconv.FormatFloat(rec.Values[i], 'g', -1, 64)}
	}
	return rows
}

