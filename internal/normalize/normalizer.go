// Package normalize converts raw upstream records, whichever response shape
// they came from, into the canonical JobListing.
package normalize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/devdiv-tools/jobdumper/internal/classify"
	"github.com/devdiv-tools/jobdumper/internal/model"
)

// canonicalFields are the JobListing field names. Raw keys that collide with
// one of these (and were not consumed by the mapping itself) are dropped from
// extraProperties rather than overwriting the canonical value.
var canonicalFields = map[string]bool{
	"jobId":       true,
	"title":       true,
	"postedDate":  true,
	"location":    true,
	"discipline":  true,
	"careerStage": true,
	"url":         true,
}

// Record converts one raw record into a canonical JobListing. It is pure and
// never mutates raw; a non-nil error means the single record should be
// skipped, not the page it came from.
func Record(raw model.RawRecord) (model.JobListing, error) {
	jobID := stringField(raw, "jobId")
	if jobID == "" {
		return model.JobListing{}, fmt.Errorf("record has no jobId")
	}
	title := stringField(raw, "title")
	if title == "" {
		return model.JobListing{}, fmt.Errorf("record %s has no title", jobID)
	}

	// consumed tracks raw keys already mapped onto canonical fields, so the
	// extra-properties pass below knows to skip them.
	consumed := map[string]bool{"jobId": true, "title": true}

	postedDate := stringField(raw, "postedDate")
	consumed["postedDate"] = true
	if postedDate == "" {
		// Older records carry the same value under postingDate.
		if v := stringField(raw, "postingDate"); v != "" {
			postedDate = v
			consumed["postingDate"] = true
		}
	}

	loc, err := location(raw, consumed)
	if err != nil {
		return model.JobListing{}, err
	}

	discipline := stringField(raw, "discipline")
	if discipline != "" {
		consumed["discipline"] = true
	} else if v := stringField(raw, "subCategory"); v != "" {
		discipline = v
		consumed["subCategory"] = true
	}

	job := model.JobListing{
		JobID:       jobID,
		Title:       title,
		PostedDate:  postedDate,
		Location:    loc,
		Discipline:  discipline,
		CareerStage: classify.CareerStage(title),
		URL:         model.JobURLBase + jobID,
	}

	extras := make(map[string]string)
	for key, value := range raw {
		if consumed[key] || canonicalFields[key] {
			continue
		}
		extras[key] = asString(value)
	}
	if len(extras) > 0 {
		job.ExtraProperties = extras
	}

	return job, nil
}

// location builds the Location from whichever fields the record carries: a
// combined primaryLocation string that must split into exactly three
// comma-separated parts, or separate city/country fields with state unset.
func location(raw model.RawRecord, consumed map[string]bool) (model.Location, error) {
	loc := model.Location{MultiLocationArray: []model.Location{}}

	if primary := stringField(raw, "primaryLocation"); primary != "" {
		consumed["primaryLocation"] = true
		parts := strings.Split(primary, ",")
		if len(parts) != 3 {
			return model.Location{}, &model.MalformedLocationError{Raw: primary}
		}
		loc.City = strings.TrimSpace(parts[0])
		loc.State = strings.TrimSpace(parts[1])
		loc.Country = strings.TrimSpace(parts[2])
		loc.PrimaryLocation = primary
	} else {
		loc.City = stringField(raw, "city")
		loc.Country = stringField(raw, "country")
		consumed["city"] = true
		consumed["country"] = true
	}

	if entries, ok := raw["multi_location_array"].([]any); ok {
		consumed["multi_location_array"] = true
		for _, entry := range entries {
			fields, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			sub := model.RawRecord(fields)
			loc.MultiLocationArray = append(loc.MultiLocationArray, model.Location{
				City:               stringField(sub, "city"),
				State:              stringField(sub, "state"),
				Country:            stringField(sub, "country"),
				PrimaryLocation:    stringField(sub, "location"),
				MultiLocationArray: []model.Location{},
			})
		}
	}

	return loc, nil
}

// stringField returns the raw field as a string, or "" if absent, null, or
// not a string.
func stringField(raw model.RawRecord, key string) string {
	s, _ := raw[key].(string)
	return s
}

// asString renders any decoded JSON value as a string for extraProperties.
// Absent and null values become the empty string.
func asString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
