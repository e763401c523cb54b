package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/devdiv-tools/jobdumper/internal/classify"
	"github.com/devdiv-tools/jobdumper/internal/model"
)

// csvHeader is the landing-page column layout.
var csvHeader = []string{"Number", "PostedDate", "Title", "Location", "Discipline", "Level", "JobPostingUrl"}

// WriteCSV renders the artifact's listings as CSV rows.
func WriteCSV(w io.Writer, artifact *model.Artifact) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for i, job := range artifact.Jobs {
		if err := cw.Write(csvRow(i, job)); err != nil {
			return fmt.Errorf("writing csv row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// csvRow builds one output row.
//
// Location: most US jobs are posted with a list of cities attached, in which
// case the country is the sensible label. Only when exactly one location is
// attached and the city is a real one does the city win.
//
// Discipline: the title-derived override applies here, falling back to the
// canonical (upstream) discipline.
func csvRow(number int, job model.JobListing) []string {
	location := job.Location.Country
	if len(job.Location.MultiLocationArray) == 1 && job.Location.City != "Multiple Locations" {
		location = job.Location.City
	}

	discipline := job.Discipline
	if override, ok := classify.DisciplineOverride(job.Title); ok {
		discipline = override
	}

	// Literal commas in titles are replaced to keep the format simple.
	title := strings.ReplaceAll(job.Title, ",", "-")

	return []string{
		strconv.Itoa(number),
		job.PostedDate,
		title,
		location,
		discipline,
		job.CareerStage,
		job.URL,
	}
}
