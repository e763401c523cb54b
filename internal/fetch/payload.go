package fetch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/devdiv-tools/jobdumper/internal/model"
)

// The legacy search-results page is HTML with one large JSON blob embedded in
// it. The listings live in a "jobs" node whose closing position can only be
// found by locating the node that currently follows it, "aggregations". This
// substring scan is brittle but is the only way to carve the blob out, and it
// is kept as a compatibility mode for that response shape.
const (
	jobsMarker         = `{"jobs":[`
	aggregationsMarker = `,"aggregations":[`
)

// page is one parsed page of search results, whichever shape it arrived in.
// The legacy shape is a single unpaginated blob, so paginated is false and
// totalJobs is meaningless for it.
type page struct {
	jobs      []model.RawRecord
	totalJobs int
	paginated bool
}

// searchEnvelope is the structured JSON response from the newer search API.
type searchEnvelope struct {
	OperationResult struct {
		Result struct {
			TotalJobs int               `json:"totalJobs"`
			Jobs      []model.RawRecord `json:"jobs"`
		} `json:"result"`
	} `json:"operationResult"`
}

// parsePayload resolves the response shape and extracts one page of records.
// A body that is itself a JSON envelope is the paginated shape; anything else
// falls through to the embedded-blob scan.
func parsePayload(body []byte) (page, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var env searchEnvelope
		if err := json.Unmarshal(trimmed, &env); err == nil && env.OperationResult.Result.Jobs != nil {
			return page{
				jobs:      env.OperationResult.Result.Jobs,
				totalJobs: env.OperationResult.Result.TotalJobs,
				paginated: true,
			}, nil
		}
	}
	return parseEmbedded(body)
}

// parseEmbedded carves the jobs blob out of a legacy HTML response.
func parseEmbedded(body []byte) (page, error) {
	s := string(body)

	start := strings.Index(s, jobsMarker)
	if start < 0 {
		return page{}, &model.MalformedPayloadError{Reason: fmt.Sprintf("marker %s not found", jobsMarker)}
	}
	end := strings.Index(s[start:], aggregationsMarker)
	if end < 0 {
		return page{}, &model.MalformedPayloadError{Reason: fmt.Sprintf("marker %s not found after jobs node", aggregationsMarker)}
	}

	blob := s[start:start+end] + "}"

	var wrapper struct {
		Jobs []model.RawRecord `json:"jobs"`
	}
	if err := json.Unmarshal([]byte(blob), &wrapper); err != nil {
		return page{}, &model.MalformedPayloadError{Reason: fmt.Sprintf("decoding embedded jobs blob: %v", err)}
	}

	return page{jobs: wrapper.Jobs}, nil
}
