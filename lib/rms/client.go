// Package rms is the HTTP client for the external modeling and
// optimization service. All calls are synchronous and bounded by the
// client timeout; callers decide per call site whether a failure is
// swallowed or propagated.
package rms

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"
)

// Client talks to the modeling service over HTTP/JSON
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a modeling-service client with a per-call timeout
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// post sends a JSON payload and decodes the JSON response into out
func (c *Client) post(path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	resp, err := c.http.Post(c.baseURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return classifyTransport(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return classifyStatus(resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

// Train dispatches a training run: form fields plus the column-major blob
// of the training data.
func (c *Client) Train(jobID, modelType string, cvAcc bool, blob []byte) error {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	writer.WriteField("cv_acc", strconv.FormatBool(cvAcc))
	writer.WriteField("project_id", jobID)
	writer.WriteField("modeltype", modelType)
	part, err := writer.CreateFormFile("data", "data.json")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if _, err := part.Write(blob); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	resp, err := c.http.Post(c.baseURL+"/train/", writer.FormDataContentType(), &body)
	if err != nil {
		return classifyTransport(err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return classifyStatus(resp.StatusCode)
	}
	return nil
}

// Progress is the four-signal training state for one job. NotStarted means
// the service reported "Project not found" or "Training not started": the
// caller leaves its persisted fields untouched.
type Progress struct {
	PctComplete float64 `json:"pct_complete"`
	CVProgress  float64 `json:"cv_progress"`
	FiDone      bool    `json:"fi_done"`
	EeDone      bool    `json:"ee_done"`
	NotStarted  bool    `json:"-"`
}

// BatchProgress polls progress for several jobs in one combined request
func (c *Client) BatchProgress(jobIDs []string) (map[string]Progress, error) {
	var raw map[string]json.RawMessage
	payload := map[string]interface{}{"project_id_ls": jobIDs}
	if err := c.post("/batch_query_progress/", payload, &raw); err != nil {
		return nil, err
	}

	progress := make(map[string]Progress, len(raw))
	for id, message := range raw {
		// Not-yet-started jobs come back as sentinel strings
		var sentinel string
		if err := json.Unmarshal(message, &sentinel); err == nil {
			progress[id] = Progress{NotStarted: true}
			continue
		}
		var p Progress
		if err := json.Unmarshal(message, &p); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		progress[id] = p
	}
	return progress, nil
}

// FeatureImportances fetches the feature-importance payload for a job
func (c *Client) FeatureImportances(jobID string) (map[string]interface{}, error) {
	return c.fetchArtifact("/get_feature_importances/", jobID)
}

// ElasticityEstimates fetches the elasticity payload for a job
func (c *Client) ElasticityEstimates(jobID string) (map[string]interface{}, error) {
	return c.fetchArtifact("/get_elasticity_estimates/", jobID)
}

// CVResults fetches the cross-validation score payload for a job
func (c *Client) CVResults(jobID string) (map[string]interface{}, error) {
	return c.fetchArtifact("/get_cv_results/", jobID)
}

func (c *Client) fetchArtifact(path, jobID string) (map[string]interface{}, error) {
	var out map[string]interface{}
	if err := c.post(path, map[string]interface{}{"project_id": jobID}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// conflictResponse carries the conflict-detector verdict
type conflictResponse struct {
	Conflict string `json:"conflict"`
}

// ConflictVerdict is the string the detector returns when the submitted
// constraint set is infeasible.
const ConflictVerdict = "Conflict exists"

// DetectConflict submits a constraint list plus price bounds to the
// conflict pre-checker. Returns true when the set is infeasible.
func (c *Client) DetectConflict(constraintList, priceBounds interface{}) (bool, error) {
	payload := map[string]interface{}{
		"constraints": []interface{}{constraintList, priceBounds},
	}
	var out conflictResponse
	if err := c.post("/detect_conflict/", payload, &out); err != nil {
		return false, err
	}
	return out.Conflict == ConflictVerdict, nil
}

// OptimizeRequest carries everything one optimization dispatch needs
type OptimizeRequest struct {
	JobID          string
	OptimizerID    string
	ConstraintList interface{}
	PriceBounds    interface{}
	CostList       interface{}
	RevenueFlag    bool
	Population     int
	MaxEpoch       int
}

// Optimize dispatches an optimization run
func (c *Client) Optimize(req OptimizeRequest) error {
	payload := map[string]interface{}{
		"project_id":      req.JobID,
		"optimisation_id": req.OptimizerID,
		"constraints": []interface{}{
			req.ConstraintList,
			req.PriceBounds,
			req.CostList,
			req.RevenueFlag,
		},
		"population": req.Population,
		"max_epoch":  req.MaxEpoch,
	}
	return c.post("/optimize/", payload, nil)
}

// OptiResult is a finished optimization run: the headline report
// (profit, revenue, hard violations, soft violations), the optimized
// price rows and their column names.
type OptiResult struct {
	Success   bool        `json:"success"`
	Report    []float64   `json:"report"`
	Result    [][]float64 `json:"result"`
	PriceCols []string    `json:"price_cols"`
}

// OptiResults fetches the result of an optimization run. Success false
// means the run has not finished (or failed) on the service side.
func (c *Client) OptiResults(jobID, optimizerID string) (*OptiResult, error) {
	payload := map[string]interface{}{
		"project_id":      jobID,
		"optimisation_id": optimizerID,
	}
	var out OptiResult
	if err := c.post("/get_opti_results/", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
