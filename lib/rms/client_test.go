package rms

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostErrorClassification(t *testing.T) {
	t.Run("4xx is rejected", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
		}))
		defer srv.Close()

		client := NewClient(srv.URL, time.Second)
		err := client.Train("job-1", "xgboost", false, []byte("{}"))
		assert.ErrorIs(t, err, ErrRejected)
	})

	t.Run("5xx is unavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		client := NewClient(srv.URL, time.Second)
		_, err := client.FeatureImportances("job-1")
		assert.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("undecodable body is malformed", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}))
		defer srv.Close()

		client := NewClient(srv.URL, time.Second)
		_, err := client.CVResults("job-1")
		assert.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("slow service times out", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer srv.Close()

		client := NewClient(srv.URL, 20*time.Millisecond)
		err := client.Optimize(OptimizeRequest{JobID: "job-1"})
		assert.ErrorIs(t, err, ErrTimeout)
	})

	t.Run("unreachable host is unavailable", func(t *testing.T) {
		client := NewClient("http://127.0.0.1:1", time.Second)
		_, err := client.BatchProgress([]string{"job-1"})
		assert.ErrorIs(t, err, ErrUnavailable)
	})
}

func TestTrainSendsMultipartForm(t *testing.T) {
	var gotModelType, gotJobID, gotCVAcc string
	var gotBlob []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotModelType = r.FormValue("modeltype")
		gotJobID = r.FormValue("project_id")
		gotCVAcc = r.FormValue("cv_acc")
		file, _, err := r.FormFile("data")
		require.NoError(t, err)
		defer file.Close()
		buf := make([]byte, 64)
		n, _ := file.Read(buf)
		gotBlob = buf[:n]
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	err := client.Train("job-1", "xgboost", true, []byte(`{"order":[]}`))
	require.NoError(t, err)

	assert.Equal(t, "xgboost", gotModelType)
	assert.Equal(t, "job-1", gotJobID)
	assert.Equal(t, "true", gotCVAcc)
	assert.JSONEq(t, `{"order":[]}`, string(gotBlob))
}

func TestBatchProgressParsesSentinels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string][]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, []string{"job-1", "job-2", "job-3"}, payload["project_id_ls"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"job-1": map[string]interface{}{"pct_complete": 42.5, "cv_progress": 10.0, "fi_done": true, "ee_done": false},
			"job-2": "Training not started",
			"job-3": "Project not found",
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	progress, err := client.BatchProgress([]string{"job-1", "job-2", "job-3"})
	require.NoError(t, err)

	assert.Equal(t, Progress{PctComplete: 42.5, CVProgress: 10.0, FiDone: true}, progress["job-1"])
	assert.True(t, progress["job-2"].NotStarted)
	assert.True(t, progress["job-3"].NotStarted)
	assert.Zero(t, progress["job-2"].PctComplete)
}

func TestDetectConflictVerdict(t *testing.T) {
	verdicts := map[string]bool{
		"Conflict exists": true,
		"No conflict":     false,
	}
	for verdict, want := range verdicts {
		t.Run(verdict, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				var payload map[string][]interface{}
				require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
				require.Len(t, payload["constraints"], 2)
				json.NewEncoder(w).Encode(map[string]string{"conflict": verdict})
			}))
			defer srv.Close()

			client := NewClient(srv.URL, time.Second)
			conflict, err := client.DetectConflict([]int{}, [][]float64{})
			require.NoError(t, err)
			assert.Equal(t, want, conflict)
		})
	}
}

func TestOptimizePayloadShape(t *testing.T) {
	var payload map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	err := client.Optimize(OptimizeRequest{
		JobID:          "job-1",
		OptimizerID:    "opt-1",
		ConstraintList: []int{},
		PriceBounds:    []int{},
		CostList:       []int{},
		RevenueFlag:    true,
		Population:     50,
		MaxEpoch:       200,
	})
	require.NoError(t, err)

	assert.Equal(t, "job-1", payload["project_id"])
	assert.Equal(t, "opt-1", payload["optimisation_id"])
	constraints, ok := payload["constraints"].([]interface{})
	require.True(t, ok)
	require.Len(t, constraints, 4)
	assert.Equal(t, true, constraints[3])
	assert.Equal(t, float64(50), payload["population"])
	assert.Equal(t, float64(200), payload["max_epoch"])
}

func TestOptiResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":    true,
			"report":     []float64{120.5, 340.0, 0, 2},
			"result":     [][]float64{{1.5, 2.5}},
			"price_cols": []string{"Item 10", "Item 20"},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	res, err := client.OptiResults("job-1", "opt-1")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, []float64{120.5, 340.0, 0, 2}, res.Report)
	assert.Equal(t, []string{"Item 10", "Item 20"}, res.PriceCols)
}
