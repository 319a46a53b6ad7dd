package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Counts(t *testing.T) {
	r := NewRecorder()

	r.Variable("chemical")
	r.Variable("chemical")
	r.Variable("")
	r.ClassificationMiss("pattern")
	r.Model(4, 1)
	r.RunFinished("success", 50*time.Millisecond, 4)

	assert.Equal(t, 3.0, testutil.ToFloat64(r.variablesTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.inferredTotal.WithLabelValues("chemical")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.missesTotal.WithLabelValues("pattern")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.modelsTotal))
	assert.Equal(t, 4.0, testutil.ToFloat64(r.factsAdded))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.entitiesCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.runsTotal.WithLabelValues("success")))
	assert.Equal(t, 4.0, testutil.ToFloat64(r.storeTriples))
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.Model(2, 0)

	path := filepath.Join(t.TempDir(), "semunits.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "semunits_facts_added_total 2")
	assert.Contains(t, string(data), "# HELP semunits_models_total")
}

func TestRecorder_NilSafe(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.Variable("chemical")
		r.ClassificationMiss("pattern")
		r.Model(1, 1)
		r.RunFinished("failure", time.Second, 0)
		assert.NoError(t, r.WriteTextfile("ignored"))
		assert.Nil(t, r.Registry())
	})
}
